package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

// ListChatMessages handles GET /api/projects/:projectId/chat. Messages
// come back oldest first.
func (h *Handlers) ListChatMessages(c *fiber.Ctx) error {
	projectID, err := idParam(c, "projectId")
	if err != nil {
		return badParam(c, err)
	}
	messages, err := h.store.ListChatMessages(c.Context(), projectID)
	if err != nil {
		return storeError(c, err)
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	return c.JSON(messages)
}

// CreateChatMessage handles POST /api/chat.
func (h *Handlers) CreateChatMessage(c *fiber.Ctx) error {
	var in model.ChatMessageInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	message, err := h.store.CreateChatMessage(c.Context(), in)
	if err != nil {
		return storeError(c, err)
	}
	h.hub.Publish(ws.EventChatMessageCreated, message)
	return c.Status(fiber.StatusCreated).JSON(message)
}
