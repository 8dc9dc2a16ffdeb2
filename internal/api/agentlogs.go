package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

// ListAgentLogs handles GET /api/projects/:projectId/agent-logs. Entries
// come back newest first.
func (h *Handlers) ListAgentLogs(c *fiber.Ctx) error {
	projectID, err := idParam(c, "projectId")
	if err != nil {
		return badParam(c, err)
	}
	logs, err := h.store.ListAgentLogs(c.Context(), projectID)
	if err != nil {
		return storeError(c, err)
	}
	if logs == nil {
		logs = []model.AgentLog{}
	}
	return c.JSON(logs)
}

// CreateAgentLog handles POST /api/agent-logs.
func (h *Handlers) CreateAgentLog(c *fiber.Ctx) error {
	var in model.AgentLogInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	log, err := h.store.CreateAgentLog(c.Context(), in)
	if err != nil {
		return storeError(c, err)
	}
	h.hub.Publish(ws.EventAgentLogCreated, log)
	return c.Status(fiber.StatusCreated).JSON(log)
}
