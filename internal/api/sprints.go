package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

// ListSprints handles GET /api/projects/:projectId/sprints.
func (h *Handlers) ListSprints(c *fiber.Ctx) error {
	projectID, err := idParam(c, "projectId")
	if err != nil {
		return badParam(c, err)
	}
	sprints, err := h.store.ListSprints(c.Context(), projectID)
	if err != nil {
		return storeError(c, err)
	}
	if sprints == nil {
		sprints = []model.Sprint{}
	}
	return c.JSON(sprints)
}

// CreateSprint handles POST /api/sprints.
func (h *Handlers) CreateSprint(c *fiber.Ctx) error {
	var in model.SprintInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	sprint, err := h.store.CreateSprint(c.Context(), in)
	if err != nil {
		return storeError(c, err)
	}
	h.hub.Publish(ws.EventSprintCreated, sprint)
	return c.Status(fiber.StatusCreated).JSON(sprint)
}

// UpdateSprint handles PATCH /api/sprints/:id.
func (h *Handlers) UpdateSprint(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badParam(c, err)
	}
	var patch model.SprintPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c, err)
	}
	sprint, err := h.store.UpdateSprint(c.Context(), id, patch)
	if err != nil {
		return storeError(c, err)
	}
	h.hub.Publish(ws.EventSprintUpdated, sprint)
	return c.JSON(sprint)
}
