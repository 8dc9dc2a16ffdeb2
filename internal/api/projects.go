package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

// ListProjects handles GET /api/projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	projects, err := h.store.ListProjects(c.Context())
	if err != nil {
		return storeError(c, err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return c.JSON(projects)
}

// GetProject handles GET /api/projects/:id.
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badParam(c, err)
	}
	project, err := h.store.GetProject(c.Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(project)
}

// CreateProject handles POST /api/projects.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var in model.ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	project, err := h.store.CreateProject(c.Context(), in)
	if err != nil {
		return storeError(c, err)
	}
	h.hub.Publish(ws.EventProjectCreated, project)
	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PATCH /api/projects/:id.
func (h *Handlers) UpdateProject(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badParam(c, err)
	}
	var patch model.ProjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c, err)
	}
	project, err := h.store.UpdateProject(c.Context(), id, patch)
	if err != nil {
		return storeError(c, err)
	}
	h.hub.Publish(ws.EventProjectUpdated, project)
	return c.JSON(project)
}

// DeleteProject handles DELETE /api/projects/:id. Dependent sprints,
// tasks, logs and chat are left in place; orphans are permitted.
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badParam(c, err)
	}
	ok, err := h.store.DeleteProject(c.Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	if !ok {
		return problemResponse(c, fiber.StatusNotFound,
			"not_found", "Not Found", "Project not found")
	}
	h.hub.Publish(ws.EventProjectDeleted, fiber.Map{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
