package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/sprintdeck/sprintdeck/internal/kanban"
	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

// ListTasks handles GET /api/projects/:projectId/tasks with an optional
// sprintId query filter.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	projectID, err := idParam(c, "projectId")
	if err != nil {
		return badParam(c, err)
	}
	var sprintID *int64
	if raw := c.QueryInt("sprintId", 0); raw > 0 {
		v := int64(raw)
		sprintID = &v
	}
	tasks, err := h.store.ListTasks(c.Context(), projectID, sprintID)
	if err != nil {
		return storeError(c, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(tasks)
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badParam(c, err)
	}
	task, err := h.store.GetTask(c.Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(task)
}

// CreateTask handles POST /api/tasks. Creation is recorded in the
// project's audit trail under the Project Manager agent.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var in model.TaskInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, err)
	}
	task, err := h.store.CreateTask(c.Context(), in)
	if err != nil {
		return storeError(c, err)
	}

	details := fmt.Sprintf("Created new task %q", task.Title)
	taskID := task.ID
	if _, err := h.store.CreateAgentLog(c.Context(), model.AgentLogInput{
		AgentName: "Project Manager",
		Action:    "Task created",
		Details:   &details,
		ProjectID: task.ProjectID,
		TaskID:    &taskID,
	}); err != nil {
		h.logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to record creation log")
	}

	h.hub.Publish(ws.EventTaskCreated, task)
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask handles PATCH /api/tasks/:id. A status change runs the
// Kanban transition policy: the destination column's agent is stored with
// the status in a single write and one audit log is recorded. Patching a
// task to the status it already has produces no log.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badParam(c, err)
	}

	existing, err := h.store.GetTask(c.Context(), id)
	if err != nil {
		return storeError(c, err)
	}

	var patch model.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c, err)
	}
	if err := patch.Validate(); err != nil {
		return storeError(c, err)
	}

	var transition kanban.Transition
	if patch.Status != nil {
		transition = kanban.Plan(existing, *patch.Status)
		if transition.Changed && transition.Assignee != nil {
			// Policy decides the assignee on status changes, overriding
			// any client-provided value.
			patch.AssignedAgent = transition.Assignee
		}
	}

	task, err := h.store.UpdateTask(c.Context(), id, patch)
	if err != nil {
		return storeError(c, err)
	}

	if transition.Changed {
		if _, err := h.store.CreateAgentLog(c.Context(), *transition.Log); err != nil {
			h.logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to record transition log")
		}
	}

	h.hub.Publish(ws.EventTaskUpdated, task)
	return c.JSON(task)
}
