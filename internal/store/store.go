// Package store provides keyed CRUD storage for the board's entities.
//
// Two implementations exist: an in-memory store (the default) and a
// gorm-backed store for sqlite or postgres. Both follow the same contract:
// creation assigns a fresh monotonically increasing id, fills defaults,
// stamps creation timestamps and validates that child entities reference
// an existing project. Referential integrity is checked at insertion time
// only — deleting a project leaves dependent rows in place.
//
// Concurrent updates to the same id are last-write-wins; no version token
// is kept.
package store

import (
	"context"

	"github.com/sprintdeck/sprintdeck/internal/model"
)

// Store is the injected repository used by the API layer. All returned
// records are snapshots; mutating them does not affect stored state.
type Store interface {
	// Users
	CreateUser(ctx context.Context, in model.UserInput) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Projects
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error)
	DeleteProject(ctx context.Context, id int64) (bool, error)

	// Sprints
	ListSprints(ctx context.Context, projectID int64) ([]model.Sprint, error)
	GetSprint(ctx context.Context, id int64) (*model.Sprint, error)
	CreateSprint(ctx context.Context, in model.SprintInput) (*model.Sprint, error)
	UpdateSprint(ctx context.Context, id int64, patch model.SprintPatch) (*model.Sprint, error)
	DeleteSprint(ctx context.Context, id int64) (bool, error)

	// Tasks. ListTasks filters by project and, when sprintID is non-nil,
	// by sprint membership as well.
	ListTasks(ctx context.Context, projectID int64, sprintID *int64) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// Agent logs, newest first.
	ListAgentLogs(ctx context.Context, projectID int64) ([]model.AgentLog, error)
	CreateAgentLog(ctx context.Context, in model.AgentLogInput) (*model.AgentLog, error)

	// Chat messages, oldest first.
	ListChatMessages(ctx context.Context, projectID int64) ([]model.ChatMessage, error)
	CreateChatMessage(ctx context.Context, in model.ChatMessageInput) (*model.ChatMessage, error)

	Close() error
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
