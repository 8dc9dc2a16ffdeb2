package model

import (
	"time"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
)

// UserInput is the creation payload for a user.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (in *UserInput) Validate() error {
	if in.Username == "" {
		return apperr.NewValidation("username", "is required")
	}
	if in.Password == "" {
		return apperr.NewValidation("password", "is required")
	}
	return nil
}

// ProjectInput is the creation payload for a project.
type ProjectInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	UserID      *int64  `json:"userId"`
}

// Validate checks required fields.
func (in *ProjectInput) Validate() error {
	if in.Name == "" {
		return apperr.NewValidation("name", "is required")
	}
	return nil
}

// SprintInput is the creation payload for a sprint.
type SprintInput struct {
	Name      string        `json:"name"`
	ProjectID int64         `json:"projectId"`
	StartDate *time.Time    `json:"startDate"`
	EndDate   *time.Time    `json:"endDate"`
	Status    *SprintStatus `json:"status"`
}

// Validate checks required fields and enum values.
func (in *SprintInput) Validate() error {
	if in.Name == "" {
		return apperr.NewValidation("name", "is required")
	}
	if in.ProjectID <= 0 {
		return apperr.NewValidation("projectId", "is required")
	}
	if in.Status != nil && !in.Status.Valid() {
		return apperr.NewValidation("status", "unknown sprint status "+string(*in.Status))
	}
	return nil
}

// TaskInput is the creation payload for a task. Omitted optional fields
// receive defaults at the store: status backlog, type feature, progress 0.
type TaskInput struct {
	Title         string      `json:"title"`
	Description   *string     `json:"description"`
	Status        *TaskStatus `json:"status"`
	Type          *TaskType   `json:"type"`
	Reference     *string     `json:"reference"`
	ProjectID     int64       `json:"projectId"`
	SprintID      *int64      `json:"sprintId"`
	AssignedAgent *string     `json:"assignedAgent"`
	Progress      *int        `json:"progress"`
	DueDate       *time.Time  `json:"dueDate"`
}

// Validate checks required fields, enum values and the progress range.
func (in *TaskInput) Validate() error {
	if in.Title == "" {
		return apperr.NewValidation("title", "is required")
	}
	if in.ProjectID <= 0 {
		return apperr.NewValidation("projectId", "is required")
	}
	if in.Status != nil && !in.Status.Valid() {
		return apperr.NewValidation("status", "unknown task status "+string(*in.Status))
	}
	if in.Type != nil && !in.Type.Valid() {
		return apperr.NewValidation("type", "unknown task type "+string(*in.Type))
	}
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return apperr.NewValidation("progress", "must be between 0 and 100")
	}
	return nil
}

// AgentLogInput is the creation payload for an audit-trail entry.
type AgentLogInput struct {
	AgentName string  `json:"agentName"`
	Action    string  `json:"action"`
	Details   *string `json:"details"`
	ProjectID int64   `json:"projectId"`
	TaskID    *int64  `json:"taskId"`
}

// Validate checks required fields.
func (in *AgentLogInput) Validate() error {
	if in.AgentName == "" {
		return apperr.NewValidation("agentName", "is required")
	}
	if in.Action == "" {
		return apperr.NewValidation("action", "is required")
	}
	if in.ProjectID <= 0 {
		return apperr.NewValidation("projectId", "is required")
	}
	return nil
}

// ChatMessageInput is the creation payload for a chat message.
type ChatMessageInput struct {
	ProjectID int64            `json:"projectId"`
	Sender    string           `json:"sender"`
	Content   string           `json:"content"`
	Metadata  *MessageMetadata `json:"metadata"`
}

// Validate checks required fields and the metadata variant tag.
func (in *ChatMessageInput) Validate() error {
	if in.ProjectID <= 0 {
		return apperr.NewValidation("projectId", "is required")
	}
	if in.Sender == "" {
		return apperr.NewValidation("sender", "is required")
	}
	if in.Content == "" {
		return apperr.NewValidation("content", "is required")
	}
	if in.Metadata != nil && !in.Metadata.Kind.Valid() {
		return apperr.NewValidation("metadata.kind", "unknown metadata kind "+string(in.Metadata.Kind))
	}
	return nil
}

// ProjectPatch is a partial project update. Nil fields are left untouched.
type ProjectPatch struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	UserID          *int64  `json:"userId"`
	CurrentSprintID *int64  `json:"currentSprintId"`
}

// Validate rejects values that would break entity invariants.
func (p *ProjectPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return apperr.NewValidation("name", "cannot be empty")
	}
	return nil
}

// SprintPatch is a partial sprint update. Nil fields are left untouched.
type SprintPatch struct {
	Name      *string       `json:"name"`
	StartDate *time.Time    `json:"startDate"`
	EndDate   *time.Time    `json:"endDate"`
	Status    *SprintStatus `json:"status"`
}

// Validate rejects values that would break entity invariants.
func (p *SprintPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return apperr.NewValidation("name", "cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperr.NewValidation("status", "unknown sprint status "+string(*p.Status))
	}
	return nil
}

// TaskPatch is a partial task update. Nil fields are left untouched.
// Setting AssignedAgent to the empty string clears the assignment.
type TaskPatch struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Status        *TaskStatus `json:"status"`
	Type          *TaskType   `json:"type"`
	Reference     *string     `json:"reference"`
	SprintID      *int64      `json:"sprintId"`
	AssignedAgent *string     `json:"assignedAgent"`
	Progress      *int        `json:"progress"`
	DueDate       *time.Time  `json:"dueDate"`
}

// Validate rejects values that would break entity invariants.
func (p *TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return apperr.NewValidation("title", "cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperr.NewValidation("status", "unknown task status "+string(*p.Status))
	}
	if p.Type != nil && !p.Type.Valid() {
		return apperr.NewValidation("type", "unknown task type "+string(*p.Type))
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return apperr.NewValidation("progress", "must be between 0 and 100")
	}
	return nil
}
