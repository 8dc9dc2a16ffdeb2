// Package model defines the board's entity types and request payloads.
//
// JSON field names follow the shape the web client consumes (camelCase);
// gorm tags describe the relational schema used when a database driver is
// configured. Identifiers are positive integers assigned by the store and
// never reused.
package model

import "time"

// TaskStatus is a Kanban column.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known Kanban column.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// TaskType categorizes a task.
type TaskType string

const (
	TypeFeature     TaskType = "feature"
	TypeBug         TaskType = "bug"
	TypeEnhancement TaskType = "enhancement"
	TypeBackend     TaskType = "backend"
	TypeSetup       TaskType = "setup"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TypeFeature, TypeBug, TypeEnhancement, TypeBackend, TypeSetup:
		return true
	}
	return false
}

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// Valid reports whether s is a known sprint status.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintPlanned, SprintActive, SprintCompleted:
		return true
	}
	return false
}

// User is a board account. There is no authentication; the collection
// exists so projects can name an owner.
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"not null;uniqueIndex"`
	Password string `json:"password" gorm:"not null"`
}

// Project is the root of the entity graph.
type Project struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string    `json:"name" gorm:"not null"`
	Description     *string   `json:"description"`
	UserID          *int64    `json:"userId"`
	CurrentSprintID *int64    `json:"currentSprintId"`
	CreatedAt       time.Time `json:"createdAt" gorm:"not null"`
}

// Sprint is a time-boxed grouping of tasks within a project.
type Sprint struct {
	ID        int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string       `json:"name" gorm:"not null"`
	ProjectID int64        `json:"projectId" gorm:"not null;index"`
	StartDate *time.Time   `json:"startDate"`
	EndDate   *time.Time   `json:"endDate"`
	Status    SprintStatus `json:"status" gorm:"not null;default:planned"`
}

// Task is a Kanban card.
type Task struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" gorm:"not null"`
	Description   *string    `json:"description"`
	Status        TaskStatus `json:"status" gorm:"not null;default:backlog"`
	Type          TaskType   `json:"type" gorm:"not null;default:feature"`
	Reference     *string    `json:"reference"`
	ProjectID     int64      `json:"projectId" gorm:"not null;index"`
	SprintID      *int64     `json:"sprintId" gorm:"index"`
	AssignedAgent *string    `json:"assignedAgent"`
	Progress      int        `json:"progress" gorm:"not null;default:0"`
	DueDate       *time.Time `json:"dueDate"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"not null"`
}

// AgentLog is one immutable audit-trail entry. Entries display
// newest-first per project.
type AgentLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AgentName string    `json:"agentName" gorm:"not null"`
	Action    string    `json:"action" gorm:"not null"`
	Details   *string   `json:"details"`
	ProjectID int64     `json:"projectId" gorm:"not null;index"`
	TaskID    *int64    `json:"taskId"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}

// MetadataKind tags the variant carried in a chat message's metadata.
type MetadataKind string

const (
	MetadataCodeSnippet MetadataKind = "code_snippet"
	MetadataTaskUpdate  MetadataKind = "task_update"
)

// Valid reports whether k is a known metadata kind.
func (k MetadataKind) Valid() bool {
	return k == MetadataCodeSnippet || k == MetadataTaskUpdate
}

// MessageMetadata is the optional structured payload on a chat message.
// The original stored a free-form JSON bag; only two shapes ever occurred,
// so it is a tagged variant here.
type MessageMetadata struct {
	Kind MetadataKind `json:"kind"`
	Text string       `json:"text,omitempty"`
}

// ChatMessage is one conversational entry, displayed oldest-first per
// project. Sender is either the literal "user" or an agent name.
type ChatMessage struct {
	ID        int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID int64            `json:"projectId" gorm:"not null;index"`
	Sender    string           `json:"sender" gorm:"not null"`
	Content   string           `json:"content" gorm:"not null"`
	Timestamp time.Time        `json:"timestamp" gorm:"not null"`
	Metadata  *MessageMetadata `json:"metadata" gorm:"serializer:json"`
}
