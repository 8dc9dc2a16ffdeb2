// Package kanban encodes the board's task-transition rules: which agent
// becomes responsible for a task when it enters a column, and the audit
// trail wording for the move.
package kanban

import (
	"fmt"

	"github.com/sprintdeck/sprintdeck/internal/model"
)

// Agent role names attached to tasks as they move across the board.
const (
	AgentScrumMaster = "Scrum Master"
	AgentDeveloper   = "Developer Agent"
	AgentSystem      = "System"
)

// AgentFor returns the agent responsible for tasks in the given column.
// An empty agent with ok=true means the column unassigns the task.
// ok=false means the status is outside the table and the current
// assignment is left unchanged.
func AgentFor(status model.TaskStatus) (agent string, ok bool) {
	switch status {
	case model.StatusBacklog, model.StatusDone:
		return "", true
	case model.StatusTodo:
		return AgentScrumMaster, true
	case model.StatusInProgress, model.StatusInReview:
		return AgentDeveloper, true
	}
	return "", false
}

// ColumnTitle renders a status as its board column heading.
func ColumnTitle(status model.TaskStatus) string {
	switch status {
	case model.StatusBacklog:
		return "Backlog"
	case model.StatusTodo:
		return "To Do"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusInReview:
		return "In Review"
	case model.StatusDone:
		return "Done"
	}
	return string(status)
}

// Transition describes the side effects of moving a task to a new column.
type Transition struct {
	From model.TaskStatus
	To   model.TaskStatus

	// Changed is false when To equals the task's current status; such a
	// move is a no-op and produces no assignment change and no log.
	Changed bool

	// Assignee is the agent to store on the task, or nil to leave the
	// current assignment untouched (status outside the lookup table).
	// An empty string clears the assignment.
	Assignee *string

	// Log is the audit entry to record, nil when Changed is false.
	Log *model.AgentLogInput
}

// Plan computes the transition for moving task to the proposed status.
// It is pure; the caller persists the task update (status and assignment
// in a single write) and then records the log entry.
func Plan(task *model.Task, to model.TaskStatus) Transition {
	tr := Transition{From: task.Status, To: to}
	if to == task.Status {
		return tr
	}
	tr.Changed = true

	logAgent := AgentSystem
	if agent, ok := AgentFor(to); ok {
		tr.Assignee = &agent
		if agent != "" {
			logAgent = agent
		}
	} else if task.AssignedAgent != nil && *task.AssignedAgent != "" {
		logAgent = *task.AssignedAgent
	}

	details := fmt.Sprintf("Updated status for task %q", task.Title)
	taskID := task.ID
	tr.Log = &model.AgentLogInput{
		AgentName: logAgent,
		Action:    fmt.Sprintf("Task moved from %s to %s", ColumnTitle(task.Status), ColumnTitle(to)),
		Details:   &details,
		ProjectID: task.ProjectID,
		TaskID:    &taskID,
	}
	return tr
}
