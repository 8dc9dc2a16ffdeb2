package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
)

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range []TaskStatus{StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, TaskStatus("archived").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestTaskInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      TaskInput
		wantErr bool
	}{
		{"minimal valid", TaskInput{Title: "Fix login", ProjectID: 1}, false},
		{"missing title", TaskInput{ProjectID: 1}, true},
		{"missing project", TaskInput{Title: "Fix login"}, true},
		{"bad status", TaskInput{Title: "t", ProjectID: 1, Status: ptr(TaskStatus("nope"))}, true},
		{"bad type", TaskInput{Title: "t", ProjectID: 1, Type: ptr(TaskType("chore"))}, true},
		{"progress too high", TaskInput{Title: "t", ProjectID: 1, Progress: ptr(101)}, true},
		{"progress negative", TaskInput{Title: "t", ProjectID: 1, Progress: ptr(-1)}, true},
		{"progress boundary", TaskInput{Title: "t", ProjectID: 1, Progress: ptr(100)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskPatch_Validate(t *testing.T) {
	assert.NoError(t, (&TaskPatch{}).Validate())
	assert.NoError(t, (&TaskPatch{Status: ptr(StatusDone)}).Validate())
	assert.Error(t, (&TaskPatch{Title: ptr("")}).Validate())
	assert.Error(t, (&TaskPatch{Progress: ptr(150)}).Validate())
	assert.Error(t, (&TaskPatch{Status: ptr(TaskStatus("blocked"))}).Validate())
}

func TestChatMessageInput_Validate(t *testing.T) {
	valid := ChatMessageInput{ProjectID: 1, Sender: "user", Content: "hello"}
	assert.NoError(t, valid.Validate())

	withMeta := valid
	withMeta.Metadata = &MessageMetadata{Kind: MetadataCodeSnippet, Text: "fmt.Println(1)"}
	assert.NoError(t, withMeta.Validate())

	badMeta := valid
	badMeta.Metadata = &MessageMetadata{Kind: MetadataKind("gif")}
	assert.True(t, apperr.IsValidation(badMeta.Validate()))

	noSender := valid
	noSender.Sender = ""
	assert.True(t, apperr.IsValidation(noSender.Validate()))
}

func TestSprintInput_Validate(t *testing.T) {
	assert.NoError(t, (&SprintInput{Name: "Sprint 1", ProjectID: 1}).Validate())
	assert.Error(t, (&SprintInput{ProjectID: 1}).Validate())
	assert.Error(t, (&SprintInput{Name: "Sprint 1"}).Validate())
	assert.Error(t, (&SprintInput{Name: "Sprint 1", ProjectID: 1, Status: ptr(SprintStatus("paused"))}).Validate())
}

func ptr[T any](v T) *T { return &v }
