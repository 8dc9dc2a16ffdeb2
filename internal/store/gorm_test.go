package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
	"github.com/sprintdeck/sprintdeck/internal/model"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "board.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	s, err := NewGorm(db, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGorm_ProjectRoundtrip(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, model.ProjectInput{Name: "Persistent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persistent", got.Name)

	_, err = s.GetProject(ctx, 99)
	assert.True(t, apperr.IsNotFound(err))

	ok, err := s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGorm_TaskDefaultsAndPatch(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, model.ProjectInput{Name: "Board"})
	require.NoError(t, err)

	task, err := s.CreateTask(ctx, model.TaskInput{Title: "Bare", ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBacklog, task.Status)
	assert.Equal(t, model.TypeFeature, task.Type)
	assert.Equal(t, 0, task.Progress)

	status := model.StatusInProgress
	agent := "Developer Agent"
	updated, err := s.UpdateTask(ctx, task.ID, model.TaskPatch{Status: &status, AssignedAgent: &agent})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, updated.Status)
	require.NotNil(t, updated.AssignedAgent)
	assert.Equal(t, agent, *updated.AssignedAgent)

	// Empty agent string clears the column.
	empty := ""
	updated, err = s.UpdateTask(ctx, task.ID, model.TaskPatch{AssignedAgent: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedAgent)

	// Empty patch re-reads current state.
	same, err := s.UpdateTask(ctx, task.ID, model.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated.Status, same.Status)
}

func TestGorm_TaskUnknownProjectRejected(t *testing.T) {
	s := newGormStore(t)
	_, err := s.CreateTask(context.Background(), model.TaskInput{Title: "Stray", ProjectID: 7})
	assert.True(t, apperr.IsValidation(err))
}

func TestGorm_UpdateMissingTaskNotFound(t *testing.T) {
	s := newGormStore(t)
	title := "ghost"
	_, err := s.UpdateTask(context.Background(), 42, model.TaskPatch{Title: &title})
	assert.True(t, apperr.IsNotFound(err))
}

func TestGorm_AgentLogOrdering(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, model.ProjectInput{Name: "Board"})
	require.NoError(t, err)

	for _, action := range []string{"first", "second"} {
		_, err := s.CreateAgentLog(ctx, model.AgentLogInput{AgentName: "System", Action: action, ProjectID: p.ID})
		require.NoError(t, err)
	}

	logs, err := s.ListAgentLogs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Action)
}

func TestGorm_ChatMetadataRoundtrip(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, model.ProjectInput{Name: "Board"})
	require.NoError(t, err)

	_, err = s.CreateChatMessage(ctx, model.ChatMessageInput{
		ProjectID: p.ID,
		Sender:    "agent",
		Content:   "patch attached",
		Metadata:  &model.MessageMetadata{Kind: model.MetadataCodeSnippet, Text: "return nil"},
	})
	require.NoError(t, err)

	messages, err := s.ListChatMessages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].Metadata)
	assert.Equal(t, "return nil", messages[0].Metadata.Text)
}
