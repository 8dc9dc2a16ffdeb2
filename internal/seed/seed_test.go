package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/store"
)

func TestLoad(t *testing.T) {
	d, err := Load("testdata/demo.yaml")
	require.NoError(t, err)

	require.Len(t, d.Users, 1)
	assert.Equal(t, "demo", d.Users[0].Username)

	require.Len(t, d.Projects, 1)
	p := d.Projects[0]
	assert.Equal(t, "Personal App Project", p.Name)
	assert.Equal(t, "Sprint 1", p.CurrentSprint)
	assert.Len(t, p.Sprints, 2)
	assert.Len(t, p.Tasks, 3)
	assert.Equal(t, "FE-101", p.Tasks[0].Reference)
	assert.Equal(t, 60, p.Tasks[0].Progress)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestEnsureDefaultUser_Idempotent(t *testing.T) {
	st := store.NewMemory(zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, EnsureDefaultUser(ctx, st))
	require.NoError(t, EnsureDefaultUser(ctx, st))

	u, err := st.GetUserByUsername(ctx, DefaultUsername)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

func TestApply(t *testing.T) {
	st := store.NewMemory(zerolog.Nop())
	ctx := context.Background()

	d, err := Load("testdata/demo.yaml")
	require.NoError(t, err)
	require.NoError(t, Apply(ctx, st, d, zerolog.Nop()))

	projects, err := st.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	p := projects[0]
	assert.Equal(t, "Personal App Project", p.Name)
	require.NotNil(t, p.UserID)
	require.NotNil(t, p.CurrentSprintID)

	sprints, err := st.ListSprints(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, sprints, 2)
	assert.Equal(t, model.SprintActive, sprints[0].Status)
	assert.Equal(t, sprints[0].ID, *p.CurrentSprintID)

	tasks, err := st.ListTasks(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	inSprint, err := st.ListTasks(ctx, p.ID, &sprints[0].ID)
	require.NoError(t, err)
	assert.Len(t, inSprint, 2)

	first := tasks[0]
	assert.Equal(t, model.StatusInProgress, first.Status)
	require.NotNil(t, first.AssignedAgent)
	assert.Equal(t, "Developer Agent", *first.AssignedAgent)
	assert.Equal(t, 60, first.Progress)
}

func TestApply_UnknownCurrentSprint(t *testing.T) {
	st := store.NewMemory(zerolog.Nop())
	d := &Data{Projects: []ProjectSeed{{Name: "Broken", CurrentSprint: "Sprint 9"}}}
	err := Apply(context.Background(), st, d, zerolog.Nop())
	assert.Error(t, err)
}
