// Package seed loads optional demo data into the store at startup.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
	"github.com/sprintdeck/sprintdeck/internal/model"
	"github.com/sprintdeck/sprintdeck/internal/store"
)

// DefaultUsername is the account created on every startup so projects
// have an owner to reference.
const DefaultUsername = "demo"

// Data is the YAML seed file shape.
type Data struct {
	Users    []UserSeed    `yaml:"users"`
	Projects []ProjectSeed `yaml:"projects"`
}

// UserSeed describes one user row.
type UserSeed struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ProjectSeed describes a project with its sprints and tasks.
type ProjectSeed struct {
	Name          string       `yaml:"name"`
	Description   string       `yaml:"description"`
	Owner         string       `yaml:"owner"`
	CurrentSprint string       `yaml:"currentSprint"`
	Sprints       []SprintSeed `yaml:"sprints"`
	Tasks         []TaskSeed   `yaml:"tasks"`
}

// SprintSeed describes one sprint; tasks reference it by name.
type SprintSeed struct {
	Name      string     `yaml:"name"`
	Status    string     `yaml:"status"`
	StartDate *time.Time `yaml:"startDate"`
	EndDate   *time.Time `yaml:"endDate"`
}

// TaskSeed describes one task.
type TaskSeed struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Status        string `yaml:"status"`
	Type          string `yaml:"type"`
	Reference     string `yaml:"reference"`
	Sprint        string `yaml:"sprint"`
	AssignedAgent string `yaml:"assignedAgent"`
	Progress      int    `yaml:"progress"`
}

// Load parses a YAML seed file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", path, err)
	}
	return &d, nil
}

// EnsureDefaultUser creates the demo user unless it already exists.
func EnsureDefaultUser(ctx context.Context, st store.Store) error {
	_, err := st.GetUserByUsername(ctx, DefaultUsername)
	if err == nil {
		return nil
	}
	if !apperr.IsNotFound(err) {
		return err
	}
	_, err = st.CreateUser(ctx, model.UserInput{Username: DefaultUsername, Password: "password"})
	return err
}

// Apply writes the seed data into the store. Usernames that already exist
// are skipped; everything else is created fresh, so applying the same file
// to a persistent store twice duplicates projects.
func Apply(ctx context.Context, st store.Store, d *Data, logger zerolog.Logger) error {
	log := logger.With().Str("component", "seed").Logger()

	users := make(map[string]int64)
	for _, u := range d.Users {
		existing, err := st.GetUserByUsername(ctx, u.Username)
		if err == nil {
			users[u.Username] = existing.ID
			continue
		}
		if !apperr.IsNotFound(err) {
			return err
		}
		created, err := st.CreateUser(ctx, model.UserInput{Username: u.Username, Password: u.Password})
		if err != nil {
			return fmt.Errorf("seed: user %s: %w", u.Username, err)
		}
		users[u.Username] = created.ID
	}

	for _, p := range d.Projects {
		in := model.ProjectInput{Name: p.Name}
		if p.Description != "" {
			desc := p.Description
			in.Description = &desc
		}
		if id, ok := users[p.Owner]; ok {
			in.UserID = &id
		}
		project, err := st.CreateProject(ctx, in)
		if err != nil {
			return fmt.Errorf("seed: project %s: %w", p.Name, err)
		}

		sprints := make(map[string]int64)
		for _, sp := range p.Sprints {
			sin := model.SprintInput{
				Name:      sp.Name,
				ProjectID: project.ID,
				StartDate: sp.StartDate,
				EndDate:   sp.EndDate,
			}
			if sp.Status != "" {
				status := model.SprintStatus(sp.Status)
				sin.Status = &status
			}
			sprint, err := st.CreateSprint(ctx, sin)
			if err != nil {
				return fmt.Errorf("seed: sprint %s: %w", sp.Name, err)
			}
			sprints[sp.Name] = sprint.ID
		}

		if p.CurrentSprint != "" {
			id, ok := sprints[p.CurrentSprint]
			if !ok {
				return fmt.Errorf("seed: project %s: unknown currentSprint %q", p.Name, p.CurrentSprint)
			}
			if _, err := st.UpdateProject(ctx, project.ID, model.ProjectPatch{CurrentSprintID: &id}); err != nil {
				return err
			}
		}

		for _, t := range p.Tasks {
			tin := model.TaskInput{Title: t.Title, ProjectID: project.ID}
			if t.Description != "" {
				desc := t.Description
				tin.Description = &desc
			}
			if t.Status != "" {
				status := model.TaskStatus(t.Status)
				tin.Status = &status
			}
			if t.Type != "" {
				taskType := model.TaskType(t.Type)
				tin.Type = &taskType
			}
			if t.Reference != "" {
				ref := t.Reference
				tin.Reference = &ref
			}
			if t.Sprint != "" {
				id, ok := sprints[t.Sprint]
				if !ok {
					return fmt.Errorf("seed: task %s: unknown sprint %q", t.Title, t.Sprint)
				}
				tin.SprintID = &id
			}
			if t.AssignedAgent != "" {
				agent := t.AssignedAgent
				tin.AssignedAgent = &agent
			}
			if t.Progress != 0 {
				progress := t.Progress
				tin.Progress = &progress
			}
			if _, err := st.CreateTask(ctx, tin); err != nil {
				return fmt.Errorf("seed: task %s: %w", t.Title, err)
			}
		}

		log.Info().
			Str("project", p.Name).
			Int("sprints", len(p.Sprints)).
			Int("tasks", len(p.Tasks)).
			Msg("seeded project")
	}

	return nil
}
