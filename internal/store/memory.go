package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
	"github.com/sprintdeck/sprintdeck/internal/model"
)

// MemoryStore keeps all entities in process memory. It is the default
// backend; state does not survive a restart.
type MemoryStore struct {
	mu sync.RWMutex

	users    map[int64]*model.User
	projects map[int64]*model.Project
	sprints  map[int64]*model.Sprint
	tasks    map[int64]*model.Task
	logs     map[int64]*model.AgentLog
	messages map[int64]*model.ChatMessage

	userSeq    int64
	projectSeq int64
	sprintSeq  int64
	taskSeq    int64
	logSeq     int64
	messageSeq int64

	logger zerolog.Logger
}

// NewMemory creates an empty in-memory store.
func NewMemory(logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]*model.User),
		projects: make(map[int64]*model.Project),
		sprints:  make(map[int64]*model.Sprint),
		tasks:    make(map[int64]*model.Task),
		logs:     make(map[int64]*model.AgentLog),
		messages: make(map[int64]*model.ChatMessage),
		logger:   logger.With().Str("component", "memory_store").Logger(),
	}
}

// Close implements Store. It is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }

// requireProject verifies the owning project exists. Callers must hold
// at least a read lock.
func (s *MemoryStore) requireProject(projectID int64) error {
	if _, ok := s.projects[projectID]; !ok {
		return apperr.NewValidation("projectId", "references unknown project")
	}
	return nil
}

// --- Users ---

func (s *MemoryStore) CreateUser(_ context.Context, in model.UserInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username {
			return nil, apperr.NewValidation("username", "already taken")
		}
	}

	s.userSeq++
	u := &model.User{ID: s.userSeq, Username: in.Username, Password: in.Password}
	s.users[u.ID] = u
	out := *u
	return &out, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// --- Projects ---

func (s *MemoryStore) ListProjects(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProject(_ context.Context, id int64) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, apperr.NotFound("project", id)
	}
	return cloneProject(p), nil
}

func (s *MemoryStore) CreateProject(_ context.Context, in model.ProjectInput) (*model.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projectSeq++
	p := &model.Project{
		ID:          s.projectSeq,
		Name:        in.Name,
		Description: clonePtr(in.Description),
		UserID:      clonePtr(in.UserID),
		CreatedAt:   time.Now().UTC(),
	}
	s.projects[p.ID] = p
	return cloneProject(p), nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, apperr.NotFound("project", id)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = clonePtr(patch.Description)
	}
	if patch.UserID != nil {
		p.UserID = clonePtr(patch.UserID)
	}
	if patch.CurrentSprintID != nil {
		p.CurrentSprintID = clonePtr(patch.CurrentSprintID)
	}
	return cloneProject(p), nil
}

// DeleteProject removes only the project record. Sprints, tasks, logs and
// chat keep their stale projectId; orphans are permitted.
func (s *MemoryStore) DeleteProject(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.projects[id]
	delete(s.projects, id)
	return ok, nil
}

// --- Sprints ---

func (s *MemoryStore) ListSprints(_ context.Context, projectID int64) ([]model.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Sprint
	for _, sp := range s.sprints {
		if sp.ProjectID == projectID {
			out = append(out, *cloneSprint(sp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetSprint(_ context.Context, id int64) (*model.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.sprints[id]
	if !ok {
		return nil, apperr.NotFound("sprint", id)
	}
	return cloneSprint(sp), nil
}

func (s *MemoryStore) CreateSprint(_ context.Context, in model.SprintInput) (*model.Sprint, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(in.ProjectID); err != nil {
		return nil, err
	}

	status := model.SprintPlanned
	if in.Status != nil {
		status = *in.Status
	}

	s.sprintSeq++
	sp := &model.Sprint{
		ID:        s.sprintSeq,
		Name:      in.Name,
		ProjectID: in.ProjectID,
		StartDate: clonePtr(in.StartDate),
		EndDate:   clonePtr(in.EndDate),
		Status:    status,
	}
	s.sprints[sp.ID] = sp
	return cloneSprint(sp), nil
}

func (s *MemoryStore) UpdateSprint(_ context.Context, id int64, patch model.SprintPatch) (*model.Sprint, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, ok := s.sprints[id]
	if !ok {
		return nil, apperr.NotFound("sprint", id)
	}
	if patch.Name != nil {
		sp.Name = *patch.Name
	}
	if patch.StartDate != nil {
		sp.StartDate = clonePtr(patch.StartDate)
	}
	if patch.EndDate != nil {
		sp.EndDate = clonePtr(patch.EndDate)
	}
	if patch.Status != nil {
		sp.Status = *patch.Status
	}
	return cloneSprint(sp), nil
}

func (s *MemoryStore) DeleteSprint(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sprints[id]
	delete(s.sprints, id)
	return ok, nil
}

// --- Tasks ---

func (s *MemoryStore) ListTasks(_ context.Context, projectID int64, sprintID *int64) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Task
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if sprintID != nil && (t.SprintID == nil || *t.SprintID != *sprintID) {
			continue
		}
		out = append(out, *cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id int64) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task", id)
	}
	return cloneTask(t), nil
}

func (s *MemoryStore) CreateTask(_ context.Context, in model.TaskInput) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(in.ProjectID); err != nil {
		return nil, err
	}

	status := model.StatusBacklog
	if in.Status != nil {
		status = *in.Status
	}
	taskType := model.TypeFeature
	if in.Type != nil {
		taskType = *in.Type
	}
	progress := 0
	if in.Progress != nil {
		progress = *in.Progress
	}

	s.taskSeq++
	t := &model.Task{
		ID:            s.taskSeq,
		Title:         in.Title,
		Description:   clonePtr(in.Description),
		Status:        status,
		Type:          taskType,
		Reference:     clonePtr(in.Reference),
		ProjectID:     in.ProjectID,
		SprintID:      clonePtr(in.SprintID),
		AssignedAgent: clonePtr(in.AssignedAgent),
		Progress:      progress,
		DueDate:       clonePtr(in.DueDate),
		CreatedAt:     time.Now().UTC(),
	}
	s.tasks[t.ID] = t
	return cloneTask(t), nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task", id)
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = clonePtr(patch.Description)
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Reference != nil {
		t.Reference = clonePtr(patch.Reference)
	}
	if patch.SprintID != nil {
		t.SprintID = clonePtr(patch.SprintID)
	}
	if patch.AssignedAgent != nil {
		if *patch.AssignedAgent == "" {
			t.AssignedAgent = nil
		} else {
			t.AssignedAgent = clonePtr(patch.AssignedAgent)
		}
	}
	if patch.Progress != nil {
		t.Progress = *patch.Progress
	}
	if patch.DueDate != nil {
		t.DueDate = clonePtr(patch.DueDate)
	}
	return cloneTask(t), nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	delete(s.tasks, id)
	return ok, nil
}

// --- Agent logs ---

func (s *MemoryStore) ListAgentLogs(_ context.Context, projectID int64) ([]model.AgentLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.AgentLog
	for _, l := range s.logs {
		if l.ProjectID == projectID {
			out = append(out, *cloneLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateAgentLog(_ context.Context, in model.AgentLogInput) (*model.AgentLog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(in.ProjectID); err != nil {
		return nil, err
	}

	s.logSeq++
	l := &model.AgentLog{
		ID:        s.logSeq,
		AgentName: in.AgentName,
		Action:    in.Action,
		Details:   clonePtr(in.Details),
		ProjectID: in.ProjectID,
		TaskID:    clonePtr(in.TaskID),
		Timestamp: time.Now().UTC(),
	}
	s.logs[l.ID] = l
	return cloneLog(l), nil
}

// --- Chat ---

func (s *MemoryStore) ListChatMessages(_ context.Context, projectID int64) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ChatMessage
	for _, m := range s.messages {
		if m.ProjectID == projectID {
			out = append(out, *cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateChatMessage(_ context.Context, in model.ChatMessageInput) (*model.ChatMessage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(in.ProjectID); err != nil {
		return nil, err
	}

	s.messageSeq++
	m := &model.ChatMessage{
		ID:        s.messageSeq,
		ProjectID: in.ProjectID,
		Sender:    in.Sender,
		Content:   in.Content,
		Timestamp: time.Now().UTC(),
		Metadata:  clonePtr(in.Metadata),
	}
	s.messages[m.ID] = m
	return cloneMessage(m), nil
}

// --- snapshot helpers ---

func cloneProject(p *model.Project) *model.Project {
	out := *p
	out.Description = clonePtr(p.Description)
	out.UserID = clonePtr(p.UserID)
	out.CurrentSprintID = clonePtr(p.CurrentSprintID)
	return &out
}

func cloneSprint(sp *model.Sprint) *model.Sprint {
	out := *sp
	out.StartDate = clonePtr(sp.StartDate)
	out.EndDate = clonePtr(sp.EndDate)
	return &out
}

func cloneTask(t *model.Task) *model.Task {
	out := *t
	out.Description = clonePtr(t.Description)
	out.Reference = clonePtr(t.Reference)
	out.SprintID = clonePtr(t.SprintID)
	out.AssignedAgent = clonePtr(t.AssignedAgent)
	out.DueDate = clonePtr(t.DueDate)
	return &out
}

func cloneLog(l *model.AgentLog) *model.AgentLog {
	out := *l
	out.Details = clonePtr(l.Details)
	out.TaskID = clonePtr(l.TaskID)
	return &out
}

func cloneMessage(m *model.ChatMessage) *model.ChatMessage {
	out := *m
	out.Metadata = clonePtr(m.Metadata)
	return &out
}
