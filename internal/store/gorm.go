package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
	"github.com/sprintdeck/sprintdeck/internal/model"
)

// GormStore persists entities in a relational database via gorm. State
// survives process restarts, which the memory backend does not.
type GormStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// OpenGorm opens a sqlite or postgres database, migrates the schema and
// returns a ready store. driver is "sqlite" or "postgres"; dsn is a file
// path for sqlite and a connection string for postgres.
func OpenGorm(driver, dsn string, logger zerolog.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}

	return NewGorm(db, logger)
}

// NewGorm wraps an existing gorm DB handle and migrates the schema.
func NewGorm(db *gorm.DB, logger zerolog.Logger) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: nil db handle")
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Sprint{},
		&model.Task{},
		&model.AgentLog{},
		&model.ChatMessage{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &GormStore{
		db:     db,
		logger: logger.With().Str("component", "gorm_store").Logger(),
	}, nil
}

// Ping verifies database connectivity, for readiness checks.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) requireProject(ctx context.Context, projectID int64) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NewValidation("projectId", "references unknown project")
	}
	return nil
}

func notFoundAs(err error, kind string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(kind, id)
	}
	return err
}

// --- Users ---

func (s *GormStore) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u := model.User{Username: in.Username, Password: in.Password}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundAs(err, "user", id)
	}
	return &u, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- Projects ---

func (s *GormStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundAs(err, "project", id)
	}
	return &p, nil
}

func (s *GormStore) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := model.Project{
		Name:        in.Name,
		Description: in.Description,
		UserID:      in.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.UserID != nil {
		updates["user_id"] = *patch.UserID
	}
	if patch.CurrentSprintID != nil {
		updates["current_sprint_id"] = *patch.CurrentSprintID
	}
	if err := s.applyUpdate(ctx, &model.Project{}, "project", id, updates); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, id)
}

func (s *GormStore) DeleteProject(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Project{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --- Sprints ---

func (s *GormStore) ListSprints(ctx context.Context, projectID int64) ([]model.Sprint, error) {
	var out []model.Sprint
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetSprint(ctx context.Context, id int64) (*model.Sprint, error) {
	var sp model.Sprint
	if err := s.db.WithContext(ctx).First(&sp, id).Error; err != nil {
		return nil, notFoundAs(err, "sprint", id)
	}
	return &sp, nil
}

func (s *GormStore) CreateSprint(ctx context.Context, in model.SprintInput) (*model.Sprint, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	sp := model.Sprint{
		Name:      in.Name,
		ProjectID: in.ProjectID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    model.SprintPlanned,
	}
	if in.Status != nil {
		sp.Status = *in.Status
	}
	if err := s.db.WithContext(ctx).Create(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *GormStore) UpdateSprint(ctx context.Context, id int64, patch model.SprintPatch) (*model.Sprint, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.StartDate != nil {
		updates["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		updates["end_date"] = *patch.EndDate
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if err := s.applyUpdate(ctx, &model.Sprint{}, "sprint", id, updates); err != nil {
		return nil, err
	}
	return s.GetSprint(ctx, id)
}

func (s *GormStore) DeleteSprint(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Sprint{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --- Tasks ---

func (s *GormStore) ListTasks(ctx context.Context, projectID int64, sprintID *int64) ([]model.Task, error) {
	q := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	if sprintID != nil {
		q = q.Where("sprint_id = ?", *sprintID)
	}
	var out []model.Task
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	var t model.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFoundAs(err, "task", id)
	}
	return &t, nil
}

func (s *GormStore) CreateTask(ctx context.Context, in model.TaskInput) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	t := model.Task{
		Title:         in.Title,
		Description:   in.Description,
		Status:        model.StatusBacklog,
		Type:          model.TypeFeature,
		Reference:     in.Reference,
		ProjectID:     in.ProjectID,
		SprintID:      in.SprintID,
		AssignedAgent: in.AssignedAgent,
		DueDate:       in.DueDate,
		CreatedAt:     time.Now().UTC(),
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Progress != nil {
		t.Progress = *in.Progress
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) UpdateTask(ctx context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Type != nil {
		updates["type"] = *patch.Type
	}
	if patch.Reference != nil {
		updates["reference"] = *patch.Reference
	}
	if patch.SprintID != nil {
		updates["sprint_id"] = *patch.SprintID
	}
	if patch.AssignedAgent != nil {
		if *patch.AssignedAgent == "" {
			updates["assigned_agent"] = nil
		} else {
			updates["assigned_agent"] = *patch.AssignedAgent
		}
	}
	if patch.Progress != nil {
		updates["progress"] = *patch.Progress
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if err := s.applyUpdate(ctx, &model.Task{}, "task", id, updates); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

func (s *GormStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --- Agent logs ---

func (s *GormStore) ListAgentLogs(ctx context.Context, projectID int64) ([]model.AgentLog, error) {
	var out []model.AgentLog
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateAgentLog(ctx context.Context, in model.AgentLogInput) (*model.AgentLog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	l := model.AgentLog{
		AgentName: in.AgentName,
		Action:    in.Action,
		Details:   in.Details,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// --- Chat ---

func (s *GormStore) ListChatMessages(ctx context.Context, projectID int64) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateChatMessage(ctx context.Context, in model.ChatMessageInput) (*model.ChatMessage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	m := model.ChatMessage{
		ProjectID: in.ProjectID,
		Sender:    in.Sender,
		Content:   in.Content,
		Timestamp: time.Now().UTC(),
		Metadata:  in.Metadata,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// applyUpdate runs a partial update against a single row. An empty patch
// is a no-op; the caller re-reads and returns current state.
func (s *GormStore) applyUpdate(ctx context.Context, entity interface{}, kind string, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(entity).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(kind, id)
	}
	return nil
}
