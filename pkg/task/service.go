// Package task tracks the actions referred users complete for a campaign.
package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jordanlanch/referralhub/pkg/domain"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
)

// Service handles task operations
type Service struct {
	tasks  domain.TaskRepository
	logger logger.Logger
	now    func() time.Time
}

// NewService creates a new task service
func NewService(tasks domain.TaskRepository, log logger.Logger) *Service {
	return &Service{tasks: tasks, logger: log, now: time.Now}
}

// List returns every task, newest first
func (s *Service) List(ctx context.Context) ([]*models.Task, error) {
	return s.tasks.ListTasks(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	return s.tasks.ListTasksByUser(ctx, userID)
}

// Create adds an open task
func (s *Service) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	t := &models.Task{
		ID:          uuid.NewString(),
		CampaignID:  req.CampaignID,
		Description: strings.TrimSpace(req.Description),
		UserID:      req.UserID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete marks the task done. Completing twice is not an error.
func (s *Service) Complete(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.tasks.CompleteTask(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("task completed", "task_id", id, "user_id", t.UserID)
	return t, nil
}
