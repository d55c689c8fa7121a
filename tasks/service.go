package tasks

import (
	"context"
	"errors"

	"github.com/user/taskmaster-go/apperror"
	"github.com/user/taskmaster-go/validation"
)

// Messages returned to clients.
const (
	msgCreated  = "Task created successfully"
	msgUpdated  = "Task updated successfully"
	msgDeleted  = "Task deleted successfully"
	msgNotFound = "Task not found"
)

// Service implements the task operations for an authenticated owner. The
// owner id is always passed in by the caller.
type Service struct {
	repo      Repository
	validator *validation.Validator
}

// NewService creates a Service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: validation.New()}
}

// List returns every task of the owner, newest first.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Create validates req and stores a new task for the owner. Nothing is
// written when validation fails.
func (s *Service) Create(ctx context.Context, ownerID int64, req TaskRequest) (*Task, error) {
	in, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.Create(ctx, ownerID, in)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create task", err)
	}
	return task, nil
}

// Get returns the task if the owner has one with this id.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Task, error) {
	task, err := s.repo.FindByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, s.storageError("failed to get task", err)
	}
	return task, nil
}

// Update replaces title, description, due date and status. Validation runs
// before the task is looked up.
func (s *Service) Update(ctx context.Context, ownerID, id int64, req TaskRequest) (*Task, error) {
	in, err := s.validate(&req)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.Update(ctx, ownerID, id, in)
	if err != nil {
		return nil, s.storageError("failed to update task", err)
	}
	return task, nil
}

// Delete permanently removes the owner's task.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return s.storageError("failed to delete task", err)
	}
	return nil
}

func (s *Service) validate(req *TaskRequest) (Input, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return Input{}, err
	}
	in, err := req.input()
	if err != nil {
		return Input{}, apperror.NewValidationError(validation.FailedMessage, apperror.FieldErrors{
			"due_date": {"The due date field must be a valid date (YYYY-MM-DD)."},
		})
	}
	return in, nil
}

func (s *Service) storageError(message string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperror.NewNotFoundError(msgNotFound, nil)
	}
	return apperror.NewDatabaseError(message, err)
}
