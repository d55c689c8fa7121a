package tasks

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no task with the id exists for the owner.
// A task that belongs to someone else is reported the same way.
var ErrNotFound = errors.New("task not found")

// Repository is the storage contract for tasks. Every method is scoped by
// the owning user's id; rows of other owners are never visible.
type Repository interface {
	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]Task, error)
	Create(ctx context.Context, ownerID int64, in Input) (*Task, error)
	FindByOwner(ctx context.Context, ownerID, id int64) (*Task, error)
	// Update overwrites all mutable fields.
	Update(ctx context.Context, ownerID, id int64, in Input) (*Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
}
