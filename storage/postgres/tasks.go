package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/taskmaster-go/tasks"
)

// TaskStore implements tasks.Repository.
type TaskStore struct {
	pool *pgxpool.Pool
}

// NewTaskStore creates a TaskStore.
func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{pool: pool}
}

const taskColumns = `id, user_id, title, description, due_date, status, created_at, updated_at`

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]tasks.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	list := []tasks.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return list, nil
}

func (s *TaskStore) Create(ctx context.Context, ownerID int64, in tasks.Input) (*tasks.Task, error) {
	query := `INSERT INTO tasks (user_id, title, description, due_date, status)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING ` + taskColumns
	row := s.pool.QueryRow(ctx, query, ownerID, in.Title, in.Description, dueDateArg(in.DueDate), string(in.Status))
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) FindByOwner(ctx context.Context, ownerID, id int64) (*tasks.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	return scanTask(row)
}

func (s *TaskStore) Update(ctx context.Context, ownerID, id int64, in tasks.Input) (*tasks.Task, error) {
	query := `UPDATE tasks
              SET title = $1, description = $2, due_date = $3, status = $4, updated_at = now()
              WHERE id = $5 AND user_id = $6
              RETURNING ` + taskColumns
	row := s.pool.QueryRow(ctx, query, in.Title, in.Description, dueDateArg(in.DueDate), string(in.Status), id, ownerID)
	return scanTask(row)
}

func (s *TaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*tasks.Task, error) {
	var (
		t      tasks.Task
		due    *time.Time
		status string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tasks.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	t.Status = tasks.Status(status)
	if due != nil {
		d := tasks.NewDate(*due)
		t.DueDate = &d
	}
	return &t, nil
}

// dueDateArg passes a nil date as SQL NULL.
func dueDateArg(d *tasks.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
