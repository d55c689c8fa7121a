package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/user/taskmaster-go/tasks"
)

// TaskStore implements tasks.Repository.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a TaskStore.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, user_id, title, description, due_date, status, created_at, updated_at`

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]tasks.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
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
	ts := formatTime(now())
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, due_date, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+taskColumns,
		ownerID, in.Title, nullString(in.Description), nullDate(in.DueDate), string(in.Status), ts, ts,
	)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) FindByOwner(ctx context.Context, ownerID, id int64) (*tasks.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID)
	return scanTask(row)
}

func (s *TaskStore) Update(ctx context.Context, ownerID, id int64, in tasks.Input) (*tasks.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, due_date = ?, status = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING `+taskColumns,
		in.Title, nullString(in.Description), nullDate(in.DueDate), string(in.Status), formatTime(now()), id, ownerID,
	)
	return scanTask(row)
}

func (s *TaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*tasks.Task, error) {
	var (
		t                     tasks.Task
		description           sql.NullString
		status                string
		due, created, updated any
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &due, &status, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tasks.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	t.Status = tasks.Status(status)
	if description.Valid {
		t.Description = &description.String
	}
	if due != nil {
		d, err := parseTime(due)
		if err != nil {
			return nil, err
		}
		date := tasks.NewDate(d)
		t.DueDate = &date
	}

	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(d *tasks.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Format(dateLayout), Valid: true}
}
