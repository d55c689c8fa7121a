// Package tasks implements the personal to-do items of a user: the task
// model, request validation, the owner-scoped repository contract, and the
// HTTP handlers for the /tasks resource.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/taskmaster-go/validation"
)

// Status is the closed set of task states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggle flips pending and completed.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// DateLayout is the wire and storage format of due dates.
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads a YYYY-MM-DD JSON string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id" example:"1"`
	UserID      int64     `json:"user_id" example:"1"`
	Title       string    `json:"title" example:"Buy milk"`
	Description *string   `json:"description" example:"Two litres"`
	DueDate     *Date     `json:"due_date" swaggertype:"string" example:"2025-04-01"`
	Status      Status    `json:"status" example:"pending"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input holds the four mutable fields of a task after validation. Create
// and Update both write all of them.
type Input struct {
	Title       string
	Description *string
	DueDate     *Date
	Status      Status
}

// TaskRequest is the body of POST /tasks and PUT /tasks/{id}. Update is a
// full replace, so both operations share the same rules.
type TaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255" example:"Buy milk"`
	Description *string `json:"description" example:"Two litres"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02" example:"2025-04-01"`
	Status      string  `json:"status" validate:"required,oneof=pending completed" example:"pending"`
}

// normalize trims every string and turns blank optional values into null.
func (r *TaskRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Status = strings.TrimSpace(r.Status)
	r.Description = validation.NormalizeString(r.Description)
	r.DueDate = validation.NormalizeString(r.DueDate)
}

// input converts a validated request.
func (r *TaskRequest) input() (Input, error) {
	in := Input{
		Title:       r.Title,
		Description: r.Description,
		Status:      Status(r.Status),
	}
	if r.DueDate != nil {
		d, err := ParseDate(*r.DueDate)
		if err != nil {
			return Input{}, err
		}
		in.DueDate = &d
	}
	return in, nil
}

// TaskData wraps a single task in the response envelope's data field.
type TaskData struct {
	Task *Task `json:"task"`
}

// TaskListData wraps the task list in the response envelope's data field.
type TaskListData struct {
	Tasks []Task `json:"tasks"`
}
