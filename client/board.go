package client

import (
	"context"
	"errors"
	"log"

	"github.com/user/taskmaster-go/tasks"
)

// Board is the task list screen: the fetched tasks and one draft being
// edited. Editing is the id of the task the draft replaces, or 0 for a new
// task. A Board is not safe for concurrent use.
//
// Every successful mutation re-fetches the whole list instead of patching
// Tasks. When any call fails with ErrUnauthenticated the stored token is
// cleared and OnUnauthenticated runs.
type Board struct {
	Tasks   []tasks.Task
	Draft   tasks.TaskRequest
	Editing int64

	// OnUnauthenticated is called after the token was cleared, typically to
	// show the login screen.
	OnUnauthenticated func()

	client *Client
	tokens TokenStore
}

// NewBoard creates a Board with an empty pending draft.
func NewBoard(c *Client, tokens TokenStore) *Board {
	b := &Board{client: c, tokens: tokens}
	b.NewDraft()
	return b
}

// Mount loads the task list.
func (b *Board) Mount(ctx context.Context) error {
	return b.refresh(ctx)
}

// NewDraft starts a new pending task.
func (b *Board) NewDraft() {
	b.Draft = tasks.TaskRequest{Status: string(tasks.StatusPending)}
	b.Editing = 0
}

// Edit copies task into the draft.
func (b *Board) Edit(task tasks.Task) {
	b.Draft = RequestFromTask(task)
	b.Editing = task.ID
}

// Save creates or updates the draft, then reloads the list and resets the
// draft. On failure the draft is kept so it can be corrected.
func (b *Board) Save(ctx context.Context) error {
	var err error
	if b.Editing != 0 {
		_, err = b.client.UpdateTask(ctx, b.Editing, b.Draft)
	} else {
		_, err = b.client.CreateTask(ctx, b.Draft)
	}
	if err != nil {
		return b.fail(err)
	}
	b.NewDraft()
	return b.refresh(ctx)
}

// ToggleStatus flips a task between pending and completed with a full
// update of its current fields.
func (b *Board) ToggleStatus(ctx context.Context, task tasks.Task) error {
	req := RequestFromTask(task)
	req.Status = string(task.Status.Toggle())
	if _, err := b.client.UpdateTask(ctx, task.ID, req); err != nil {
		return b.fail(err)
	}
	return b.refresh(ctx)
}

// Delete removes a task and reloads the list.
func (b *Board) Delete(ctx context.Context, id int64) error {
	if err := b.client.DeleteTask(ctx, id); err != nil {
		return b.fail(err)
	}
	return b.refresh(ctx)
}

// Find returns the loaded task with id.
func (b *Board) Find(id int64) (tasks.Task, bool) {
	for _, t := range b.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return tasks.Task{}, false
}

func (b *Board) refresh(ctx context.Context) error {
	list, err := b.client.ListTasks(ctx)
	if err != nil {
		return b.fail(err)
	}
	b.Tasks = list
	return nil
}

func (b *Board) fail(err error) error {
	if errors.Is(err, ErrUnauthenticated) {
		if b.tokens != nil {
			if clearErr := b.tokens.Clear(); clearErr != nil {
				log.Printf("client: clear token: %v", clearErr)
			}
		}
		if b.OnUnauthenticated != nil {
			b.OnUnauthenticated()
		}
	}
	return err
}

// RequestFromTask builds the full-replace body that reproduces task.
func RequestFromTask(task tasks.Task) tasks.TaskRequest {
	req := tasks.TaskRequest{
		Title:  task.Title,
		Status: string(task.Status),
	}
	if task.Description != nil {
		d := *task.Description
		req.Description = &d
	}
	if task.DueDate != nil {
		s := task.DueDate.String()
		req.DueDate = &s
	}
	return req
}
