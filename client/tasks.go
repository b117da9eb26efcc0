package client

import (
	"context"
	"net/http"
	"time"
)

// TaskFields is the writable part of a task. Category and Priority may be
// left empty; the server fills in its defaults (Others, Medium).
type TaskFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// List fetches the full task collection for the current session.
func (c *Client) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, true, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create submits a new task and returns the refetched collection. A due date
// earlier than today is rejected locally and never reaches the server.
func (c *Client) Create(ctx context.Context, fields TaskFields) ([]Task, error) {
	if pastDueDate(fields.DueDate) {
		return nil, ErrPastDueDate
	}
	err := c.do(ctx, http.MethodPost, "/api/tasks", fields, true, nil)
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}

// Update replaces the task's fields wholesale (no partial patching) and
// returns the refetched collection. Same local due-date guard as Create.
func (c *Client) Update(ctx context.Context, id string, fields TaskFields) ([]Task, error) {
	if pastDueDate(fields.DueDate) {
		return nil, ErrPastDueDate
	}
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, fields, true, nil)
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}

// Delete removes the task and returns the refetched collection. Asking the
// user for confirmation is the front end's job, not ours.
func (c *Client) Delete(ctx context.Context, id string) ([]Task, error) {
	err := c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, true, nil)
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}

// Toggle submits the negation of the task's current completed flag and
// returns the refetched collection.
func (c *Client) Toggle(ctx context.Context, id string, currentCompleted bool) ([]Task, error) {
	body := struct {
		Completed bool `json:"completed"`
	}{!currentCompleted}
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id+"/toggle", body, true, nil)
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}

// DueDateLayout is the wire format for due dates.
const DueDateLayout = "2006-01-02"

// pastDueDate compares date-only strings, exactly as the browser app compared
// its <input type="date"> value against today.
func pastDueDate(dueDate string) bool {
	if dueDate == "" {
		return false
	}
	return dueDate < time.Now().Format(DueDateLayout)
}
