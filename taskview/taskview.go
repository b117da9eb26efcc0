// Package taskview holds the pure view-side helpers for rendering a task
// collection: search filtering, completed/pending partitioning and overdue
// classification. Nothing here mutates its input or keeps state; every call
// recomputes from scratch.
package taskview

import (
	"strings"
	"time"

	"taskpilot/client"
)

// Filter returns the tasks whose title or description contains query as a
// case-insensitive substring, preserving order. An empty query returns the
// whole input.
func Filter(tasks []client.Task, query string) []client.Task {
	if query == "" {
		return tasks
	}
	q := strings.ToLower(query)
	out := make([]client.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits tasks into completed and pending subsets, preserving the
// original relative order in each.
func Partition(tasks []client.Task) (completed, pending []client.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return completed, pending
}

// Overdue reports whether the task's due date falls on a calendar day
// strictly before now's, and the task is not yet completed. An absent or
// malformed due date is never overdue. Display-only classification.
func Overdue(t client.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, err := time.ParseInLocation(client.DueDateLayout, t.DueDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// IsOverdue is Overdue against the current local date.
func IsOverdue(t client.Task) bool {
	return Overdue(t, time.Now())
}
