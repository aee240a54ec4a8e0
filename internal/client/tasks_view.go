package client

import (
	"sort"
	"strings"
)

// In-memory list shaping, matching what the web UI does client-side: the API
// always returns the full owner-scoped list and filtering/sorting happen here.

// SortOrder selects a task list ordering.
type SortOrder string

const (
	SortDueDateAsc    SortOrder = "dueDate-asc"
	SortDueDateDesc   SortOrder = "dueDate-desc"
	SortCreatedAtAsc  SortOrder = "createdAt-asc"
	SortCreatedAtDesc SortOrder = "createdAt-desc"
)

// FilterByStatus returns tasks with the given status. "all" or "" passes
// everything through.
func FilterByStatus(tasks []Task, status string) []Task {
	if status == "" || status == "all" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// SearchTasks returns tasks whose title or description contains query,
// case-insensitive. An empty query passes everything through.
func SearchTasks(tasks []Task, query string) []Task {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks returns a sorted copy; the input is left untouched.
func SortTasks(tasks []Task, order SortOrder) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		switch order {
		case SortDueDateDesc:
			return out[i].DueDate.After(out[j].DueDate)
		case SortCreatedAtAsc:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case SortCreatedAtDesc:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		default: // SortDueDateAsc
			return out[i].DueDate.Before(out[j].DueDate)
		}
	})
	return out
}
