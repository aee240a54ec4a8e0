package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus is returned when a wire value is not a known status.
var ErrInvalidStatus = errors.New("invalid status: must be Todo, InProgress or Completed")

// Status is the task workflow state. Any state may transition to any other.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// ParseStatus validates a wire value. Empty input defaults to Todo.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusTodo, nil
	case StatusTodo, StatusInProgress, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w, got %q", ErrInvalidStatus, s)
}

// Task belongs to exactly one user; UserID is the sole basis for access control.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      Status
	DueDate     time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
