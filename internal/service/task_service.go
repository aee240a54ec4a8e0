package service

import (
	"context"
	"errors"
	"strings"
	"time"

	dom "github.com/sushilkumar666/task-manager/internal/domain"
	"github.com/sushilkumar666/task-manager/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotFound covers both "no such task" and "task owned by someone else":
	// the two must be indistinguishable to the caller.
	ErrNotFound          = errors.New("task not found")
	ErrMissingTaskFields = errors.New("title, status and dueDate are required")
	ErrEmptyTitle        = errors.New("title cannot be empty")
)

// listCache caches per-user task lists, keyed by owner id.
// Satisfied by *cache.TaskCache.
type listCache interface {
	GetList(ctx context.Context, userID string) ([]dom.Task, error)
	SetList(ctx context.Context, userID string, list []dom.Task) error
	Invalidate(ctx context.Context, userID string) error
}

// TaskService performs owner-scoped CRUD. Every operation takes the resolved
// user id from the session middleware; a client-supplied owner field is never
// consulted.
type TaskService struct {
	repo  repo.TaskRepo
	cache listCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c listCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create stores a new task owned by userID. Status defaults to Todo.
func (s *TaskService) Create(ctx context.Context, userID, title, desc, status string, dueDate *time.Time) (dom.Task, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if title == "" || dueDate == nil {
		return dom.Task{}, ErrMissingTaskFields
	}
	st, err := dom.ParseStatus(status)
	if err != nil {
		return dom.Task{}, err
	}

	t, err := s.repo.Create(ctx, dom.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: desc,
		Status:      st,
		DueDate:     *dueDate,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns every task owned by userID, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + userID
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.ListByUser(ctx, userID)
}

// Update applies a merge patch: nil fields stay untouched. The lookup and the
// write are both filtered by userID, so another user's task id reports
// ErrNotFound.
func (s *TaskService) Update(ctx context.Context, userID, id string, title, desc, status *string, dueDate *time.Time) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if title != nil {
		v := strings.TrimSpace(*title)
		if v == "" {
			return dom.Task{}, ErrEmptyTitle
		}
		patch.Title = v
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	// An empty status in a patch counts as absent; only create defaults it.
	if status != nil && strings.TrimSpace(*status) != "" {
		st, err := dom.ParseStatus(*status)
		if err != nil {
			return dom.Task{}, err
		}
		patch.Status = st
	}
	if dueDate != nil {
		patch.DueDate = *dueDate
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task permanently. No recovery.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
