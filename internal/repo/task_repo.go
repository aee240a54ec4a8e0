package repo

import (
	"context"

	dom "github.com/sushilkumar666/task-manager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo provides task persistence. Every lookup and mutation of an existing
// task is filtered by user_id in the query itself, so a task id belonging to
// another user behaves exactly like a nonexistent id.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	ListByUser(ctx context.Context, userID string) ([]dom.Task, error)
	GetByID(ctx context.Context, userID, id string) (dom.Task, error)
	Update(ctx context.Context, userID, id string, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, title, description, status, due_date, created_at, updated_at`
	var out dom.Task
	err := r.db.QueryRow(ctx, query, t.ID, t.UserID, t.Title, t.Description, string(t.Status), t.DueDate).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Status,
		&out.DueDate, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) ListByUser(ctx context.Context, userID string) ([]dom.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
			&t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id string) (dom.Task, error) {
	query := `
		SELECT id, user_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE id = $1 AND user_id = $2`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id string, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET title = $3, description = $4, status = $5, due_date = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, status, due_date, created_at, updated_at`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Description, string(patch.Status), patch.DueDate).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Delete removes the task permanently. Returns pgx.ErrNoRows when no task with
// this id is owned by userID.
func (r *PGTaskRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
