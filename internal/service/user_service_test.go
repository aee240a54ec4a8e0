package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sushilkumar666/task-manager/internal/auth"
	dom "github.com/sushilkumar666/task-manager/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeUserRepo keeps users in memory and reproduces the two Postgres errors
// the service maps: ErrNoRows and the 23505 unique violation.
type fakeUserRepo struct {
	byEmail map[string]dom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]dom.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	if _, exists := f.byEmail[u.Email]; exists {
		return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_uq"}
	}
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, auth.NewHasher(4)), repo
}

func TestUserService_Register(t *testing.T) {
	svc, repo := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.ID == "" {
		t.Error("Register() assigned no id")
	}
	if u.PasswordHash != "" {
		t.Error("Register() returned the password hash")
	}

	stored := repo.byEmail["a@x.com"]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Error("stored credential must be a hash, never the plaintext password")
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	// Conflict regardless of the password used the second time.
	if _, err := svc.Register(ctx, "B", "a@x.com", "other-password"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestUserService_RegisterEmailCaseInsensitive(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "A@X.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, "B", "a@x.com", "secret2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() with re-cased email error = %v, want ErrEmailTaken", err)
	}
}

func TestUserService_RegisterMissingFields(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	tests := []struct {
		name, userName, email, password string
	}{
		{name: "no name", email: "a@x.com", password: "p"},
		{name: "no email", userName: "A", password: "p"},
		{name: "no password", userName: "A", email: "a@x.com"},
		{name: "whitespace name", userName: "   ", email: "a@x.com", password: "p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.userName, tt.email, tt.password); !errors.Is(err, ErrMissingUserFields) {
				t.Errorf("Register() error = %v, want ErrMissingUserFields", err)
			}
		})
	}
}

func TestUserService_ValidateCredentials(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.ValidateCredentials(ctx, "nobody@x.com", "secret1"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.ValidateCredentials(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		u, err := svc.ValidateCredentials(ctx, "a@x.com", "secret1")
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if u.Email != "a@x.com" {
			t.Errorf("email = %q, want a@x.com", u.Email)
		}
		if u.PasswordHash != "" {
			t.Error("returned user still carries the password hash")
		}
	})
}
