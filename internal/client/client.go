// Package client is a typed client for the task manager API. It replaces the
// web frontend's ambient "current user" provider with one explicit Session
// held by the Client: construct it, Login or Hydrate, pass it through the view
// layer, Logout to tear down.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnreachable wraps transport-level failures so callers can show a
// connectivity message instead of an API error.
var ErrUnreachable = errors.New("cannot reach the server")

// ErrNoSession is returned when an authenticated call is made before Login.
var ErrNoSession = errors.New("not logged in")

// APIError is a non-2xx response from the server, carrying its message field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

// User is the public shape of an account.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task mirrors the server's task wire shape.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Session is the authenticated identity: the bearer token and the user it
// asserts. Zero value means logged out.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SessionStore persists a session between runs (hydrate on start, clear on
// logout). May be nil for a purely in-memory session.
type SessionStore interface {
	Save(s Session) error
	Load() (Session, bool, error)
	Clear() error
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues API calls and reconciles the local session with server
// responses. Not safe for concurrent use.
type Client struct {
	client  httpClient
	baseURL url.URL
	store   SessionStore
	session Session
}

// New returns a Client talking to baseURL. store may be nil.
func New(client httpClient, baseURL url.URL, store SessionStore) *Client {
	return &Client{client: client, baseURL: baseURL, store: store}
}

// Session returns the current session. Zero value when logged out.
func (c *Client) Session() Session { return c.session }

// Authenticated reports whether a session is held.
func (c *Client) Authenticated() bool { return c.session.Token != "" }

// Hydrate restores a persisted session and verifies it against the server.
// A rejected or missing session leaves the client logged out without error.
func (c *Client) Hydrate(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	s, ok, err := c.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	c.session = s
	u, err := c.CurrentUser(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			// Expired or revoked by secret rotation: drop the stale session.
			c.session = Session{}
			_ = c.store.Clear()
			return nil
		}
		c.session = Session{}
		return err
	}
	c.session.User = u
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, name, email, password string) (User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "api/auth/register", body)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(env.Data, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.do(ctx, http.MethodPost, "api/auth/login", body)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(env.User, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	c.session = Session{Token: env.Token, User: u}
	if c.store != nil {
		_ = c.store.Save(c.session)
	}
	return u, nil
}

// Logout clears the local session and tells the server to drop its cookie.
// The local state is cleared even if the request fails: logout is client-side
// teardown, not token revocation.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "api/auth/logout", nil)
	c.session = Session{}
	if c.store != nil {
		_ = c.store.Clear()
	}
	return err
}

// CurrentUser fetches the account behind the current session.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	if !c.Authenticated() {
		return User{}, ErrNoSession
	}
	env, err := c.do(ctx, http.MethodGet, "api/auth/me", nil)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(env.User, &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// Tasks returns the current user's task list.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	if !c.Authenticated() {
		return nil, ErrNoSession
	}
	env, err := c.do(ctx, http.MethodGet, "api/tasks", nil)
	if err != nil {
		return nil, err
	}
	var list []Task
	if err := json.Unmarshal(env.Data, &list); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return list, nil
}

// CreateTaskRequest is the body for CreateTask. Status defaults to Todo.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate"` // YYYY-MM-DD or RFC3339
}

// UpdateTaskRequest is a merge patch: nil fields stay unchanged on the server.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// CreateTask creates a task owned by the current user.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error) {
	if !c.Authenticated() {
		return Task{}, ErrNoSession
	}
	env, err := c.do(ctx, http.MethodPost, "api/tasks", req)
	if err != nil {
		return Task{}, err
	}
	var t Task
	if err := json.Unmarshal(env.Data, &t); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, nil
}

// UpdateTask applies a merge patch to one of the current user's tasks.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (Task, error) {
	if !c.Authenticated() {
		return Task{}, ErrNoSession
	}
	env, err := c.do(ctx, http.MethodPatch, "api/tasks/"+id, req)
	if err != nil {
		return Task{}, err
	}
	var t Task
	if err := json.Unmarshal(env.Data, &t); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, nil
}

// DeleteTask permanently removes one of the current user's tasks.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if !c.Authenticated() {
		return ErrNoSession
	}
	_, err := c.do(ctx, http.MethodDelete, "api/tasks/"+id, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return envelope{}, err
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return envelope{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var env envelope
	if len(raw) > 0 {
		// A failed decode of an error body still yields the status code below.
		_ = json.Unmarshal(raw, &env)
	}
	if resp.StatusCode >= 400 || (len(raw) > 0 && !env.Success) {
		return envelope{}, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}
