package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeAPI is an in-memory stand-in for the TaskPilot server, just enough for
// exercising the client's session and task flows.
type fakeAPI struct {
	mu       sync.Mutex
	token    string
	email    string
	password string
	userName string
	tasks    []Task
	nextID   int
	requests int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		token:    "test-token-123",
		email:    "user@example.com",
		password: "Abcdef1!",
		userName: "Test User",
		nextID:   1,
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&in)
		if in.Email != f.email || in.Password != f.password {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": f.token})
	})

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "registration successful"})
	})

	mux.HandleFunc("GET /api/auth/me", f.authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"name": f.userName},
		})
	}))

	mux.HandleFunc("GET /api/tasks", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		tasks := f.tasks
		if tasks == nil {
			tasks = []Task{}
		}
		json.NewEncoder(w).Encode(tasks)
	}))

	mux.HandleFunc("POST /api/tasks", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in TaskFields
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		t := Task{
			ID:          fmt.Sprint(f.nextID),
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			Category:    in.Category,
			Priority:    in.Priority,
		}
		f.nextID++
		f.tasks = append(f.tasks, t)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(t)
	}))

	mux.HandleFunc("PUT /api/tasks/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in TaskFields
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.tasks {
			if f.tasks[i].ID == r.PathValue("id") {
				f.tasks[i].Title = in.Title
				f.tasks[i].Description = in.Description
				f.tasks[i].DueDate = in.DueDate
				f.tasks[i].Category = in.Category
				f.tasks[i].Priority = in.Priority
				json.NewEncoder(w).Encode(f.tasks[i])
				return
			}
		}
		writeMessage(w, http.StatusNotFound, "task not found")
	}))

	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Completed bool `json:"completed"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.tasks {
			if f.tasks[i].ID == r.PathValue("id") {
				f.tasks[i].Completed = in.Completed
				json.NewEncoder(w).Encode(f.tasks[i])
				return
			}
		}
		writeMessage(w, http.StatusNotFound, "task not found")
	}))

	mux.HandleFunc("DELETE /api/tasks/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.tasks {
			if f.tasks[i].ID == r.PathValue("id") {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeMessage(w, http.StatusNotFound, "task not found")
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

func newTestClient(t *testing.T) (*Client, *fakeAPI, *MemoryTokenStore) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	tokens := &MemoryTokenStore{}
	return New(srv.URL, tokens), api, tokens
}

func TestLoginStoresTokenAndAuthorizesFetches(t *testing.T) {
	c, api, tokens := newTestClient(t)
	ctx := context.Background()

	err := c.Login(ctx, "user@example.com", "Abcdef1!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	stored, _ := tokens.Load()
	if stored != api.token {
		t.Fatalf("stored token = %q, want %q", stored, api.token)
	}

	// the fake rejects any request without Authorization: Bearer <token>
	tasks, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() after login error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("List() = %v, want empty", tasks)
	}
}

func TestLoginRejectsBadCredentialsWithServerMessage(t *testing.T) {
	c, _, tokens := newTestClient(t)

	err := c.Login(context.Background(), "user@example.com", "Wrong1!pw")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid email or password" {
		t.Errorf("message = %q, want server's message", apiErr.Message)
	}
	if stored, _ := tokens.Load(); stored != "" {
		t.Errorf("token stored on failed login: %q", stored)
	}
}

func TestWeakPasswordNeverReachesTheNetwork(t *testing.T) {
	c, api, _ := newTestClient(t)

	_, err := c.Register(context.Background(), "Ada", "ada@example.com", "abc")
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Register() error = %v, want ValidationErrors", err)
	}
	if _, ok := verrs["password"]; !ok {
		t.Errorf("expected password validation error, got %v", verrs)
	}
	if n := api.requestCount(); n != 0 {
		t.Errorf("weak password caused %d network calls, want 0", n)
	}
}

func TestRequireSessionWithoutTokenMakesNoNetworkCall(t *testing.T) {
	c, api, _ := newTestClient(t)

	_, err := c.RequireSession(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("RequireSession() error = %v, want ErrNoSession", err)
	}
	if n := api.requestCount(); n != 0 {
		t.Errorf("RequireSession without token issued %d network calls, want 0", n)
	}
}

func TestRequireSessionClearsRejectedToken(t *testing.T) {
	c, _, tokens := newTestClient(t)
	tokens.Save("stale-token")

	_, err := c.RequireSession(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("RequireSession() error = %v, want ErrSessionExpired", err)
	}
	if stored, _ := tokens.Load(); stored != "" {
		t.Errorf("rejected token still stored: %q", stored)
	}
}

func TestRequireSessionReturnsUser(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)

	u, err := c.RequireSession(context.Background())
	if err != nil {
		t.Fatalf("RequireSession() error = %v", err)
	}
	if u.Name != api.userName {
		t.Errorf("user name = %q, want %q", u.Name, api.userName)
	}
	if u.AvatarURL != PlaceholderAvatarURL {
		t.Errorf("avatar = %q, want placeholder fallback", u.AvatarURL)
	}
}

func TestCreateRejectsPastDueDateLocally(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)

	yesterday := time.Now().AddDate(0, 0, -1).Format(DueDateLayout)
	_, err := c.Create(context.Background(), TaskFields{
		Title:       "Time travel",
		Description: "already too late",
		DueDate:     yesterday,
	})
	if !errors.Is(err, ErrPastDueDate) {
		t.Fatalf("Create() error = %v, want ErrPastDueDate", err)
	}
	if n := api.requestCount(); n != 0 {
		t.Errorf("past due date caused %d network calls, want 0", n)
	}
}

func TestUpdateRejectsPastDueDateLocally(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)

	yesterday := time.Now().AddDate(0, 0, -1).Format(DueDateLayout)
	_, err := c.Update(context.Background(), "1", TaskFields{
		Title:       "Time travel",
		Description: "already too late",
		DueDate:     yesterday,
	})
	if !errors.Is(err, ErrPastDueDate) {
		t.Fatalf("Update() error = %v, want ErrPastDueDate", err)
	}
	if n := api.requestCount(); n != 0 {
		t.Errorf("past due date caused %d network calls, want 0", n)
	}
}

func TestCreateRefetchesTheList(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(DueDateLayout)
	tasks, err := c.Create(context.Background(), TaskFields{
		Title:       "Buy milk",
		Description: "two liters",
		DueDate:     tomorrow,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("Create() returned list %v, want the refetched task", tasks)
	}
}

func TestUpdateRefetchesTheList(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)
	ctx := context.Background()

	tomorrow := time.Now().AddDate(0, 0, 1).Format(DueDateLayout)
	tasks, err := c.Create(ctx, TaskFields{Title: "Buy milk", Description: "two liters", DueDate: tomorrow})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := tasks[0].ID

	dayAfter := time.Now().AddDate(0, 0, 2).Format(DueDateLayout)
	tasks, err = c.Update(ctx, id, TaskFields{
		Title:       "Buy oat milk",
		Description: "one liter",
		DueDate:     dayAfter,
		Priority:    "High",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Update() returned list of %d tasks, want 1", len(tasks))
	}
	got := tasks[0]
	if got.ID != id || got.Title != "Buy oat milk" || got.Description != "one liter" || got.DueDate != dayAfter || got.Priority != "High" {
		t.Errorf("Update() refetched task = %+v, want the replaced fields", got)
	}
}

func TestCurrentUserCache(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)
	ctx := context.Background()

	if u := c.CurrentUser(); u != nil {
		t.Fatalf("CurrentUser() before Me() = %v, want nil", u)
	}
	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	u := c.CurrentUser()
	if u == nil || u.Name != api.userName {
		t.Fatalf("CurrentUser() after Me() = %v, want %q", u, api.userName)
	}

	// a rejected session drops the cached profile
	tokens.Save("stale-token")
	if _, err := c.RequireSession(ctx); err == nil {
		t.Fatal("RequireSession() with stale token succeeded")
	}
	if u := c.CurrentUser(); u != nil {
		t.Errorf("CurrentUser() after rejected session = %v, want nil", u)
	}

	// and so does an explicit logout
	tokens.Save(api.token)
	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if err := c.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if u := c.CurrentUser(); u != nil {
		t.Errorf("CurrentUser() after Logout() = %v, want nil", u)
	}
}

func TestToggleThenListShowsCompleted(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)
	ctx := context.Background()

	tomorrow := time.Now().AddDate(0, 0, 1).Format(DueDateLayout)
	tasks, err := c.Create(ctx, TaskFields{Title: "Gym", Description: "leg day", DueDate: tomorrow})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := tasks[0].ID

	if _, err := c.Toggle(ctx, id, false); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	tasks, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !tasks[0].Completed {
		t.Errorf("task %s completed = false after Toggle(id, false), want true", id)
	}

	// toggling back submits the negation of the current flag
	if _, err := c.Toggle(ctx, id, true); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	tasks, _ = c.List(ctx)
	if tasks[0].Completed {
		t.Errorf("task %s completed = true after Toggle(id, true), want false", id)
	}
}

func TestDeleteRefetchesTheList(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)
	ctx := context.Background()

	tomorrow := time.Now().AddDate(0, 0, 1).Format(DueDateLayout)
	tasks, err := c.Create(ctx, TaskFields{Title: "Gym", Description: "leg day", DueDate: tomorrow})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	tasks, err = c.Delete(ctx, tasks[0].ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Delete() returned list %v, want empty", tasks)
	}
}

func TestUnauthorizedMutationClearsToken(t *testing.T) {
	c, _, tokens := newTestClient(t)
	tokens.Save("stale-token")

	_, err := c.List(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("List() error = %v, want ErrUnauthorized", err)
	}
	if stored, _ := tokens.Load(); stored != "" {
		t.Errorf("rejected token still stored: %q", stored)
	}

	// with the token gone, the next call reports no session before dialing
	_, err = c.List(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("List() after 401 error = %v, want ErrNoSession", err)
	}
}

func TestLogoutClearsToken(t *testing.T) {
	c, api, tokens := newTestClient(t)
	tokens.Save(api.token)

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if stored, _ := tokens.Load(); stored != "" {
		t.Errorf("token still stored after logout: %q", stored)
	}
	if n := api.requestCount(); n != 0 {
		t.Errorf("Logout issued %d network calls, want 0", n)
	}
}
