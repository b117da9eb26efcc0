package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConnections)
	db.SetMaxIdleConns(cfg.db.maxIdleConnections)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

type userCacheEntry struct {
	user      *user
	expiresAt time.Time
}

// userCache fronts the per-request user lookup done by the auth middleware so
// that a burst of requests from one session costs a single database hit.
type userCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[uuid.UUID]userCacheEntry
}

func newUserCache(ttl time.Duration) *userCache {
	c := &userCache{
		ttl:     ttl,
		entries: make(map[uuid.UUID]userCacheEntry),
	}
	go func(c *userCache) {
		ticker := time.NewTicker(time.Minute)
		for {
			<-ticker.C
			func() {
				c.mu.Lock()
				defer c.mu.Unlock()
				for k, v := range c.entries {
					if time.Now().After(v.expiresAt) {
						delete(c.entries, k)
					}
				}
			}()
		}
	}(c)
	return c
}

func (c *userCache) get(id uuid.UUID) (*user, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.user, true
}

func (c *userCache) set(u *user) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[u.ID] = userCacheEntry{
		user:      u,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *userCache) clear(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// store is what the handlers need from the persistence layer. *storage is the
// real Postgres-backed implementation; tests substitute an in-memory one.
type store interface {
	getUserByEmail(email string) (*user, error)
	getUserByID(id uuid.UUID) (*user, error)
	insertUser(u *user) error
	getTasksForUser(userID uuid.UUID) ([]task, error)
	getTaskByID(id uuid.UUID) (*task, error)
	insertTask(t *task) error
	updateTask(t *task) error
	deleteTask(t *task) error
}

type storage struct {
	db    *sql.DB
	users *userCache
}

func newStorage(db *sql.DB) *storage {
	return &storage{
		db:    db,
		users: newUserCache(time.Minute),
	}
}

func (s *storage) getUserByEmail(email string) (*user, error) {
	query := `SELECT id, created_at, name, email, password_hash, avatar_url
			  FROM users
			  WHERE email = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, email)
	var u user
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Email, &u.PasswordHash, &u.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) getUserByID(id uuid.UUID) (*user, error) {
	if u, ok := s.users.get(id); ok {
		return u, nil
	}
	query := `SELECT id, created_at, name, email, password_hash, avatar_url
			  FROM users
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, id)
	var u user
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Email, &u.PasswordHash, &u.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	s.users.set(&u)
	return &u, nil
}

func (s *storage) insertUser(u *user) error {
	u.ID = uuid.New()
	query := `INSERT INTO users (id, name, email, password_hash, avatar_url)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at`

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.AvatarURL)
	err := row.Scan(&u.CreatedAt)
	return err
}

func (s *storage) getTasksForUser(userID uuid.UUID) ([]task, error) {
	query := `SELECT id, created_at, user_id, title, description, to_char(due_date, 'YYYY-MM-DD'), category, priority, completed
			  FROM tasks
			  WHERE user_id = $1
			  ORDER BY created_at, id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task{}
	for rows.Next() {
		var t task
		err := rows.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Category, &t.Priority, &t.Completed)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *storage) getTaskByID(id uuid.UUID) (*task, error) {
	query := `SELECT id, created_at, user_id, title, description, to_char(due_date, 'YYYY-MM-DD'), category, priority, completed
			  FROM tasks
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := s.db.QueryRowContext(ctx, query, id)
	var t task
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Category, &t.Priority, &t.Completed)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &t, nil
}

func (s *storage) insertTask(t *task) error {
	t.ID = uuid.New()
	query := `INSERT INTO tasks (id, user_id, title, description, due_date, category, priority, completed)
			  VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8)
			  RETURNING created_at`

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Category, t.Priority, t.Completed)
	err := row.Scan(&t.CreatedAt)
	return err
}

func (s *storage) updateTask(t *task) error {
	query := `UPDATE tasks SET title = $1, description = $2, due_date = $3::date, category = $4, priority = $5, completed = $6
			  WHERE id = $7`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, query, t.Title, t.Description, t.DueDate, t.Category, t.Priority, t.Completed, t.ID)
	return err
}

func (s *storage) deleteTask(t *task) error {
	query := `DELETE FROM tasks
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, query, t.ID)
	return err
}
