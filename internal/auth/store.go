package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"crumb/internal/storage"
)

// User is an account row without the password hash.
type User struct {
	ID        int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists user accounts.
type Store struct {
	db         *storage.DB
	bcryptCost int
	now        func() time.Time
}

// NewStore creates a user store. A cost of 0 falls back to the bcrypt default.
func NewStore(db *storage.DB, bcryptCost int) *Store {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{db: db, bcryptCost: bcryptCost, now: time.Now}
}

// Register creates a new account. Username and email must be unique.
func (s *Store) Register(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email, and password are required", ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	createdAt := s.now().UTC()
	res, err := s.db.Handle().ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username, email, string(hash), storage.FormatTime(createdAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read user id: %w", err)
	}

	return &User{ID: id, Username: username, Email: email, CreatedAt: createdAt}, nil
}

// Authenticate verifies a username and password and returns the account.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*User, error) {
	row := s.db.Handle().QueryRowContext(ctx,
		`SELECT user_id, username, email, password_hash, created_at FROM users WHERE username = ?`,
		strings.TrimSpace(username))

	var (
		user      User
		hash      string
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &hash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if ts, err := storage.ParseTime(createdAt); err == nil {
		user.CreatedAt = ts
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
