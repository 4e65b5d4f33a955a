// Package identity owns user account creation, credential verification and
// the startup role synchronization routine. Content repositories never touch
// password material; it lives here only.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpaulosky/blogsite/internal/domain"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match a stored account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store provides account-level persistence for users and roles.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new identity Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RoleExists reports whether a role with the given name exists.
func (s *Store) RoleExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role %s: %w", name, err)
	}
	return exists, nil
}

// CreateRole creates a role with the given name.
func (s *Store) CreateRole(ctx context.Context, name string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO roles (id, name) VALUES ($1, $2)", uuid.New().String(), name)
	if err != nil {
		return fmt.Errorf("create role %s: %w", name, err)
	}
	return nil
}

// AnyUsers reports whether any user exists in the store at all.
func (s *Store) AnyUsers(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users)").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}
	return exists, nil
}

// CreateUser persists a new user with a bcrypt-hashed password and returns
// the stored user. A missing ID is generated.
func (s *Store) CreateUser(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (id, user_name, email, display_name, password_hash, email_confirmed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.UserName, u.Email, u.DisplayName, string(hash), u.EmailConfirmed)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &u, nil
}

// AddToRole assigns the named role to the user. Assigning an already-held
// role is a no-op.
func (s *Store) AddToRole(ctx context.Context, userID, role string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`, userID, role)
	if err != nil {
		return fmt.Errorf("add user to role %s: %w", role, err)
	}
	return nil
}

// Authenticate verifies a username/password pair and returns the matching
// user with their role resolved. Unknown usernames and wrong passwords both
// yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, userName, password string) (*domain.User, error) {
	var (
		u    domain.User
		hash string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.display_name, u.user_name, u.email, u.email_confirmed,
		       u.password_hash, COALESCE(rr.name, '')
		FROM users u
		LEFT JOIN LATERAL (
			SELECT r.name
			FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = u.id
			LIMIT 1
		) rr ON TRUE
		WHERE u.user_name = $1
	`, userName).Scan(&u.ID, &u.DisplayName, &u.UserName, &u.Email, &u.EmailConfirmed, &hash, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &u, nil
}
