package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpaulosky/blogsite/internal/auth"
	"github.com/mpaulosky/blogsite/internal/domain"
)

// PostgresUserRepository implements UserRepository using PostgreSQL. The
// resolved principal is cached for the lifetime of the instance, so
// instances must be created per request scope and never shared.
type PostgresUserRepository struct {
	pool        *pgxpool.Pool
	currentUser *domain.User
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// GetUser resolves the calling identity to a domain User. At most one store
// lookup happens per repository instance; later calls return the cached
// result.
func (r *PostgresUserRepository) GetUser(ctx context.Context, principal *auth.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, nil
	}
	if r.currentUser != nil {
		return r.currentUser, nil
	}

	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.display_name, u.user_name, u.email, u.email_confirmed,
		       COALESCE(rr.name, '')
		FROM users u
		LEFT JOIN LATERAL (
			SELECT r.name
			FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = u.id
			LIMIT 1
		) rr ON TRUE
		WHERE u.id = $1
	`, principal.UserID).Scan(&u.ID, &u.DisplayName, &u.UserName, &u.Email, &u.EmailConfirmed, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	r.currentUser = &u
	return r.currentUser, nil
}

// GetAllUsers returns every user joined with at most one role name each.
// Users without a role surface the no-role sentinel.
func (r *PostgresUserRepository) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.display_name, u.user_name, u.email, u.email_confirmed,
		       COALESCE(rr.name, $1)
		FROM users u
		LEFT JOIN LATERAL (
			SELECT r.name
			FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = u.id
			LIMIT 1
		) rr ON TRUE
		ORDER BY u.user_name
	`, domain.NoRoleAssigned)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.UserName, &u.Email, &u.EmailConfirmed, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// UpdateRoleForUser removes the user's current role, if any, then assigns
// u.Role when set. Nil and unknown users are a no-op. The at-most-one-role
// invariant is enforced here even though user_roles could hold several.
func (r *PostgresUserRepository) UpdateRoleForUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", u.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check user existence: %w", err)
	}
	if !exists {
		return nil
	}

	if _, err := tx.Exec(ctx, "DELETE FROM user_roles WHERE user_id = $1", u.ID); err != nil {
		return fmt.Errorf("remove current role: %w", err)
	}

	if u.Role != "" && u.Role != domain.NoRoleAssigned {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2
		`, u.ID, u.Role)
		if err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("assign role: role %q not found", u.Role)
		}
	}

	return tx.Commit(ctx)
}
