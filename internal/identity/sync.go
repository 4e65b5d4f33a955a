package identity

import (
	"context"
	"log/slog"

	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/logger"
)

// Bootstrap administrative account, created only when the store holds no
// users at all. Local defaults, not production secrets.
const (
	BootstrapUserName = "admin@localhost"
	BootstrapEmail    = "admin@localhost"
	BootstrapPassword = "Admin123!"
	BootstrapDisplay  = "Admin"
)

// Synchronizer ensures the fixed role set and a bootstrap admin account
// exist. It runs once at startup, before the server accepts traffic; any
// failure is fatal to startup and must be propagated by the caller.
type Synchronizer struct {
	store *Store
}

// NewSynchronizer creates a new Synchronizer over the identity store.
func NewSynchronizer(store *Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// Run executes the synchronization routine. It is idempotent: after the
// first successful run every step is a no-op.
func (s *Synchronizer) Run(ctx context.Context) error {
	// Role order is fixed; reordering changes the observable side effects.
	for _, role := range domain.AllRoles {
		exists, err := s.store.RoleExists(ctx, role)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.store.CreateRole(ctx, role); err != nil {
			return err
		}
		logger.Info("Created role", slog.String("role", role))
	}

	// Global existence check, not per-role.
	anyUsers, err := s.store.AnyUsers(ctx)
	if err != nil {
		return err
	}
	if anyUsers {
		return nil
	}

	admin, err := s.store.CreateUser(ctx, domain.User{
		DisplayName:    BootstrapDisplay,
		UserName:       BootstrapUserName,
		Email:          BootstrapEmail,
		EmailConfirmed: true,
	}, BootstrapPassword)
	if err != nil {
		return err
	}
	logger.Info("Created bootstrap admin user", slog.String("user_name", BootstrapUserName))

	if err := s.store.AddToRole(ctx, admin.ID, domain.RoleAdmin); err != nil {
		return err
	}
	logger.Info("Assigned bootstrap admin user to Admin role")

	return nil
}
