package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// BootstrapAdmin creates the configured admin account when it does not
// exist yet. It is idempotent: an existing account is left untouched.
func BootstrapAdmin(ctx context.Context, repo RepositoryManager, cfg *AppConfig, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		logger.Debug("admin bootstrap skipped, no credentials configured")
		return nil
	}

	if _, err := repo.Users().GetByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !goerrors.IsNotFound(err) {
		return err
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash admin password")
	}

	admin := &User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		Role:         RoleAdmin,
		PasswordHash: hash,
	}

	if _, err := repo.Users().Register(ctx, admin); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin user")
	}

	logger.Info("admin account created", "username", cfg.AdminUsername)
	return nil
}
