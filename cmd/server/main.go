// Command server runs the authentication and user-management API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"

	"auth-api/api"
	"auth-api/auth"
	"auth-api/config"
	"auth-api/db/sql/postgres"
	"auth-api/httpx"
)

func main() {
	logger := log.New("server")
	logger.SetHeader("${time_rfc3339} ${level}")

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("server: %v", err)
	}
}

func run(logger *log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx,
		postgres.WithDSN(cfg.DBURL),
		postgres.WithMaxOpenConns(cfg.DBMaxOpenConns),
		postgres.WithMaxIdleConns(cfg.DBMaxIdleConns),
		postgres.WithConnMaxLifetime(cfg.DBConnMaxLifetime),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	repo := postgres.NewUserRepository(db)
	hasher := auth.NewArgon2idHasher()

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret))
	if err != nil {
		return err
	}
	csrf, err := auth.NewCSRFGenerator([]byte(cfg.CSRFSecret))
	if err != nil {
		return err
	}

	if err := seedSuperAdmin(ctx, cfg, repo, hasher, logger); err != nil {
		return err
	}

	handler, err := api.NewHandler(api.HandlerConfig{
		Store:  repo,
		Hasher: hasher,
		Tokens: tokens,
		CSRF:   csrf,
	})
	if err != nil {
		return err
	}
	routes, err := handler.Routes()
	if err != nil {
		return err
	}

	srv := httpx.NewServer(
		httpx.WithAddress(cfg.Address()),
		httpx.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		httpx.WithCORS(nil),
	)
	srv.RegisterRoutes(routes)

	logger.Infof("listening on %s", cfg.Address())
	return srv.Start(ctx, httpx.WithShutdownTimeout(cfg.ShutdownTimeout))
}

// seedSuperAdmin creates the bootstrap super-admin account when the
// environment provides one and no account with that email exists yet.
// The seeded password is hashed like any other credential.
func seedSuperAdmin(ctx context.Context, cfg *config.Config, repo *postgres.UserRepository, hasher auth.PasswordHasher, logger *log.Logger) error {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		return nil
	}

	_, err := repo.FindActiveUserByEmail(ctx, cfg.SuperAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}

	hash, err := hasher.Hash(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}
	_, err = repo.SaveUser(ctx, cfg.SuperAdminEmail, hash, []string{auth.RoleSuperAdmin.String()})
	if errors.Is(err, auth.ErrEmailInUse) {
		return nil
	}
	if err != nil {
		return err
	}

	logger.Infof("seeded super admin %s", cfg.SuperAdminEmail)
	return nil
}
