package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/internal/db"
	"github.com/diewo77/go-access/internal/models"
	"github.com/diewo77/go-access/internal/policy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		return serve(e)
	},
}

// userVerifier makes tokens of deleted users stop authenticating.
// Lookup failures are logged and reported as errors, never as a missing user.
func userVerifier(conn *gorm.DB, logger *zap.Logger) auth.UserVerifier {
	return func(ctx context.Context, uid uint) (bool, error) {
		var count int64
		err := conn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count).Error
		if err != nil {
			logger.Error("verify session user", zap.Uint("user_id", uid), zap.Error(err))
			return false, errors.Wrap(err, "verify session user")
		}
		return count > 0, nil
	}
}

func serve(e *env) error {
	cfg := e.cfg
	if err := db.Apply(e.db, cfg.Database, cfg.App.Migrations); err != nil {
		return err
	}
	// Seed default data (profiles, permissions, admin)
	if err := db.Seed(e.db, e.adminSeed()); err != nil {
		return err
	}

	tokens := auth.NewManager(cfg.Auth.SessionSecret, cfg.Auth.TokenTTL)
	tokens.SetUserVerifier(userVerifier(e.db, e.logger))
	guard := policy.NewGuard(e.db, cfg.Cache.ProfileTTL, cfg.Cache.ProfileSize, e.logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(e.db, guard, tokens, e.logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-quit:
		e.logger.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	e.logger.Info("server stopped gracefully")
	return nil
}
