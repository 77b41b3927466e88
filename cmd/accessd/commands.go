package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/internal/db"
	"github.com/diewo77/go-access/internal/models"
	"github.com/diewo77/go-access/internal/policy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run DB migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		if err := db.Apply(e.db, e.cfg.Database, e.cfg.App.Migrations); err != nil {
			return err
		}
		e.logger.Info("migrations completed", zap.Bool("sql", e.cfg.App.Migrations))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed profiles, permissions and the bootstrap admin, then exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		if err := db.Seed(e.db, e.adminSeed()); err != nil {
			return err
		}
		e.logger.Info("seeding completed")
		return nil
	},
}

var (
	checkUser   uint
	checkAction string
	checkKind   string
	checkPost   uint
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Print whether a user may perform an action on a kind or a post",
	Example: `  accessd check --user 2 --action create --kind Posts
  accessd check --user 2 --action update --post 7`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if checkAction == "" {
			return errors.New("--action is required")
		}
		if checkKind == "" && checkPost == 0 {
			return errors.New("one of --kind or --post is required")
		}
		e, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		var target any = access.Kind(checkKind)
		if checkPost != 0 {
			var post models.Post
			if err := e.db.WithContext(cmd.Context()).First(&post, checkPost).Error; err != nil {
				return errors.Wrapf(err, "load post %d", checkPost)
			}
			target = &post
		}

		guard := policy.NewGuard(e.db, e.cfg.Cache.ProfileTTL, e.cfg.Cache.ProfileSize, e.logger)
		ctx := auth.WithUserID(cmd.Context(), checkUser)
		allowed, err := guard.Can(ctx, access.Action(checkAction), target)
		if err != nil {
			return err
		}
		e.logger.Debug("check", zap.Uint("user", checkUser), zap.Bool("allowed", allowed))
		if allowed {
			fmt.Fprintln(cmd.OutOrStdout(), "allowed")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "denied")
		}
		return nil
	},
}

func init() {
	f := checkCmd.Flags()
	f.UintVar(&checkUser, "user", 0, "requester user ID (0 is anonymous)")
	f.StringVar(&checkAction, "action", "", "action to check, e.g. read or update")
	f.StringVar(&checkKind, "kind", "", "kind for a kind-level check, e.g. Posts")
	f.UintVar(&checkPost, "post", 0, "post ID for an instance check")
}
