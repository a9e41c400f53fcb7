// Command seed-admin creates an admin account or resets its password and role.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/propcodes/platform/internal/auth"
	"github.com/propcodes/platform/internal/infra"
	"github.com/propcodes/platform/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type seedOptions struct {
	email    string
	password string
	role     string
	migrate  bool
}

func newRootCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or reset an admin account",
		Long: `Create an admin account, or replace the password hash and role of an
existing one. The password may be given with --password or ADMIN_PASSWORD.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.password == "" {
				opts.password = os.Getenv("ADMIN_PASSWORD")
			}
			return runSeed(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.email, "email", "e", "", "admin email (required)")
	flags.StringVarP(&opts.password, "password", "p", "", "admin password (default $ADMIN_PASSWORD)")
	flags.StringVarP(&opts.role, "role", "r", auth.RoleAdmin, "admin role: viewer, admin or superadmin")
	flags.BoolVar(&opts.migrate, "migrate", false, "apply pending migrations first")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	ctx := cmd.Context()

	user, err := buildAdmin(opts.email, opts.password, opts.role)
	if err != nil {
		return err
	}

	if err := infra.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := infra.NewLogger(cfg.SlogLevel())

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if opts.migrate {
		if err := infra.RunMigrations(cfg.DSN(), cfg.MigrationsDir, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	if err := repository.NewPgAdminUserRepository().Upsert(ctx, pool, user); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}

	logger.Info("admin account saved", "email", user.Email, "role", user.Role)
	fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved with role %s\n", user.Email, user.Role)
	return nil
}
