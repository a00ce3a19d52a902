// cmd/createsuperuser/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"mapayl/internal/config"
	"mapayl/internal/domain"
	"mapayl/internal/repository/postgres"
	"mapayl/internal/service"
	"mapayl/internal/util"
	"mapayl/pkg/crypto"
	"mapayl/pkg/db"
)

// passwordEnv supplies the password when -password is not given.
const passwordEnv = "MAPAYL_SUPERUSER_PASSWORD"

// superuserAccounts is the part of service.AccountService the command uses.
type superuserAccounts interface {
	CreateSuperuser(ctx context.Context, email, password string, opts ...service.CreateOption) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CheckPassword(ctx context.Context, email, password string) (*domain.User, error)
}

type createSuperuserDeps struct {
	loadCfg func() (*config.AppConfig, error)
	prepare func(cfg *config.AppConfig) (superuserAccounts, io.Closer, error)
	getenv  func(string) string
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultCreateSuperuserDeps() createSuperuserDeps {
	return createSuperuserDeps{
		loadCfg: config.LoadConfig, // also reads .env
		prepare: func(cfg *config.AppConfig) (superuserAccounts, io.Closer, error) {
			util.InitLogger(cfg.Env)
			database, err := db.NewPostgresDB(cfg.DB)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			svc := service.NewAccountService(
				database,
				database,
				postgres.NewUserRepository(),
				crypto.NewPasswordHasher(cfg.BcryptCost),
				db.BeginTx,
				db.CommitTx,
				db.RollbackTx,
				util.GetLogger(),
			)
			return svc, database, nil
		},
		getenv: os.Getenv,
		out:    os.Stdout,
	}
}

func runCreateSuperuser(args []string, deps createSuperuserDeps) error {
	def := defaultCreateSuperuserDeps()
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.getenv == nil {
		deps.getenv = def.getenv
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("createsuperuser", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "superuser email (required)")
	passwordFlag := fs.String("password", "", "superuser password (optional, falls back to $"+passwordEnv+")")
	verifyFlag := fs.Bool("verify", false, "log in with the new credentials after creating the account")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *emailFlag == "" {
		return fmt.Errorf("-email is required")
	}

	password := *passwordFlag
	if password == "" {
		password = deps.getenv(passwordEnv)
	}

	cfg, err := deps.loadCfg()
	if err != nil {
		return err
	}
	accounts, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	existing, err := accounts.GetUserByEmail(ctx, *emailFlag)
	switch {
	case err == nil:
		return fmt.Errorf("failed creating superuser: %s already exists (user_id=%s): %w",
			existing.Email, existing.ID, util.ErrDuplicateEntry)
	case !util.IsError(err, util.ErrUserNotFound):
		return fmt.Errorf("failed looking up %s: %w", *emailFlag, err)
	}

	user, err := accounts.CreateSuperuser(ctx, *emailFlag, password)
	if err != nil {
		return fmt.Errorf("failed creating superuser: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Superuser created successfully.")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
	if password == "" {
		_, _ = fmt.Fprintln(deps.out, "No password set; the account cannot log in until one is assigned.")
		return nil
	}

	if *verifyFlag {
		if _, err := accounts.CheckPassword(ctx, user.Email, password); err != nil {
			return fmt.Errorf("superuser created but login check failed: %w", err)
		}
		_, _ = fmt.Fprintln(deps.out, "Login check passed.")
	}
	return nil
}

func main() {
	if err := runCreateSuperuser(os.Args[1:], defaultCreateSuperuserDeps()); err != nil {
		zap.L().Error("createsuperuser failed", zap.Error(err))
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
