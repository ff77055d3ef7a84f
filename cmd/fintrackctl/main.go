package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nixfunds/finance-api/cmd/fintrackctl/ui"
	"github.com/nixfunds/finance-api/internal/apperror"
	"github.com/nixfunds/finance-api/internal/auth"
	"github.com/nixfunds/finance-api/internal/config"
	"github.com/nixfunds/finance-api/internal/logging"
	"github.com/nixfunds/finance-api/internal/storage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fintrackctl",
		Short:        "Administer a finance tracker deployment",
		Long:         "Operator tool for the finance tracker API: schema setup, account creation and token issuing against the configured store.",
		SilenceUsage: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply migrations (postgres) or create indexes (mongo)",
		RunE:  runMigrate,
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE:  runUserCreate,
	}
	// Flags for non-interactive mode (CI/scripting)
	userCreateCmd.Flags().String("email", "", "Account email")
	userCreateCmd.Flags().String("password", "", "Account password")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Work with bearer tokens",
	}

	tokenIssueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for an existing user",
		RunE:  runTokenIssue,
	}
	tokenIssueCmd.Flags().String("email", "", "Account email")
	_ = tokenIssueCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(migrateCmd, userCmd, tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is what every subcommand needs: config, logger and an open store
type env struct {
	cfg    *config.Config
	logger *logging.Logger
	stores *storage.Stores
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, "text")

	stores, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &env{cfg: cfg, logger: logger, stores: stores}, nil
}

func (e *env) close(ctx context.Context) {
	if err := e.stores.Close(ctx); err != nil {
		e.logger.Error("failed to close store", "error", err.Error())
	}
}

func (e *env) authService() (*auth.Service, error) {
	tokens, err := auth.NewTokenService(e.cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	return auth.NewService(e.stores.Users, tokens, e.logger, e.cfg.Auth.TokenTTL), nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := openEnv(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer e.close(ctx)

	if err := e.stores.Migrate(ctx); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("%s store is up to date", e.cfg.Store.Driver))
	return nil
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	// Interactive mode when either flag is missing
	if email == "" || password == "" {
		creds, err := ui.RunUserForm(email)
		if err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		email, password = creds.Email, creds.Password
	}

	e, err := openEnv(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer e.close(ctx)

	svc, err := e.authService()
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	session, err := svc.Signup(ctx, email, password)
	if err != nil {
		printAppError(err)
		return err
	}

	u, err := e.stores.Users.GetByEmail(ctx, session.Email)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	ui.PrintUser(u.ID.String(), u.Email)
	return nil
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("email")

	e, err := openEnv(ctx)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer e.close(ctx)

	svc, err := e.authService()
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	session, err := svc.IssueToken(ctx, email)
	if err != nil {
		printAppError(err)
		return err
	}

	ui.PrintToken(session.Email, session.Token, e.cfg.Auth.TokenTTL)
	return nil
}

func printAppError(err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		ui.PrintError(err.Error())
		return
	}
	if len(appErr.Details) > 0 {
		ui.PrintViolations(appErr.Details)
		return
	}
	ui.PrintError(appErr.Message)
}
