package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aanand-mishra/students-manager/internal/client"
	"github.com/aanand-mishra/students-manager/internal/config"
	"github.com/aanand-mishra/students-manager/internal/logger"
	"github.com/aanand-mishra/students-manager/internal/store"
)

// app carries the state shared by every subcommand once the root's
// PersistentPreRunE has run.
type app struct {
	configPath string
	apiURL     string
	verbose    bool

	cfg    *config.Config
	log    *slog.Logger
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "students",
		Short: "Manage student records on a students backend",
		Long: `students talks to the /students REST resource of a students backend.

Use the subcommands for one-off changes or "students tui" for the
interactive list and form.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the configuration YAML file (or CONFIG_PATH)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "backend base URL, overrides the config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.tuiCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	path := a.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.BaseURL = a.apiURL
	}
	a.cfg = cfg

	a.log = logger.Quiet(cmd.ErrOrStderr())
	if a.verbose {
		a.log = logger.Setup(cfg.Env, cmd.ErrOrStderr())
	}

	a.client, err = client.New(cfg.BaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(a.log),
	)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	return nil
}

// newStore builds a store over the shared client with the configured
// stale-response policy.
func (a *app) newStore(log *slog.Logger) *store.Store {
	return store.New(a.client,
		store.WithLogger(log),
		store.WithStaleGuard(a.cfg.DiscardStaleResponses),
	)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
