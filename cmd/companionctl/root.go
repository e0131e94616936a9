package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/wellnest/companion/internal/app"
	"github.com/wellnest/companion/internal/config"
	"github.com/wellnest/companion/internal/domain"
)

// openFunc builds the companion for one command invocation.
type openFunc func(ctx context.Context) (*app.App, error)

// openFromEnv loads configuration from the environment and logs to stderr.
func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return app.New(ctx, cfg, logger)
}

// cli carries state shared by all commands of one invocation.
type cli struct {
	open openFunc
	app  *app.App
	root *cobra.Command
}

func newCLI(open openFunc) *cli {
	c := &cli{open: open}

	c.root = &cobra.Command{
		Use:          "companionctl",
		Short:        "Talk to the wellness companion from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize companion: %w", err)
			}
			c.app = a
			return nil
		},
	}

	c.root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.chatCmd(),
		c.moodCmd(),
		c.meditationCmd(),
		c.planCmd(),
		c.digestCmd(),
	)
	return c
}

// Execute runs the command line and closes the companion whether or not the
// command failed. cobra skips post-run hooks after an error.
func (c *cli) Execute(ctx context.Context) (err error) {
	defer func() {
		if c.app == nil {
			return
		}
		if closeErr := c.app.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close companion: %w", closeErr)
		}
		c.app = nil
	}()
	return c.root.ExecuteContext(ctx)
}

func printTurns(w io.Writer, turns []domain.Turn) {
	for _, t := range turns {
		fmt.Fprintf(w, "[%s] %s\n", t.Role, t.Content)
	}
}
