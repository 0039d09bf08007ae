package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evgeniy-krivenko/notes-collab/internal/client"
	"github.com/evgeniy-krivenko/notes-collab/internal/config"
	"github.com/evgeniy-krivenko/notes-collab/internal/entity"
	"github.com/evgeniy-krivenko/notes-collab/internal/notify"
	"github.com/evgeniy-krivenko/notes-collab/internal/session"
	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

var (
	cfg     config.ClientConfig
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "notesync",
	Short: "Collaborative notes with autosave and live updates",
	Long: `notesync talks to a notes server: list, create and share notes, and edit
a note in your own editor while collaborators' changes arrive live.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.ParseClient()
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		return slogx.InitGlobal(os.Stderr, level, cfg.Pretty)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, entity.ErrSessionExpired) || errors.Is(err, entity.ErrInvalidCredentials) {
			fmt.Fprintln(os.Stderr, "Run `notesync login` to sign in.")
		}
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// withClient opens the stored session and a client on top of it for the duration of fn.
func withClient(ctx context.Context, fn func(c *client.Client) error) error {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %v", err)
	}

	store, err := session.OpenBadger(filepath.Join(cfg.DataDir, "session"))
	if err != nil {
		return err
	}
	defer store.Close()

	var notifier notify.Notifier = notify.NewWriter(os.Stderr)
	if verbose {
		notifier = notify.Multi(notifier, notify.Log)
	}

	c, err := client.New(ctx, client.NewOptions(
		cfg.GRPCAddr,
		cfg.RealtimeURL,
		store,
		client.WithNotifier(notifier),
		client.WithRequestTimeout(cfg.RequestTimeout),
		client.WithAutosaveWindow(cfg.AutosaveWindow),
		client.WithReconnectAttempts(cfg.ReconnectAttempts),
		client.WithReconnectDelay(cfg.ReconnectDelay),
	))
	if err != nil {
		return err
	}
	defer c.Close(context.WithoutCancel(ctx))

	return fn(c)
}

// requireUser fails with the session error when nobody is logged in.
func requireUser(c *client.Client) (entity.User, error) {
	user, ok := c.User()
	if !ok {
		return entity.User{}, entity.ErrSessionExpired
	}
	return user, nil
}
