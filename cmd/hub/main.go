package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"hub-go/internal/app"
	"hub-go/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	timeout time.Duration
)

func main() {
	// A .env in the working directory may set HUB_CONFIG_PATH, HUB_HOME and HUB_PASSPHRASE.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// session is an open HubApp plus the context its command runs under.
type session struct {
	*app.HubApp
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *session) Close() error {
	s.cancel()
	return s.HubApp.Close()
}

// openSession reads the config and creates a HubApp. The caller must defer Close.
// operation identifies the CLI command being run (e.g. "TodoAdd").
func openSession(cmd *cobra.Command, operation string) (*session, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	if timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(cmd.Context(), timeout)
	}

	a, err := app.NewHubApp(ctx, cfg, app.Options{
		Operation:  operation,
		Passphrase: storedPassphrase,
		Verbose:    verbose,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return &session{HubApp: a, ctx: ctx, cancel: cancel}, nil
}

func loadConfig() (*config.Config, string, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, "", fmt.Errorf("resolving paths: %w", err)
	}
	cfg, err := config.ReadFromFile(paths.Config)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, paths.Config, nil
}

var rootCmd = &cobra.Command{
	Use:          "hub",
	Short:        "Personal household hub: to-dos, notes, diary, reminders and trackers",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every level to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort storage calls after this long (0 waits forever)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(diaryCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(pomodoroCmd)
	rootCmd.AddCommand(calCmd)
}
