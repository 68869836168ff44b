// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivanvallejoss/smartexpense/internal/config"
	"github.com/ivanvallejoss/smartexpense/internal/container"

	"github.com/spf13/cobra"
)

// UserIDEnv names the environment variable holding the default --user.
const UserIDEnv = "SMARTEXPENSE_USER_ID"

var (
	// ConfigFile is an explicit configuration file path.
	ConfigFile string
	// LogLevel overrides log.level when set.
	LogLevel string

	app *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "smartexpense",
		Short: "Turn free-form expense messages into categorized expenses.",
		Long: `smartexpense parses messages such as "Pizza 2000" or "$1.500,50 supermercado",
extracts the amount and description, and suggests a spending category
learned from the user's history, category keywords and a default table.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return Shutdown()
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Configuration file (default searches config.yaml)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	if app != nil {
		return nil
	}
	config.LoadEnv()

	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return err
	}
	if LogLevel != "" {
		cfg.Log.Level = strings.ToLower(LogLevel)
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	app = c
	return nil
}

// SetContainer installs an already wired container, replacing the one the
// root command would build.
func SetContainer(c *container.Container) {
	app = c
}

// App returns the application container.
func App() (*container.Container, error) {
	if app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}

// Shutdown closes the container, if any.
func Shutdown() error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}

// AddUserFlag registers --user on cmd, defaulting to $SMARTEXPENSE_USER_ID.
func AddUserFlag(cmd *cobra.Command, target *int64) {
	cmd.Flags().Int64VarP(target, "user", "u", 0, "User ID (default $"+UserIDEnv+")")
}

// ResolveUserID returns the --user value, falling back to the environment.
func ResolveUserID(flagValue int64) (int64, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	raw := config.GetEnv(UserIDEnv, "")
	if raw == "" {
		return 0, fmt.Errorf("a user is required: pass --user or set %s", UserIDEnv)
	}
	var id int64
	if _, err := fmt.Sscan(raw, &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", UserIDEnv, raw)
	}
	return id, nil
}

// Context returns cmd's context or a background one.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
