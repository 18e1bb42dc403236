// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/rumble-cli/internal/config"
	"github.com/xkilldash9x/rumble-cli/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// NewRootCommand builds a fresh command tree. Each instance owns its flag
// state, so the interactive shell and tests never share parsed flags.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	var dryRun bool

	rootCmd := &cobra.Command{
		Use:     "rumble",
		Short:   "Rumble drives the game client from plain-language commands.",
		Version: Version,
		// Errors are reported once by Execute, not again by cobra.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "rumble"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}
			if dryRun {
				cfg.SetInputBackend("log")
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting rumble", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, config.Interface(cfg)))
			return nil
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml or ~/.rumble/config.yaml)")
	flags.StringP("language", "l", "", "client language: en or es")
	flags.String("backend", "", "capture backend: cdp or file")
	flags.String("frame", "", "frame image for the file capture backend")
	flags.String("debugger-url", "", "remote-debugging URL of the client")
	flags.BoolVar(&dryRun, "dry-run", false, "log mouse events instead of clicking")

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newShellCmd())
	rootCmd.AddCommand(newScreensCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// flagBindings maps persistent flags to configuration keys.
var flagBindings = map[string]string{
	"language":     "navigator.language",
	"backend":      "capture.backend",
	"frame":        "capture.frame_path",
	"debugger-url": "capture.debugger_url",
}

// initializeConfig reads the config file, if any, and binds flags so that
// flags override the file, which overrides defaults.
func initializeConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home + "/.rumble")
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	for flag, key := range flagBindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// getConfigFromContext returns the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// Execute runs the command line in os.Args.
func Execute(ctx context.Context) error {
	return ExecuteArgs(ctx, os.Args[1:])
}

// ExecuteArgs runs the given arguments against a fresh command tree and
// reports any error once.
func ExecuteArgs(ctx context.Context, args []string) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		observability.GetLogger().Debug("Command execution failed", zap.Error(err))
	}
	observability.Sync()
	return err
}
