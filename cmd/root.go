package cmd

import (
	"context"
	"fmt"
	"os"

	"clipnote/internal/app"
	"clipnote/internal/clix"
	"clipnote/internal/config"

	"github.com/spf13/cobra"
)

// skipAppAnnotation marks commands that run without the database and services.
const skipAppAnnotation = "clipnote/skip-app"

var (
	configFile string
	userIDFlag int64
)

var rootCmd = &cobra.Command{
	Use:   "clipnote",
	Short: "Capture social media videos and notes, then summarize, tag and search them",
	Long: `clipnote captures videos from YouTube, Instagram, X and Facebook, extracts
their transcripts, and builds summaries, tags and topics without needing an LLM.
Use it as a CLI, or run "clipnote serve" for the HTTP API and "clipnote worker"
for background processing.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "clipnote" {
			return nil
		}

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		app.SetupLogging(cfg)

		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		if cmd.Annotations[skipAppAnnotation] == "true" {
			cmd.SetContext(ctx)
			return nil
		}

		appInstance, err := app.NewApp(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		cmd.SetContext(context.WithValue(ctx, appKey, appInstance))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			return appInstance.Close()
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type contextKey string

const (
	appKey    contextKey = "app"
	configKey contextKey = "config"
)

// GetAppFromContext returns the app created by the root PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

// GetConfigFromContext returns the loaded configuration.
func GetConfigFromContext(ctx context.Context) (*config.Config, error) {
	if ctx == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	return cfg, nil
}

// appAndUser is the common prologue of the commands that act for a user.
func appAndUser(cmd *cobra.Command) (*app.App, int64, error) {
	appInstance, err := GetAppFromContext(cmd.Context())
	if err != nil {
		return nil, 0, err
	}
	userID, err := clix.ResolveUserID(cmd.Flags(), appInstance.Config.CLI.UserID)
	if err != nil {
		return nil, 0, err
	}
	return appInstance, userID, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./config.yaml or ~/.config/clipnote/config.yaml)")
	rootCmd.PersistentFlags().Int64Var(&userIDFlag, "user-id", 0, "User to act as (default: cli.user_id)")
}
