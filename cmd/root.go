package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/macterm/quillkit/internal/app"
	"github.com/macterm/quillkit/internal/commands"
	"github.com/macterm/quillkit/internal/config"
	"github.com/macterm/quillkit/internal/logging"
	"github.com/macterm/quillkit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	dryRun  bool
	cfg     *config.Config
	logger  *logging.Logger
	current *app.App
)

var rootCmd = &cobra.Command{
	Use:   `qk`,
	Short: `quillkit drives a terminal's double-click selection and URL/file open handlers from the shell.`,
	Long: `quillkit holds the word boundary scanner, the URL and file handlers and the
dumb terminal renderer that a terminal engine registers at startup. Each piece
can be run on its own from here.

Without a subcommand the configured initial workspace (workspace.initial) is
opened.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if a.InitialWorkspace() == "" {
			return cmd.Help()
		}
		return a.Start(cmd.Context())
	},
}

func Execute() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config-file", "c", "", "config file (supports .yml, .json, .toml, .env)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print session commands instead of starting them")

	rootCmd.AddCommand(commands.NewWordCmd(getApp))
	rootCmd.AddCommand(commands.NewRenderCmd(getApp))
	rootCmd.AddCommand(commands.NewOpenCmd(getApp))
	rootCmd.AddCommand(commands.NewKvpCmd())
	rootCmd.AddCommand(commands.NewCwdCmd(getApp))
	rootCmd.AddCommand(commands.NewSelectCmd(getApp))
	rootCmd.AddCommand(commands.NewSelfCmd())

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.LoadConfig(rootCmd.PersistentFlags(), cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err = logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Debug: cfg.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.Logger)
	logger.Debug("DEBUG logging enabled", "config_file", cfg.ConfigFile)

	// Ensure data directories exist
	if err := utils.EnsureDirs(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}
}

// getApp builds the startup context on first use so that commands which do
// not need it never start one.
func getApp() (*app.App, error) {
	if current != nil {
		return current, nil
	}
	a, err := app.New(cfg, logger.Logger)
	if err != nil {
		return nil, err
	}
	current = a
	return current, nil
}

func shutdown() {
	if current != nil {
		current.Close(context.Background())
	}
	if logger != nil {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
		}
	}
}
