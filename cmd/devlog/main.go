package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	devlog "github.com/unowned-ai/devlog/pkg"
	"github.com/unowned-ai/devlog/pkg/config"
	pkgdb "github.com/unowned-ai/devlog/pkg/db"
	"github.com/unowned-ai/devlog/pkg/logger"
	"github.com/unowned-ai/devlog/pkg/logs"
	"github.com/unowned-ai/devlog/pkg/suggest"
	"github.com/unowned-ai/devlog/pkg/utils"
)

var (
	configPath string
	dbPath     string
	walEnabled bool
	syncMode   string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:     "devlog",
	Short:   "A personal journal of your coding sessions, with mentoring insights.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", devlog.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// loadConfig reads .env, the config file and the environment, then applies explicit flags.
func loadConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dbpath") {
		loaded.DB.Path = dbPath
	}
	if flags.Changed("wal") {
		loaded.DB.WAL = walEnabled
	}
	if flags.Changed("sync") {
		loaded.DB.Sync = syncMode
	}

	cfg = loaded
	logger.Setup(cfg.Log, os.Stderr)
	return nil
}

// openStore opens the configured database, creating and migrating it when needed.
func openStore() (*logs.Store, error) {
	path, err := utils.ResolveAndEnsureDBPath(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("opening database", slog.String("path", path), slog.Bool("wal", cfg.DB.WAL), slog.String("sync", cfg.DB.Sync))

	store, err := logs.Open(path, cfg.DB.WAL, cfg.DB.Sync)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func newService(store *logs.Store) *suggest.Service {
	return suggest.New(store, cfg.AI.Advisor())
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for devlog.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(devlog completion bash)

  Bash (persist):
    $ devlog completion bash > /etc/bash_completion.d/devlog

  Zsh:
    $ devlog completion zsh > "${fpath[1]}/_devlog"

  Fish:
    $ devlog completion fish | source
    $ devlog completion fish > ~/.config/fish/completions/devlog.fish

  PowerShell:
    PS> devlog completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	PersistentPreRunE:     func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number of devlog",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), devlog.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the DevLog database",
	Long:  `Provides commands for managing the DevLog SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the DevLog database schema to the latest version",
	Long: `Connects to the configured SQLite database and applies any necessary schema migrations
to bring the logs component up to the current application schema version. If the database
does not exist or is uninitialized, it is created with the latest schema.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := utils.ResolveAndEnsureDBPath(cfg.DB.Path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Attempting to upgrade %s component in database at: %s (WAL: %t, Sync: %s)\n",
			pkgdb.LogsDBComponent, path, cfg.DB.WAL, cfg.DB.Sync)

		dbConn, err := pkgdb.OpenDBConnection(path, cfg.DB.WAL, cfg.DB.Sync)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion)
	},
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "Path to the DevLog SQLite database file (default: per-user data directory)")
	rootCmd.PersistentFlags().BoolVar(&walEnabled, "wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode.")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", config.DefaultSyncMode, "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA).")

	dbCmd.AddCommand(dbUpgradeCmd)

	initLogsCmd()
	initServeCmd()

	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(logsCmd, tagsCmd, statsCmd, suggestCmd, moodCmd)
	rootCmd.AddCommand(serveCmd, mcpCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
