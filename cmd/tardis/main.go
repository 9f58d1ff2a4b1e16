package main

import (
	"fmt"
	"os"
	"time"

	"tardis-go/internal/app"
	"tardis-go/internal/config"
	"tardis-go/internal/output"
	"tardis-go/internal/tardis"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file (or falls back to defaults) and applies
// the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaults["config_path"]
	}

	cfg, err := config.Load(configPath, config.NewConfig(defaults["base_dir"], defaults["history_dir"]))
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}

	if historyDir, _ := cmd.Flags().GetString("history-dir"); historyDir != "" {
		cfg.HistoryDir = historyDir
	}
	return cfg, configPath, nil
}

// newApp reads the config and creates a TardisApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "List", "Restore").
func newApp(cmd *cobra.Command, operation string) (*app.TardisApp, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dir, _ := cmd.Flags().GetString("dir")
	debug, _ := cmd.Flags().GetBool("debug")

	a, err := app.NewTardisApp(cfg, dir, operation, debug)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "tardis",
	Short:        "Restore files from the editor's local history",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = defaults["config_path"]
		}
		historyDir, _ := cmd.Flags().GetString("history-dir")
		if historyDir == "" {
			historyDir = defaults["history_dir"]
		}

		cfg := config.NewConfig(defaults["base_dir"], historyDir)
		if err := config.Init(configPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", configPath)
		fmt.Fprintf(out, "History Dir: %s\n", cfg.HistoryDir)
		fmt.Fprintf(out, "Base Dir:    %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", configPath)
		fmt.Fprintf(out, "History Dir: %s\n", cfg.HistoryDir)
		fmt.Fprintf(out, "Base Dir:    %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "Log Dir:     %s\n", cfg.LogDir)
		fmt.Fprintf(out, "Journal:     %s %s\n", cfg.Journal.Type, cfg.Journal.DataDir)
		for _, pattern := range cfg.Ignore {
			fmt.Fprintf(out, "Ignore:      %s\n", pattern)
		}
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List files with local history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		asTree, _ := cmd.Flags().GetBool("tree")

		a, err := newApp(cmd, "List")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.List()
		if err != nil {
			return err
		}

		if asTree {
			fmt.Fprint(cmd.OutOrStdout(), output.ListingTree(a.WorkDir().String(), entries).Render())
			return nil
		}
		return tardis.WriteListing(cmd.OutOrStdout(), entries, verbose)
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [FILE...]",
	Short: "Restore files from their latest backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, _ := cmd.Flags().GetString("entry")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp(cmd, "Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		hook := restoreHook(cmd.OutOrStdout(), cmd.InOrStdin(), !yes && stdinIsTerminal())
		actions, err := a.Restore(args, entryID, hook)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d file(s)\n", len(actions))
		return nil
	},
}

// diff command
var diffCmd = &cobra.Command{
	Use:   "diff FILE",
	Short: "Show changes since a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, _ := cmd.Flags().GetString("entry")

		a, err := newApp(cmd, "Diff")
		if err != nil {
			return err
		}
		defer a.Close()

		diff, err := a.Diff(args[0], entryID)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View restore history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		history, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(history) == 0 {
			fmt.Fprintln(out, "No restore operations recorded.")
			return nil
		}

		for _, h := range history {
			op := h.Operation
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Fprintf(out, "#%d  %-10s  %s  %-8s  %s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.Parameters,
			)
			for _, r := range h.Restores {
				fmt.Fprintf(out, "    %s  <-  %s (%s, %d bytes)\n",
					r.Path, r.BackupPath, r.BackupTimestamp.UTC().Format(tardis.TimestampFormat), r.Bytes)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("dir", "C", ".", "Working directory whose files are listed and restored")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $TARDIS_CONFIG_PATH or ~/.config/tardis.toml)")
	rootCmd.PersistentFlags().String("history-dir", "", "Editor local history directory")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolP("verbose", "v", false, "Show every backup with its timestamp and path")
	listCmd.Flags().Bool("tree", false, "Show files as a directory tree")
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().String("entry", "", "Restore this backup entry instead of the latest")
	restoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().String("entry", "", "Compare against this backup entry instead of the latest")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of operations to show")
}
