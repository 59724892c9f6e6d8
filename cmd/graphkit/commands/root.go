package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSkyle/graphkit/pkg/config"
	"github.com/DrSkyle/graphkit/pkg/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "graphkit",
	Short: "Scriptable graph object model",
	Long: `graphkit - build and transform graphs from YAML operation scripts

Every mutation is logged, can fire triggers and can be backed up.`,
	Version:       version.Current,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := config.DefaultGraphConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.graphkit.yaml)")
	flags.Bool("directed", defaults.Directed, "Treat graphs as directed")
	flags.String("delete-policy", string(defaults.DeletePolicy), "Edges of deleted nodes: cascade or forbid")
	flags.Bool("write-backups", defaults.WriteBackups, "Save a snapshot after every mutation")
	flags.String("backup-url", defaults.BackupURL, "Backup location: s3://bucket/prefix or a directory")
	flags.String("ledger-path", defaults.LedgerPath, "Append action-log entries to this JSONL ledger (s3:// or a file)")
	flags.Duration("observer-timeout", defaults.ObserverTimeout, "Time limit for each backup, ledger or telemetry write")
	flags.String("log-format", defaults.LogFormat, "Log format: text or json")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.Bool("color", false, "Colorize tables")
	flags.String("otel-endpoint", "", "OTLP HTTP endpoint for traces")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(runCmd, logCmd, restoreCmd, versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".graphkit.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("GRAPHKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" && !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "Warning: failed to read config:", err)
		}
	}
}

// loadConfig merges defaults, the config file, GRAPHKIT_* variables and
// flags, in increasing priority.
func loadConfig() (config.GraphConfig, error) {
	cfg := config.DefaultGraphConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(strings.ToUpper(version.String())))
	fmt.Fprintln(out, cmd.Short)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	visit := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-18s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(line))
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	fmt.Fprintln(out)
}
