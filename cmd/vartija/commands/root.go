package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jnylund/vartija/internal/apperrors"
	"github.com/jnylund/vartija/internal/config"
	"github.com/jnylund/vartija/internal/logger"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
	cfg      *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vartija",
	Short: "Keeps a fleet of EBS volumes snapshotted and pruned",
	Long: `VARTIJA - the guardian of your volume snapshots.

Vartija watches a configured fleet of EBS volumes under two competing
constraints: freshness (no volume goes too long without a snapshot) and
cost (no more snapshots than the tiered retention schedule allows).

Recent history stays dense, then thins to one snapshot per day, per week
and per month as it ages.

USAGE:
  vartija run              # create missing snapshots, purge redundant ones
  vartija plan             # show what a run would do, touch nothing
  vartija status           # per-volume snapshot freshness
  vartija daemon           # run on a cron schedule`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(apperrors.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vartija/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newDaemonCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// initConfig loads configuration for every subcommand.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newLogger builds the run logger; the flag overrides the config level.
func newLogger() logger.Logger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.NewLogrus(level)
}
