package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jnylund/vartija/internal/engine"
)

func newRunCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one snapshot lifecycle run",
		Long: `Creates a snapshot for every stale or snapshot-less volume, then
deletes the snapshots the retention schedule marks redundant. With
--dry-run nothing is mutated and the intended actions are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			eng, err := buildEngine(ctx, log)
			if err != nil {
				return err
			}

			report, err := eng.Run(ctx, runParams(time.Now().UTC(), dryRun || cfg.Run.DryRun))
			if err != nil {
				return err
			}

			printReport(report)
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d snapshot operation(s) failed", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute intents without mutating anything")
	return cmd
}

func printReport(report *engine.Report) {
	if noColor {
		color.NoColor = true
	}

	if len(report.Lines) == 0 {
		fmt.Println("Nothing to do: all volumes fresh, no redundant snapshots.")
		return
	}
	for _, line := range report.Lines {
		fmt.Println(line)
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	fmt.Printf("\n%s created, %s deleted", green(len(report.Created)), red(len(report.Deleted)))
	if len(report.Errors) > 0 {
		fmt.Printf(", %s failed", red(len(report.Errors)))
		for _, err := range report.Errors {
			fmt.Printf("\n  %v", err)
		}
	}
	fmt.Println()
}
