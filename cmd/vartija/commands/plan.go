package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlanCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a lifecycle run would do without touching anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			eng, err := buildEngine(ctx, log)
			if err != nil {
				return err
			}

			report, err := eng.Run(ctx, runParams(time.Now().UTC(), true))
			if err != nil {
				return err
			}

			switch output {
			case "yaml":
				encoded, err := yaml.Marshal(report)
				if err != nil {
					return fmt.Errorf("failed to encode plan: %w", err)
				}
				fmt.Print(string(encoded))
			default:
				printReport(report)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, yaml)")
	return cmd
}
