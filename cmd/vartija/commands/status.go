package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-volume snapshot freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			eng, err := buildEngine(ctx, log)
			if err != nil {
				return err
			}

			statuses, err := eng.Status(ctx, runParams(time.Now().UTC(), true))
			if err != nil {
				return err
			}

			if noColor {
				color.NoColor = true
			}
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VOLUME\tSNAPSHOTS\tNEWEST\tAGE\tSTATE")
			for _, s := range statuses {
				state := green("fresh")
				if s.Stale {
					state = red("stale")
				}
				newest, age := "-", "-"
				if s.NewestID != "" {
					newest = s.NewestID
					age = s.NewestAge.Round(time.Minute).String()
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", s.VolumeID, s.Snapshots, newest, age, state)
			}
			return w.Flush()
		},
	}
}
