package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/internal/scheduler"
	"github.com/example/langseed/pkg/models"
)

var statsDays int
var statsWeakest int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge averages, recent accuracy and the weakest words",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		now := time.Now()
		state := a.store.Snapshot()
		active := lo.Filter(state.Concepts, func(c models.Concept, _ int) bool { return !c.Paused })

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Concepts\t%d (%d paused)\n", len(state.Concepts), len(state.Concepts)-len(active))
		fmt.Fprintf(w, "Due for review\t%d\n", scheduler.DueCount(state.Concepts, now))
		fmt.Fprintf(w, "Overall knowledge\t%.1f\n", knowledge.OverallAverage(state.Concepts))
		avg := knowledge.Averages(state.Concepts)
		for _, m := range models.AllModalities {
			fmt.Fprintf(w, "  %s\t%.1f\n", m, avg[m])
		}

		accuracy, err := database.NewAttemptRepository(a.db).AccuracyByTask(ctx, now.AddDate(0, 0, -statsDays))
		if err != nil {
			return err
		}
		if len(accuracy) > 0 {
			fmt.Fprintf(w, "\nLast %d days\n", statsDays)
			for _, t := range accuracy {
				fmt.Fprintf(w, "  %s\t%d/%d\t%.0f%%\n", t.Task, t.Correct, t.Attempts, t.Accuracy()*100)
			}
		}

		sort.SliceStable(active, func(i, j int) bool { return active[i].Knowledge < active[j].Knowledge })
		if n := min(statsWeakest, len(active)); n > 0 {
			fmt.Fprintln(w, "\nWeakest words")
			for _, c := range active[:n] {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%d\n", c.Word, c.Pinyin, c.Meaning, c.Knowledge)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "accuracy window in days")
	statsCmd.Flags().IntVar(&statsWeakest, "weakest", 5, "number of weakest words to list")
}
