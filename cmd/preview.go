package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/langseed/internal/quiz"
	"github.com/example/langseed/pkg/models"
)

var previewCount int
var previewStrategy string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the questions a quiz would ask now without recording anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		state := a.store.Snapshot()
		opts := quiz.OptionsFromSettings(state.Settings)
		if previewCount > 0 {
			opts.QuestionCount = previewCount
		}
		if previewStrategy != "" {
			opts.Strategy = models.SelectionStrategy(previewStrategy)
			if !opts.Strategy.Valid() {
				return fmt.Errorf("unknown strategy %q", previewStrategy)
			}
		}

		session := quiz.NewGenerator(quiz.NewTimeRand()).Generate(state.Concepts, opts, time.Now())
		out := cmd.OutOrStdout()
		if len(session.Questions) == 0 {
			fmt.Fprintln(out, "Nothing to quiz.")
			return nil
		}
		for i, q := range session.Questions {
			fmt.Fprintf(out, "%d. [%s] %s\n", i+1, q.Task, q.Target.DisplayValue(q.Task.Question))
			for j, o := range q.Options {
				mark := " "
				if j == q.CorrectIndex {
					mark = "*"
				}
				fmt.Fprintf(out, "   %s %s\n", mark, o.DisplayValue(q.Task.Answer))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntVarP(&previewCount, "count", "n", 0, "number of questions (default from settings)")
	previewCmd.Flags().StringVar(&previewStrategy, "strategy", "", "override the selection strategy")
}
