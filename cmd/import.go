package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/langseed/internal/importer"
)

var importCfg = importer.DefaultConfig()
var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import vocabulary from an xlsx, csv, json or text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := importCfg
		cfg.FilePath = args[0]
		cfg.Format = importer.Format(importFormat)

		result, err := importer.Import(ctx, a.store, cfg, time.Now(), a.log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed %d entries: %d created, %d updated, %d skipped\n",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	f := importCmd.Flags()
	f.StringVar(&importFormat, "format", "", "file format: xlsx, csv, json or text (default from extension)")
	f.StringVar(&importCfg.SheetName, "sheet", "", "xlsx sheet name (default first sheet)")
	f.IntVar(&importCfg.StartRow, "start-row", importCfg.StartRow, "first data row for xlsx and csv")
	f.IntVar(&importCfg.Chapter, "chapter", importCfg.Chapter, "chapter for entries without one")
	f.StringVar(&importCfg.Source, "source", "", "source label, e.g. hsk1")
	f.StringVar(&importCfg.WordColumn, "word-col", importCfg.WordColumn, "word column")
	f.StringVar(&importCfg.PinyinColumn, "pinyin-col", importCfg.PinyinColumn, "pinyin column")
	f.StringVar(&importCfg.POSColumn, "pos-col", importCfg.POSColumn, "part of speech column")
	f.StringVar(&importCfg.MeaningColumn, "meaning-col", importCfg.MeaningColumn, "meaning column")
	f.StringVar(&importCfg.ChapterColumn, "chapter-col", importCfg.ChapterColumn, "chapter column")
}
