package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/langseed/internal/backup"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a JSON backup of all concepts and settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 && args[0] != "-" {
			file, createErr := os.Create(filepath.Clean(args[0]))
			if createErr != nil {
				return fmt.Errorf("create backup file: %w", createErr)
			}
			defer func() {
				if cerr := file.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			w = file
		}

		state := a.store.Snapshot()
		if err := backup.Export(w, state, time.Now()); err != nil {
			return err
		}
		a.log.WithField("concepts", len(state.Concepts)).Info("backup exported")
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all concepts and settings with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			file, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("open backup file: %w", err)
			}
			defer file.Close()
			r = file
		}

		doc, err := backup.Restore(ctx, a.store, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d concepts from a version %d backup exported %s\n",
			len(doc.Concepts), doc.Version, doc.ExportedAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
}
