package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge the local state with the remote mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.openMirror()
		if err != nil {
			return err
		}
		defer m.Close()

		result, err := m.Sync(ctx, a.store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d concepts (%d newer locally, %d newer remotely, %d new from remote)\n",
			result.Pushed, result.LocalNewer, result.RemoteNewer, result.RemoteOnly)
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Overwrite the remote mirror with the local state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.openMirror()
		if err != nil {
			return err
		}
		defer m.Close()

		state := a.store.Snapshot()
		if err := m.Push(ctx, state); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d concepts\n", len(state.Concepts))
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncPushCmd)
	rootCmd.AddCommand(syncCmd)
}
