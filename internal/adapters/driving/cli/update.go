package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the live catalog and build a new snapshot",
	Long: `Fetches the full PanelApp catalog, builds a snapshot versioned by today's
date and promotes it to current. The previously current snapshot is archived
but stays addressable by version, so existing patient records keep resolving
against the exact panel content they were tested with.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	if catalogOrchestrator == nil {
		return errors.New("catalog service not configured")
	}

	cmd.Println("Fetching live catalog...")
	snapshot, err := catalogOrchestrator.Update(context.Background())
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	cmd.Printf("Snapshot %s is now current (%d panels).\n", snapshot.Version, snapshot.PanelCount)
	return nil
}
