// Command panelgenemapper is the CLI entry point. It wires the config
// store, the SQLite metadata store and the API clients into the core
// services, then hands control to the command tree.
package main

import (
	"fmt"
	"os"

	"github.com/Miladeb77/panelgenemapper/internal/adapters/driven/config/file"
	"github.com/Miladeb77/panelgenemapper/internal/adapters/driven/ensembl"
	"github.com/Miladeb77/panelgenemapper/internal/adapters/driven/panelapp"
	"github.com/Miladeb77/panelgenemapper/internal/adapters/driven/storage/sqlite"
	"github.com/Miladeb77/panelgenemapper/internal/adapters/driving/cli"
	"github.com/Miladeb77/panelgenemapper/internal/core/services"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings := services.NewSettingsService(configStore)

	store, err := sqlite.NewStore(settings.DataDir())
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	catalogClient := panelapp.NewClient(settings.PanelAppURL())
	coordClient := ensembl.NewClient(settings.EnsemblURL())

	snapshots := store.SnapshotStore()
	panels := store.PanelStore()

	snapshotSvc := services.NewSnapshotService(snapshots, panels, catalogClient)
	ledgerSvc := services.NewLedgerService(store.AssociationStore(), snapshots, panels)

	attempts, backoff := settings.RetryPolicy()
	reconcileSvc := services.NewReconcileService(catalogClient, snapshots, panels, attempts, backoff)

	bedSvc := services.NewBedService(ledgerSvc, coordClient, store.CoordinateCache())

	scheduler := services.NewScheduler(settings.GetSchedulerConfig(), store.SchedulerStore(), snapshotSvc)

	cli.SetVersion(version)
	cli.Initialize(cli.Dependencies{
		Catalog:   snapshotSvc,
		Ledger:    ledgerSvc,
		Reconcile: reconcileSvc,
		Bed:       bedSvc,
		Settings:  settings,
		Scheduler: scheduler,
	})

	return cli.Execute()
}
