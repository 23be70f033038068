// Package cli implements the command-line interface for panelgenemapper.
// Commands are thin adapters: they parse flags, call driving port services
// and render results. All business logic lives in the core services.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Commands check for nil so the CLI degrades cleanly when
// a dependency could not be constructed.
var (
	catalogOrchestrator driving.CatalogOrchestrator
	ledgerService       driving.Ledger
	reconcileService    driving.Reconciler
	bedExporter         driving.BedExporter
	settingsService     driving.SettingsService
	schedulerRunner     SchedulerRunner
)

// SchedulerRunner is the minimal control surface the schedule command needs.
type SchedulerRunner interface {
	Start(ctx context.Context) error
	Stop() error
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "panelgenemapper",
	Short: "Versioned gene-panel snapshots and patient panel tracking",
	Long: `panelgenemapper maintains versioned snapshots of the PanelApp gene-panel
catalog, records which panel version each patient was tested against, and
reconciles historical gene sets against the live catalog.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Dependencies carries the services the CLI commands run against.
type Dependencies struct {
	Catalog   driving.CatalogOrchestrator
	Ledger    driving.Ledger
	Reconcile driving.Reconciler
	Bed       driving.BedExporter
	Settings  driving.SettingsService
	Scheduler SchedulerRunner
}

// Initialize wires services into the command handlers. Must be called before
// Execute.
func Initialize(deps Dependencies) {
	catalogOrchestrator = deps.Catalog
	ledgerService = deps.Ledger
	reconcileService = deps.Reconcile
	bedExporter = deps.Bed
	settingsService = deps.Settings
	schedulerRunner = deps.Scheduler
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
