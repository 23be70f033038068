package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

var (
	genesPatientID string
	genesRCode     string
	genesVersion   string
)

var retrieveGenesCmd = &cobra.Command{
	Use:   "retrieve-genes",
	Short: "Retrieve the gene content of a panel or a patient's history",
	Long: `Prints the gene set for a clinical code, resolved from a snapshot
("--version" selects one; the current snapshot otherwise), or the historical
gene sets of a patient's recorded associations.`,
	RunE: runRetrieveGenes,
}

func init() {
	retrieveGenesCmd.Flags().StringVar(&genesPatientID, "patient", "", "resolve a patient's historical gene sets")
	retrieveGenesCmd.Flags().StringVar(&genesRCode, "r-code", "", "resolve one clinical code's panel")
	retrieveGenesCmd.Flags().StringVar(&genesVersion, "version", "", "snapshot version to resolve against (default: current)")
	rootCmd.AddCommand(retrieveGenesCmd)
}

func runRetrieveGenes(cmd *cobra.Command, _ []string) error {
	switch {
	case genesPatientID != "":
		return retrievePatientGenes(cmd)
	case genesRCode != "":
		return retrievePanelGenes(cmd)
	default:
		return errors.New("one of --patient or --r-code is required")
	}
}

func retrievePanelGenes(cmd *cobra.Command) error {
	if catalogOrchestrator == nil {
		return errors.New("catalog service not configured")
	}

	rec, err := catalogOrchestrator.GetPanel(context.Background(), genesVersion, genesRCode)
	if err != nil {
		return fmt.Errorf("retrieve genes failed: %w", err)
	}

	cmd.Printf("%s (%s, panel version %s, snapshot %s): %d genes\n",
		rec.ClinicalCode, rec.Name, rec.PanelVersion, rec.SnapshotVersion, rec.Genes.Len())
	for _, gene := range rec.Genes.Sorted() {
		cmd.Println(gene)
	}
	return nil
}

func retrievePatientGenes(cmd *cobra.Command) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	ctx := context.Background()
	assocs, err := ledgerService.ListByPatient(ctx, genesPatientID)
	if err != nil {
		return fmt.Errorf("retrieve genes failed: %w", err)
	}

	for _, assoc := range assocs {
		genes, err := ledgerService.ResolveGenes(ctx, assoc)
		if err != nil {
			return fmt.Errorf("resolving genes for %s on %s: %w",
				assoc.ClinicalCode, assoc.TestDate.Format(domain.TestDateLayout), err)
		}
		cmd.Printf("%s on %s (snapshot %s): %d genes\n",
			assoc.ClinicalCode, assoc.TestDate.Format(domain.TestDateLayout),
			assoc.SnapshotVersion, genes.Len())
		for _, gene := range genes.Sorted() {
			cmd.Println("  " + gene)
		}
	}
	return nil
}
