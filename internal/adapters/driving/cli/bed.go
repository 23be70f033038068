package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driving"
)

var (
	bedRCode     string
	bedPatientID string
	bedOutput    string
)

var generateBedCmd = &cobra.Command{
	Use:   "generate-bed",
	Short: "Export genomic intervals for recorded panels as a BED file",
	Long: `Resolves the historical gene sets selected by the filters to genomic
intervals (MANE Select exons) and writes them as a sorted, deduplicated BED
file. Without filters, every recorded association contributes its gene set.
Genes without a known coordinate mapping are skipped and counted.`,
	RunE: runGenerateBed,
}

func init() {
	generateBedCmd.Flags().StringVar(&bedRCode, "r-code", "", "only associations for this clinical code")
	generateBedCmd.Flags().StringVar(&bedPatientID, "patient", "", "only this patient's associations")
	generateBedCmd.Flags().StringVarP(&bedOutput, "output", "o", "", "destination BED file path (required)")
	_ = generateBedCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(generateBedCmd)
}

func runGenerateBed(cmd *cobra.Command, _ []string) error {
	if bedExporter == nil {
		return errors.New("bed export service not configured")
	}

	filter := driving.BedFilter{
		ClinicalCode: bedRCode,
		PatientID:    bedPatientID,
	}
	report, err := bedExporter.GenerateBed(context.Background(), filter, bedOutput)
	if err != nil {
		return fmt.Errorf("bed generation failed: %w", err)
	}

	cmd.Printf("Wrote %d intervals to %s (%d genes resolved, %d skipped).\n",
		report.Intervals, bedOutput, report.GenesResolved, report.GenesSkipped)
	return nil
}
