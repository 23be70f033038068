package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
)

var (
	addPatientID   string
	addPatientCode string
	addPatientDate string

	listPatientID string
	listPatientRC string
)

var addPatientCmd = &cobra.Command{
	Use:   "add-patient",
	Short: "Record a patient-panel association",
	Long: `Records that a patient was tested against a clinical panel on a given
date. The association is bound to the currently active snapshot version, so
the exact gene content can be retrieved later even after catalog updates.`,
	RunE: runAddPatient,
}

var listPatientsCmd = &cobra.Command{
	Use:   "list-patients",
	Short: "List recorded patient-panel associations",
	RunE:  runListPatients,
}

func init() {
	addPatientCmd.Flags().StringVar(&addPatientID, "patient", "", "patient identifier (required)")
	addPatientCmd.Flags().StringVar(&addPatientCode, "r-code", "", "clinical code, e.g. R169 (required)")
	addPatientCmd.Flags().StringVar(&addPatientDate, "test-date", "", "test date as YYYY-MM-DD (defaults to today)")
	_ = addPatientCmd.MarkFlagRequired("patient")
	_ = addPatientCmd.MarkFlagRequired("r-code")

	listPatientsCmd.Flags().StringVar(&listPatientID, "patient", "", "only this patient's associations")
	listPatientsCmd.Flags().StringVar(&listPatientRC, "r-code", "", "only associations for this clinical code")

	rootCmd.AddCommand(addPatientCmd)
	rootCmd.AddCommand(listPatientsCmd)
}

func runAddPatient(cmd *cobra.Command, _ []string) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	testDate := addPatientDate
	if testDate == "" {
		testDate = time.Now().Format(domain.TestDateLayout)
	}

	assoc, err := ledgerService.AddAssociation(context.Background(), addPatientID, addPatientCode, testDate)
	if err != nil {
		return fmt.Errorf("add patient failed: %w", err)
	}

	cmd.Printf("Recorded %s / %s on %s (snapshot %s).\n",
		assoc.PatientID, assoc.ClinicalCode,
		assoc.TestDate.Format(domain.TestDateLayout), assoc.SnapshotVersion)
	return nil
}

func runListPatients(cmd *cobra.Command, _ []string) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	ctx := context.Background()
	var (
		assocs []domain.PatientAssociation
		err    error
	)
	switch {
	case listPatientID != "":
		assocs, err = ledgerService.ListByPatient(ctx, listPatientID)
	case listPatientRC != "":
		assocs, err = ledgerService.ListByClinicalCode(ctx, listPatientRC)
	default:
		assocs, err = ledgerService.ListAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("list patients failed: %w", err)
	}

	if len(assocs) == 0 {
		cmd.Println("No associations recorded.")
		return nil
	}

	cmd.Printf("%-20s %-8s %-12s %-10s\n", "PATIENT", "R CODE", "TEST DATE", "SNAPSHOT")
	for _, a := range assocs {
		cmd.Printf("%-20s %-8s %-12s %-10s\n",
			a.PatientID, a.ClinicalCode,
			a.TestDate.Format(domain.TestDateLayout), a.SnapshotVersion)
	}
	return nil
}
