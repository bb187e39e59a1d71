package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"fairselect/domain/audit"
)

// WriteWorkbook exports an audit record as an Excel workbook with a parity
// sheet and a config sheet
func WriteWorkbook(record *audit.Record, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const paritySheet = "Parity"
	index, err := f.NewSheet(paritySheet)
	if err != nil {
		return fmt.Errorf("failed to create parity sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []interface{}{"Group", "Total", "Selected", "Cutoff", "False Positives", "True Negatives", "FPR", "Parity Ratio", "P-Value"}
	if err := f.SetSheetRow(paritySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, g := range record.Report.Groups {
		row := []interface{}{
			g.Group.String(), g.Total, g.Selected, record.Cutoffs[g.Group],
			g.FalsePositives, g.TrueNegatives, g.FPR, g.ParityRatio, g.PValue,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(paritySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write group row: %w", err)
		}
	}

	const configSheet = "Config"
	if _, err := f.NewSheet(configSheet); err != nil {
		return fmt.Errorf("failed to create config sheet: %w", err)
	}
	configRows := [][]interface{}{
		{"Audit ID", record.ID.String()},
		{"Reference group", record.Config.ReferenceGroup.String()},
		{"Target selection count", record.Config.TargetSelectionCount},
		{"Achieved K", record.AchievedK},
		{"Iterations", record.Iterations},
		{"Threshold", record.Threshold},
		{"Step size", record.Config.StepSize},
		{"Random seed", record.Config.RandomSeed},
		{"Recall", record.Report.Recall},
	}
	for i := range configRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(configSheet, cell, &configRows[i]); err != nil {
			return fmt.Errorf("failed to write config row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
