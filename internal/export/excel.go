package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rollscan/rollscan/internal/records"
)

const (
	recordsSheet = "Voters"
	summarySheet = "Summary"
)

// WriteExcel writes records and the run summary to an xlsx workbook.
// Duplicate rows get a highlighted fill so reviewers spot them without
// filtering.
func WriteExcel(path string, recs []records.VoterRecord, summary records.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeRecordsSheet(f, recs); err != nil {
		return err
	}
	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRecordsSheet(f *excelize.File, recs []records.VoterRecord) error {
	idx, err := f.NewSheet(recordsSheet)
	if err != nil {
		return fmt.Errorf("create records sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	dupStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
	})
	if err != nil {
		return fmt.Errorf("create duplicate style: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	end, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(recordsSheet, "A1", end, headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, rec := range recs {
		cells := row(rec)
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(recordsSheet, cell, &values); err != nil {
			return fmt.Errorf("write record row %d: %w", i+1, err)
		}
		if rec.Duplicate {
			end, _ := excelize.CoordinatesToCellName(len(columns), i+2)
			if err := f.SetCellStyle(recordsSheet, cell, end, dupStyle); err != nil {
				return fmt.Errorf("style duplicate row %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary records.Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]any{
		{"total", summary.Total},
		{"complete", summary.Complete},
		{"partial", summary.Partial},
		{"low", summary.Low},
		{"duplicates", summary.Duplicates},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return nil
}
