// Package export serializes extraction results to CSV, JSON, and Excel.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rollscan/rollscan/internal/fields"
	"github.com/rollscan/rollscan/internal/pipeline"
	"github.com/rollscan/rollscan/internal/records"
)

// Format names a supported output serialization.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "xlsx"
)

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported output extension on %q (use .csv, .json, or .xlsx)", path)
	}
}

var columns = []string{
	"page", "box", "serial", "epic", "name",
	"relation_type", "relation_name", "house_no",
	"age", "gender", "quality", "duplicate",
}

func row(r records.VoterRecord) []string {
	return []string{
		strconv.Itoa(r.Provenance.Page),
		strconv.Itoa(r.Provenance.Box),
		intCell(r.Serial),
		strCell(r.EPIC),
		strCell(r.Name),
		strCell(r.RelationType),
		strCell(r.RelationName),
		strCell(r.HouseNo),
		intCell(r.Age),
		strCell(r.Gender),
		string(r.Quality),
		strconv.FormatBool(r.Duplicate),
	}
}

// Invalid fields export empty cells; the raw text stays in the JSON
// output for auditing.
func strCell(f fields.StringField) string { return f.String() }

func intCell(f fields.IntField) string {
	v, ok := f.Int()
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, recs []records.VoterRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full run (pages, records, summary) as indented
// JSON.
func WriteJSON(w io.Writer, run *pipeline.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encode run json: %w", err)
	}
	return nil
}

// WriteRun writes the run to path in the format implied by its
// extension.
func WriteRun(path string, run *pipeline.RunResult) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatExcel {
		return WriteExcel(path, run.Records, run.Summary)
	}

	f, err := os.Create(path) //nolint:gosec // G304: user-chosen output path
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatCSV:
		err = WriteCSV(f, run.Records)
	case FormatJSON:
		err = WriteJSON(f, run)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
