package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rollscan/rollscan/internal/fields"
	"github.com/rollscan/rollscan/internal/pipeline"
	"github.com/rollscan/rollscan/internal/records"
	"github.com/rollscan/rollscan/internal/utils"
)

func sampleRecords() []records.VoterRecord {
	asm := records.NewAssembler()
	asm.Add(fields.FieldSet{
		Serial: fields.IntField{Value: 1, Valid: true},
		EPIC:   fields.StringField{Value: "ABC1234567", Valid: true},
		Name:   fields.StringField{Value: "Ram Kumar", Valid: true},
		Age:    fields.IntField{Value: 34, Valid: true},
		Gender: fields.StringField{Value: fields.GenderMale, Valid: true},
	}, records.Provenance{Page: 1, Box: 0, Rect: utils.Box{X: 10, Y: 10, W: 300, H: 150}})
	asm.Add(fields.FieldSet{
		Serial: fields.IntField{Value: 2, Valid: true},
		EPIC:   fields.StringField{Value: "ABC1234567", Valid: true},
	}, records.Provenance{Page: 2, Box: 3})
	return asm.Records()
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		format  Format
		wantErr bool
	}{
		{"out.csv", FormatCSV, false},
		{"out.JSON", FormatJSON, false},
		{"dir/out.xlsx", FormatExcel, false},
		{"out.txt", "", true},
		{"out", "", true},
	}
	for _, tt := range tests {
		f, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.format, f)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "1", rows[1][0])  // page
	assert.Equal(t, "1", rows[1][2])  // serial
	assert.Equal(t, "ABC1234567", rows[1][3])
	assert.Equal(t, "complete", rows[1][10])
	assert.Equal(t, "true", rows[1][11])

	// Invalid fields export as empty cells.
	assert.Equal(t, "", rows[2][4]) // name
	assert.Equal(t, "", rows[2][8]) // age
	assert.Equal(t, "partial", rows[2][10])
}

func TestWriteJSON(t *testing.T) {
	run := &pipeline.RunResult{
		Pages:   []*pipeline.PageResult{{Page: 1, Width: 100, Height: 100}},
		Records: sampleRecords(),
	}
	run.Summary = records.Summary{Total: 2, Complete: 1, Partial: 1, Duplicates: 2}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run))

	var decoded pipeline.RunResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Records, 2)
	assert.Equal(t, "ABC1234567", decoded.Records[0].EPIC.Value)
	assert.True(t, decoded.Records[1].Duplicate)
	assert.Equal(t, 2, decoded.Summary.Total)
}

func TestWriteExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	recs := sampleRecords()
	require.NoError(t, WriteExcel(path, recs, records.Summary{Total: 2, Complete: 1, Partial: 1, Duplicates: 2}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows(recordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "epic", rows[0][3])
	assert.Equal(t, "ABC1234567", rows[1][3])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, []string{"total", "2"}, summary[0][:2])
}

func TestWriteRunByExtension(t *testing.T) {
	run := &pipeline.RunResult{Records: sampleRecords()}

	dir := t.TempDir()
	require.NoError(t, WriteRun(filepath.Join(dir, "out.csv"), run))
	require.NoError(t, WriteRun(filepath.Join(dir, "out.json"), run))
	require.NoError(t, WriteRun(filepath.Join(dir, "out.xlsx"), run))
	assert.Error(t, WriteRun(filepath.Join(dir, "out.txt"), run))
}
