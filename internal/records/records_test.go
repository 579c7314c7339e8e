package records

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rollscan/rollscan/internal/fields"
)

func completeFields(epic string, serial int) fields.FieldSet {
	return fields.FieldSet{
		Serial: fields.IntField{Value: serial, Valid: true},
		EPIC:   fields.StringField{Value: epic, Valid: true},
		Name:   fields.StringField{Value: "Ram Kumar", Valid: true},
		Age:    fields.IntField{Value: 34, Valid: true},
		Gender: fields.StringField{Value: fields.GenderMale, Valid: true},
	}
}

func TestGradeComplete(t *testing.T) {
	rec := New(completeFields("ABC1234567", 1), Provenance{Page: 1, Box: 0})
	assert.Equal(t, QualityComplete, rec.Quality)
}

func TestGradePartial(t *testing.T) {
	fs := completeFields("ABC1234567", 1)
	fs.Age.Valid = false
	rec := New(fs, Provenance{})
	assert.Equal(t, QualityPartial, rec.Quality)

	fs = fields.FieldSet{Serial: fields.IntField{Value: 9, Valid: true}}
	rec = New(fs, Provenance{})
	assert.Equal(t, QualityPartial, rec.Quality)
}

func TestGradeLow(t *testing.T) {
	rec := New(fields.FieldSet{}, Provenance{Page: 3, Box: 7})
	assert.Equal(t, QualityLow, rec.Quality)
	assert.Equal(t, 3, rec.Provenance.Page)
	assert.Equal(t, 7, rec.Provenance.Box)
}

func TestAssemblerFlagsDuplicates(t *testing.T) {
	a := NewAssembler()
	a.Add(completeFields("ABC1234567", 1), Provenance{Page: 1, Box: 0})
	a.Add(completeFields("XYZ7654321", 2), Provenance{Page: 1, Box: 1})
	a.Add(completeFields("ABC1234567", 3), Provenance{Page: 2, Box: 0})

	recs := a.Records()
	assert.Len(t, recs, 3)
	assert.True(t, recs[0].Duplicate, "first occurrence flagged too")
	assert.False(t, recs[1].Duplicate)
	assert.True(t, recs[2].Duplicate)
}

func TestAssemblerIgnoresInvalidEPICForDuplicates(t *testing.T) {
	a := NewAssembler()
	fs := fields.FieldSet{EPIC: fields.StringField{Value: "SHORT", Valid: false}}
	a.Add(fs, Provenance{})
	a.Add(fs, Provenance{})

	for _, r := range a.Records() {
		assert.False(t, r.Duplicate)
	}
}

func TestSummarize(t *testing.T) {
	a := NewAssembler()
	a.Add(completeFields("ABC1234567", 1), Provenance{})
	a.Add(completeFields("ABC1234567", 2), Provenance{})
	partial := completeFields("DEF1234567", 3)
	partial.Name.Valid = false
	a.Add(partial, Provenance{})
	a.Add(fields.FieldSet{}, Provenance{})

	s := a.Summarize()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Complete)
	assert.Equal(t, 1, s.Partial)
	assert.Equal(t, 1, s.Low)
	assert.Equal(t, 2, s.Duplicates)
}
