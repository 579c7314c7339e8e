// Package records assembles normalized fields into voter records and
// applies run-level checks that need visibility across pages, such as
// duplicate EPIC detection.
package records

import (
	"log/slog"

	"github.com/rollscan/rollscan/internal/fields"
	"github.com/rollscan/rollscan/internal/utils"
)

// Quality grades how much of a record could be extracted.
type Quality string

const (
	// QualityComplete means every core field parsed and validated.
	QualityComplete Quality = "complete"
	// QualityPartial means the record identifies a voter (serial or
	// EPIC) but one or more fields are missing or invalid.
	QualityPartial Quality = "partial"
	// QualityLow means nothing identifying could be extracted; the
	// record exists only as provenance for manual review.
	QualityLow Quality = "low"
)

// Provenance ties a record back to its source location.
type Provenance struct {
	Page int       `json:"page"`
	Box  int       `json:"box"`
	Rect utils.Box `json:"rect"`
}

// VoterRecord is one extracted voter entry. Fields keep their raw text
// and validity flags so downstream consumers can audit or re-enter weak
// values instead of losing them.
type VoterRecord struct {
	Serial       fields.IntField    `json:"serial"`
	EPIC         fields.StringField `json:"epic"`
	Name         fields.StringField `json:"name"`
	RelationName fields.StringField `json:"relation_name"`
	RelationType fields.StringField `json:"relation_type"`
	HouseNo      fields.StringField `json:"house_no"`
	Age          fields.IntField    `json:"age"`
	Gender       fields.StringField `json:"gender"`

	Quality    Quality    `json:"quality"`
	Duplicate  bool       `json:"duplicate,omitempty"`
	Provenance Provenance `json:"provenance"`
}

// New builds a record from a field set and grades its quality.
func New(fs fields.FieldSet, prov Provenance) VoterRecord {
	rec := VoterRecord{
		Serial:       fs.Serial,
		EPIC:         fs.EPIC,
		Name:         fs.Name,
		RelationName: fs.RelationName,
		RelationType: fs.RelationType,
		HouseNo:      fs.HouseNo,
		Age:          fs.Age,
		Gender:       fs.Gender,
		Provenance:   prov,
	}
	rec.Quality = grade(rec)
	return rec
}

func grade(r VoterRecord) Quality {
	core := r.Serial.Valid && r.EPIC.Valid && r.Name.Valid &&
		r.Age.Valid && r.Gender.Valid
	if core {
		return QualityComplete
	}
	if r.Serial.Valid || r.EPIC.Valid {
		return QualityPartial
	}
	return QualityLow
}

// Assembler collects records across a run and flags duplicate EPIC
// codes. Duplicates are kept, not dropped: a repeated EPIC usually means
// a box was detected twice or a code was misread, and both copies matter
// for review.
type Assembler struct {
	records []VoterRecord
	byEPIC  map[string][]int
}

// NewAssembler creates an empty run assembler.
func NewAssembler() *Assembler {
	return &Assembler{byEPIC: make(map[string][]int)}
}

// Add grades and appends one record.
func (a *Assembler) Add(fs fields.FieldSet, prov Provenance) VoterRecord {
	rec := New(fs, prov)
	idx := len(a.records)
	a.records = append(a.records, rec)

	if rec.EPIC.Valid {
		seen := a.byEPIC[rec.EPIC.Value]
		if len(seen) > 0 {
			a.records[idx].Duplicate = true
			for _, i := range seen {
				a.records[i].Duplicate = true
			}
			slog.Warn("duplicate EPIC",
				"epic", rec.EPIC.Value,
				"page", prov.Page,
				"box", prov.Box,
				"occurrences", len(seen)+1)
		}
		a.byEPIC[rec.EPIC.Value] = append(seen, idx)
	}
	return a.records[idx]
}

// Records returns all records added so far, in insertion order.
func (a *Assembler) Records() []VoterRecord { return a.records }

// Summary aggregates counts over the assembled records.
type Summary struct {
	Total      int `json:"total"`
	Complete   int `json:"complete"`
	Partial    int `json:"partial"`
	Low        int `json:"low"`
	Duplicates int `json:"duplicates"`
}

// Summarize tallies the assembled records by quality.
func (a *Assembler) Summarize() Summary {
	var s Summary
	s.Total = len(a.records)
	for _, r := range a.records {
		switch r.Quality {
		case QualityComplete:
			s.Complete++
		case QualityPartial:
			s.Partial++
		default:
			s.Low++
		}
		if r.Duplicate {
			s.Duplicates++
		}
	}
	return s
}
