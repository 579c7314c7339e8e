// Package fields turns raw recognized text into typed, validated voter
// fields. Every field carries its own validity flag; nothing here aborts
// record creation.
package fields

import (
	"errors"
	"fmt"
	"regexp"
)

// Relation codes for the relative named on a voter entry.
const (
	RelationFather  = "FTHR"
	RelationHusband = "HSBN"
	RelationOther   = "OTHR"
)

// Gender codes.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// StringField is a cleaned text field with its validity flag.
type StringField struct {
	Raw   string `json:"raw,omitempty"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// String returns the value when valid, empty otherwise.
func (f StringField) String() string {
	if f.Valid {
		return f.Value
	}
	return ""
}

// IntField is a parsed numeric field with its validity flag.
type IntField struct {
	Raw   string `json:"raw,omitempty"`
	Value int    `json:"value"`
	Valid bool   `json:"valid"`
}

// Int returns the value and whether it is valid.
func (f IntField) Int() (int, bool) { return f.Value, f.Valid }

// FieldSet holds the normalized fields extracted from one voter box.
type FieldSet struct {
	Serial       IntField    `json:"serial"`
	EPIC         StringField `json:"epic"`
	Name         StringField `json:"name"`
	RelationName StringField `json:"relation_name"`
	RelationType StringField `json:"relation_type"`
	HouseNo      StringField `json:"house_no"`
	Age          IntField    `json:"age"`
	Gender       StringField `json:"gender"`
}

// Config holds the domain pattern rules applied during normalization.
type Config struct {
	// EPICPattern is the full-match pattern for a valid EPIC code:
	// letters followed by digits of expected length.
	EPICPattern string `mapstructure:"epic_pattern" yaml:"epic_pattern" json:"epic_pattern"`

	// Plausible human-age range.
	MinAge int `mapstructure:"min_age" yaml:"min_age" json:"min_age"`
	MaxAge int `mapstructure:"max_age" yaml:"max_age" json:"max_age"`
}

// DefaultConfig returns the rules for the standard roll format.
func DefaultConfig() Config {
	return Config{
		EPICPattern: `^[A-Z]{3}[0-9]{7}$`,
		MinAge:      18,
		MaxAge:      120,
	}
}

// Validate checks the pattern rules.
func (c Config) Validate() error {
	if _, err := regexp.Compile(c.EPICPattern); err != nil {
		return fmt.Errorf("invalid EPIC pattern: %w", err)
	}
	if c.MinAge <= 0 || c.MaxAge < c.MinAge {
		return errors.New("age range is inverted")
	}
	return nil
}

// Normalizer applies cleaning and pattern rules per field kind.
type Normalizer struct {
	cfg      Config
	epicRe   *regexp.Regexp
	nonEpic  *regexp.Regexp
	ageRe    *regexp.Regexp
	genderRe *regexp.Regexp
	houseRe  *regexp.Regexp
	nameRe   *regexp.Regexp
}

// NewNormalizer compiles the configured patterns.
func NewNormalizer(cfg Config) (*Normalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fields config: %w", err)
	}
	return &Normalizer{
		cfg:     cfg,
		epicRe:  regexp.MustCompile(cfg.EPICPattern),
		nonEpic: regexp.MustCompile(`[^A-Z0-9]`),
		// OCR commonly misreads the label separator (":" as "!", "l", "+").
		ageRe:    regexp.MustCompile(`(?i)ag[ee]\s*[:!l+]?\s*(\d+)`),
		genderRe: regexp.MustCompile(`(?i)gen[de]+r\s*[:!l+]?\s*(\w+)`),
		houseRe:  regexp.MustCompile(`(?i)house\s*number\s*[:\s]\s*(.*)`),
		nameRe:   regexp.MustCompile(`(?i)(?:name|others)\s*[:!l+]?\s*(.*)`),
	}, nil
}

// Config returns the normalizer configuration.
func (n *Normalizer) Config() Config { return n.cfg }

// Normalize produces a FieldSet from the raw recognized text of the
// three sub-regions.
func (n *Normalizer) Normalize(serialRaw, epicRaw, infoRaw string) FieldSet {
	var fs FieldSet
	fs.Serial = n.parseSerial(serialRaw)
	fs.EPIC = n.normalizeEPIC(epicRaw)

	lines := infoLines(infoRaw)
	fs.Name = n.extractName(lines[0])
	fs.RelationName, fs.RelationType = n.extractRelation(lines[1])
	fs.HouseNo = n.extractHouseNo(lines[2])
	fs.Age = n.extractAge(lines[3])
	fs.Gender = n.extractGender(lines[3])
	return fs
}
