package fields

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Clean strips non-printable runes and collapses runs of whitespace into
// single spaces.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPrint(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// infoLines splits the info block into its expected four lines (name,
// relation, house number, age/gender), padding with empty strings when
// recognition returned fewer.
func infoLines(raw string) [4]string {
	var out [4]string
	i := 0
	for _, line := range strings.Split(raw, "\n") {
		line = Clean(line)
		if line == "" {
			continue
		}
		if i == len(out)-1 {
			// Trailing noise lines fold into the last slot so the
			// age/gender line is still scanned.
			out[i] = strings.TrimSpace(out[i] + " " + line)
			continue
		}
		out[i] = line
		i++
	}
	return out
}

func (n *Normalizer) parseSerial(raw string) IntField {
	f := IntField{Raw: raw}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return f
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v <= 0 {
		return f
	}
	f.Value = v
	f.Valid = true
	return f
}

func (n *Normalizer) normalizeEPIC(raw string) StringField {
	f := StringField{Raw: raw}
	cleaned := n.nonEpic.ReplaceAllString(strings.ToUpper(Clean(raw)), "")
	f.Value = cleaned
	f.Valid = n.epicRe.MatchString(cleaned)
	return f
}

func (n *Normalizer) extractName(line string) StringField {
	f := StringField{Raw: line}
	value := line
	if m := n.nameRe.FindStringSubmatch(line); m != nil {
		value = m[1]
	}
	value = titleCase(lettersOnly(value))
	if value == "" {
		return f
	}
	f.Value = value
	f.Valid = true
	return f
}

// extractRelation parses the second info line, which names a relative and
// implies the relation type through its label ("Father's Name",
// "Husband's Name", or another guardian label).
func (n *Normalizer) extractRelation(line string) (StringField, StringField) {
	name := StringField{Raw: line}
	rel := StringField{Raw: line}

	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "father"):
		rel.Value = RelationFather
	case strings.Contains(lower, "husband"):
		rel.Value = RelationHusband
	default:
		rel.Value = RelationOther
	}
	rel.Valid = rel.Value != RelationOther || strings.Contains(lower, "name")

	// Without a separator or a recognizable label the line is too
	// garbled to trust as a relative's name.
	value := ""
	if idx := strings.IndexAny(line, ":!"); idx >= 0 {
		value = line[idx+1:]
	} else if m := n.nameRe.FindStringSubmatch(line); m != nil {
		value = m[1]
	}
	value = titleCase(lettersOnly(value))
	if value != "" {
		name.Value = value
		name.Valid = true
	}
	return name, rel
}

func (n *Normalizer) extractHouseNo(line string) StringField {
	f := StringField{Raw: line}
	value := line
	if m := n.houseRe.FindStringSubmatch(line); m != nil {
		value = m[1]
	} else if idx := strings.IndexAny(line, ":!"); idx >= 0 {
		value = line[idx+1:]
	}
	value = Clean(value)
	if value == "" {
		return f
	}
	f.Value = value
	f.Valid = true
	return f
}

func (n *Normalizer) extractAge(line string) IntField {
	f := IntField{Raw: line}
	m := n.ageRe.FindStringSubmatch(line)
	if m == nil {
		return f
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v < n.cfg.MinAge || v > n.cfg.MaxAge {
		return f
	}
	f.Value = v
	f.Valid = true
	return f
}

func (n *Normalizer) extractGender(line string) StringField {
	f := StringField{Raw: line}
	m := n.genderRe.FindStringSubmatch(line)
	if m == nil {
		return f
	}
	switch strings.ToLower(m[1]) {
	case "male", "m":
		f.Value = GenderMale
		f.Valid = true
	case "female", "f", "fmale", "femal":
		f.Value = GenderFemale
		f.Valid = true
	}
	return f
}

// lettersOnly keeps letters and single spaces; OCR noise in name text
// is overwhelmingly punctuation and stray digits.
func lettersOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range Clean(s) {
		switch {
		case unicode.IsLetter(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
