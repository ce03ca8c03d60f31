package vocab

import (
	"regexp"
	"strings"
)

// PropertyRecord is the semantic description of one measurement column.
type PropertyRecord struct {
	PropertyID string `json:"property_id"`
	Column     string `json:"csv_column"`
	// Unit is a QUDT code, UnitlessCode when unknown.
	Unit        string `json:"unit"`
	Description string `json:"description"`
	// MeasurementKey is empty when no dictionary entry matched.
	MeasurementKey string `json:"measurement_type,omitempty"`
	EnumKind       string `json:"enum_kind,omitempty"`
	StatNode       string `json:"stat_node"`
	LogicalNode    string `json:"logical_node"`
	ValueType      string `json:"value_type"`
	DataType       string `json:"data_type"`
}

// Matched reports whether the record was resolved against the dictionary.
func (r PropertyRecord) Matched() bool { return r.MeasurementKey != "" }

// Columns that never describe a measurement. Matched case-sensitively.
var skipColumns = map[string]bool{
	"timestamp":     true,
	"id":            true,
	"device":        true,
	"ts":            true,
	"timestamp_gmt": true,
	"site":          true,
	"Time":          true,
}

// Shorter keys ("a", "w", "hz", "va") match inside almost any flattened header,
// so only longer keys take part in substring matching.
const minSubstringKeyLen = 3

var (
	trailingDigits = regexp.MustCompile(`\d+$`)
	statPrefix     = regexp.MustCompile(`^(s[1-4])(.*)$`)
	flattener      = strings.NewReplacer(".", "", "_", "")
	idCleaner      = strings.NewReplacer(".", "", " ", "")
)

// IsSkipped reports whether the header is excluded from property extraction.
func IsSkipped(h string) bool {
	return skipColumns[h] || strings.TrimSpace(h) == ""
}

// ExtractProperty derives the property record for a header. ok is false for
// skipped and blank headers; otherwise the record is fully populated.
func ExtractProperty(h string) (rec PropertyRecord, ok bool) {
	if IsSkipped(h) {
		return PropertyRecord{}, false
	}
	rec = PropertyRecord{
		PropertyID: idCleaner.Replace(h),
		Column:     h,
		Unit:       UnitlessCode,
		DataType:   DefaultDataType,
	}
	lower := strings.ToLower(h)
	tokens := strings.Split(lower, ".")

	m, found := matchTokens(tokens)
	if !found {
		m, found = matchSubstring(lower)
	}
	if found {
		rec.MeasurementKey = m.Key
		rec.Description = m.Description
		rec.EnumKind = m.EnumKind
		if m.Unit != "" {
			rec.Unit = UnitToQUDT(m.Unit)
		}
	} else {
		rec.Description = "Unmapped measurement " + h
	}
	annotate(&rec, tokens)
	return rec, true
}

// ExtractProperties returns the records of all non-skipped headers in order.
func ExtractProperties(headers []string) []PropertyRecord {
	out := make([]PropertyRecord, 0, len(headers))
	for _, h := range headers {
		if rec, ok := ExtractProperty(h); ok {
			out = append(out, rec)
		}
	}
	return out
}

func matchTokens(tokens []string) (Measurement, bool) {
	for _, tok := range tokens {
		base := trailingDigits.ReplaceAllString(tok, "")
		if i, ok := measurementIndex[base]; ok {
			return measurements[i], true
		}
	}
	return Measurement{}, false
}

func matchSubstring(lower string) (Measurement, bool) {
	flat := flattener.Replace(lower)
	for _, m := range measurements {
		if len(m.Key) < minSubstringKeyLen {
			continue
		}
		if strings.Contains(flat, m.Key) {
			return m, true
		}
	}
	return Measurement{}, false
}

// annotate fills the IEC 61850 naming parts: the statistical prefix and the
// logical node of the leading tokens, value type and data type suffixes.
func annotate(rec *PropertyRecord, tokens []string) {
	for _, tok := range tokens {
		node := tok
		if m := statPrefix.FindStringSubmatch(tok); m != nil {
			if rec.StatNode == "" {
				rec.StatNode = m[1]
			}
			node = m[2]
		}
		if rec.LogicalNode != "" {
			continue
		}
		if ln, ok := logicalNodes[node]; ok {
			rec.LogicalNode = ln.Class
		} else if ln, ok := logicalNodes[trailingDigits.ReplaceAllString(node, "")]; ok {
			rec.LogicalNode = ln.Class
		}
	}
	if len(tokens) < 2 {
		return
	}
	for _, tok := range tokens[1:] {
		if _, ok := valueTypes[tok]; ok {
			rec.ValueType = tok
			break
		}
	}
	if dt, ok := dataTypes[tokens[len(tokens)-1]]; ok {
		rec.DataType = dt.XSDType
	}
}
