// Package timefmt coerces heterogeneous time encodings found in telemetry
// exports (ISO strings, epoch seconds/milliseconds, scientific notation,
// free-text dates) into one canonical naive layout.
package timefmt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical output format: 2024-11-02T06:13:20 (no zone suffix).
const Layout = "2006-01-02T15:04:05"

// Magnitude above which an epoch value is taken as milliseconds. Scientific
// notation strings use a higher threshold than plain numbers; both are kept as
// is to reproduce existing output files.
const (
	scientificMillisThreshold = 1e11
	numericMillisThreshold    = 1e10
)

// maxDetailedWarnings bounds per-value warnings for one column; the remainder
// is summarized in a single line.
const maxDetailedWarnings = 10

var (
	plainNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

	// A clock reading with no date. dateparse reads these as month/day/year.
	timeOfDay = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?(\.\d+)?(\s*[AaPp][Mm])?$`)

	// Layouts tried after the free-text parser, mainly day-first (EU) orders
	// that a month-first parser rejects.
	fallbackLayouts = []string{
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"02/01/2006",
		"02.01.2006 15:04:05",
		"02.01.2006 15:04",
		"02.01.2006",
		"02-01-2006 15:04:05",
		"02-01-2006",
		"2 January 2006 15:04",
		"2 January 2006",
		"2 Jan 2006",
	}
)

// ErrUnparseable is returned when no parsing branch accepts a value.
var ErrUnparseable = errors.New("unparseable datetime")

// Normalize converts every value to Layout. It never fails as a whole: values
// no branch accepts are kept unchanged and reported in the returned warnings.
// Empty cells are passed through without a warning. The output has the same
// length and order as values.
func Normalize(values []string) ([]string, []string) {
	out := make([]string, len(values))
	var warnings []string
	failed := 0
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			out[i] = v
			continue
		}
		s, err := normalizeString(v)
		if err != nil {
			out[i] = v
			failed++
			if failed <= maxDetailedWarnings {
				warnings = append(warnings, fmt.Sprintf("could not parse datetime %q, keeping original value", v))
			}
			continue
		}
		out[i] = s
	}
	if failed > maxDetailedWarnings {
		warnings = append(warnings, fmt.Sprintf("... %d more unparseable datetime value(s) kept unchanged", failed-maxDetailedWarnings))
	}
	return out, warnings
}

// NormalizeValue converts a single value of any scalar type. Numeric values go
// straight to the epoch branch; everything else is handled as text.
func NormalizeValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return normalizeString(x)
	case time.Time:
		return x.Format(Layout), nil
	case float64:
		return fromEpoch(x, numericMillisThreshold)
	case float32:
		return fromEpoch(float64(x), numericMillisThreshold)
	case int:
		return fromEpoch(float64(x), numericMillisThreshold)
	case int64:
		return fromEpoch(float64(x), numericMillisThreshold)
	case int32:
		return fromEpoch(float64(x), numericMillisThreshold)
	case uint64:
		return fromEpoch(float64(x), numericMillisThreshold)
	default:
		return normalizeString(fmt.Sprint(v))
	}
}

func normalizeString(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "eE") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if out, err := fromEpoch(f, scientificMillisThreshold); err == nil {
				return out, nil
			}
		}
	}
	if plainNumber.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if out, err := fromEpoch(f, numericMillisThreshold); err == nil {
				return out, nil
			}
		}
	}
	if timeOfDay.MatchString(s) {
		return "", fmt.Errorf("%w: time of day without a date %q", ErrUnparseable, raw)
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t.Format(Layout), nil
	}
	for _, l := range fallbackLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format(Layout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnparseable, raw)
}

// fromEpoch renders an epoch value (seconds, or milliseconds when its
// magnitude exceeds millisThreshold) in UTC.
func fromEpoch(v, millisThreshold float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: non-finite epoch %v", ErrUnparseable, v)
	}
	if math.Abs(v) > millisThreshold {
		v /= 1000
	}
	return epochTime(v).Format(Layout), nil
}

func epochTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
