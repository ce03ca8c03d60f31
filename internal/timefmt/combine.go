package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// combinedHour is the hour every combined timestamp is pinned to.
// NOTE: existing output files were produced with the hour fixed at 12 and the
// seconds capture ignored; keep it until real expectations say otherwise.
const combinedHour = 12

var subTimePattern = regexp.MustCompile(`(\d+):(\d+)\.(\d+)`)

// Combine rebuilds one timestamp per row from the split-time layout: gmt holds
// a millisecond epoch giving the calendar date, ts holds "<minutes>:<seconds>.<fraction>".
// The result is the gmt date at hour 12, minute = minutes, second 0.
// Rows where either part is missing or malformed yield an empty cell and a warning.
func Combine(ts, gmt []string) ([]string, []string) {
	n := len(gmt)
	if len(ts) > n {
		n = len(ts)
	}
	out := make([]string, n)
	var warnings []string
	failed := 0
	for i := 0; i < n; i++ {
		var tsVal, gmtVal string
		if i < len(ts) {
			tsVal = ts[i]
		}
		if i < len(gmt) {
			gmtVal = gmt[i]
		}
		v, err := combineRow(tsVal, gmtVal)
		if err != nil {
			failed++
			if failed <= maxDetailedWarnings {
				warnings = append(warnings, fmt.Sprintf("row %d: could not combine time: %v", i+1, err))
			}
			continue
		}
		out[i] = v
	}
	if failed > maxDetailedWarnings {
		warnings = append(warnings, fmt.Sprintf("... %d more row(s) without a combined time", failed-maxDetailedWarnings))
	}
	return out, warnings
}

func combineRow(ts, gmt string) (string, error) {
	gmt = strings.TrimSpace(gmt)
	if gmt == "" {
		return "", fmt.Errorf("missing %s", GMTColumn)
	}
	ms, err := strconv.ParseFloat(gmt, 64)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q", GMTColumn, gmt)
	}
	base := epochTime(ms / 1000)

	m := subTimePattern.FindStringSubmatch(ts)
	if m == nil {
		return "", fmt.Errorf("invalid %s %q", SubTimeColumn, ts)
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil || minutes > 59 {
		return "", fmt.Errorf("minute out of range in %s %q", SubTimeColumn, ts)
	}
	t := time.Date(base.Year(), base.Month(), base.Day(), combinedHour, minutes, 0, 0, time.UTC)
	return t.Format(Layout), nil
}

// Column names of the split-time layout and the combined output column.
const (
	SubTimeColumn  = "ts"
	GMTColumn      = "timestamp_gmt"
	CombinedColumn = "Time"
)
