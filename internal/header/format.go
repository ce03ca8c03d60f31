package header

import (
	"fmt"
	"strings"
)

// Format is the table-level layout of a telemetry export.
type Format int

const (
	// HeaderEmbedded tables carry device names inside column headers.
	HeaderEmbedded Format = iota
	// DeviceColumn tables have one row per (time, device) with an explicit device column.
	DeviceColumn
	// SplitTimeDeviceColumn tables have a device column and time split across "ts" and "timestamp_gmt".
	SplitTimeDeviceColumn
)

func (f Format) String() string {
	switch f {
	case HeaderEmbedded:
		return "header-embedded"
	case DeviceColumn:
		return "device-column"
	case SplitTimeDeviceColumn:
		return "split-time-device-column"
	default:
		return "unknown"
	}
}

// Column names that identify the split-time layout.
const (
	SubTimeColumn  = "ts"
	GMTTimeColumn  = "timestamp_gmt"
	deviceColumnCI = "device"
)

// Detection is the outcome of format detection.
type Detection struct {
	Format Format
	// DeviceColumn is the exact name of the device column, when one is in play.
	DeviceColumn    string
	HasDeviceColumn bool
	Warnings        []string
}

// Detect inspects the column set and decides the layout. A non-empty override
// naming an existing column always takes precedence over auto-detection; an
// override naming a missing column is reported and ignored.
func Detect(columns []string, override string) Detection {
	var d Detection
	has := make(map[string]bool, len(columns))
	for _, c := range columns {
		has[c] = true
	}
	splitTime := has[SubTimeColumn] && has[GMTTimeColumn]

	if override != "" {
		if has[override] {
			d.Format = DeviceColumn
			if splitTime {
				d.Format = SplitTimeDeviceColumn
			}
			d.DeviceColumn = override
			d.HasDeviceColumn = true
			return d
		}
		d.Warnings = append(d.Warnings, fmt.Sprintf("device column %q not found; auto-detecting layout", override))
	}

	devCol := ""
	for _, c := range columns {
		if strings.EqualFold(c, deviceColumnCI) {
			devCol = c
			break
		}
	}
	switch {
	case splitTime:
		d.Format = SplitTimeDeviceColumn
		d.DeviceColumn = devCol
		d.HasDeviceColumn = devCol != ""
	case devCol != "":
		d.Format = DeviceColumn
		d.DeviceColumn = devCol
		d.HasDeviceColumn = true
	default:
		d.Format = HeaderEmbedded
	}
	return d
}
