// Package header recognizes the device-encoding conventions used in IEC 61850
// telemetry exports, both per column header and per table layout.
package header

import (
	"regexp"
	"strings"
)

// Kind is the header encoding convention a column matched.
type Kind int

const (
	// Common columns carry no device affiliation (time, id, ...).
	Common Kind = iota
	// DeviceTagged headers look like "<signal> - <n> - <device>".
	DeviceTagged
	// PrefixedDevice headers look like "METEOSTA<digits>_<signal>".
	PrefixedDevice
	// GenericPrefixed headers look like "<token>_<rest>".
	GenericPrefixed
)

func (k Kind) String() string {
	switch k {
	case Common:
		return "common"
	case DeviceTagged:
		return "device-tagged"
	case PrefixedDevice:
		return "prefixed-device"
	case GenericPrefixed:
		return "generic-prefixed"
	default:
		return "unknown"
	}
}

// UnknownDevice is used when a device-tagged header has no device text.
const UnknownDevice = "unknown"

// Classification is the result of classifying one header.
type Classification struct {
	Header string
	Kind   Kind
	// Device is empty for Common headers.
	Device string
	// Signal is the clean signal name; the header itself for Common.
	Signal string
}

// HasDevice reports whether the header belongs to a device.
func (c Classification) HasDevice() bool { return c.Kind != Common }

var (
	deviceSeparator = regexp.MustCompile(` - \d+ - `)
	meteoPrefix     = regexp.MustCompile(`^(METEOSTA\d+)_`)
	genericPrefix   = regexp.MustCompile(`^[A-Za-z0-9_]+_`)
)

type rule struct {
	kind  Kind
	match func(h string) (device, signal string, ok bool)
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{DeviceTagged, matchDeviceTagged},
	{PrefixedDevice, matchMeteo},
	{GenericPrefixed, matchGeneric},
}

func matchDeviceTagged(h string) (string, string, bool) {
	locs := deviceSeparator.FindAllStringIndex(h, -1)
	if len(locs) == 0 {
		return "", "", false
	}
	signal := h[:locs[0][0]]
	if strings.TrimSpace(signal) == "" {
		// no signal name before the tag; keep the full header as column name
		signal = h
	}
	device := h[locs[len(locs)-1][1]:]
	if device == "" {
		device = UnknownDevice
	}
	return device, signal, true
}

func matchMeteo(h string) (string, string, bool) {
	m := meteoPrefix.FindStringSubmatchIndex(h)
	if m == nil {
		return "", "", false
	}
	return h[m[2]:m[3]], h[m[1]:], true
}

func matchGeneric(h string) (string, string, bool) {
	if !genericPrefix.MatchString(h) {
		return "", "", false
	}
	i := strings.IndexByte(h, '_')
	device := h[:i]
	if device == "" {
		device = UnknownDevice
	}
	return device, h[i+1:], true
}

// Classify decides which encoding convention header matches. It is a pure
// function of the string.
func Classify(h string) Classification {
	if strings.TrimSpace(h) == "" {
		return Classification{Header: h, Kind: Common, Signal: h}
	}
	for _, r := range rules {
		if device, signal, ok := r.match(h); ok {
			return Classification{Header: h, Kind: r.kind, Device: device, Signal: signal}
		}
	}
	return Classification{Header: h, Kind: Common, Signal: h}
}

// ClassifyAll classifies every header, preserving order.
func ClassifyAll(headers []string) []Classification {
	out := make([]Classification, len(headers))
	for i, h := range headers {
		out[i] = Classify(h)
	}
	return out
}
