// Package vocab holds the static IEC 61850 vocabulary used to give telemetry
// column headers a meaning: measurement names with units, the unit to QUDT
// code table, and the auxiliary node/value/data type dictionaries.
package vocab

import "strings"

// Measurement is one entry of the measurement dictionary.
type Measurement struct {
	Key         string
	Description string
	// Unit is the raw unit code; empty when the measurement is unitless.
	Unit     string
	EnumKind string
	// Multiple marks measurements that may appear several times per device.
	Multiple bool
}

// measurements keeps the dictionary order; substring matching depends on it.
// "var" is declared twice upstream; it keeps its first position with the later
// (three-phase) definition.
var measurements = []Measurement{
	// sxDINV_GLOBAL
	{Key: "beh", Description: "Behaviour of the LN (ON, OFF, TEST, BLOCKED)", EnumKind: "ENS_Beh"},
	{Key: "invdclosam", Description: "Inverter detects loss of AC power", EnumKind: "SPS_STD"},
	{Key: "invgrlosalm", Description: "Inverter detects loss of grid power", EnumKind: "SPS_STD"},
	{Key: "wtgt", Description: "Target active power (setting)", EnumKind: "ASG_STD"},
	{Key: "wvarvlim", Description: "PQV set of limiting curves", EnumKind: "CSG_STD"},
	{Key: "wvarvlimset", Description: "Active curve characteristic curve for PQV limit", EnumKind: "CSG_STD"},
	{Key: "vartg", Description: "The continuous apparent power capability of the power inverter", Unit: "VA", EnumKind: "ASG_STD"},
	{Key: "actyp", Description: "Type of AC system", EnumKind: "ENG_ACSystemKind"},
	{Key: "outwset", Description: "Output power setting", Unit: "W", EnumKind: "ASG_STD"},
	{Key: "heatsinktmp", Description: "Heat sink temperature", Unit: "DEG_C", EnumKind: "MV_EXT", Multiple: true},
	{Key: "encltmp", Description: "Enclosure temperature", Unit: "DEG_C", EnumKind: "MV_EXT", Multiple: true},
	{Key: "volphs", Description: "Phase voltage", Unit: "V", EnumKind: "MV_EXT"},
	{Key: "amp", Description: "DC Current", Unit: "A", EnumKind: "MV_STD"},
	{Key: "watt", Description: "Active power", Unit: "W", EnumKind: "MV_STD"},
	{Key: "var", Description: "Phase to ground/phase to neutral reactive powers Q", Unit: "VAR", EnumKind: "WYE_STD"},
	{Key: "hz", Description: "Frequency", Unit: "HZ", EnumKind: "MV_EXT"},

	// sxMMDC_STD
	{Key: "supwatt", Description: "DC power demand", Unit: "kW", EnumKind: "MV_EXT"},
	{Key: "dmdwatt", Description: "DC power supplied", Unit: "kW", EnumKind: "MV_EXT"},
	{Key: "vol", Description: "DC voltage", Unit: "V", EnumKind: "MV_STD"},
	{Key: "volpsgnd", Description: "DC voltage between positive pole and earth", Unit: "V", EnumKind: "MV_STD"},
	{Key: "volnggnd", Description: "DC voltage between negative pole and earth", Unit: "V", EnumKind: "MV_STD"},
	{Key: "rispsgnd", Description: "DC resistance between positive pole and earth", Unit: "OHM", EnumKind: "MV_STD"},
	{Key: "risnggnd", Description: "DC resistance between negative pole and earth", Unit: "OHM", EnumKind: "MV_STD"},
	{Key: "rismidgnd", Description: "Midpoint-ground insulation resistance", Unit: "OHM", EnumKind: "MV_EXT", Multiple: true},

	// sxMMET_STD
	{Key: "dctinsol", Description: "Direct normal insolation", Unit: "W_PER_M2", EnumKind: "MV_EXT", Multiple: true},
	{Key: "dctinsolh", Description: "Direct insolation per hour", Unit: "W_PER_M2_HR", EnumKind: "BCR_EXT", Multiple: true},
	{Key: "dewpt", Description: "Dew point", Unit: "DEG_C", EnumKind: "MV_STD"},
	{Key: "dffinsol", Description: "Diffuse insolation", Unit: "W_PER_M2", EnumKind: "MV_EXT", Multiple: true},
	{Key: "dffinsolh", Description: "Diffuse insolation per hour", Unit: "W_PER_M2_HR", EnumKind: "BCR_EXT", Multiple: true},
	{Key: "envhum", Description: "Ambient humidity", Unit: "PERCENT", EnumKind: "MV_EXT", Multiple: true},
	{Key: "envpres", Description: "Barometric pressure", Unit: "PA", EnumKind: "MV_STD"},
	{Key: "envtmp", Description: "Ambient temperature", Unit: "DEG_C", EnumKind: "MV_EXT", Multiple: true},
	{Key: "horinsol", Description: "Total horizontal insolation", Unit: "W_PER_M2", EnumKind: "MV_EXT", Multiple: true},
	{Key: "horinsolh", Description: "Total horizontal insolation per hour", Unit: "W_PER_M2_HR", EnumKind: "BCR_EXT", Multiple: true},
	{Key: "horwddir", Description: "Total horizontal wind direction", Unit: "DEG", EnumKind: "MV_EXT", Multiple: true},
	{Key: "horwdspd", Description: "Average horizontal wind speed", Unit: "M_PER_SEC", EnumKind: "MV_EXT", Multiple: true},
	{Key: "poainsol", Description: "Plane Of Array Insolation", Unit: "W_PER_M2", EnumKind: "MV_EXT", Multiple: true},
	{Key: "poainsolh", Description: "Plane of Array insolation per hour", Unit: "W_PER_M2_HR", EnumKind: "BCR_EXT", Multiple: true},
	{Key: "rnfll", Description: "Rainfall", Unit: "MM", EnumKind: "MV_STD"},
	{Key: "rnflltm", Description: "Rainfall on a period of time", Unit: "MM", EnumKind: "BCR_EXT"},
	{Key: "snwcvr", Description: "Snow cover (typically in mm - length SIUnit [m])", Unit: "MM", EnumKind: "MV_STD"},
	{Key: "snwden", Description: "Snowfall density (typically in g/cm3 - density SIUnit [kg/m3])", Unit: "G_PER_CM3", EnumKind: "MV_STD"},
	{Key: "snweq", Description: "Water equivalent of snowfall (typically in mm - length SIUnit [m])", Unit: "MM", EnumKind: "MV_STD"},
	{Key: "snwfll", Description: "Snowfall (typically in mm - length SIUnit [m])", Unit: "MM", EnumKind: "MV_STD"},
	{Key: "snwflltm", Description: "snowfall (typically in mm - length SIUnit [m] on a period of time)", Unit: "MM", EnumKind: "BCR_EXT"},
	{Key: "solazideg", Description: "solar azimuth angle (horizontal angle with repsect to the North) in degrees", Unit: "DEG", EnumKind: "MV_EXT", Multiple: true},
	{Key: "soleideg", Description: " Solar elevation angle (angle between the horizontal and the line to the sun) in degrees", Unit: "DEG", EnumKind: "MV_EXT", Multiple: true},
	{Key: "solznideg", Description: "solar zenith angle (angle between the sun rays and the vertical direction) in degrees", Unit: "DEG", EnumKind: "MV_EXT", Multiple: true},
	{Key: "sunshinetm", Description: "sunshine duration Definiton of the world meterological organization (WMO): standardized design of the campbell-stokes recorder, called an interim reference sunshine recorder (IRS). The sunshine diration is defined as the period during which direct solar irradiance exceeds a threshold valie of 120 W/m2.", Unit: "HOUR", EnumKind: "BCR_EXT"},
	{Key: "wdgustspd", Description: "maximum wind gust speed", EnumKind: "MV_STD"},
	{Key: "wdgustdir", Description: "maximum wind gust direction", EnumKind: "MV_EXT"},

	// sxMMXU_STD
	{Key: "a", Description: "Phase to gnd/n 3ph currents", Unit: "A", EnumKind: "WYE_STD"},
	{Key: "avaphs", Description: "Arithmetic average of the magnitude of current of the 3ph to reference voltage of the 3 phases", Unit: "A", EnumKind: "MV_STD"},
	{Key: "avphvphs", Description: "Arithmetic average of the magnitude of phase to reference voltage of the 3ph", Unit: "V", EnumKind: "MV_STD"},
	{Key: "avppvphs", Description: "Arithmetic average of the magnitude of phase to phase voltage of the 3ph", Unit: "V", EnumKind: "MV_STD"},
	{Key: "dmdva", Description: "Apparent power demand", Unit: "VA", EnumKind: "MV_EXT"},
	{Key: "dmdvar", Description: "Reactive power demand", Unit: "VAR", EnumKind: "MV_EXT"},
	{Key: "dmdw", Description: "Active power demand", Unit: "W", EnumKind: "MV_EXT"},
	{Key: "pfext", Description: "PFExt set to true = overexcited; PFExt set to false = underexcited", EnumKind: "SPS_STD"},
	{Key: "pfsign", Description: "Sign convention for power factor 'PF' (and reactive power 'VAr')", EnumKind: "ENG_PFSign"},
	{Key: "pnv", Description: "Phase to neutral voltages", Unit: "V", EnumKind: "WYE_STD"},
	{Key: "ppv", Description: "Phase to phase voltages", Unit: "V", EnumKind: "DEL_STD"},
	{Key: "supva", Description: "Apparent power supply", Unit: "VA", EnumKind: "MV_EXT"},
	{Key: "supvar", Description: "Reactive power supply", Unit: "VAR", EnumKind: "MV_EXT"},
	{Key: "supw", Description: "Active power supply", Unit: "W", EnumKind: "MV_EXT"},
	{Key: "totpf", Description: "Average PF of 3ph", Unit: "PER_UNIT", EnumKind: "MV_STD"},
	{Key: "totva", Description: "Total apparent power", Unit: "VA", EnumKind: "MV_STD"},
	{Key: "totvar", Description: "Total reactive power", Unit: "VAR", EnumKind: "MV_STD"},
	{Key: "totw", Description: "Total active power", Unit: "W", EnumKind: "MV_STD"},
	{Key: "va", Description: "Phase to ground/phase to neutral apparent powers S", Unit: "VA", EnumKind: "WYE_STD"},
	{Key: "w", Description: "Phase to ground/phase to neutral real powers P", Unit: "W", EnumKind: "WYE_STD"},
}

var measurementIndex = func() map[string]int {
	m := make(map[string]int, len(measurements))
	for i, e := range measurements {
		m[e.Key] = i
	}
	return m
}()

// UnitlessCode is the QUDT code used when a measurement has no unit or none
// could be resolved.
const UnitlessCode = "UNITLESS"

var unitToQUDT = map[string]string{
	"DEG_C":       "DEG_C",
	"V":           "V",
	"A":           "A",
	"W":           "W",
	"kW":          "KiloW",
	"VA":          "V.A",
	"VAR":         "V.A_R",
	"HZ":          "HZ",
	"PER_UNIT":    "UNITLESS",
	"PERCENT":     "PERCENT",
	"kW_HR":       "KiloW-HR",
	"OHM":         "OHM",
	"W_PER_M2":    "W/M2",
	"W_PER_M2_HR": "W.HR/M2",
	"MM":          "MM",
	"PA":          "PA",
	"M_PER_SEC":   "M/SEC",
	"DEG":         "DEG",
	"G_PER_CM3":   "G/CM3",
}

// Measurements returns a copy of the dictionary in its declared order.
func Measurements() []Measurement {
	out := make([]Measurement, len(measurements))
	copy(out, measurements)
	return out
}

// Lookup finds a measurement by key, case-insensitively.
func Lookup(key string) (Measurement, bool) {
	i, ok := measurementIndex[strings.ToLower(key)]
	if !ok {
		return Measurement{}, false
	}
	return measurements[i], true
}

// UnitToQUDT maps a raw unit code to its QUDT code, returning the raw unit
// when no mapping exists.
func UnitToQUDT(unit string) string {
	if q, ok := unitToQUDT[unit]; ok {
		return q
	}
	return unit
}

// QUDTUnit returns the QUDT unit of the measurement key, or "" when the key is
// unknown or the measurement has no unit.
func QUDTUnit(key string) string {
	m, ok := Lookup(key)
	if !ok || m.Unit == "" {
		return ""
	}
	return UnitToQUDT(m.Unit)
}
