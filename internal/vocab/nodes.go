package vocab

// LogicalNode describes an IEC 61850 logical node.
type LogicalNode struct {
	Class       string
	Type        string
	Description string
}

// DataType maps a data attribute suffix to its XSD type.
type DataType struct {
	Description string
	XSDType     string
}

// DefaultDataType is the XSD type assumed when a header names none.
const DefaultDataType = "float"

var statNodes = map[string]string{
	"s1": "Statistical Logical Node - maximum value over 10 minutes",
	"s2": "Statistical Logical Node - minimum value over 10 minutes",
	"s3": "Statistical Logical Node - average value over 10 minutes",
	"s4": "Statistical Logical Node - accumulated value over 10 minutes",
}

var deviceTypes = map[string]string{
	"dinv": "Standard Inverter",
	"inv":  "Inverter",
}

var logicalNodes = map[string]LogicalNode{
	"lln0":        {"LLN0", "LLN0_STD", "Logical device (This logical device contains common information for logical device Inverter)"},
	"lphd":        {"LPHD", "LPHD", "Physical device"},
	"dpmc":        {"DPMC", "DPMC_STD", "DER Power management"},
	"dgen":        {"DGEN", "DGEN_STD", "DER generator units"},
	"dpvc":        {"DPVC", "DPVC_STD", "DER photovoltaic controller"},
	"dinv":        {"DINV", "DINV_STD", "DER inverter model – supervision"},
	"mmxu":        {"MMXU", "sxMMXU_STD", "Measurement 3ph"},
	"mmdc":        {"MMDC", "sxMMDC_STD", "Measurement DC"},
	"mmtr":        {"MMTR", "sxMMTR_STD", "Metering 3h"},
	"extstmp":     {"STMP", "sxSTMP_STD", "Temperature supervision"},
	"shum":        {"SHUM", "sxSHUM_EXT", "Humidity supervision"},
	"acxswi":      {"XSWI", "XSWI_STD", "AC Switch"},
	"dcxswi":      {"XSWI", "XSWI_STD", "DC Switch"},
	"xcbr":        {"XCBR", "XCBR_STD", "AC circuit breaker"},
	"stmp":        {"STMP", "STMP_STD", "Temperature meas. not managed by DINV"},
	"linereastmp": {"STMP", "STMP_STD", "Line reactor temperature measurement"},
	"kfan":        {"KFAN", "KFAN_STD", "Fan monitoring"},
	"alm_gapc1":   {"GAPC", "ALM_GAPC", "Alarm generic LN"},
	"st_gapc2":    {"GAPC", "ST_GAPC", "Status generic LN"},
}

var valueTypes = map[string]string{
	"mag": "Magnitude value",
	"q":   "Quality value",
	"t":   "Timestamp",
}

var dataTypes = map[string]DataType{
	"f": {"Float value", "float"},
	"i": {"Integer value", "integer"},
	"b": {"Boolean value", "boolean"},
	"s": {"String value", "string"},
}

// StatNode returns the description of a statistical node prefix (s1..s4).
func StatNode(key string) (string, bool) {
	d, ok := statNodes[key]
	return d, ok
}

// DeviceType returns the description of a device type token.
func DeviceType(key string) (string, bool) {
	d, ok := deviceTypes[key]
	return d, ok
}

// LookupLogicalNode returns the logical node for a lower-case token.
func LookupLogicalNode(key string) (LogicalNode, bool) {
	n, ok := logicalNodes[key]
	return n, ok
}

// ValueType returns the description of a value type suffix (mag, q, t).
func ValueType(key string) (string, bool) {
	d, ok := valueTypes[key]
	return d, ok
}

// LookupDataType returns the data type for a suffix (f, i, b, s).
func LookupDataType(key string) (DataType, bool) {
	d, ok := dataTypes[key]
	return d, ok
}
