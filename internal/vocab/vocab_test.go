package vocab_test

import (
	"testing"

	"github.com/omega-x/kgprep/internal/vocab"
)

func TestExtractPropertyDeviceSignal(t *testing.T) {
	rec, ok := vocab.ExtractProperty("s4DINV.EnclTmp.mag.f")
	if !ok {
		t.Fatal("expected a record")
	}
	if rec.MeasurementKey != "encltmp" || rec.Unit != "DEG_C" {
		t.Fatalf("key/unit: %+v", rec)
	}
	if rec.Description != "Enclosure temperature" {
		t.Fatalf("description: %q", rec.Description)
	}
	if rec.PropertyID != "s4DINVEnclTmpmagf" || rec.Column != "s4DINV.EnclTmp.mag.f" {
		t.Fatalf("ids: %+v", rec)
	}
	if rec.StatNode != "s4" || rec.LogicalNode != "DINV" || rec.ValueType != "mag" || rec.DataType != "float" {
		t.Fatalf("annotations: %+v", rec)
	}
}

func TestExtractPropertyUnmapped(t *testing.T) {
	rec, ok := vocab.ExtractProperty("unknownsignal123")
	if !ok {
		t.Fatal("unmapped headers still produce a record")
	}
	if rec.Unit != vocab.UnitlessCode || rec.Matched() {
		t.Fatalf("expected UNITLESS without key: %+v", rec)
	}
	if rec.Description != "Unmapped measurement unknownsignal123" {
		t.Fatalf("description: %q", rec.Description)
	}
	if rec.DataType != vocab.DefaultDataType {
		t.Fatalf("data type: %q", rec.DataType)
	}
}

func TestExtractPropertyUnits(t *testing.T) {
	cases := []struct {
		header string
		key    string
		unit   string
	}{
		{"MMXU1.TotW.mag.f", "totw", "W"},
		{"MMDC.SupWatt.mag.f", "supwatt", "KiloW"},
		{"MMXU.TotVAr.mag.f", "totvar", "V.A_R"},
		{"MMXU.TotPF.mag.f", "totpf", "UNITLESS"},
		{"MMET.SunshineTm.mag.f", "sunshinetm", "HOUR"},
		{"DINV.Beh.stVal.i", "beh", "UNITLESS"},
		{"MMXU.Var1.mag.f", "var", "V.A_R"},
		{"Inv_Watt_Total", "watt", "W"},
		{"dctinsol_h", "dctinsol", "W/M2"},
	}
	for _, c := range cases {
		rec, ok := vocab.ExtractProperty(c.header)
		if !ok {
			t.Fatalf("%q skipped", c.header)
		}
		if rec.MeasurementKey != c.key || rec.Unit != c.unit {
			t.Fatalf("%q: key=%q unit=%q, want %q %q", c.header, rec.MeasurementKey, rec.Unit, c.key, c.unit)
		}
	}
}

func TestExtractPropertySkipped(t *testing.T) {
	for _, h := range []string{"timestamp", "id", "device", "ts", "timestamp_gmt", "site", "Time", "", "  "} {
		if _, ok := vocab.ExtractProperty(h); ok {
			t.Fatalf("%q should be skipped", h)
		}
	}
	// The skip set is case-sensitive.
	if _, ok := vocab.ExtractProperty("TIMESTAMP"); !ok {
		t.Fatal("TIMESTAMP is not in the skip set")
	}
}

func TestExtractPropertiesOrder(t *testing.T) {
	recs := vocab.ExtractProperties([]string{"Time", "b.watt", "a.hz", "device", "c.amp"})
	want := []string{"b.watt", "a.hz", "c.amp"}
	if len(recs) != len(want) {
		t.Fatalf("got %d records", len(recs))
	}
	for i, w := range want {
		if recs[i].Column != w {
			t.Fatalf("record %d: %q want %q", i, recs[i].Column, w)
		}
	}
}

func TestDictionary(t *testing.T) {
	ms := vocab.Measurements()
	if ms[0].Key != "beh" || ms[len(ms)-1].Key != "w" {
		t.Fatalf("order: first=%q last=%q", ms[0].Key, ms[len(ms)-1].Key)
	}
	seen := map[string]int{}
	for i, m := range ms {
		if _, dup := seen[m.Key]; dup {
			t.Fatalf("duplicate key %q", m.Key)
		}
		seen[m.Key] = i
	}
	if seen["var"] > seen["hz"] {
		t.Fatal("var keeps its first position, before hz")
	}
	v, ok := vocab.Lookup("VAR")
	if !ok || v.EnumKind != "WYE_STD" || v.Unit != "VAR" {
		t.Fatalf("var uses the later definition: %+v", v)
	}
	ms[0].Key = "mutated"
	if again := vocab.Measurements(); again[0].Key != "beh" {
		t.Fatal("Measurements must return a copy")
	}
	if vocab.QUDTUnit("actyp") != "" || vocab.QUDTUnit("nope") != "" {
		t.Fatal("unitless and unknown keys have no QUDT unit")
	}
	if vocab.UnitToQUDT("LUX") != "LUX" {
		t.Fatal("unmapped units pass through")
	}
}

func TestAuxiliaryDictionaries(t *testing.T) {
	if d, ok := vocab.StatNode("s3"); !ok || d == "" {
		t.Fatal("s3 missing")
	}
	if ln, ok := vocab.LookupLogicalNode("alm_gapc1"); !ok || ln.Type != "ALM_GAPC" {
		t.Fatalf("alm_gapc1: %+v", ln)
	}
	if dt, ok := vocab.LookupDataType("b"); !ok || dt.XSDType != "boolean" {
		t.Fatalf("b: %+v", dt)
	}
	if _, ok := vocab.DeviceType("inv"); !ok {
		t.Fatal("inv missing")
	}
	if _, ok := vocab.ValueType("q"); !ok {
		t.Fatal("q missing")
	}
}
