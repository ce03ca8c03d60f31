package timefmt_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/omega-x/kgprep/internal/timefmt"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"iso naive", "2024-11-02T06:13:20", "2024-11-02T06:13:20"},
		{"iso with space", "2024-11-02 06:13:20", "2024-11-02T06:13:20"},
		{"iso utc", "2024-11-02T06:13:20Z", "2024-11-02T06:13:20"},
		{"epoch seconds", "1730528000", "2024-11-02T06:13:20"},
		{"epoch seconds fractional", "1730528000.75", "2024-11-02T06:13:20"},
		{"epoch millis", "1730528000000", "2024-11-02T06:13:20"},
		{"scientific millis", "1.73E12", "2024-10-27T03:33:20"},
		{"scientific seconds", "1.73e9", "2024-10-27T03:33:20"},
		{"padded", "  1730528000 ", "2024-11-02T06:13:20"},
		{"day first", "13/11/2024", "2024-11-13T00:00:00"},
		{"day first dotted", "13.11.2024 08:30", "2024-11-13T08:30:00"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, warns := timefmt.Normalize([]string{c.in})
			if out[0] != c.want {
				t.Fatalf("Normalize(%q)=%q want %q (warnings %v)", c.in, out[0], c.want, warns)
			}
			if len(warns) != 0 {
				t.Fatalf("unexpected warnings: %v", warns)
			}
		})
	}
}

func TestNormalizeKeepsUnparseable(t *testing.T) {
	in := []string{"2024-11-02T06:13:20", "garbage", "", "1730528000"}
	out, warns := timefmt.Normalize(in)
	want := []string{"2024-11-02T06:13:20", "garbage", "", "2024-11-02T06:13:20"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("row %d: got %q want %q", i, out[i], want[i])
		}
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "garbage") {
		t.Fatalf("expected one warning naming the value, got %v", warns)
	}
}

func TestNormalizeRejectsTimeOfDay(t *testing.T) {
	for _, v := range []string{"06:13:20", "12:31:05", "6:05", "23:59:59.250", "13:20.0", "7:30 PM"} {
		t.Run(v, func(t *testing.T) {
			out, warns := timefmt.Normalize([]string{v})
			if out[0] != v {
				t.Fatalf("Normalize(%q)=%q, want the value kept", v, out[0])
			}
			if len(warns) != 1 || !strings.Contains(warns[0], v) {
				t.Fatalf("expected one warning naming %q, got %v", v, warns)
			}
			if _, err := timefmt.NormalizeValue(v); !errors.Is(err, timefmt.ErrUnparseable) {
				t.Fatalf("NormalizeValue(%q) err=%v", v, err)
			}
		})
	}
	// a full datetime with the same clock part still parses
	out, warns := timefmt.Normalize([]string{"2024-11-02 06:13:20"})
	if out[0] != "2024-11-02T06:13:20" || len(warns) != 0 {
		t.Fatalf("datetime: %q %v", out[0], warns)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, _ := timefmt.Normalize([]string{"1730528000", "1.73E12", "2024-11-02 06:13:20"})
	second, warns := timefmt.Normalize(first)
	if len(warns) != 0 {
		t.Fatalf("canonical values should re-parse cleanly: %v", warns)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("not idempotent at %d: %q -> %q", i, first[i], second[i])
		}
	}
}

func TestNormalizeWarningsAreBounded(t *testing.T) {
	in := make([]string, 25)
	for i := range in {
		in[i] = fmt.Sprintf("bad-%d", i)
	}
	out, warns := timefmt.Normalize(in)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d", len(out))
	}
	if len(warns) != 11 {
		t.Fatalf("expected 10 detailed warnings plus a summary, got %d", len(warns))
	}
	if !strings.Contains(warns[10], "15 more") {
		t.Fatalf("summary line: %q", warns[10])
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{int64(1730528000), "2024-11-02T06:13:20"},
		{1730528000000.0, "2024-11-02T06:13:20"},
		{1730528000, "2024-11-02T06:13:20"},
		{time.Date(2024, 11, 2, 6, 13, 20, 0, time.UTC), "2024-11-02T06:13:20"},
		{"1.73E12", "2024-10-27T03:33:20"},
		{nil, ""},
	}
	for _, c := range cases {
		got, err := timefmt.NormalizeValue(c.in)
		if err != nil {
			t.Fatalf("NormalizeValue(%v): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("NormalizeValue(%v)=%q want %q", c.in, got, c.want)
		}
	}
	if _, err := timefmt.NormalizeValue("not a date"); !errors.Is(err, timefmt.ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestCombine(t *testing.T) {
	ts := []string{"5:30.0", "59:59.999", "75:00.0", "bogus", "10:00.0"}
	gmt := []string{"1730528000000", "1730528000000", "1730528000000", "1730528000000", ""}
	out, warns := timefmt.Combine(ts, gmt)
	want := []string{"2024-11-02T12:05:00", "2024-11-02T12:59:00", "", "", ""}
	if len(out) != len(want) {
		t.Fatalf("length %d want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("row %d: got %q want %q", i, out[i], want[i])
		}
	}
	if len(warns) != 3 {
		t.Fatalf("expected a warning per failed row, got %v", warns)
	}
	if !strings.Contains(warns[0], "row 3") {
		t.Fatalf("warning should point at the row: %q", warns[0])
	}
}
