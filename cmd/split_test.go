package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputLedgerReportsReusedPaths(t *testing.T) {
	l := outputLedger{}
	out := filepath.Join("out", "INV01.csv")
	if w := l.record("a.csv", []string{out, filepath.Join("out", "INV02.csv")}); len(w) != 0 {
		t.Fatalf("first input: %v", w)
	}
	w := l.record("b.csv", []string{out, filepath.Join("out", "INV03.csv")})
	if len(w) != 1 || !strings.Contains(w[0], "INV01.csv") || !strings.Contains(w[0], "a.csv") || !strings.Contains(w[0], "--file-id") {
		t.Fatalf("second input: %v", w)
	}
	// the same input listed again is not a collision
	if w := l.record("b.csv", []string{out}); len(w) != 0 {
		t.Fatalf("same input: %v", w)
	}
}

func TestCLI_SplitBatchSameDeviceTwice(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "in", "a.csv"), "Time,totw - 1 - INV01\n1730528000,1\n")
	writeFile(t, filepath.Join(home, "in", "b.csv"), "Time,totw - 1 - INV01\n1730528600,2\n")
	out := filepath.Join(home, "devices")

	runCmd(t, "split", filepath.Join(home, "in", "*.csv"), "-o", out, "--quiet")
	// b.csv sorts last and wins
	if got := readFile(t, filepath.Join(out, "INV01.csv")); !strings.Contains(got, "2024-11-02T06:23:20,2") {
		t.Fatalf("INV01.csv:\n%s", got)
	}
}
