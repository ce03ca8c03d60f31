package dataset_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omega-x/kgprep/internal/dataset"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewSample(t *testing.T) {
	s := dataset.NewSample("DevA", "Time,watt\n1,2\n\n", "  @prefix rr: <x> .\n")
	if s.Input != "File: DevA\n\nCSV Data:\nTime,watt\n1,2" {
		t.Fatalf("input: %q", s.Input)
	}
	if s.Output != "@prefix rr: <x> ." || s.Instruction != dataset.Instruction {
		t.Fatalf("sample: %+v", s)
	}
	if s.ID == "" || s.TokenCount <= 0 {
		t.Fatalf("id/tokens: %+v", s)
	}
	if !strings.HasPrefix(s.Prompt(), "### Instruction:\n"+dataset.Instruction) || !strings.HasSuffix(s.Prompt(), "### Response:\n") {
		t.Fatalf("prompt: %q", s.Prompt())
	}
}

func TestBuildPairsFiles(t *testing.T) {
	dir := t.TempDir()
	csvDir := filepath.Join(dir, "csv")
	rmlDir := filepath.Join(dir, "rml")
	write(t, filepath.Join(csvDir, "A.csv"), "Time,watt\n1,2\n")
	write(t, filepath.Join(csvDir, "B.csv"), "Time,hz\n1,50\n")
	write(t, filepath.Join(csvDir, "C.csv"), "Time,amp\n1,3\n")
	write(t, filepath.Join(csvDir, "notes.txt"), "ignored")
	write(t, filepath.Join(rmlDir, "A.ttl"), "<a> <b> <c> .")
	write(t, filepath.Join(rmlDir, "B.jsonld"), `{"@id":"b"}`)
	out := filepath.Join(dir, "train", "rml_instruction_data.jsonl")

	rep, err := dataset.Build(dataset.Options{CSVDir: csvDir, RMLDir: rmlDir, Output: out})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Samples) != 2 {
		t.Fatalf("samples: %d", len(rep.Samples))
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "C.csv") {
		t.Fatalf("warnings: %v", rep.Warnings)
	}
	if rep.TotalTokens != rep.Samples[0].TokenCount+rep.Samples[1].TokenCount {
		t.Fatal("total tokens mismatch")
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	var lines int
	for sc.Scan() {
		var s dataset.Sample
		if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
			t.Fatalf("line %d: %v", lines+1, err)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("jsonl lines: %d", lines)
	}
	if !strings.Contains(string(b), "<a> <b> <c> .") {
		t.Fatal("HTML escaping must be disabled")
	}
}

func TestBuildFindsGeneratedMappings(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "csv", "Dev 1.csv"), "Time\n1\n")
	write(t, filepath.Join(dir, "rml", "generated_Dev_1.rml.ttl"), "mapping")
	rep, err := dataset.Build(dataset.Options{CSVDir: filepath.Join(dir, "csv"), RMLDir: filepath.Join(dir, "rml")})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Samples) != 1 || rep.Samples[0].Output != "mapping" {
		t.Fatalf("samples: %+v", rep.Samples)
	}
}

func TestBuildMissingDir(t *testing.T) {
	if _, err := dataset.Build(dataset.Options{CSVDir: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatal("expected error")
	}
}
