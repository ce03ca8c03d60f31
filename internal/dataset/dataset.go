// Package dataset pairs per-device CSV tables with their RML mappings and
// writes them as instruction-tuning samples in JSON Lines format.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/omega-x/kgprep/internal/utils"
)

// Instruction is the fixed task statement of every sample.
const Instruction = "Generate an RML mapping file based on the provided IEC 61850 CSV data."

// Sample is one training record.
type Sample struct {
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	TokenCount  int    `json:"token_count"`
}

// Prompt renders the sample in the instruction/input/response layout used for
// fine-tuning; the response part is left for the model.
func (s Sample) Prompt() string {
	return fmt.Sprintf("### Instruction:\n%s\n\n### Input:\n%s\n\n### Response:\n", s.Instruction, s.Input)
}

// Options configures a build.
type Options struct {
	CSVDir string
	RMLDir string
	// Output is the JSONL destination; nothing is written when empty.
	Output string
}

// Report is the outcome of a build.
type Report struct {
	Samples     []Sample
	TotalTokens int
	Warnings    []string
}

// NewSample builds a sample from the CSV and RML text of one table.
func NewSample(fileID, csvText, rmlText string) Sample {
	s := Sample{
		ID:          uuid.NewString(),
		Instruction: Instruction,
		Input:       fmt.Sprintf("File: %s\n\nCSV Data:\n%s", fileID, strings.TrimSpace(csvText)),
		Output:      strings.TrimSpace(rmlText),
	}
	s.TokenCount = utils.CountTokens(s.Instruction) + utils.CountTokens(s.Input) + utils.CountTokens(s.Output)
	return s
}

// mappingCandidates lists the file names tried for a CSV stem, in order.
func mappingCandidates(stem string) []string {
	return []string{stem + ".ttl", stem + ".jsonld", "generated_" + utils.SanitizeName(stem) + ".rml.ttl"}
}

// Build pairs every *.csv in opts.CSVDir with its mapping in opts.RMLDir.
// CSV files without a mapping are reported as warnings and skipped.
func Build(opts Options) (*Report, error) {
	entries, err := os.ReadDir(opts.CSVDir)
	if err != nil {
		return nil, fmt.Errorf("read csv dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	rep := &Report{}
	for _, name := range names {
		stem := utils.FileStem(name)
		var rmlPath string
		for _, cand := range mappingCandidates(stem) {
			p := filepath.Join(opts.RMLDir, cand)
			if _, err := os.Stat(p); err == nil {
				rmlPath = p
				break
			}
		}
		if rmlPath == "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("no RML file found for %s", name))
			continue
		}
		csvText, err := os.ReadFile(filepath.Join(opts.CSVDir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rmlText, err := os.ReadFile(rmlPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rmlPath, err)
		}
		s := NewSample(stem, string(csvText), string(rmlText))
		rep.Samples = append(rep.Samples, s)
		rep.TotalTokens += s.TokenCount
	}

	if opts.Output != "" {
		data, err := EncodeJSONL(rep.Samples)
		if err != nil {
			return nil, err
		}
		if err := utils.SafeWriteFile(opts.Output, data); err != nil {
			return nil, fmt.Errorf("write dataset: %w", err)
		}
	}
	return rep, nil
}

// EncodeJSONL encodes one sample per line, without HTML escaping.
func EncodeJSONL(samples []Sample) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, s := range samples {
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode sample %s: %w", s.ID, err)
		}
	}
	return buf.Bytes(), nil
}
