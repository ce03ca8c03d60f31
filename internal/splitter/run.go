package splitter

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/omega-x/kgprep/internal/header"
	"github.com/omega-x/kgprep/internal/table"
	"github.com/omega-x/kgprep/internal/timefmt"
	"github.com/omega-x/kgprep/internal/utils"
)

// Pipeline stages, used to label warnings.
const (
	StageLoad    = "load"
	StageDetect  = "detect"
	StageCombine = "combine"
	StageSplit   = "split"
)

// RunOptions configures an end-to-end split of one input file.
type RunOptions struct {
	Input     string
	OutputDir string
	// TimeColumn and AltTimeColumn are tried in order before the recognized set.
	TimeColumn    string
	AltTimeColumn string
	// DeviceColumn overrides device column auto-detection when set.
	DeviceColumn string
	FileID       string
	// DryRun skips writing the device tables.
	DryRun bool
}

// Warning is a recoverable problem met while processing.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string { return w.Stage + ": " + w.Message }

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Input    string
	Format   header.Format
	Strategy string
	Devices  []string
	Files    []string
	// Rows is the number of source rows processed.
	Rows     int
	Warnings []Warning
}

// WarningCounts returns the number of warnings per stage.
func (s *Summary) WarningCounts() map[string]int {
	out := map[string]int{}
	for _, w := range s.Warnings {
		out[w.Stage]++
	}
	return out
}

func (s *Summary) warn(stage string, msgs []string) {
	for _, m := range msgs {
		s.Warnings = append(s.Warnings, Warning{Stage: stage, Message: m})
	}
}

// Run loads opts.Input, detects its layout, rebuilds split time columns when
// needed, splits it per device and writes one CSV per device into
// opts.OutputDir. Load failures are fatal and nothing is written.
func Run(opts RunOptions) (*Summary, error) {
	ld, err := table.LoadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Input, err)
	}
	sum := &Summary{
		RunID:    uuid.NewString(),
		Input:    opts.Input,
		Strategy: ld.Strategy,
		Rows:     ld.Table.Len(),
	}
	sum.warn(StageLoad, ld.Warnings)

	t := ld.Table
	det := header.Detect(t.Columns, opts.DeviceColumn)
	sum.warn(StageDetect, det.Warnings)
	sum.Format = det.Format

	if det.Format == header.SplitTimeDeviceColumn {
		combined, warns := timefmt.Combine(t.Column(header.SubTimeColumn), t.Column(header.GMTTimeColumn))
		sum.warn(StageCombine, warns)
		t = t.WithColumn(timefmt.CombinedColumn, combined)
	}

	res, err := Split(t, Options{
		Format:       det.Format,
		DeviceColumn: det.DeviceColumn,
		TimeColumns:  []string{opts.TimeColumn, opts.AltTimeColumn, timefmt.CombinedColumn},
		FileID:       opts.FileID,
	})
	if err != nil {
		return nil, err
	}
	sum.warn(StageSplit, res.Warnings)
	sum.Format = res.Format
	sum.Devices = res.DeviceIDs()

	for _, d := range res.Devices {
		path := filepath.Join(opts.OutputDir, d.FileName)
		sum.Files = append(sum.Files, path)
		if opts.DryRun {
			continue
		}
		data, err := d.Table.EncodeCSV()
		if err != nil {
			return sum, fmt.Errorf("encode %s: %w", d.ID, err)
		}
		if err := utils.SafeWriteFile(path, data); err != nil {
			return sum, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return sum, nil
}
