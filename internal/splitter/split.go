// Package splitter partitions a multi-device telemetry table into one table per
// device, whatever convention the export used to encode device membership.
package splitter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omega-x/kgprep/internal/header"
	"github.com/omega-x/kgprep/internal/table"
	"github.com/omega-x/kgprep/internal/timefmt"
	"github.com/omega-x/kgprep/internal/utils"
)

// UnknownDevice labels rows whose device cell is empty.
const UnknownDevice = header.UnknownDevice

// recognizedTimeColumns are matched case-insensitively when none of the
// caller-supplied time column names exists.
var recognizedTimeColumns = []string{"time", "timestamp", "timestamp_gmt", "datetime", "date"}

// Options controls one split.
type Options struct {
	Format header.Format
	// DeviceColumn names the device column for the row-grouping layouts.
	DeviceColumn string
	// TimeColumns are tried by exact name, in order.
	TimeColumns []string
	// FileID is appended to every output file name when set.
	FileID string
}

// DeviceColumn assigns one source column to a device.
type DeviceColumn struct {
	Index  int
	Header string
	Device string
	Signal string
}

// DeviceTable is the output for one device.
type DeviceTable struct {
	ID       string
	FileName string
	Table    *table.Table
}

// Result holds the per-device tables in first-appearance order.
type Result struct {
	Devices []DeviceTable
	// TimeColumns lists the columns that were normalized.
	TimeColumns []string
	// Format is the layout actually used, after any fallback.
	Format   header.Format
	Warnings []string
}

// DeviceIDs returns the produced device identifiers in order.
func (r *Result) DeviceIDs() []string {
	ids := make([]string, len(r.Devices))
	for i, d := range r.Devices {
		ids[i] = d.ID
	}
	return ids
}

// Sanitize replaces every character outside [A-Za-z0-9_-] with '_'.
func Sanitize(id string) string { return utils.SanitizeName(id) }

// FileName builds the output file name of a device table.
func FileName(id, fileID string) string {
	name := Sanitize(id)
	if fileID != "" {
		name += "_" + Sanitize(fileID)
	}
	return name + ".csv"
}

// Split normalizes the time columns of t and partitions it by device. The
// input table is not modified.
func Split(t *table.Table, opts Options) (*Result, error) {
	if t == nil {
		return nil, errors.New("split: nil table")
	}
	res := &Result{Format: opts.Format}

	timeIdx := resolveTimeColumns(t, opts.TimeColumns)
	work := t
	if len(timeIdx) == 0 {
		res.Warnings = append(res.Warnings, "no time column found; timestamps left as is")
	}
	for _, i := range timeIdx {
		name := t.Columns[i]
		values, warns := timefmt.Normalize(t.ColumnAt(i))
		for _, w := range warns {
			res.Warnings = append(res.Warnings, fmt.Sprintf("column %q: %s", name, w))
		}
		work = work.WithColumn(name, values)
		res.TimeColumns = append(res.TimeColumns, name)
	}

	switch opts.Format {
	case header.DeviceColumn, header.SplitTimeDeviceColumn:
		devIdx := -1
		if opts.DeviceColumn != "" {
			devIdx = work.Index(opts.DeviceColumn)
		}
		if devIdx < 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s layout without a usable device column %q; splitting on header-embedded device names", opts.Format, opts.DeviceColumn))
			res.Format = header.HeaderEmbedded
			res.Devices = splitByHeader(work, timeIdx, opts.FileID, &res.Warnings)
		} else {
			res.Devices = splitByRows(work, devIdx, opts.FileID)
		}
	default:
		res.Devices = splitByHeader(work, timeIdx, opts.FileID, &res.Warnings)
	}
	dedupeFileNames(res)
	return res, nil
}

func resolveTimeColumns(t *table.Table, names []string) []int {
	var idx []int
	seen := map[int]bool{}
	for _, n := range names {
		if n == "" {
			continue
		}
		if i := t.Index(n); i >= 0 && !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	if len(idx) > 0 {
		return idx
	}
	for i, c := range t.Columns {
		for _, r := range recognizedTimeColumns {
			if strings.EqualFold(c, r) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// MapColumns classifies every header and returns the indexes of the common
// columns and the device-affiliated ones, both in source order. Columns in
// forceCommon are treated as common regardless of their name.
func MapColumns(columns []string, forceCommon []int) (common []int, mapped []DeviceColumn) {
	force := make(map[int]bool, len(forceCommon))
	for _, i := range forceCommon {
		force[i] = true
	}
	for i, c := range header.ClassifyAll(columns) {
		if force[i] || !c.HasDevice() {
			common = append(common, i)
			continue
		}
		mapped = append(mapped, DeviceColumn{Index: i, Header: c.Header, Device: c.Device, Signal: c.Signal})
	}
	return common, mapped
}

func splitByHeader(t *table.Table, timeIdx []int, fileID string, warnings *[]string) []DeviceTable {
	common, mapped := MapColumns(t.Columns, timeIdx)

	var order []string
	groups := map[string][]DeviceColumn{}
	for _, m := range mapped {
		if _, ok := groups[m.Device]; !ok {
			order = append(order, m.Device)
		}
		groups[m.Device] = append(groups[m.Device], m)
	}

	out := make([]DeviceTable, 0, len(order))
	for _, dev := range order {
		idx := make([]int, 0, len(common)+len(groups[dev]))
		names := make([]string, 0, cap(idx))
		pos := map[string]int{}
		for _, i := range common {
			pos[t.Columns[i]] = len(names)
			idx = append(idx, i)
			names = append(names, t.Columns[i])
		}
		for _, m := range groups[dev] {
			if p, ok := pos[m.Signal]; ok {
				*warnings = append(*warnings, fmt.Sprintf("device %q: column %q maps to existing column %q, replacing it", dev, m.Header, m.Signal))
				idx[p] = m.Index
				continue
			}
			pos[m.Signal] = len(names)
			idx = append(idx, m.Index)
			names = append(names, m.Signal)
		}
		out = append(out, DeviceTable{
			ID:       dev,
			FileName: FileName(dev, fileID),
			Table:    t.SelectColumns(idx, names),
		})
	}
	return out
}

func splitByRows(t *table.Table, devIdx int, fileID string) []DeviceTable {
	var order []string
	rows := map[string][][]string{}
	for _, row := range t.Rows {
		id := row[devIdx]
		if strings.TrimSpace(id) == "" {
			id = UnknownDevice
		}
		if _, ok := rows[id]; !ok {
			order = append(order, id)
		}
		rows[id] = append(rows[id], row)
	}
	out := make([]DeviceTable, 0, len(order))
	for _, id := range order {
		out = append(out, DeviceTable{
			ID:       id,
			FileName: FileName(id, fileID),
			Table:    table.New(t.Columns, rows[id]),
		})
	}
	return out
}

// dedupeFileNames suffixes file names of distinct devices that sanitize to the
// same name, so no table silently overwrites another.
func dedupeFileNames(res *Result) {
	used := map[string]bool{}
	for i := range res.Devices {
		name := res.Devices[i].FileName
		if !used[name] {
			used[name] = true
			continue
		}
		stem := strings.TrimSuffix(name, ".csv")
		for n := 2; ; n++ {
			cand := fmt.Sprintf("%s_%d.csv", stem, n)
			if !used[cand] {
				res.Warnings = append(res.Warnings, fmt.Sprintf("device %q: file name %s already taken, writing %s", res.Devices[i].ID, name, cand))
				res.Devices[i].FileName = cand
				used[cand] = true
				break
			}
		}
	}
}
