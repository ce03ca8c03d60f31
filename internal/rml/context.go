// Package rml turns the header row of a per-device table into an RML mapping
// document by rendering a Jinja-style template over the column semantics.
package rml

import (
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/omega-x/kgprep/internal/utils"
	"github.com/omega-x/kgprep/internal/vocab"
)

// DefaultBaseURI is the ontology namespace used when none is configured.
const DefaultBaseURI = "https://w3id.org/omega-x/ontology/KG/NarbonneDataSets"

const defaultTimeColumn = "Time"

// Options carries the table-level metadata passed to the template.
type Options struct {
	BaseURI string
	// Date tags the mapping, YYYYMMDD; today (UTC) when empty.
	Date string
	// WindowID defaults to Date.
	WindowID string
	// DeviceID overrides the identifier derived from the file name.
	DeviceID string
	// TemplatePath selects a custom template; the embedded one when empty.
	TemplatePath string
}

// Context is everything a template can reference.
type Context struct {
	DeviceID   string
	Date       string
	WindowID   string
	CSVPath    string
	BaseURI    string
	TimeColumn string
	Properties []vocab.PropertyRecord
}

// BuildContext extracts the property records of headers and fills in the
// table metadata. The device id is the file stem of tablePath unless
// opts.DeviceID is set.
func BuildContext(tablePath string, headers []string, opts Options) Context {
	c := Context{
		DeviceID:   opts.DeviceID,
		Date:       opts.Date,
		WindowID:   opts.WindowID,
		CSVPath:    tablePath,
		BaseURI:    strings.TrimRight(opts.BaseURI, "/"),
		TimeColumn: timeColumn(headers),
		Properties: vocab.ExtractProperties(headers),
	}
	if c.DeviceID == "" {
		c.DeviceID = utils.FileStem(tablePath)
	}
	if c.Date == "" {
		c.Date = time.Now().UTC().Format("20060102")
	}
	if c.WindowID == "" {
		c.WindowID = c.Date
	}
	if c.BaseURI == "" {
		c.BaseURI = DefaultBaseURI
	}
	return c
}

// Unmapped returns the columns that found no dictionary entry.
func (c Context) Unmapped() []string {
	var out []string
	for _, p := range c.Properties {
		if !p.Matched() {
			out = append(out, p.Column)
		}
	}
	return out
}

// Vars converts the context to template variables. Keys are snake_case, and
// "inverter_id" is kept as an alias of "device_id" for older templates.
func (c Context) Vars() pongo2.Context {
	props := make([]map[string]any, len(c.Properties))
	for i, p := range c.Properties {
		props[i] = map[string]any{
			"property_id":      p.PropertyID,
			"map_id":           utils.SanitizeName(p.PropertyID),
			"csv_column":       p.Column,
			"unit":             p.Unit,
			"description":      p.Description,
			"measurement_type": p.MeasurementKey,
			"enum_kind":        p.EnumKind,
			"stat_node":        p.StatNode,
			"logical_node":     p.LogicalNode,
			"value_type":       p.ValueType,
			"data_type":        p.DataType,
		}
	}
	return pongo2.Context{
		"inverter_id": c.DeviceID,
		"device_id":   c.DeviceID,
		"device_key":  utils.SanitizeName(c.DeviceID),
		"date":        c.Date,
		"window_id":   c.WindowID,
		"csv_path":    c.CSVPath,
		"base_uri":    c.BaseURI,
		"time_column": c.TimeColumn,
		"properties":  props,
	}
}

func timeColumn(headers []string) string {
	for _, h := range headers {
		if h == defaultTimeColumn {
			return h
		}
	}
	for _, h := range headers {
		switch strings.ToLower(h) {
		case "time", "timestamp", "datetime", "date":
			return h
		}
	}
	return defaultTimeColumn
}
