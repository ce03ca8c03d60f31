package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omega-x/kgprep/internal/header"
	"github.com/omega-x/kgprep/internal/splitter"
	"github.com/omega-x/kgprep/internal/table"
	"github.com/omega-x/kgprep/internal/utils"
	"github.com/omega-x/kgprep/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	insDeviceCol string
	insJSON      bool
)

// inspectReport is the JSON shape of one inspected table.
type inspectReport struct {
	File       string                 `json:"file"`
	Format     string                 `json:"format"`
	DeviceCol  string                 `json:"device_column,omitempty"`
	Common     []string               `json:"common_columns"`
	Devices    map[string][]string    `json:"devices,omitempty"`
	Properties []vocab.PropertyRecord `json:"properties"`
	Warnings   []string               `json:"warnings,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the detected layout, header classification and column semantics of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		headers, err := table.LoadHeader(path)
		if err != nil {
			return err
		}
		rep := buildInspectReport(path, headers, pick(insDeviceCol, currentConfig().DeviceCol))
		if insJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		warnAll("", rep.Warnings)
		fmt.Print(renderInspectReport(rep))
		return nil
	},
}

func buildInspectReport(path string, headers []string, deviceCol string) inspectReport {
	det := header.Detect(headers, deviceCol)
	rep := inspectReport{
		File:       path,
		Format:     det.Format.String(),
		DeviceCol:  det.DeviceColumn,
		Common:     []string{},
		Properties: vocab.ExtractProperties(headers),
		Warnings:   det.Warnings,
	}
	if det.Format != header.HeaderEmbedded {
		rep.Common = headers
		return rep
	}
	common, mapped := splitter.MapColumns(headers, nil)
	for _, i := range common {
		rep.Common = append(rep.Common, headers[i])
	}
	if len(mapped) > 0 {
		rep.Devices = map[string][]string{}
	}
	for _, m := range mapped {
		rep.Devices[m.Device] = append(rep.Devices[m.Device], m.Signal)
	}
	return rep
}

func renderInspectReport(rep inspectReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", rep.File)
	fmt.Fprintf(&b, "Format: %s\n", rep.Format)
	if rep.DeviceCol != "" {
		fmt.Fprintf(&b, "Device column: %s\n", rep.DeviceCol)
	}
	fmt.Fprintf(&b, "Common columns (%d): %s\n", len(rep.Common), strings.Join(rep.Common, ", "))
	if len(rep.Devices) > 0 {
		fmt.Fprintf(&b, "\nDevices (%d):\n", len(rep.Devices))
		for _, id := range sortedKeys(rep.Devices) {
			fmt.Fprintf(&b, "  %s: %s\n", id, strings.Join(rep.Devices[id], ", "))
		}
	}
	fmt.Fprintf(&b, "\nProperties (%d):\n", len(rep.Properties))
	for _, p := range rep.Properties {
		match := p.MeasurementKey
		if match == "" {
			match = "-"
		}
		fmt.Fprintf(&b, "  %-32s unit=%-12s match=%-10s node=%s/%s type=%s\n",
			p.Column, p.Unit, match, p.StatNode, p.LogicalNode, p.DataType)
	}
	return b.String()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insDeviceCol, "device-col", "", "explicit device column (auto-detected if omitted)")
	inspectCmd.Flags().BoolVar(&insJSON, "json", false, "print the report as JSON")
}
