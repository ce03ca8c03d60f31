package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/omega-x/kgprep/internal/rml"
	"github.com/spf13/cobra"
)

var (
	rmlOutputDir string
	rmlBaseURI   string
	rmlWindowID  string
	rmlDate      string
	rmlTemplate  string
	rmlDeviceID  string
)

var rmlCmd = &cobra.Command{
	Use:   "rml <tables...>",
	Short: "Generate RML mapping files from the headers of per-device tables",
	Long: `Rml reads only the header row of each table, resolves every column against the
measurement dictionary and renders a mapping with the embedded template or the
one given by --template. Each table yields generated_<device>.rml.ttl.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if rmlDeviceID != "" && len(files) > 1 {
			return fmt.Errorf("--device-id applies to a single table, got %d", len(files))
		}
		c := currentConfig()
		tplPath := pick(rmlTemplate, c.TemplatePath)
		r, err := rml.LoadRenderer(tplPath)
		if err != nil {
			return err
		}
		opts := rml.Options{
			BaseURI:      pick(rmlBaseURI, c.BaseURI),
			Date:         rmlDate,
			WindowID:     pick(rmlWindowID, c.WindowID),
			DeviceID:     rmlDeviceID,
			TemplatePath: tplPath,
		}
		outDir := pick(rmlOutputDir, c.RMLOutputDir)
		if outDir == "" {
			outDir = "."
		}

		total := len(files)
		for i, path := range files {
			progressf("[%d/%d] Mapping %s...", i+1, total, filepath.Base(path))
			out, err := rml.Generate(r, path, outDir, opts)
			if err != nil {
				return err
			}
			warnAll(filepath.Base(path), out.Warnings)
			progressf("✓ Wrote %s (%d properties)", out.Path, out.Properties)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmlCmd)
	rmlCmd.Flags().StringVarP(&rmlOutputDir, "output-dir", "o", "", "directory for mapping files (default from config)")
	rmlCmd.Flags().StringVar(&rmlBaseURI, "base-uri", "", "ontology base URI (default from config)")
	rmlCmd.Flags().StringVar(&rmlWindowID, "window-id", "", "window tag passed to the template (defaults to the date)")
	rmlCmd.Flags().StringVar(&rmlDate, "date", "", "date tag YYYYMMDD (defaults to today, UTC)")
	rmlCmd.Flags().StringVar(&rmlTemplate, "template", "", "custom Jinja-style template file")
	rmlCmd.Flags().StringVar(&rmlDeviceID, "device-id", "", "override the device id derived from the file name")
}
