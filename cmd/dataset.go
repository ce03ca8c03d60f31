package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/omega-x/kgprep/internal/dataset"
	"github.com/omega-x/kgprep/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dsCSVDir      string
	dsRMLDir      string
	dsOutput      string
	dsPrintSample bool
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build an instruction-tuning JSONL file from per-device CSV tables and their mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		csvDir := pick(dsCSVDir, c.OutputDir)
		rmlDir := pick(dsRMLDir, c.RMLOutputDir)
		out := dsOutput
		if out == "" {
			out = filepath.Join("train", "rml_instruction_data.jsonl")
		}
		rep, err := dataset.Build(dataset.Options{CSVDir: csvDir, RMLDir: rmlDir, Output: out})
		if err != nil {
			return err
		}
		warnAll("", rep.Warnings)
		if len(rep.Samples) == 0 {
			return fmt.Errorf("no CSV/RML pairs found in %s and %s", csvDir, rmlDir)
		}
		if debug {
			var in, outText strings.Builder
			for _, s := range rep.Samples {
				in.WriteString(s.Input)
				outText.WriteString(s.Output)
			}
			for k, v := range utils.TokenBreakdown(map[string]string{"input": in.String(), "output": outText.String()}) {
				debugf("%s tokens: %d", k, v)
			}
		}
		if dsPrintSample {
			fmt.Println(rep.Samples[0].Prompt())
		}
		progressf("✓ Wrote %d samples to %s (~%d tokens)", len(rep.Samples), out, rep.TotalTokens)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.Flags().StringVar(&dsCSVDir, "csv-dir", "", "directory of per-device CSV files (default: output_dir)")
	datasetCmd.Flags().StringVar(&dsRMLDir, "rml-dir", "", "directory of mapping files (default: rml_output_dir)")
	datasetCmd.Flags().StringVarP(&dsOutput, "output", "o", "", "JSONL destination (default train/rml_instruction_data.jsonl)")
	datasetCmd.Flags().BoolVar(&dsPrintSample, "print-sample", false, "print the first sample as a fine-tuning prompt")
}
