package cmd

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of c and its subcommands to its default, so
// values from one invocation do not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execCmd(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func execCmd(args ...string) error {
	resetFlags(rootCmd)
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// isolate points HOME at a temp dir so no user config is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

const headerEmbeddedCSV = `Time,totw - 1 - INV01,hz - 1 - INV01,totw - 1 - INV02,METEOSTA1_tmp
1730528000,10,50,20,12.5
1730528600,11,50.1,21,12.7
`

func TestCLI_SplitHeaderEmbedded(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "export.csv")
	writeFile(t, in, headerEmbeddedCSV)
	out := filepath.Join(home, "devices")

	runCmd(t, "split", in, "-o", out, "--quiet")

	for _, name := range []string{"INV01.csv", "INV02.csv", "METEOSTA1.csv"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	inv01 := readFile(t, filepath.Join(out, "INV01.csv"))
	lines := strings.Split(strings.TrimSpace(inv01), "\n")
	if lines[0] != "Time,totw,hz" {
		t.Fatalf("INV01 header: %q", lines[0])
	}
	if lines[1] != "2024-11-02T06:13:20,10,50" {
		t.Fatalf("INV01 first row: %q", lines[1])
	}
	if len(lines) != 3 {
		t.Fatalf("INV01 rows: %d", len(lines)-1)
	}
}

func TestCLI_SplitTimeDeviceColumn(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "rows.csv")
	writeFile(t, in, "ts,timestamp_gmt,device,totw\n13:20.0,1730505600000,A,1\n13:20.0,1730505600000,B,2\n")
	out := filepath.Join(home, "devices")

	runCmd(t, "split", in, "-o", out, "--file-id", "w1", "--quiet")

	a := readFile(t, filepath.Join(out, "A_w1.csv"))
	if !strings.Contains(a, "2024-11-02T12:13:00") {
		t.Fatalf("combined time missing:\n%s", a)
	}
	if strings.Contains(a, ",B,") {
		t.Fatalf("device B leaked into A:\n%s", a)
	}
	if _, err := os.Stat(filepath.Join(out, "B_w1.csv")); err != nil {
		t.Fatalf("missing B: %v", err)
	}
}

func TestCLI_SplitDryRunWritesNothing(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "export.csv")
	writeFile(t, in, headerEmbeddedCSV)
	out := filepath.Join(home, "devices")

	runCmd(t, "split", in, "-o", out, "--dry-run", "--quiet")
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("dry run created output dir: %v", err)
	}
}

func TestCLI_SplitMissingInputFails(t *testing.T) {
	home := isolate(t)
	out := filepath.Join(home, "devices")
	if err := execCmd("split", filepath.Join(home, "nope.csv"), "-o", out, "--quiet"); err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("nothing may be written on a fatal load error")
	}
}

func TestCLI_SplitGlobAndMetrics(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "in", "a.csv"), headerEmbeddedCSV)
	writeFile(t, filepath.Join(home, "in", "b.csv"), "Time,watt - 1 - INV09\n1730528000,5\n")
	out := filepath.Join(home, "devices")
	prom := filepath.Join(home, "metrics", "kgprep.prom")

	runCmd(t, "split", filepath.Join(home, "in", "*.csv"), "-o", out, "--metrics-file", prom, "--quiet")

	if _, err := os.Stat(filepath.Join(out, "INV09.csv")); err != nil {
		t.Fatalf("second file not processed: %v", err)
	}
	text := readFile(t, prom)
	for _, want := range []string{"kgprep_rows_processed_total 3", "kgprep_device_tables_total 4"} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics lack %q:\n%s", want, text)
		}
	}
}

func TestCLI_SplitRMLDataset(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "export.csv")
	writeFile(t, in, headerEmbeddedCSV)
	csvDir := filepath.Join(home, "devices")
	rmlDir := filepath.Join(home, "rml")
	jsonl := filepath.Join(home, "train", "data.jsonl")

	runCmd(t, "split", in, "-o", csvDir, "--quiet")
	runCmd(t, "rml", filepath.Join(csvDir, "INV0*.csv"), "-o", rmlDir, "--date", "20241102", "--quiet")

	mapping := readFile(t, filepath.Join(rmlDir, "generated_INV01.rml.ttl"))
	for _, want := range []string{"@prefix rr:", "INV01", "20241102", "totw", "hz"} {
		if !strings.Contains(mapping, want) {
			t.Fatalf("mapping lacks %q:\n%s", want, mapping)
		}
	}
	if _, err := os.Stat(filepath.Join(rmlDir, "generated_METEOSTA1.rml.ttl")); !os.IsNotExist(err) {
		t.Fatal("glob should not have matched METEOSTA1")
	}

	runCmd(t, "dataset", "--csv-dir", csvDir, "--rml-dir", rmlDir, "-o", jsonl, "--quiet")

	f, err := os.Open(jsonl)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer f.Close()
	var n int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		n++
	}
	if n != 2 {
		t.Fatalf("dataset lines: %d", n)
	}
}

func TestCLI_RMLDeviceIDNeedsSingleTable(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "a.csv"), "Time,totw\n1,2\n")
	writeFile(t, filepath.Join(home, "b.csv"), "Time,totw\n1,2\n")
	if err := execCmd("rml", filepath.Join(home, "*.csv"), "--device-id", "X", "-o", home); err == nil {
		t.Fatal("expected error")
	}
}

func TestCLI_Inspect(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "export.csv")
	writeFile(t, in, headerEmbeddedCSV)
	runCmd(t, "inspect", in, "--json")

	rep := buildInspectReport(in, strings.Split(strings.SplitN(headerEmbeddedCSV, "\n", 2)[0], ","), "")
	if rep.Format != "header-embedded" {
		t.Fatalf("format: %s", rep.Format)
	}
	if len(rep.Devices) != 3 || len(rep.Devices["INV01"]) != 2 {
		t.Fatalf("devices: %v", rep.Devices)
	}
	if len(rep.Common) != 1 || rep.Common[0] != "Time" {
		t.Fatalf("common: %v", rep.Common)
	}
	if !strings.Contains(renderInspectReport(rep), "Devices (3):") {
		t.Fatal("text report lacks device section")
	}
}

func TestCLI_Query(t *testing.T) {
	isolate(t)
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/TestKG" {
			http.NotFound(w, r)
			return
		}
		_ = r.ParseForm()
		gotQuery = r.PostForm.Get("query")
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(`{"head":{"vars":["s"]},"results":{"bindings":[{"s":{"type":"uri","value":"urn:x"}}]}}`))
	}))
	defer srv.Close()

	runCmd(t, "query", "SELECT ?s WHERE { ?s ?p ?o }", "--url", srv.URL, "--repo", "TestKG")
	if !strings.HasPrefix(gotQuery, "SELECT ?s") {
		t.Fatalf("query not sent: %q", gotQuery)
	}

	if err := execCmd("query", "SELECT 1", "--url", srv.URL, "--repo", "Missing", "--retry-max", "1"); err == nil || !strings.Contains(err.Error(), "--repo") {
		t.Fatalf("expected repository hint, got %v", err)
	}
}

func TestCLI_QueryNeedsText(t *testing.T) {
	isolate(t)
	if err := execCmd("query"); err == nil {
		t.Fatal("expected error without a query")
	}
}

func TestCLI_ConfigSetGet(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "kgprep.yaml")

	runCmd(t, "--config", cfgPath, "config", "set", "time_col", "Timestamp", "--quiet")
	if !strings.Contains(readFile(t, cfgPath), "time_col: Timestamp") {
		t.Fatal("config not saved")
	}
	runCmd(t, "--config", cfgPath, "config", "get", "time_col")
	if cfg == nil || cfg.TimeCol != "Timestamp" {
		t.Fatalf("config not reloaded: %+v", cfg)
	}
	if err := execCmd("--config", cfgPath, "config", "set", "retry_max_attempts", "many"); err == nil {
		t.Fatal("expected error for non-integer value")
	}
	if err := execCmd("--config", cfgPath, "config", "get", "api_key"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
