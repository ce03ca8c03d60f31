package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/omega-x/kgprep/internal/utils"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Station/A 1", "Station_A_1"},
		{"TATA_ECP001_S3_SHL001Inverter01", "TATA_ECP001_S3_SHL001Inverter01"},
		{"dev-01", "dev-01"},
		{"Wechselrichter Süd", "Wechselrichter_S_d"},
		{"a.b:c", "a_b_c"},
	}
	for _, c := range cases {
		if got := utils.SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestSafeWriteFileCreatesParent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "out.csv")
	if err := utils.SafeWriteFile(p, []byte("a,b\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "a,b\n" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestFileStem(t *testing.T) {
	if got := utils.FileStem("/data/NARB_ECP001_S3_SHL001Inverter01.csv"); got != "NARB_ECP001_S3_SHL001Inverter01" {
		t.Fatalf("unexpected stem %q", got)
	}
}
