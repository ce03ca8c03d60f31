package table

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnsupported indicates a file format that cannot be loaded.
var ErrUnsupported = errors.New("unsupported table format")

// Loader reads one tabular file format.
type Loader interface {
	CanLoad(path string) bool
	Load(path string) (*Loaded, error)
	Header(path string) ([]string, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

type delimitedLoader struct{}

func (delimitedLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedLoader) Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	ld, err := ParseCSV(data, sniffDelimiter(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ld, nil
}

func (delimitedLoader) Header(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ParseHeaderCSV(data, sniffDelimiter(path))
}

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

func (xlsxLoader) Load(path string) (*Loaded, error) { return LoadXLSX(path) }

func (xlsxLoader) Header(path string) ([]string, error) { return HeaderXLSX(path) }

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func pick(path string) (Loader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".xls") {
		return nil, fmt.Errorf("%w: legacy .xls workbooks (save as .xlsx or .csv)", ErrUnsupported)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l, nil
		}
	}
	// Unknown extensions are treated as comma-separated text.
	return delimitedLoader{}, nil
}

// LoadFile selects a loader by extension and reads the whole table.
// A missing file is reported before any parsing is attempted.
func LoadFile(path string) (*Loaded, error) {
	l, err := pick(path)
	if err != nil {
		return nil, err
	}
	return l.Load(path)
}

// LoadHeader reads only the header row of a table file.
func LoadHeader(path string) ([]string, error) {
	l, err := pick(path)
	if err != nil {
		return nil, err
	}
	return l.Header(path)
}

func init() {
	Register(delimitedLoader{})
	Register(xlsxLoader{})
}
