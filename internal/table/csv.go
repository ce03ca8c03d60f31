package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	// ErrEmpty indicates the input has no header row.
	ErrEmpty = errors.New("input has no header row")
	// ErrUnreadable indicates every parse strategy failed.
	ErrUnreadable = errors.New("input could not be parsed by any strategy")
)

// Strategy names reported in Loaded.Strategy.
const (
	StrategyStrict    = "strict"
	StrategyLenient   = "lenient"
	StrategySemicolon = "semicolon"
	StrategyTolerant  = "tolerant"
	StrategyXLSX      = "xlsx"
)

// Loaded is a parsed input table plus the diagnostics produced while reading it.
type Loaded struct {
	Table    *Table
	Strategy string
	Warnings []string
}

type csvStrategy struct {
	name  string
	parse func(data []byte, delim rune) (*Loaded, error)
}

// ParseCSV parses delimited data with an escalating fallback chain:
// a strict parse, a lenient parse that skips malformed rows, a retry with ';'
// as delimiter, and finally a tolerant parse (lazy quotes, ragged rows,
// Windows-1252 decoding of non-UTF-8 bytes). The first strategy that succeeds
// wins; ErrUnreadable is returned only when all of them fail.
func ParseCSV(data []byte, delim rune) (*Loaded, error) {
	if delim == 0 {
		delim = ','
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	chain := []csvStrategy{
		{StrategyStrict, parseStrict},
		{StrategyLenient, parseLenient},
	}
	if delim == ',' {
		chain = append(chain, csvStrategy{StrategySemicolon, func(b []byte, _ rune) (*Loaded, error) {
			return parseLenient(b, ';')
		}})
	}
	chain = append(chain, csvStrategy{StrategyTolerant, parseTolerant})

	var failures []string
	for _, s := range chain {
		ld, err := s.parse(data, delim)
		if err == nil {
			err = accept(ld, delim, s.name)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		ld.Strategy = s.name
		if len(failures) > 0 {
			notes := make([]string, 0, len(failures)+len(ld.Warnings))
			for _, f := range failures {
				notes = append(notes, "parse strategy failed, falling back ("+f+")")
			}
			ld.Warnings = append(notes, ld.Warnings...)
		}
		return ld, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnreadable, strings.Join(failures, "; "))
}

// accept rejects results that parsed without error but are clearly wrong:
// a single comma-parsed column whose header contains ';' means the file is
// semicolon-delimited.
func accept(ld *Loaded, delim rune, name string) error {
	if ld == nil || ld.Table == nil || len(ld.Table.Columns) == 0 {
		return ErrEmpty
	}
	if name == StrategyTolerant {
		return nil
	}
	if delim == ',' && len(ld.Table.Columns) == 1 && strings.Contains(ld.Table.Columns[0], ";") {
		return errors.New("single column header looks semicolon-delimited")
	}
	return nil
}

func newReader(data []byte, delim rune) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.ReuseRecord = false
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	// blanks after a delimiter are trimmed in the header only; cells keep them
	for i, h := range header {
		header[i] = strings.TrimLeft(h, " \t")
	}
	return header, nil
}

func parseStrict(data []byte, delim rune) (*Loaded, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("input is not valid UTF-8")
	}
	r := newReader(data, delim)
	r.FieldsPerRecord = 0
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return &Loaded{Table: New(header, rows)}, nil
}

func parseLenient(data []byte, delim rune) (*Loaded, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("input is not valid UTF-8")
	}
	r := newReader(data, delim)
	r.FieldsPerRecord = 0
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	ld := &Loaded{}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				ld.Warnings = append(ld.Warnings, fmt.Sprintf("skipped malformed row at line %d: %v", pe.StartLine, pe.Err))
				continue
			}
			return nil, fmt.Errorf("read rows: %w", err)
		}
		rows = append(rows, rec)
	}
	ld.Table = New(header, rows)
	return ld, nil
}

func parseTolerant(data []byte, delim rune) (*Loaded, error) {
	ld := &Loaded{}
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode windows-1252: %w", err)
		}
		data = decoded
		ld.Warnings = append(ld.Warnings, "input was not valid UTF-8; decoded as Windows-1252")
	}
	r := newReader(data, delim)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	ragged := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				ld.Warnings = append(ld.Warnings, fmt.Sprintf("skipped unreadable row at line %d: %v", pe.StartLine, pe.Err))
				continue
			}
			return nil, fmt.Errorf("read rows: %w", err)
		}
		if len(rec) != len(header) {
			ragged++
		}
		rows = append(rows, rec)
	}
	if ragged > 0 {
		ld.Warnings = append(ld.Warnings, fmt.Sprintf("%d row(s) had a field count different from the header and were padded/truncated", ragged))
	}
	ld.Table = New(header, rows)
	return ld, nil
}

// ParseHeaderCSV reads only the first record of delimited data. A single
// comma-parsed field containing ';' is re-split on ';'.
func ParseHeaderCSV(data []byte, delim rune) ([]string, error) {
	if delim == 0 {
		delim = ','
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := newReader(data, delim)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if delim == ',' && len(header) == 1 && strings.Contains(header[0], ";") {
		return ParseHeaderCSV(data, ';')
	}
	return header, nil
}

// WriteCSV writes the table (header first) as comma-separated values.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSV returns the CSV encoding of the table.
func (t *Table) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
