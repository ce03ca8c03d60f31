package rml

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/omega-x/kgprep/internal/table"
	"github.com/omega-x/kgprep/internal/utils"
)

//go:embed templates/device.rml.ttl.j2
var defaultTemplate string

var turtleEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func init() {
	// turtle escapes a value for use inside a double-quoted Turtle literal.
	pongo2.RegisterFilter("turtle", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsSafeValue(turtleEscaper.Replace(in.String())), nil
	})
}

// Renderer renders a compiled mapping template.
type Renderer struct {
	tpl *pongo2.Template
}

// NewRenderer compiles template source. HTML autoescaping is disabled for the
// whole template, so sources using {% extends %} are not supported.
func NewRenderer(src string) (*Renderer, error) {
	return compile(pongo2.DefaultSet, src)
}

// LoadRenderer compiles the template at path, or the embedded default when
// path is empty. Includes are resolved relative to the template's directory.
func LoadRenderer(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer(defaultTemplate)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("template dir: %w", err)
	}
	return compile(pongo2.NewSet("rml", loader), string(b))
}

func compile(set *pongo2.TemplateSet, src string) (*Renderer, error) {
	tpl, err := set.FromString("{% autoescape off %}" + src + "{% endautoescape %}")
	if err != nil {
		return nil, fmt.Errorf("compile template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render executes the template over c.
func (r *Renderer) Render(c Context) (string, error) {
	out, err := r.tpl.Execute(c.Vars())
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// OutputName is the file name of the mapping generated for deviceID.
func OutputName(deviceID string) string {
	return "generated_" + utils.SanitizeName(deviceID) + ".rml.ttl"
}

// Output describes one generated mapping file.
type Output struct {
	Path       string
	DeviceID   string
	Properties int
	Warnings   []string
}

// Generate reads the header row of tablePath, renders the mapping with r and
// writes it atomically into outDir.
func Generate(r *Renderer, tablePath, outDir string, opts Options) (*Output, error) {
	headers, err := table.LoadHeader(tablePath)
	if err != nil {
		return nil, fmt.Errorf("read headers of %s: %w", tablePath, err)
	}
	ctx := BuildContext(tablePath, headers, opts)
	text, err := r.Render(ctx)
	if err != nil {
		return nil, err
	}
	out := &Output{
		Path:       filepath.Join(outDir, OutputName(ctx.DeviceID)),
		DeviceID:   ctx.DeviceID,
		Properties: len(ctx.Properties),
	}
	for _, col := range ctx.Unmapped() {
		out.Warnings = append(out.Warnings, fmt.Sprintf("column %q has no dictionary match, unit defaults to UNITLESS", col))
	}
	if len(ctx.Properties) == 0 {
		out.Warnings = append(out.Warnings, "no measurement columns found")
	}
	if err := utils.SafeWriteFile(out.Path, []byte(text)); err != nil {
		return nil, fmt.Errorf("write mapping: %w", err)
	}
	return out, nil
}
