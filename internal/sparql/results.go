package sparql

import (
	"strings"
)

// Binding is one RDF term in a result row.
type Binding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Results is the SPARQL 1.1 JSON results document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Binding `json:"bindings"`
	} `json:"results"`
	// Boolean is set for ASK queries.
	Boolean *bool `json:"boolean,omitempty"`
}

// Unbound is printed for variables without a value in a row.
const Unbound = "N/A"

// Rows returns the result values in variable order.
func (r *Results) Rows() [][]string {
	out := make([][]string, 0, len(r.Results.Bindings))
	for _, b := range r.Results.Bindings {
		row := make([]string, len(r.Head.Vars))
		for i, v := range r.Head.Vars {
			if t, ok := b[v]; ok {
				row[i] = t.Value
			} else {
				row[i] = Unbound
			}
		}
		out = append(out, row)
	}
	return out
}

// Table renders the results as " | "-separated lines under a header and a
// dashed rule. ASK results render as "true" or "false".
func (r *Results) Table() string {
	if r == nil {
		return "No results to display.\n"
	}
	if r.Boolean != nil {
		if *r.Boolean {
			return "true\n"
		}
		return "false\n"
	}
	var b strings.Builder
	head := strings.Join(r.Head.Vars, " | ")
	b.WriteString(head + "\n")
	b.WriteString(strings.Repeat("-", len(head)) + "\n")
	for _, row := range r.Rows() {
		b.WriteString(strings.Join(row, " | ") + "\n")
	}
	return b.String()
}
