// Package output provides formatting utilities for agent-friendly CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njt/daterange/internal/dateparse"
	"github.com/njt/daterange/libdaterange"
)

// Format names accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ResolveResponse is the machine-readable form of one resolution.
// Dates is null when the query held no temporal reference.
type ResolveResponse struct {
	Query string   `json:"query" yaml:"query"`
	Dates []string `json:"dates" yaml:"dates"`
	// From and To are inclusive RFC 3339 bounds, convenient for timestamp filters.
	From string `json:"from,omitempty" yaml:"from,omitempty"`
	To   string `json:"to,omitempty" yaml:"to,omitempty"`
}

// FormatResolveResponse creates a ResolveResponse. dr may be nil.
func FormatResolveResponse(query string, dr *libdaterange.DateRange) *ResolveResponse {
	resp := &ResolveResponse{Query: query}
	if dr == nil {
		return resp
	}
	resp.Dates = dr.Strings()
	resp.From = dateparse.FormatISO8601(dateparse.StartOfDay(dr.Start))
	end := dr.End
	if dr.IsPoint() {
		end = dr.Start
	}
	resp.To = dateparse.FormatISO8601(dateparse.EndOfDay(end))
	return resp
}

// WriteJSON writes a value as JSON to the writer.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes a value as YAML to the writer.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText writes one line per response: the query, a tab, then the dates
// joined by " .. " or "none".
func WriteText(w io.Writer, responses []*ResolveResponse) error {
	for _, r := range responses {
		dates := "none"
		if len(r.Dates) > 0 {
			dates = strings.Join(r.Dates, " .. ")
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Query, dates); err != nil {
			return err
		}
	}
	return nil
}

// Write renders responses in the named format. A single response is written as an
// object rather than a list for json and yaml.
func Write(w io.Writer, format string, responses []*ResolveResponse) error {
	var v any = responses
	if len(responses) == 1 {
		v = responses[0]
	}

	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatText, "":
		return WriteText(w, responses)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
