package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Reporter renders per-file outcomes for the host CLI.
type Reporter struct {
	JSON   bool
	Writer io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, jsonMode bool) *Reporter {
	return &Reporter{JSON: jsonMode, Writer: w}
}

// Report renders a single outcome line.
func (r *Reporter) Report(o Outcome) {
	if r.JSON {
		r.reportJSON(o)
		return
	}
	marker := "✓"
	switch {
	case o.Status.Failed():
		marker = "✗"
	case o.Status == StatusUnsupported:
		marker = "⚠"
	case o.Status == StatusNoOp:
		marker = "–"
	}
	line := fmt.Sprintf("%s %-12s %s", marker, o.Status, o.Path)
	if o.Detail != "" {
		line += " (" + o.Detail + ")"
	}
	fmt.Fprintln(r.Writer, line)
	for _, w := range o.Warnings {
		fmt.Fprintf(r.Writer, "  ⚠ %s\n", w)
	}
}

func (r *Reporter) reportJSON(o Outcome) {
	type jsonOutcome struct {
		Outcome
		Status string `json:"status"`
	}
	b, _ := json.Marshal(jsonOutcome{Outcome: o, Status: o.Status.String()})
	fmt.Fprintln(r.Writer, string(b))
}

// Summary aggregates a batch into simple counts; no single file's
// failure becomes a global error code.
type Summary struct {
	OK          int
	NoOp        int
	Unsupported int
	Failed      int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch {
		case o.Status.Failed():
			s.Failed++
		case o.Status == StatusNoOp:
			s.NoOp++
		case o.Status == StatusUnsupported:
			s.Unsupported++
		default:
			s.OK++
		}
	}
	return s
}

func (s Summary) String() string {
	parts := []string{fmt.Sprintf("%d ok", s.OK)}
	if s.NoOp > 0 {
		parts = append(parts, fmt.Sprintf("%d no-op", s.NoOp))
	}
	if s.Unsupported > 0 {
		parts = append(parts, fmt.Sprintf("%d unsupported", s.Unsupported))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	return strings.Join(parts, ", ")
}

// ParseKV parses a "Key=Value" string.
func ParseKV(s string) (key, value string, ok bool) {
	idx := strings.Index(s, "=")
	if idx < 1 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), s[idx+1:], true
}
