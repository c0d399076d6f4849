// Package analysis defines the result shape produced by the external
// audio analyzer and helpers for bringing results into a batch run.
// The engine only ever reads these values.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnknownKey is the sentinel the analyzer reports when key detection
// fails or is ambiguous.
const UnknownKey = "???"

// Result carries one file's analysis output.
type Result struct {
	BPM          float64 `json:"bpm"`
	Energy       float64 `json:"energy"`
	KeyCamelot   string  `json:"key"`
	DurationSec  float64 `json:"length,omitempty"`
	Success      bool    `json:"-"`
	ErrorMessage string  `json:"-"`
}

// HasKey reports whether the result carries a usable musical key.
func (r Result) HasKey() bool {
	return r.KeyCamelot != "" && r.KeyCamelot != UnknownKey
}

// Analyzer produces a Result for an audio file. Implementations live
// outside this repository; the sidecar loader below is the stand-in
// used by the host CLI.
type Analyzer interface {
	Analyze(path string) Result
}

// sidecarRecord mirrors one entry of the analyzer's JSON report.
type sidecarRecord struct {
	Path string `json:"path"`
	Result
}

// LoadResults reads an analyzer JSON report (an array of per-file
// records) and returns results keyed by file path.
func LoadResults(reportPath string) (map[string]Result, error) {
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, fmt.Errorf("read analysis report: %w", err)
	}
	var records []sidecarRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse analysis report %s: %w", reportPath, err)
	}
	out := make(map[string]Result, len(records))
	for _, rec := range records {
		res := rec.Result
		res.Success = true
		out[rec.Path] = res
	}
	return out, nil
}
