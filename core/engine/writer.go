// Package engine applies staged tag mutations to open audio files:
// analysis summaries, generic edits, removals, and cover art, composed
// per file by the orchestrator into a single save.
package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/analysis"
	"github.com/driftsound/retag/core/prefix"
	"github.com/driftsound/retag/core/store"
)

// analysisCommentDesc is the reserved description of the ID3v2 comment
// frame carrying the analysis summary line.
const analysisCommentDesc = "ANALYSIS"

// WriteParts selects which analysis values go into the album prefix
// and the mirror fields.
type WriteParts struct {
	BPM    bool
	Energy bool
	Key    bool
}

// All reports whether every part is selected.
func (p WriteParts) All() bool { return p.BPM && p.Energy && p.Key }

// AllParts selects everything.
func AllParts() WriteParts { return WriteParts{BPM: true, Energy: true, Key: true} }

// WriteAnalysis stages the analysis summary on f: the album prefix,
// and the per-format mirror fields where the container has them.
// Force rewrites the prefix from scratch instead of layering onto the
// cleaned album. It returns whether anything was staged and a short
// description of the result.
//
// Results under the detection floor are skipped entirely, they mean
// the analyzer produced nothing usable for this file.
func WriteAnalysis(f store.File, res analysis.Result, parts WriteParts, force bool) (bool, string) {
	if res.BPM < 0.1 && res.Energy < 0.01 {
		return false, ""
	}

	bpmText := strconv.Itoa(int(math.Round(res.BPM)))
	energyText := fmt.Sprintf("%.2f", res.Energy)

	var values []string
	if parts.BPM {
		values = append(values, bpmText)
	}
	if parts.Energy {
		values = append(values, energyText)
	}
	if parts.Key && res.HasKey() {
		values = append(values, res.KeyCamelot)
	}
	if len(values) == 0 {
		return false, ""
	}

	album := prefix.Apply(f.Album(), values, force)
	f.SetAlbum(album)

	switch f.Capability() {
	case core.CapID3v2, core.CapRiffID3v2:
		if fw, ok := f.(store.ID3FrameWriter); ok {
			if parts.BPM {
				fw.SetTextFrame("TBPM", bpmText)
			}
			if parts.Key && res.HasKey() {
				fw.SetTextFrame("TKEY", res.KeyCamelot)
			}
			if parts.Energy {
				fw.SetUserTextFrame("ENERGY", energyText)
			}
			fw.SetCommentFrame(analysisCommentDesc, prefix.Build(values))
		}
	case core.CapXiph:
		if xw, ok := f.(store.XiphFieldWriter); ok {
			if parts.BPM {
				xw.SetField("BPM", bpmText)
			}
			if parts.Key && res.HasKey() {
				xw.SetField("INITIALKEY", res.KeyCamelot)
			}
			if parts.Energy {
				xw.SetField("ENERGY", energyText)
			}
		}
	}

	return true, fmt.Sprintf("album %q", album)
}
