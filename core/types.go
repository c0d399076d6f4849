// Package core defines the shared types, format capabilities, and
// per-file outcome taxonomy for the retag mutation engine.
package core

import (
	"errors"
	"sort"
	"strings"
)

// FormatCapability is the dispatch tag for format-dependent behavior.
// Every opened file maps to exactly one capability; operations with no
// defined behavior for a capability are no-ops, not errors.
type FormatCapability string

const (
	// CapID3v2 covers bare MP3 streams carrying an ID3v2 tag.
	CapID3v2 FormatCapability = "id3v2"
	// CapXiph covers Vorbis-comment containers (FLAC and OGG/Vorbis).
	CapXiph FormatCapability = "xiph"
	// CapMP4 covers iTunes-style atom metadata (MP4/M4A).
	CapMP4 FormatCapability = "mp4"
	// CapRiffID3v2 covers ID3v2 tags embedded as a chunk inside
	// RIFF (WAV) or FORM (AIFF) containers.
	CapRiffID3v2 FormatCapability = "riff-id3v2"
	// CapUnsupported is returned for containers the store cannot edit.
	CapUnsupported FormatCapability = "unsupported"
)

// ErrUnsupportedOperation marks an operation that has no implementation
// for the file's format, such as cover embedding on pure Vorbis.
var ErrUnsupportedOperation = errors.New("operation not supported for this format")

// ─── Generic property view ───────────────────────────────────────────────────

// Tag is the generic, format-agnostic metadata view: uppercase-normalized
// keys mapped to ordered value lists. Multi-valued fields keep their
// insertion order; that order carries the APPEND/PREPEND semantics.
type Tag map[string][]string

// Keys returns the tag keys in deterministic (sorted) order.
func (t Tag) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy, so mutations stage without aliasing.
func (t Tag) Clone() Tag {
	out := make(Tag, len(t))
	for k, vs := range t {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// First returns the first value for key, or "".
func (t Tag) First(key string) string {
	if vs := t[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// ─── Requested operations ────────────────────────────────────────────────────

// OpMode selects how a TagOperation combines with existing values.
type OpMode int

const (
	OpSet OpMode = iota
	OpAppend
	OpPrepend
)

func (m OpMode) String() string {
	switch m {
	case OpSet:
		return "set"
	case OpAppend:
		return "append"
	case OpPrepend:
		return "prepend"
	}
	return "unknown"
}

// TagOperation is one generic edit. Immutable once constructed; a batch
// holds many, applied independently in list order.
type TagOperation struct {
	Key   string
	Value string
	Mode  OpMode
}

// ─── Cover art ───────────────────────────────────────────────────────────────

// CoverFormat is the encoded image format of a cover picture.
type CoverFormat int

const (
	CoverJPEG CoverFormat = iota
	CoverPNG
)

// CoverArt is a front-cover picture staged for embedding.
type CoverArt struct {
	Format CoverFormat
	MIME   string
	Data   []byte
}

// CoverFromExt infers the cover format from the source file extension:
// PNG when the extension says so, JPEG otherwise.
func CoverFromExt(ext string, data []byte) CoverArt {
	if strings.EqualFold(ext, ".png") {
		return CoverArt{Format: CoverPNG, MIME: "image/png", Data: data}
	}
	return CoverArt{Format: CoverJPEG, MIME: "image/jpeg", Data: data}
}

// ─── Per-file outcomes ───────────────────────────────────────────────────────

// Status classifies the single outcome each file yields.
type Status int

const (
	// StatusOK: the file was mutated and committed.
	StatusOK Status = iota
	// StatusNoOp: nothing to do (missing removal target, analysis below
	// the detection floor). Not an error.
	StatusNoOp
	// StatusUnsupported: the only requested operation has no defined
	// behavior for the file's format. Reported as a warning.
	StatusUnsupported
	// StatusOpenFailed: missing, unreadable, or unparsable file.
	StatusOpenFailed
	// StatusSaveFailed: commit rejected; staged changes discarded.
	StatusSaveFailed
	// StatusFailed: an underlying library fault surfaced mid-mutation.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "noop"
	case StatusUnsupported:
		return "unsupported"
	case StatusOpenFailed:
		return "open-failed"
	case StatusSaveFailed:
		return "save-failed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Failed reports whether the outcome counts against the batch summary.
func (s Status) Failed() bool {
	return s == StatusOpenFailed || s == StatusSaveFailed || s == StatusFailed
}

// Outcome is the per-file result handed back to the host: exactly one
// per processed file, plus any warnings collected along the way.
type Outcome struct {
	Path     string   `json:"path"`
	Status   Status   `json:"-"`
	Detail   string   `json:"detail,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
