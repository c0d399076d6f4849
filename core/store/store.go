// Package store opens audio containers and exposes the tag surface the
// mutation engine works against: a generic property view, a
// format-capability tag, cover-art access, and a single commit.
//
// All mutations stage in memory on the returned File; nothing touches
// the file on disk until Save. A handle is exclusively owned by one
// mutation sequence and is never retained after Close.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/driftsound/retag/core"
)

// ErrUnknownFormat is returned when a path is not recognisable as any
// editable audio container.
var ErrUnknownFormat = errors.New("unknown or unsupported audio format")

// File is an open, exclusively-owned tag handle.
type File interface {
	Path() string
	Capability() core.FormatCapability

	// Properties returns a copy of the staged generic property view.
	Properties() core.Tag
	// SetProperties replaces the staged view wholesale.
	SetProperties(core.Tag)

	// Album and SetAlbum work on every capability, even where the
	// generic view is narrower than the format's native fields.
	Album() string
	SetAlbum(string)

	// ClearKnownField clears one of the well-known fields (artist,
	// album, title, comment, genre, year, track) by name,
	// case-insensitively, and reports whether the name matched.
	// Not every format exposes these through the generic view.
	ClearKnownField(name string) bool

	// RemoveAllTags strips text metadata. Embedded artwork is always
	// preserved; removing it requires the explicit cover operation.
	RemoveAllTags()

	FrontCovers() []core.CoverArt
	// SetFrontCover removes all existing front covers and stages
	// exactly one. Returns core.ErrUnsupportedOperation where the
	// container cannot carry editable artwork.
	SetFrontCover(core.CoverArt) error
	// RemoveFrontCovers removes all front covers and reports how many
	// were present.
	RemoveFrontCovers() int

	Save() error
	Close() error
}

// ID3FrameWriter is the frame-level mirror surface of ID3v2-bearing
// files (bare MP3 streams and RIFF/FORM-embedded tags).
type ID3FrameWriter interface {
	// SetTextFrame removes every frame with the given ID and inserts
	// one fresh text frame.
	SetTextFrame(id, text string)
	// SetUserTextFrame removes only the TXXX frame whose description
	// matches desc, leaving other TXXX frames untouched, then inserts
	// a fresh one.
	SetUserTextFrame(desc, text string)
	// SetCommentFrame removes only the COMM frame with the given
	// reserved description, then inserts a fresh one.
	SetCommentFrame(desc, text string)
}

// XiphFieldWriter is the field-level mirror surface of Vorbis-comment
// containers. Setting a field replaces any previous value for the key.
type XiphFieldWriter interface {
	SetField(key, value string)
}

// Open detects the container at path and returns a staged handle.
func Open(path string) (File, error) {
	id, err := core.DetectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	switch id {
	case core.FmtMP3:
		return openMP3(path)
	case core.FmtFLAC:
		return openFLAC(path)
	case core.FmtOGG:
		return openOGG(path)
	case core.FmtM4A:
		return openMP4(path)
	case core.FmtWAV:
		return openRIFF(path, riffKindWAV)
	case core.FmtAIFF:
		return openRIFF(path, riffKindAIFF)
	default:
		return nil, fmt.Errorf("open %s: %w", path, ErrUnknownFormat)
	}
}

// knownFieldKey maps a well-known field name to its generic property
// key, or "" when the name is not well-known.
func knownFieldKey(name string) string {
	switch strings.ToLower(name) {
	case "artist":
		return "ARTIST"
	case "album":
		return "ALBUM"
	case "title":
		return "TITLE"
	case "comment":
		return "COMMENT"
	case "genre":
		return "GENRE"
	case "year", "date":
		return "DATE"
	case "track", "tracknumber":
		return "TRACKNUMBER"
	}
	return ""
}
