package core

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// FormatID enumerates every recognised audio container.
type FormatID string

const (
	FmtMP3  FormatID = "mp3"
	FmtFLAC FormatID = "flac"
	FmtOGG  FormatID = "ogg"
	FmtM4A  FormatID = "m4a"
	FmtWAV  FormatID = "wav"
	FmtAIFF FormatID = "aiff"

	FmtUnknown FormatID = "unknown"
)

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".mp3":  FmtMP3,
	".flac": FmtFLAC,
	".ogg":  FmtOGG,
	".oga":  FmtOGG,
	".m4a":  FmtM4A,
	".mp4":  FmtM4A,
	".aac":  FmtM4A,
	".wav":  FmtWAV,
	".wave": FmtWAV,
	".aif":  FmtAIFF,
	".aiff": FmtAIFF,
}

// CapabilityFor returns the dispatch tag for a detected container.
func CapabilityFor(id FormatID) FormatCapability {
	switch id {
	case FmtMP3:
		return CapID3v2
	case FmtFLAC, FmtOGG:
		return CapXiph
	case FmtM4A:
		return CapMP4
	case FmtWAV, FmtAIFF:
		return CapRiffID3v2
	default:
		return CapUnsupported
	}
}

// DetectFormat returns the FormatID for the given file, first by reading
// magic bytes, then by asking the tag identifier, falling back to the
// extension.
func DetectFormat(path string) (FormatID, error) {
	f, err := os.Open(path)
	if err != nil {
		return FmtUnknown, err
	}
	defer f.Close()

	buf := make([]byte, 16)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return FmtUnknown, err
	}
	buf = buf[:n]

	if id := detectMagic(buf); id != FmtUnknown {
		return id, nil
	}

	// Second opinion from the tag reader: catches MP3 streams with no
	// leading ID3 header and unusual ftyp brands.
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if _, fileType, err := tag.Identify(f); err == nil {
			switch fileType {
			case tag.MP3:
				return FmtMP3, nil
			case tag.FLAC:
				return FmtFLAC, nil
			case tag.OGG:
				return FmtOGG, nil
			case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
				return FmtM4A, nil
			}
		}
	}

	if id, ok := extMap[strings.ToLower(filepath.Ext(path))]; ok {
		return id, nil
	}
	return FmtUnknown, nil
}

func detectMagic(b []byte) FormatID {
	if len(b) < 4 {
		return FmtUnknown
	}
	switch {
	// MP3: ID3 tag or FF Ex sync
	case bytes.HasPrefix(b, []byte("ID3")):
		return FmtMP3
	case b[0] == 0xFF && (b[1]&0xE0 == 0xE0):
		return FmtMP3
	// FLAC: fLaC
	case bytes.HasPrefix(b, []byte("fLaC")):
		return FmtFLAC
	// OGG: OggS
	case bytes.HasPrefix(b, []byte("OggS")):
		return FmtOGG
	// WAV: RIFF????WAVE
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WAVE")):
		return FmtWAV
	// AIFF: FORM????AIFF or AIFC
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("FORM")) &&
		(bytes.Equal(b[8:12], []byte("AIFF")) || bytes.Equal(b[8:12], []byte("AIFC"))):
		return FmtAIFF
	// MP4/M4A: ftyp box at offset 4
	case len(b) >= 8 && bytes.Equal(b[4:8], []byte("ftyp")):
		return FmtM4A
	}
	return FmtUnknown
}
