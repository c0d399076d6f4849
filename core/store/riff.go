package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/bogem/id3v2/v2"

	"github.com/driftsound/retag/core"
)

type riffKind int

const (
	riffKindWAV  riffKind = iota // RIFF/WAVE, little-endian chunk sizes
	riffKindAIFF                 // FORM/AIFF, big-endian chunk sizes
)

// riffChunk is one raw container chunk. The id3 chunk is parsed into
// the staged tag and re-serialised on save; every other chunk passes
// through byte for byte.
type riffChunk struct {
	id   string
	data []byte
}

// riffFile edits the ID3v2 tag embedded in an "id3 " (or "ID3 ")
// chunk of a RIFF/WAVE or FORM/AIFF container.
type riffFile struct {
	id3Tag
	path     string
	kind     riffKind
	formType string
	chunks   []riffChunk
	tagIdx   int // index into chunks, -1 when the file had no id3 chunk
	tagID    string
}

func openRIFF(path string, kind riffKind) (*riffFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) < 12 {
		return nil, fmt.Errorf("parse %s: container too short", path)
	}

	f := &riffFile{
		path:     path,
		kind:     kind,
		formType: string(data[8:12]),
		tagIdx:   -1,
		tagID:    "id3 ",
	}
	if kind == riffKindAIFF {
		f.tagID = "ID3 "
	}

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(f.byteOrder().Uint32(data[offset+4 : offset+8]))
		offset += 8
		if chunkSize < 0 || offset+chunkSize > len(data) {
			break
		}
		body := append([]byte(nil), data[offset:offset+chunkSize]...)
		if (chunkID == "id3 " || chunkID == "ID3 ") && f.tagIdx < 0 {
			tag, err := id3v2.ParseReader(bytes.NewReader(body), id3v2.Options{Parse: true})
			if err != nil {
				return nil, fmt.Errorf("parse embedded id3v2 tag of %s: %w", path, err)
			}
			f.tag = tag
			f.tagIdx = len(f.chunks)
			f.tagID = chunkID
		}
		f.chunks = append(f.chunks, riffChunk{id: chunkID, data: body})
		offset += chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
	}

	if f.id3Tag.tag == nil {
		f.id3Tag.tag = id3v2.NewEmptyTag()
	}
	return f, nil
}

func (f *riffFile) byteOrder() binary.ByteOrder {
	if f.kind == riffKindAIFF {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (f *riffFile) Path() string { return f.path }

func (f *riffFile) Capability() core.FormatCapability { return core.CapRiffID3v2 }

func (f *riffFile) Save() error {
	var tagBody bytes.Buffer
	if !f.tag.HasFrames() {
		// Nothing left in the tag, drop the chunk entirely.
		if f.tagIdx >= 0 {
			f.chunks = append(f.chunks[:f.tagIdx], f.chunks[f.tagIdx+1:]...)
			f.tagIdx = -1
		}
	} else {
		if _, err := f.tag.WriteTo(&tagBody); err != nil {
			return fmt.Errorf("serialise id3v2 tag of %s: %w", f.path, err)
		}
		if f.tagIdx >= 0 {
			f.chunks[f.tagIdx].data = tagBody.Bytes()
		} else {
			f.tagIdx = len(f.chunks)
			f.chunks = append(f.chunks, riffChunk{id: f.tagID, data: tagBody.Bytes()})
		}
	}

	var body bytes.Buffer
	sizeBuf := make([]byte, 4)
	for _, c := range f.chunks {
		body.WriteString(c.id)
		f.byteOrder().PutUint32(sizeBuf, uint32(len(c.data)))
		body.Write(sizeBuf)
		body.Write(c.data)
		if len(c.data)%2 != 0 {
			body.WriteByte(0)
		}
	}

	var out bytes.Buffer
	if f.kind == riffKindAIFF {
		out.WriteString("FORM")
	} else {
		out.WriteString("RIFF")
	}
	f.byteOrder().PutUint32(sizeBuf, uint32(body.Len()+4))
	out.Write(sizeBuf)
	out.WriteString(f.formType)
	out.Write(body.Bytes())

	if err := os.WriteFile(f.path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}
	return nil
}

func (f *riffFile) Close() error { return nil }
