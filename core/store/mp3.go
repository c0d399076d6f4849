package store

import (
	"fmt"

	"github.com/bogem/id3v2/v2"

	"github.com/driftsound/retag/core"
)

// mp3File edits the ID3v2 tag at the head of a bare MPEG stream. A
// file without a tag gets a fresh one on save.
type mp3File struct {
	id3Tag
	path string
}

func openMP3(path string) (*mp3File, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("parse id3v2 tag of %s: %w", path, err)
	}
	return &mp3File{id3Tag: id3Tag{tag: tag}, path: path}, nil
}

func (f *mp3File) Path() string { return f.path }

func (f *mp3File) Capability() core.FormatCapability { return core.CapID3v2 }

func (f *mp3File) Save() error {
	if err := f.tag.Save(); err != nil {
		return fmt.Errorf("save id3v2 tag of %s: %w", f.path, err)
	}
	return nil
}

func (f *mp3File) Close() error { return f.tag.Close() }
