package store

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/driftsound/retag/core"
)

// flacFile stages a Vorbis comment block and the PICTURE blocks of a
// native FLAC stream. Comments are rewritten as one block on save;
// unrelated metadata blocks pass through untouched.
type flacFile struct {
	path string
	f    *flac.File
	cmt  *flacvorbis.MetaDataBlockVorbisComment
}

func openFLAC(path string) (*flacFile, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse flac %s: %w", path, err)
	}
	ff := &flacFile{path: path, f: f}
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment of %s: %w", path, err)
		}
		ff.cmt = cmt
		break
	}
	if ff.cmt == nil {
		ff.cmt = flacvorbis.New()
	}
	return ff, nil
}

func (f *flacFile) Path() string { return f.path }

func (f *flacFile) Capability() core.FormatCapability { return core.CapXiph }

func (f *flacFile) Properties() core.Tag {
	out := core.Tag{}
	for _, line := range f.cmt.Comments {
		key, val, ok := splitComment(line)
		if !ok {
			continue
		}
		out[key] = append(out[key], val)
	}
	return out
}

func (f *flacFile) SetProperties(props core.Tag) {
	var comments []string
	for _, key := range props.Keys() {
		for _, v := range props[key] {
			comments = append(comments, key+"="+v)
		}
	}
	f.cmt.Comments = comments
}

func (f *flacFile) Album() string { return f.fieldFirst("ALBUM") }

func (f *flacFile) SetAlbum(album string) { f.SetField("ALBUM", album) }

func (f *flacFile) ClearKnownField(name string) bool {
	key := knownFieldKey(name)
	if key == "" {
		return false
	}
	f.deleteField(key)
	return true
}

func (f *flacFile) RemoveAllTags() {
	f.cmt.Comments = nil
}

func (f *flacFile) FrontCovers() []core.CoverArt {
	var out []core.CoverArt
	for _, block := range f.f.Meta {
		if block.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil || pic.PictureType != flacpicture.PictureTypeFrontCover {
			continue
		}
		out = append(out, coverFromMIME(pic.MIME, pic.ImageData))
	}
	return out
}

func (f *flacFile) SetFrontCover(art core.CoverArt) error {
	f.RemoveFrontCovers()
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", art.Data, art.MIME)
	if err != nil {
		return fmt.Errorf("encode flac picture: %w", err)
	}
	block := pic.Marshal()
	f.f.Meta = append(f.f.Meta, &block)
	return nil
}

func (f *flacFile) RemoveFrontCovers() int {
	removed := 0
	keep := f.f.Meta[:0]
	for _, block := range f.f.Meta {
		if block.Type == flac.Picture {
			if pic, err := flacpicture.ParseFromMetaDataBlock(*block); err == nil && pic.PictureType == flacpicture.PictureTypeFrontCover {
				removed++
				continue
			}
		}
		keep = append(keep, block)
	}
	f.f.Meta = keep
	return removed
}

// SetField replaces every comment for key with a single key=value
// entry, appended at the end of the block.
func (f *flacFile) SetField(key, value string) {
	f.deleteField(key)
	f.cmt.Comments = append(f.cmt.Comments, strings.ToUpper(key)+"="+value)
}

func (f *flacFile) Save() error {
	block := f.cmt.Marshal()
	replaced := false
	for i, b := range f.f.Meta {
		if b.Type == flac.VorbisComment {
			f.f.Meta[i] = &block
			replaced = true
			break
		}
	}
	if !replaced {
		f.f.Meta = append(f.f.Meta, &block)
	}
	if err := f.f.Save(f.path); err != nil {
		return fmt.Errorf("save flac %s: %w", f.path, err)
	}
	return nil
}

func (f *flacFile) Close() error { return nil }

func (f *flacFile) fieldFirst(key string) string {
	for _, line := range f.cmt.Comments {
		if k, v, ok := splitComment(line); ok && k == key {
			return v
		}
	}
	return ""
}

func (f *flacFile) deleteField(key string) {
	keep := f.cmt.Comments[:0]
	for _, line := range f.cmt.Comments {
		if k, _, ok := splitComment(line); ok && k == strings.ToUpper(key) {
			continue
		}
		keep = append(keep, line)
	}
	f.cmt.Comments = keep
}

// splitComment splits a raw KEY=VALUE vorbis comment. Field names are
// case-insensitive on disk and normalised to upper case here.
func splitComment(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i <= 0 {
		return "", "", false
	}
	return strings.ToUpper(line[:i]), line[i+1:], true
}
