package store

import (
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/driftsound/retag/core"
)

// id3TextFrameByProp maps generic property keys to their ID3v2 text
// frame IDs. COMMENT and free-form keys are handled separately through
// COMM and TXXX frames.
var id3TextFrameByProp = map[string]string{
	"TITLE":       "TIT2",
	"ARTIST":      "TPE1",
	"ALBUM":       "TALB",
	"ALBUMARTIST": "TPE2",
	"COMPOSER":    "TCOM",
	"GENRE":       "TCON",
	"DATE":        "TDRC",
	"TRACKNUMBER": "TRCK",
	"COPYRIGHT":   "TCOP",
	"INITIALKEY":  "TKEY",
	"BPM":         "TBPM",
}

var id3PropByTextFrame = func() map[string]string {
	m := make(map[string]string, len(id3TextFrameByProp))
	for prop, frame := range id3TextFrameByProp {
		m[frame] = prop
	}
	return m
}()

// id3Tag wraps a bogem tag with the staged property and cover
// semantics shared by the MP3 and RIFF backends.
type id3Tag struct {
	tag *id3v2.Tag
}

func (t *id3Tag) Properties() core.Tag {
	out := core.Tag{}
	for frame, prop := range id3PropByTextFrame {
		if text := t.tag.GetTextFrame(frame).Text; text != "" {
			out[prop] = strings.Split(text, "\x00")
		}
	}
	for _, f := range t.tag.GetFrames(t.tag.CommonID("Comments")) {
		cf, ok := f.(id3v2.CommentFrame)
		if !ok || cf.Description != "" {
			continue
		}
		out["COMMENT"] = append(out["COMMENT"], cf.Text)
	}
	for _, f := range t.tag.GetFrames(t.tag.CommonID("User defined text information frame")) {
		uf, ok := f.(id3v2.UserDefinedTextFrame)
		if !ok || uf.Description == "" {
			continue
		}
		key := strings.ToUpper(uf.Description)
		out[key] = append(out[key], uf.Value)
	}
	return out
}

func (t *id3Tag) SetProperties(props core.Tag) {
	// Multi-valued fields become one null-separated text frame, the
	// ID3v2.4 list convention, so the value list round-trips intact.
	for prop, frame := range id3TextFrameByProp {
		vals := props[prop]
		t.tag.DeleteFrames(frame)
		if len(vals) > 0 {
			t.tag.AddTextFrame(frame, id3v2.EncodingUTF8, strings.Join(vals, "\x00"))
		}
	}

	commID := t.tag.CommonID("Comments")
	keepComments := describedCommentFrames(t.tag)
	t.tag.DeleteFrames(commID)
	for _, cf := range keepComments {
		t.tag.AddCommentFrame(cf)
	}
	for _, v := range props["COMMENT"] {
		t.tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "eng",
			Text:     v,
		})
	}

	t.tag.DeleteFrames(t.tag.CommonID("User defined text information frame"))
	for _, key := range props.Keys() {
		if key == "COMMENT" {
			continue
		}
		if _, known := id3TextFrameByProp[key]; known {
			continue
		}
		for _, v := range props[key] {
			t.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: key,
				Value:       v,
			})
		}
	}
}

// describedCommentFrames returns the COMM frames carrying a non-empty
// description. Those are reserved mirror slots, not generic comments,
// and survive a generic property rewrite.
func describedCommentFrames(tag *id3v2.Tag) []id3v2.CommentFrame {
	var out []id3v2.CommentFrame
	for _, f := range tag.GetFrames(tag.CommonID("Comments")) {
		if cf, ok := f.(id3v2.CommentFrame); ok && cf.Description != "" {
			out = append(out, cf)
		}
	}
	return out
}

func (t *id3Tag) Album() string { return t.tag.Album() }

func (t *id3Tag) SetAlbum(album string) {
	t.tag.DeleteFrames("TALB")
	if album != "" {
		t.tag.AddTextFrame("TALB", id3v2.EncodingUTF8, album)
	}
}

func (t *id3Tag) ClearKnownField(name string) bool {
	key := knownFieldKey(name)
	if key == "" {
		return false
	}
	if key == "COMMENT" {
		keep := describedCommentFrames(t.tag)
		t.tag.DeleteFrames(t.tag.CommonID("Comments"))
		for _, cf := range keep {
			t.tag.AddCommentFrame(cf)
		}
		return true
	}
	t.tag.DeleteFrames(id3TextFrameByProp[key])
	return true
}

func (t *id3Tag) RemoveAllTags() {
	pictures := t.tag.GetFrames(t.tag.CommonID("Attached picture"))
	t.tag.DeleteAllFrames()
	for _, f := range pictures {
		if pf, ok := f.(id3v2.PictureFrame); ok {
			t.tag.AddAttachedPicture(pf)
		}
	}
}

func (t *id3Tag) FrontCovers() []core.CoverArt {
	var out []core.CoverArt
	for _, f := range t.tag.GetFrames(t.tag.CommonID("Attached picture")) {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok || pf.PictureType != id3v2.PTFrontCover {
			continue
		}
		out = append(out, coverFromMIME(pf.MimeType, pf.Picture))
	}
	return out
}

func (t *id3Tag) SetFrontCover(art core.CoverArt) error {
	t.RemoveFrontCovers()
	t.tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    art.MIME,
		PictureType: id3v2.PTFrontCover,
		Picture:     art.Data,
	})
	return nil
}

func (t *id3Tag) RemoveFrontCovers() int {
	apicID := t.tag.CommonID("Attached picture")
	frames := t.tag.GetFrames(apicID)
	removed := 0
	var keep []id3v2.PictureFrame
	for _, f := range frames {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if pf.PictureType == id3v2.PTFrontCover {
			removed++
			continue
		}
		keep = append(keep, pf)
	}
	if removed == 0 {
		return 0
	}
	t.tag.DeleteFrames(apicID)
	for _, pf := range keep {
		t.tag.AddAttachedPicture(pf)
	}
	return removed
}

// SetTextFrame removes every frame with the given ID and inserts one
// fresh text frame, keeping the frame unique.
func (t *id3Tag) SetTextFrame(id, text string) {
	t.tag.DeleteFrames(id)
	t.tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
}

func (t *id3Tag) SetUserTextFrame(desc, text string) {
	txxxID := t.tag.CommonID("User defined text information frame")
	frames := t.tag.GetFrames(txxxID)
	t.tag.DeleteFrames(txxxID)
	for _, f := range frames {
		if uf, ok := f.(id3v2.UserDefinedTextFrame); ok && !strings.EqualFold(uf.Description, desc) {
			t.tag.AddUserDefinedTextFrame(uf)
		}
	}
	t.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: desc,
		Value:       text,
	})
}

func (t *id3Tag) SetCommentFrame(desc, text string) {
	commID := t.tag.CommonID("Comments")
	frames := t.tag.GetFrames(commID)
	t.tag.DeleteFrames(commID)
	for _, f := range frames {
		if cf, ok := f.(id3v2.CommentFrame); ok && !strings.EqualFold(cf.Description, desc) {
			t.tag.AddCommentFrame(cf)
		}
	}
	t.tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: desc,
		Text:        text,
	})
}

func coverFromMIME(mime string, data []byte) core.CoverArt {
	format := core.CoverJPEG
	if strings.Contains(strings.ToLower(mime), "png") {
		format = core.CoverPNG
	}
	return core.CoverArt{Format: format, MIME: mime, Data: data}
}
