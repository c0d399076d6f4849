package store

import (
	"fmt"
	"strconv"
	"strings"

	mp4tag "github.com/Sorrow446/go-mp4tag"

	"github.com/driftsound/retag/core"
)

// mp4KnownFields lists the iTunes-style atoms surfaced through the
// generic property view. Anything else lands in freeform ---- atoms.
var mp4KnownFields = []string{
	"TITLE", "ARTIST", "ALBUM", "ALBUMARTIST", "COMPOSER",
	"COMMENT", "COPYRIGHT", "GENRE", "DATE", "TRACKNUMBER",
}

// mp4File stages tags of an MP4/M4A container. The underlying library
// rewrites the ilst atom in one pass on save, so all edits accumulate
// in the staged property view and picture list until then.
type mp4File struct {
	path     string
	mp4      *mp4tag.MP4
	props    core.Tag
	pictures []*mp4tag.MP4Picture
}

func openMP4(path string) (*mp4File, error) {
	m, err := mp4tag.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mp4 %s: %w", path, err)
	}
	tags, err := m.Read()
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("read mp4 tags of %s: %w", path, err)
	}
	f := &mp4File{path: path, mp4: m, props: core.Tag{}, pictures: tags.Pictures}
	setIf := func(key, val string) {
		if val != "" {
			f.props[key] = []string{val}
		}
	}
	setIf("TITLE", tags.Title)
	setIf("ARTIST", tags.Artist)
	setIf("ALBUM", tags.Album)
	setIf("ALBUMARTIST", tags.AlbumArtist)
	setIf("COMPOSER", tags.Composer)
	setIf("COMMENT", tags.Comment)
	setIf("COPYRIGHT", tags.Copyright)
	setIf("GENRE", tags.CustomGenre)
	setIf("DATE", tags.Date)
	if tags.TrackNumber > 0 {
		f.props["TRACKNUMBER"] = []string{strconv.Itoa(int(tags.TrackNumber))}
	}
	for key, val := range tags.Custom {
		f.props[strings.ToUpper(key)] = []string{val}
	}
	return f, nil
}

func (f *mp4File) Path() string { return f.path }

func (f *mp4File) Capability() core.FormatCapability { return core.CapMP4 }

func (f *mp4File) Properties() core.Tag { return f.props.Clone() }

func (f *mp4File) SetProperties(props core.Tag) { f.props = props.Clone() }

func (f *mp4File) Album() string { return f.props.First("ALBUM") }

func (f *mp4File) SetAlbum(album string) {
	f.props["ALBUM"] = []string{album}
}

func (f *mp4File) ClearKnownField(name string) bool {
	key := knownFieldKey(name)
	if key == "" {
		return false
	}
	delete(f.props, key)
	return true
}

func (f *mp4File) RemoveAllTags() {
	f.props = core.Tag{}
}

func (f *mp4File) FrontCovers() []core.CoverArt {
	var out []core.CoverArt
	for _, pic := range f.pictures {
		mime := "image/jpeg"
		if pic.Format == mp4tag.ImageTypePNG {
			mime = "image/png"
		}
		out = append(out, coverFromMIME(mime, pic.Data))
	}
	return out
}

func (f *mp4File) SetFrontCover(art core.CoverArt) error {
	format := mp4tag.ImageTypeJPEG
	if art.Format == core.CoverPNG {
		format = mp4tag.ImageTypePNG
	}
	f.pictures = []*mp4tag.MP4Picture{{Format: format, Data: art.Data}}
	return nil
}

func (f *mp4File) RemoveFrontCovers() int {
	n := len(f.pictures)
	f.pictures = nil
	return n
}

func (f *mp4File) Save() error {
	out := &mp4tag.MP4Tags{
		Title:       f.props.First("TITLE"),
		Artist:      f.props.First("ARTIST"),
		Album:       f.props.First("ALBUM"),
		AlbumArtist: f.props.First("ALBUMARTIST"),
		Composer:    f.props.First("COMPOSER"),
		Comment:     f.props.First("COMMENT"),
		Copyright:   f.props.First("COPYRIGHT"),
		CustomGenre: f.props.First("GENRE"),
		Date:        f.props.First("DATE"),
		Custom:      map[string]string{},
		Pictures:    f.pictures,
	}
	if n, err := strconv.Atoi(f.props.First("TRACKNUMBER")); err == nil {
		out.TrackNumber = int16(n)
	}
	var deletes []string
	if len(f.pictures) == 0 {
		deletes = append(deletes, "cover")
	}
	for _, key := range mp4KnownFields {
		if len(f.props[key]) == 0 {
			deletes = append(deletes, mp4DeleteName(key))
		}
	}
	for _, key := range f.props.Keys() {
		if isMP4Known(key) {
			continue
		}
		out.Custom[key] = strings.Join(f.props[key], "; ")
	}
	if err := f.mp4.Write(out, deletes); err != nil {
		return fmt.Errorf("write mp4 tags of %s: %w", f.path, err)
	}
	return nil
}

func (f *mp4File) Close() error { return f.mp4.Close() }

func isMP4Known(key string) bool {
	for _, k := range mp4KnownFields {
		if k == key {
			return true
		}
	}
	return false
}

func mp4DeleteName(key string) string {
	switch key {
	case "GENRE":
		return "genre"
	case "TRACKNUMBER":
		return "track"
	default:
		return strings.ToLower(key)
	}
}
