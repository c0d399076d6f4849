package store

import (
	"fmt"
	"strings"

	"go.senan.xyz/taglib"

	"github.com/driftsound/retag/core"
)

// pictureField is the base64-encoded artwork comment of Ogg streams.
// It rides along the property map, opaque: embedding would need
// picture encoding this container path does not offer, but removal is
// just dropping the key.
const pictureField = "METADATA_BLOCK_PICTURE"

// oggFile stages the full Vorbis comment map of an Ogg stream and
// writes it back in one replace on save.
type oggFile struct {
	path  string
	props core.Tag
}

func openOGG(path string) (*oggFile, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read ogg tags of %s: %w", path, err)
	}
	props := core.Tag{}
	for key, vals := range raw {
		props[strings.ToUpper(key)] = append([]string(nil), vals...)
	}
	return &oggFile{path: path, props: props}, nil
}

func (f *oggFile) Path() string { return f.path }

func (f *oggFile) Capability() core.FormatCapability { return core.CapXiph }

func (f *oggFile) Properties() core.Tag {
	out := f.props.Clone()
	delete(out, pictureField)
	return out
}

func (f *oggFile) SetProperties(props core.Tag) {
	pic := f.props[pictureField]
	f.props = props.Clone()
	if len(pic) > 0 {
		f.props[pictureField] = pic
	}
}

func (f *oggFile) Album() string { return f.props.First("ALBUM") }

func (f *oggFile) SetAlbum(album string) { f.SetField("ALBUM", album) }

func (f *oggFile) ClearKnownField(name string) bool {
	key := knownFieldKey(name)
	if key == "" {
		return false
	}
	delete(f.props, key)
	return true
}

func (f *oggFile) RemoveAllTags() {
	pic := f.props[pictureField]
	f.props = core.Tag{}
	if len(pic) > 0 {
		f.props[pictureField] = pic
	}
}

func (f *oggFile) FrontCovers() []core.CoverArt { return nil }

func (f *oggFile) SetFrontCover(core.CoverArt) error {
	return core.ErrUnsupportedOperation
}

func (f *oggFile) RemoveFrontCovers() int {
	n := len(f.props[pictureField])
	delete(f.props, pictureField)
	return n
}

func (f *oggFile) SetField(key, value string) {
	f.props[strings.ToUpper(key)] = []string{value}
}

func (f *oggFile) Save() error {
	if err := taglib.WriteTags(f.path, f.props, taglib.Clear); err != nil {
		return fmt.Errorf("write ogg tags of %s: %w", f.path, err)
	}
	return nil
}

func (f *oggFile) Close() error { return nil }
