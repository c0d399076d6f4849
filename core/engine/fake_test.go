package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/driftsound/retag/core"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeFile is an in-memory tag handle recording everything the engine
// stages on it.
type fakeFile struct {
	path       string
	cap        core.FormatCapability
	props      core.Tag
	frames     map[string]string // ID3 text frames by frame ID
	userFrames map[string]string // TXXX frames by description
	comments   map[string]string // COMM frames by description
	fields     map[string]string // Xiph fields by key
	covers     []core.CoverArt
	coverErr   error

	cleared       []string
	removedAll    bool
	setPropsCalls int
	saved         bool
	closed        bool
	saveErr       error
	panicOnSave   bool
}

func newFakeFile(cap core.FormatCapability, props core.Tag) *fakeFile {
	if props == nil {
		props = core.Tag{}
	}
	return &fakeFile{
		path:       "fake",
		cap:        cap,
		props:      props,
		frames:     map[string]string{},
		userFrames: map[string]string{},
		comments:   map[string]string{},
		fields:     map[string]string{},
	}
}

func (f *fakeFile) Path() string                      { return f.path }
func (f *fakeFile) Capability() core.FormatCapability { return f.cap }

func (f *fakeFile) Properties() core.Tag { return f.props.Clone() }

func (f *fakeFile) SetProperties(props core.Tag) {
	f.props = props.Clone()
	f.setPropsCalls++
}

func (f *fakeFile) Album() string { return f.props.First("ALBUM") }

func (f *fakeFile) SetAlbum(album string) { f.props["ALBUM"] = []string{album} }

func (f *fakeFile) ClearKnownField(name string) bool {
	switch strings.ToLower(name) {
	case "artist", "album", "title", "comment", "genre", "year", "track":
		f.cleared = append(f.cleared, strings.ToLower(name))
		delete(f.props, strings.ToUpper(name))
		return true
	}
	return false
}

func (f *fakeFile) RemoveAllTags() {
	f.props = core.Tag{}
	f.removedAll = true
}

func (f *fakeFile) FrontCovers() []core.CoverArt { return f.covers }

func (f *fakeFile) SetFrontCover(art core.CoverArt) error {
	if f.coverErr != nil {
		return f.coverErr
	}
	f.covers = []core.CoverArt{art}
	return nil
}

func (f *fakeFile) RemoveFrontCovers() int {
	n := len(f.covers)
	f.covers = nil
	return n
}

func (f *fakeFile) SetTextFrame(id, text string)       { f.frames[id] = text }
func (f *fakeFile) SetUserTextFrame(desc, text string) { f.userFrames[desc] = text }
func (f *fakeFile) SetCommentFrame(desc, text string)  { f.comments[desc] = text }
func (f *fakeFile) SetField(key, value string)         { f.fields[strings.ToUpper(key)] = value }

func (f *fakeFile) Save() error {
	if f.panicOnSave {
		panic("codec blew up")
	}
	f.saved = true
	return f.saveErr
}

func (f *fakeFile) Close() error {
	f.closed = true
	return nil
}
