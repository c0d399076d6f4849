package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/store"
)

func testOrchestrator(files map[string]*fakeFile) *Orchestrator {
	open := func(path string) (store.File, error) {
		f, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("open %s: %w", path, store.ErrUnknownFormat)
		}
		if f == nil {
			return nil, errors.New("disk on fire")
		}
		return f, nil
	}
	return NewWithOpener(open, zerolog.Nop())
}

func TestProcessEmptyRequestNeverOpens(t *testing.T) {
	o := testOrchestrator(nil)

	out := o.Process("anything.mp3", Request{})
	assert.Equal(t, core.StatusNoOp, out.Status)
}

func TestProcessUnknownFormatFailsOpen(t *testing.T) {
	o := testOrchestrator(map[string]*fakeFile{})

	out := o.Process("book.pdf", Request{RemoveAll: true})
	assert.Equal(t, core.StatusOpenFailed, out.Status)
	assert.True(t, out.Status.Failed())
}

func TestProcessOpenFailure(t *testing.T) {
	o := testOrchestrator(map[string]*fakeFile{"bad.mp3": nil})

	out := o.Process("bad.mp3", Request{RemoveAll: true})
	assert.Equal(t, core.StatusOpenFailed, out.Status)
	assert.Contains(t, out.Detail, "disk on fire")
}

func TestProcessMutatesAndSavesOnce(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}, "MOOD": {"dark"}})
	o := testOrchestrator(map[string]*fakeFile{"a.mp3": f})

	out := o.Process("a.mp3", Request{
		Analysis:    &AnalysisRequest{Result: fullResult(), Parts: AllParts()},
		RemoveNames: []string{"mood"},
		Edits:       []core.TagOperation{{Key: "title", Value: "Nightdrive", Mode: core.OpSet}},
	})
	require.Equal(t, core.StatusOK, out.Status)
	assert.True(t, f.saved)
	assert.True(t, f.closed)
	assert.Equal(t, "128 | 0.81 | 8A | Amazing Album", f.Album())
	assert.Empty(t, f.props["MOOD"])
	assert.Equal(t, []string{"Nightdrive"}, f.props["TITLE"])
}

func TestProcessNoMutationSkipsSave(t *testing.T) {
	f := newFakeFile(core.CapID3v2, nil)
	o := testOrchestrator(map[string]*fakeFile{"a.mp3": f})

	out := o.Process("a.mp3", Request{RemoveNames: []string{"mood"}})
	assert.Equal(t, core.StatusNoOp, out.Status)
	assert.False(t, f.saved)
	assert.True(t, f.closed)
}

func TestProcessBelowFloorIsNoOp(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"A"}})
	o := testOrchestrator(map[string]*fakeFile{"a.mp3": f})

	out := o.Process("a.mp3", Request{
		Analysis: &AnalysisRequest{Parts: AllParts()},
	})
	assert.Equal(t, core.StatusNoOp, out.Status)
	assert.Contains(t, out.Detail, "detection floor")
	assert.False(t, f.saved)
}

func TestProcessCoverUnsupportedWarns(t *testing.T) {
	f := newFakeFile(core.CapXiph, nil)
	f.coverErr = core.ErrUnsupportedOperation
	o := testOrchestrator(map[string]*fakeFile{"a.ogg": f})

	img := writeTestImage(t)
	out := o.Process("a.ogg", Request{CoverPath: img})
	assert.Equal(t, core.StatusUnsupported, out.Status)
	require.Len(t, out.Warnings, 1)
	assert.False(t, f.saved)
}

func TestProcessCoverUnsupportedStillAppliesRest(t *testing.T) {
	f := newFakeFile(core.CapXiph, core.Tag{"MOOD": {"dark"}})
	f.coverErr = core.ErrUnsupportedOperation
	o := testOrchestrator(map[string]*fakeFile{"a.ogg": f})

	img := writeTestImage(t)
	out := o.Process("a.ogg", Request{CoverPath: img, RemoveNames: []string{"mood"}})
	assert.Equal(t, core.StatusOK, out.Status)
	assert.Len(t, out.Warnings, 1)
	assert.True(t, f.saved)
	assert.Empty(t, f.props["MOOD"])
}

func TestProcessSaveFailure(t *testing.T) {
	f := newFakeFile(core.CapID3v2, nil)
	f.saveErr = errors.New("readonly fs")
	o := testOrchestrator(map[string]*fakeFile{"a.mp3": f})

	out := o.Process("a.mp3", Request{RemoveAll: true})
	assert.Equal(t, core.StatusSaveFailed, out.Status)
	assert.Contains(t, out.Detail, "readonly fs")
}

func TestProcessAllIsolatesPanics(t *testing.T) {
	bad := newFakeFile(core.CapID3v2, nil)
	bad.panicOnSave = true
	good := newFakeFile(core.CapID3v2, nil)
	o := testOrchestrator(map[string]*fakeFile{"bad.mp3": bad, "good.mp3": good})

	req := Request{RemoveAll: true}
	outcomes := o.ProcessAll([]Job{
		{Path: "bad.mp3", Request: req},
		{Path: "good.mp3", Request: req},
	})
	require.Len(t, outcomes, 2)
	assert.Equal(t, core.StatusFailed, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Detail, "codec blew up")
	assert.Equal(t, core.StatusOK, outcomes[1].Status)
	assert.True(t, good.saved)
}

func TestProcessRemoveAllWinsOverNames(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"TITLE": {"Song"}, "MOOD": {"dark"}})
	o := testOrchestrator(map[string]*fakeFile{"a.mp3": f})

	out := o.Process("a.mp3", Request{RemoveAll: true, RemoveNames: []string{"title"}})
	require.Equal(t, core.StatusOK, out.Status)
	assert.True(t, f.removedAll)
	assert.Empty(t, f.props)
}
