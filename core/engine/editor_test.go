package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsound/retag/core"
)

func TestApplyOperationsComposeOnOneSnapshot(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"TITLE": {"Song"}})

	n := ApplyOperations(f, []core.TagOperation{
		{Key: "title", Value: " (Remix)", Mode: core.OpAppend},
		{Key: "title", Value: "[Intro] ", Mode: core.OpPrepend},
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"[Intro] Song (Remix)"}, f.props["TITLE"])
	assert.Equal(t, 1, f.setPropsCalls, "batch stages through one property write")
}

func TestApplyOperationsSetCollapsesMultiValue(t *testing.T) {
	f := newFakeFile(core.CapXiph, core.Tag{"GENRE": {"Ambient", "Drone"}})

	ApplyOperations(f, []core.TagOperation{{Key: "genre", Value: "Techno", Mode: core.OpSet}})
	assert.Equal(t, []string{"Techno"}, f.props["GENRE"])
}

func TestApplyOperationsAppendOnAbsentFieldSets(t *testing.T) {
	f := newFakeFile(core.CapID3v2, nil)

	ApplyOperations(f, []core.TagOperation{{Key: "mood", Value: "dark", Mode: core.OpAppend}})
	assert.Equal(t, []string{"dark"}, f.props["MOOD"])
}

func TestApplyOperationsMultiValueEdges(t *testing.T) {
	f := newFakeFile(core.CapXiph, core.Tag{"GENRE": {"Ambient", "Drone"}})

	ApplyOperations(f, []core.TagOperation{
		{Key: "genre", Value: " Music", Mode: core.OpAppend},
		{Key: "genre", Value: "Dark ", Mode: core.OpPrepend},
	})
	assert.Equal(t, []string{"Dark Ambient", "Drone Music"}, f.props["GENRE"])
}

func TestApplyOperationsKeyResolution(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"MixedCase": {"x"}})

	// No uppercase match, exact-case match wins.
	ApplyOperations(f, []core.TagOperation{{Key: "MixedCase", Value: "y", Mode: core.OpSet}})
	assert.Equal(t, []string{"y"}, f.props["MixedCase"])
	_, created := f.props["MIXEDCASE"]
	assert.False(t, created)

	// No match at all, the field is created uppercased.
	ApplyOperations(f, []core.TagOperation{{Key: "Rating", Value: "5", Mode: core.OpSet}})
	assert.Equal(t, []string{"5"}, f.props["RATING"])
}

func TestApplyOperationsEmptyBatch(t *testing.T) {
	f := newFakeFile(core.CapID3v2, nil)

	require.Zero(t, ApplyOperations(f, nil))
	assert.Zero(t, f.setPropsCalls)
}
