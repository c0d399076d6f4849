package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftsound/retag/core"
	"github.com/driftsound/retag/core/analysis"
)

func fullResult() analysis.Result {
	return analysis.Result{BPM: 128.0, Energy: 0.81, KeyCamelot: "8A", Success: true}
}

func TestWriteAnalysisPrefixesAlbum(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, note := WriteAnalysis(f, fullResult(), AllParts(), false)
	require.True(t, applied)
	assert.Contains(t, note, "128 | 0.81 | 8A | Amazing Album")
	assert.Equal(t, "128 | 0.81 | 8A | Amazing Album", f.Album())

	assert.Equal(t, "128", f.frames["TBPM"])
	assert.Equal(t, "8A", f.frames["TKEY"])
	assert.Equal(t, "0.81", f.userFrames["ENERGY"])
	assert.Equal(t, "128 | 0.81 | 8A", f.comments["ANALYSIS"])
}

func TestWriteAnalysisReplacesStalePrefix(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"120 | 0.55 | 3B | Amazing Album"}})

	applied, _ := WriteAnalysis(f, fullResult(), AllParts(), false)
	require.True(t, applied)
	assert.Equal(t, "128 | 0.81 | 8A | Amazing Album", f.Album())
}

func TestWriteAnalysisForceDropsOriginalAlbum(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, _ := WriteAnalysis(f, fullResult(), AllParts(), true)
	require.True(t, applied)
	assert.Equal(t, "128 | 0.81 | 8A", f.Album())
}

func TestWriteAnalysisSkipsBelowDetectionFloor(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, _ := WriteAnalysis(f, analysis.Result{BPM: 0.05, Energy: 0.005, KeyCamelot: "8A"}, AllParts(), false)
	assert.False(t, applied)
	assert.Equal(t, "Amazing Album", f.Album())
	assert.Empty(t, f.frames)
}

func TestWriteAnalysisFloorNeedsBothLow(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, _ := WriteAnalysis(f, analysis.Result{BPM: 0.0, Energy: 0.5, KeyCamelot: analysis.UnknownKey}, AllParts(), false)
	require.True(t, applied)
	assert.Equal(t, "0 | 0.50 | Amazing Album", f.Album())
}

func TestWriteAnalysisUnknownKeyOmitted(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	res := fullResult()
	res.KeyCamelot = analysis.UnknownKey
	applied, _ := WriteAnalysis(f, res, AllParts(), false)
	require.True(t, applied)
	assert.Equal(t, "128 | 0.81 | Amazing Album", f.Album())
	_, hasKey := f.frames["TKEY"]
	assert.False(t, hasKey)
}

func TestWriteAnalysisRoundsAndFormats(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"A"}})

	applied, _ := WriteAnalysis(f, analysis.Result{BPM: 127.6, Energy: 0.8, KeyCamelot: "11B"}, AllParts(), false)
	require.True(t, applied)
	assert.Equal(t, "128 | 0.80 | 11B | A", f.Album())
	assert.Equal(t, "128", f.frames["TBPM"])
	assert.Equal(t, "0.80", f.userFrames["ENERGY"])
}

func TestWriteAnalysisPartialParts(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, _ := WriteAnalysis(f, fullResult(), WriteParts{BPM: true}, false)
	require.True(t, applied)
	assert.Equal(t, "128 | Amazing Album", f.Album())
	assert.Equal(t, "128", f.frames["TBPM"])
	_, hasEnergy := f.userFrames["ENERGY"]
	assert.False(t, hasEnergy)
}

func TestWriteAnalysisXiphMirrors(t *testing.T) {
	f := newFakeFile(core.CapXiph, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, _ := WriteAnalysis(f, fullResult(), AllParts(), false)
	require.True(t, applied)
	assert.Equal(t, "128", f.fields["BPM"])
	assert.Equal(t, "8A", f.fields["INITIALKEY"])
	assert.Equal(t, "0.81", f.fields["ENERGY"])
	assert.Empty(t, f.frames)
}

func TestWriteAnalysisMP4GetsAlbumOnly(t *testing.T) {
	f := newFakeFile(core.CapMP4, core.Tag{"ALBUM": {"Amazing Album"}})

	applied, _ := WriteAnalysis(f, fullResult(), AllParts(), false)
	require.True(t, applied)
	assert.Equal(t, "128 | 0.81 | 8A | Amazing Album", f.Album())
	assert.Empty(t, f.frames)
	assert.Empty(t, f.fields)
}

func TestWriteAnalysisIdempotent(t *testing.T) {
	f := newFakeFile(core.CapID3v2, core.Tag{"ALBUM": {"Amazing Album"}})

	for i := 0; i < 3; i++ {
		applied, _ := WriteAnalysis(f, fullResult(), AllParts(), false)
		require.True(t, applied)
	}
	assert.Equal(t, "128 | 0.81 | 8A | Amazing Album", f.Album())
}
