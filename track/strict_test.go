package track

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TunaEngine/OcarinaArranger-sub000/cursor"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"
)

func TestStrictTempoExtraction(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x51, 0x03, 0x09, 0x27, 0xC0, 0x00, 0xFF, 0x2F, 0x00}
	res, err := DecodeStrict(0, data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(res.Events)
	assert.Empty(res.Programs)
	assert.Len(res.TempoChanges, 1)
	assert.Equal(uint64(0), res.TempoChanges[0].Tick)
	assert.InDelta(100.0, res.TempoChanges[0].BPM, 0.001)
	assert.False(res.SyntheticEOT)
}

func TestStrictNotePairing(t *testing.T) {
	data := []byte{
		0x00, 0x90, 0x3C, 0x64, // note on C4
		0x60, 0x80, 0x3C, 0x40, // note off 96 ticks later
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.NoteEvent{
		{OnsetTick: 0, DurationTick: 96, Pitch: 0x3C, Channel: 0},
	}, res.Events)
}

func TestStrictRunningStatusNotes(t *testing.T) {
	data := []byte{
		0x00, 0x90, 0x3C, 0x64,
		0x10, 0x3E, 0x64, // running status note on
		0x20, 0x3C, 0x00, // running status, velocity 0 closes
		0x10, 0x3E, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.NoteEvent{
		{OnsetTick: 0, DurationTick: 48, Pitch: 0x3C, Channel: 0},
		{OnsetTick: 16, DurationTick: 40, Pitch: 0x3E, Channel: 0},
	}, res.Events)
}

func TestStrictZeroDurationDropped(t *testing.T) {
	data := []byte{
		0x00, 0x90, 0x3C, 0x64,
		0x00, 0x80, 0x3C, 0x40,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestStrictUnmatchedNoteOffIgnored(t *testing.T) {
	data := []byte{
		0x00, 0x80, 0x3C, 0x40,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestStrictDataByteWithoutStatusFails(t *testing.T) {
	data := []byte{0x00, 0x3C}
	_, err := DecodeStrict(0, data)

	assert.True(t, errors.Is(err, ErrRunningStatus))
}

func TestStrictTruncatedNoteFails(t *testing.T) {
	data := []byte{0x00, 0x90, 0x3C}
	_, err := DecodeStrict(0, data)

	assert.True(t, errors.Is(err, cursor.ErrTruncatedRead))
}

func TestStrictOverlongDeltaFails(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	_, err := DecodeStrict(0, data)

	assert.True(t, errors.Is(err, cursor.ErrOverlongVarint))
}

func TestStrictProgramChangeLastWriteWinsWithinTrack(t *testing.T) {
	data := []byte{
		0x00, 0xC2, 0x05,
		0x00, 0xC2, 0x07,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert.NoError(t, err)
	assert.Equal(t, map[uint8]uint8{2: 7}, res.Programs)
}

func TestStrictSysexSkipped(t *testing.T) {
	data := []byte{
		0x00, 0xF0, 0x03, 0xAA, 0xBB, 0xCC, // payload bytes may have high bits
		0x00, 0x90, 0x3C, 0x64,
		0x30, 0x90, 0x3C, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.NoteEvent{
		{OnsetTick: 0, DurationTick: 48, Pitch: 0x3C, Channel: 0},
	}, res.Events)
}

func TestStrictZeroTempoDiscarded(t *testing.T) {
	data := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x00, 0x00, 0x00,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert.NoError(t, err)
	assert.Empty(t, res.TempoChanges)
}

func TestStrictTimeSignature(t *testing.T) {
	data := []byte{
		0x00, 0xFF, 0x58, 0x04, 0x03, 0x03, 0x18, 0x08,
		0x00, 0xFF, 0x2F, 0x00,
	}
	res, err := DecodeStrict(0, data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(res.TimeSignatures, 1)
	assert.Equal(uint8(3), res.TimeSignatures[0].Beats)
	assert.Equal(uint8(8), res.TimeSignatures[0].BeatUnit)
}

func TestStrictEmptyTrackIsSynthetic(t *testing.T) {
	res, err := DecodeStrict(0, nil)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(res.Events)
	assert.True(res.SyntheticEOT)
}

func TestStrictTrailingDeltaStops(t *testing.T) {
	res, err := DecodeStrict(0, []byte{0x40})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(res.Events)
	assert.True(res.SyntheticEOT)
}

func TestStrictEventsAfterEndOfTrackIgnored(t *testing.T) {
	data := []byte{
		0x00, 0x90, 0x3C, 0x64,
		0x60, 0x80, 0x3C, 0x40,
		0x00, 0xFF, 0x2F, 0x00,
		0x00, 0x90, 0x40, 0x64, // padding past end of track
	}
	res, err := DecodeStrict(0, data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(res.Events, 1)
	assert.False(res.SyntheticEOT)
}
