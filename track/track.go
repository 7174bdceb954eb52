// Package track decodes the payload of one MTrk chunk into note events,
// program assignments and tempo changes. Two decoders share the event
// grammar: DecodeStrict fails on the first structural violation, DecodeLenient
// substitutes a recovery action for every failure mode and records what it
// did as TrackIssues.
package track

import (
	"errors"

	"github.com/TunaEngine/OcarinaArranger-sub000/constants"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"
)

// ErrRunningStatus means a data byte arrived before any status byte had
// established a running status. Strict decoding only.
var ErrRunningStatus = errors.New("running status used before any status byte")

const (
	CommandCodeNoteOff           = 0x80
	CommandCodeNoteOn            = 0x90
	CommandCodeKeyAfterTouch     = 0xA0
	CommandCodeControlChange     = 0xB0
	CommandCodeProgramChange     = 0xC0
	CommandCodeChannelAfterTouch = 0xD0
	CommandCodePitchWheelChange  = 0xE0
	CommandCodeSysex             = 0xF0
	CommandCodeEox               = 0xF7
	CommandCodeMetaEvent         = 0xFF
)

const (
	MetaEventEndTrack      = 0x2F
	MetaEventSetTempo      = 0x51
	MetaEventTimeSignature = 0x58
)

type noteKey struct {
	channel uint8
	pitch   uint8
}

// decoderState holds everything both decoders share: the tick cursor, the
// running status, the table of open notes and the result being accumulated.
// One instance lives for exactly one track decode.
type decoderState struct {
	trackIndex    uint32
	tick          uint64
	runningStatus byte // 0 means unset; real statuses always have the high bit
	active        map[noteKey]uint64
	res           model.TrackDecodeResult
}

func newDecoderState(trackIndex uint32) decoderState {
	return decoderState{
		trackIndex: trackIndex,
		active:     make(map[noteKey]uint64),
		res: model.TrackDecodeResult{
			Programs: make(map[uint8]uint8),
		},
	}
}

// handleNote opens or closes a note at the current tick. A note-on with
// velocity 0 counts as a note-off. Closures at the onset tick are dropped.
func (d *decoderState) handleNote(on bool, channel, pitch, velocity uint8) {
	key := noteKey{channel: channel, pitch: pitch & 0x7F}
	if on && velocity > 0 {
		d.active[key] = d.tick
		return
	}
	onset, ok := d.active[key]
	if !ok {
		return
	}
	delete(d.active, key)
	if d.tick > onset {
		d.res.Events = append(d.res.Events, model.NoteEvent{
			OnsetTick:    onset,
			DurationTick: d.tick - onset,
			Pitch:        key.pitch,
			Channel:      channel,
		})
	}
}

// applyMeta interprets a complete meta event payload. Returns true for
// end-of-track.
func (d *decoderState) applyMeta(metaType byte, payload []byte) bool {
	switch metaType {
	case MetaEventEndTrack:
		return true
	case MetaEventSetTempo:
		if len(payload) >= 3 {
			micros := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
			if micros != 0 {
				d.res.TempoChanges = append(d.res.TempoChanges, model.TempoEvent{
					Tick: d.tick,
					BPM:  constants.MicrosPerMinute / float64(micros),
				})
			}
		}
	case MetaEventTimeSignature:
		// payload[1] is the power-of-two denominator
		if len(payload) >= 2 && payload[1] < 8 {
			d.res.TimeSignatures = append(d.res.TimeSignatures, model.TimeSignatureEvent{
				Tick:     d.tick,
				Beats:    payload[0],
				BeatUnit: 1 << payload[1],
			})
		}
	}
	return false
}
