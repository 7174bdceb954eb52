package model

import "sort"

// NoteEvent is one reconstructed note: a note-on that was later closed by a
// note-off (or a note-on with velocity 0) on the same channel and pitch.
// DurationTick is always > 0; zero-length closures are dropped by the
// decoders before an event is ever built.
type NoteEvent struct {
	OnsetTick    uint64
	DurationTick uint64
	Pitch        uint8
	Channel      uint8
}

// TempoEvent is a set-tempo meta event converted from
// microseconds-per-quarter-note to beats per minute.
type TempoEvent struct {
	Tick uint64
	BPM  float64
}

// TimeSignatureEvent comes from the time-signature meta event. BeatUnit is
// the denominator already expanded from its power-of-two encoding.
type TimeSignatureEvent struct {
	Tick     uint64
	Beats    uint8
	BeatUnit uint8
}

// TrackIssue records one recovery action taken by the lenient decoder.
// Offset is the byte offset into the track payload and Tick the decoder's
// tick cursor, both at the point of detection.
type TrackIssue struct {
	TrackIndex uint32 `json:"track_index"`
	Offset     uint32 `json:"offset"`
	Tick       uint64 `json:"tick"`
	Detail     string `json:"detail"`
}

// SortIssues orders issues by (TrackIndex, Offset, Tick, Detail), the order
// they are surfaced in everywhere.
func SortIssues(issues []TrackIssue) {
	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.TrackIndex != b.TrackIndex {
			return a.TrackIndex < b.TrackIndex
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		if a.Tick != b.Tick {
			return a.Tick < b.Tick
		}
		return a.Detail < b.Detail
	})
}

// TrackDecodeResult is everything one track decode produces. Programs maps
// channel to program number. SyntheticEOT is true iff the decoder ran out of
// bytes without seeing an explicit end-of-track meta event.
type TrackDecodeResult struct {
	Events         []NoteEvent
	Programs       map[uint8]uint8
	TempoChanges   []TempoEvent
	TimeSignatures []TimeSignatureEvent
	Issues         []TrackIssue
	SyntheticEOT   bool
}
