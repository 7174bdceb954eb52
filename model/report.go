package model

// Score is the merged whole-file decode handed to the document builder:
// the note timeline, the per-channel program map, the deduplicated tempo
// schedule and the tick resolution from the file header.
type Score struct {
	Events           []NoteEvent
	Programs         map[uint8]uint8
	TempoChanges     []TempoEvent
	PulsesPerQuarter uint16
}

// ImportReport is the user-facing summary of one file import. Mode is
// "strict" when every track decoded strictly and "lenient" when at least one
// track fell back to the recovering decoder.
type ImportReport struct {
	ID                 string       `json:"id"`
	Mode               string       `json:"mode"`
	Issues             []TrackIssue `json:"issues"`
	SyntheticEOTTracks []int        `json:"synthetic_eot_tracks"`
	AssumedTempoBPM    int          `json:"assumed_tempo_bpm"`
	AssumedBeats       uint8        `json:"assumed_beats"`
	AssumedBeatUnit    uint8        `json:"assumed_beat_unit"`
	NumTracks          int          `json:"num_tracks"`
	NumEvents          int          `json:"num_events"`
}
