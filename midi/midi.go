// Package midi reads a Standard MIDI File, decodes every track (strictly
// where possible, leniently where permitted) and merges the per-track
// results into one Score plus an ImportReport describing what, if anything,
// had to be recovered.
package midi

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"sort"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/TunaEngine/OcarinaArranger-sub000/constants"
	"github.com/TunaEngine/OcarinaArranger-sub000/cursor"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"
	"github.com/TunaEngine/OcarinaArranger-sub000/track"
	"github.com/TunaEngine/OcarinaArranger-sub000/util"
)

var (
	ErrMalformedFile = errors.New("malformed midi file")
	ErrInvalidMode   = errors.New("invalid import mode")
	ErrEmptyScore    = errors.New("no note events in file")
)

const (
	ModeStrict  = "strict"
	ModeLenient = "lenient"
	ModeAuto    = "auto"
)

var (
	headerMagic = [4]byte{'M', 'T', 'h', 'd'}
	trackMagic  = [4]byte{'M', 'T', 'r', 'k'}
)

const headerChunkLength = 6

// ReadMidiFile decodes the file at path. See Decode for mode semantics.
func ReadMidiFile(path string, mode string) (*model.Score, *model.ImportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, pkgerrors.Wrapf(err, "reading midi file %v", path)
	}
	return Decode(data, mode)
}

// Decode parses the SMF container and decodes every declared track. Mode is
// one of "strict", "lenient" or "auto" ("" counts as "auto"): in strict mode
// any track failure aborts the import, otherwise a failing track is re-run
// through the lenient decoder and the import degrades to "lenient".
func Decode(data []byte, mode string) (*model.Score, *model.ImportReport, error) {
	switch mode {
	case "":
		mode = ModeAuto
	case ModeStrict, ModeLenient, ModeAuto:
	default:
		return nil, nil, pkgerrors.Wrapf(ErrInvalidMode, "%q", mode)
	}

	c := cursor.New(data)
	trackCount, division, err := readHeader(c)
	if err != nil {
		return nil, nil, err
	}
	// the top bit marks SMPTE-style division; mask it off rather than
	// interpret it, and keep the resolution positive
	ppq := division & 0x7FFF
	if ppq == 0 {
		ppq = 1
	}

	degraded := false
	var results []model.TrackDecodeResult
	for i := 0; i < int(trackCount); i++ {
		payload, err := readTrackChunk(c)
		if err != nil {
			return nil, nil, err
		}
		res, err := track.DecodeStrict(uint32(i), payload)
		if err != nil {
			if mode == ModeStrict {
				return nil, nil, pkgerrors.Wrapf(err, "track %d", i)
			}
			res = track.DecodeLenient(uint32(i), payload)
			degraded = true
		}
		results = append(results, res)
	}

	score, report := merge(results, ppq)
	if len(score.Events) == 0 {
		return nil, nil, pkgerrors.Wrap(ErrEmptyScore, "import produced no notes")
	}
	if degraded {
		report.Mode = ModeLenient
	} else {
		report.Mode = ModeStrict
	}
	return score, report, nil
}

func readHeader(c *cursor.Cursor) (trackCount uint16, division uint16, err error) {
	magic, err := c.ReadExact(4)
	if err != nil {
		return 0, 0, pkgerrors.Wrap(ErrMalformedFile, "file shorter than a header chunk")
	}
	if [4]byte(magic) != headerMagic {
		return 0, 0, pkgerrors.Wrapf(ErrMalformedFile, "bad header magic % X", magic)
	}
	body, err := c.ReadExact(10)
	if err != nil {
		return 0, 0, pkgerrors.Wrap(ErrMalformedFile, "truncated header chunk")
	}
	if size := binary.BigEndian.Uint32(body[0:4]); size != headerChunkLength {
		return 0, 0, pkgerrors.Wrapf(ErrMalformedFile, "header chunk size %d, want %d", size, headerChunkLength)
	}
	// body[4:6] is the format word; nothing downstream needs it
	trackCount = binary.BigEndian.Uint16(body[6:8])
	division = binary.BigEndian.Uint16(body[8:10])
	return trackCount, division, nil
}

func readTrackChunk(c *cursor.Cursor) ([]byte, error) {
	head, err := c.ReadExact(8)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrMalformedFile, "truncated track chunk header")
	}
	if [4]byte(head[0:4]) != trackMagic {
		return nil, pkgerrors.Wrapf(ErrMalformedFile, "bad track magic % X", head[0:4])
	}
	size := binary.BigEndian.Uint32(head[4:8])
	payload, err := c.ReadExact(int(size))
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrMalformedFile, "track chunk declares %d bytes", size)
	}
	return payload, nil
}

// merge folds the per-track results into one Score and report. Programs are
// first-writer-wins across tracks; tempo changes are pooled, ordered and
// deduplicated; events keep track order.
func merge(results []model.TrackDecodeResult, ppq uint16) (*model.Score, *model.ImportReport) {
	score := &model.Score{
		Programs:         make(map[uint8]uint8),
		PulsesPerQuarter: ppq,
	}
	report := &model.ImportReport{
		ID:        uuid.New().String(),
		NumTracks: len(results),
	}

	var tempoPool []model.TempoEvent
	var timeSigPool []model.TimeSignatureEvent
	for i, res := range results {
		score.Events = append(score.Events, res.Events...)
		for _, ch := range util.GetKeysSorted(res.Programs) {
			if _, ok := score.Programs[ch]; !ok {
				score.Programs[ch] = res.Programs[ch]
			}
		}
		tempoPool = append(tempoPool, res.TempoChanges...)
		timeSigPool = append(timeSigPool, res.TimeSignatures...)
		report.Issues = append(report.Issues, res.Issues...)
		if res.SyntheticEOT {
			report.SyntheticEOTTracks = append(report.SyntheticEOTTracks, i)
		}
	}
	model.SortIssues(report.Issues)

	score.TempoChanges = mergeTempo(tempoPool)
	report.AssumedTempoBPM = int(math.Round(score.TempoChanges[0].BPM))
	report.AssumedBeats, report.AssumedBeatUnit = assumedTimeSignature(timeSigPool)
	report.NumEvents = len(score.Events)
	return score, report
}

// mergeTempo orders the pooled tempo changes by tick, keeps only the latest
// value seen for each tick, and drops changes that repeat the previous kept
// value. An empty schedule gets the default tempo at tick 0.
func mergeTempo(pool []model.TempoEvent) []model.TempoEvent {
	if len(pool) == 0 {
		return []model.TempoEvent{{Tick: 0, BPM: constants.DefaultTempoBPM}}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Tick < pool[j].Tick
	})
	var kept []model.TempoEvent
	for i, ev := range pool {
		if i+1 < len(pool) && pool[i+1].Tick == ev.Tick {
			continue
		}
		if len(kept) > 0 && kept[len(kept)-1].BPM == ev.BPM {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

func assumedTimeSignature(pool []model.TimeSignatureEvent) (uint8, uint8) {
	if len(pool) == 0 {
		return constants.DefaultBeats, constants.DefaultBeatUnit
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Tick < pool[j].Tick
	})
	return pool[0].Beats, pool[0].BeatUnit
}
