package track

import (
	"fmt"

	"github.com/TunaEngine/OcarinaArranger-sub000/cursor"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"
)

// DecodeLenient decodes one track payload, replacing every failure mode of
// the strict grammar with a recovery action and a TrackIssue. It never
// fails: the result is always structurally valid, possibly incomplete.
func DecodeLenient(trackIndex uint32, data []byte) model.TrackDecodeResult {
	d := lenientDecoder{
		decoderState: newDecoderState(trackIndex),
		cur:          cursor.New(data),
	}
	d.run()
	model.SortIssues(d.res.Issues)
	return d.res
}

type lenientDecoder struct {
	decoderState
	cur     *cursor.Cursor
	sawEOT  bool
	stopped bool
}

func (d *lenientDecoder) issue(detail string) {
	d.res.Issues = append(d.res.Issues, model.TrackIssue{
		TrackIndex: d.trackIndex,
		Offset:     uint32(d.cur.Position()),
		Tick:       d.tick,
		Detail:     detail,
	})
}

// truncated logs a mid-event truncation and stops the decode: with an event
// cut short there is no reliable way to resynchronize on the rest.
func (d *lenientDecoder) truncated(detail string) {
	d.issue(detail)
	d.runningStatus = 0
	d.stopped = true
}

func (d *lenientDecoder) run() {
	for d.cur.Remaining() > 0 && !d.sawEOT && !d.stopped {
		delta, err := d.cur.ReadVarint(true)
		if err != nil {
			// no tick cursor means nothing downstream is meaningful
			d.issue("Malformed delta-time; stopped decoding track")
			break
		}
		d.tick += delta
		if d.cur.Remaining() == 0 {
			break
		}
		status, ok := d.resolveStatus()
		if !ok {
			continue
		}
		d.dispatch(status)
	}
	if !d.sawEOT {
		d.issue("Inserted synthetic end-of-track")
		d.res.SyntheticEOT = true
	}
}

// resolveStatus mirrors the strict resolution but degrades instead of
// failing: a data byte with no running status is consumed and discarded, and
// a resolved status below 0x80 is thrown away along with the running status.
func (d *lenientDecoder) resolveStatus() (byte, bool) {
	b, err := d.cur.PeekByte()
	if err != nil {
		return 0, false
	}
	var status byte
	if b&0x80 != 0 {
		d.cur.ReadByte()
		d.runningStatus = b
		status = b
	} else if d.runningStatus == 0 {
		d.cur.ReadByte()
		d.issue(fmt.Sprintf("Ignored data byte 0x%02X without running status", b))
		return 0, false
	} else {
		status = d.runningStatus
	}
	if status < 0x80 {
		d.issue(fmt.Sprintf("Discarded invalid status byte 0x%02X", status))
		d.runningStatus = 0
		return 0, false
	}
	return status, true
}

func (d *lenientDecoder) dispatch(status byte) {
	switch status {
	case CommandCodeMetaEvent:
		typ := d.cur.ReadUpTo(1)
		if len(typ) == 0 {
			d.truncated("Truncated meta event")
			return
		}
		length, err := d.cur.ReadVarint(true)
		if err != nil {
			d.truncated("Truncated meta event")
			return
		}
		payload := d.cur.ReadUpTo(int(length))
		if uint64(len(payload)) < length {
			d.truncated("Truncated meta event")
			return
		}
		if d.applyMeta(typ[0], payload) {
			d.cur.ReadUpTo(d.cur.Remaining())
			d.sawEOT = true
		}
		return
	case CommandCodeSysex, CommandCodeEox:
		length, err := d.cur.ReadVarint(true)
		if err != nil {
			d.truncated("Truncated sysex event")
			return
		}
		skipped := d.cur.ReadUpTo(int(length))
		if uint64(len(skipped)) < length {
			d.truncated("Truncated sysex event")
		}
		return
	}

	channel := status & 0x0F
	switch status & 0xF0 {
	case CommandCodeNoteOn, CommandCodeNoteOff:
		b := d.cur.ReadUpTo(2)
		if len(b) < 2 {
			d.truncated("Truncated note event")
			return
		}
		d.handleNote(status&0xF0 == CommandCodeNoteOn, channel, b[0], b[1])
	case CommandCodeProgramChange:
		b := d.cur.ReadUpTo(1)
		if len(b) < 1 {
			d.truncated("Truncated program change")
			return
		}
		d.res.Programs[channel] = b[0] & 0x7F
	case CommandCodeChannelAfterTouch:
		if len(d.cur.ReadUpTo(1)) < 1 {
			d.truncated("Truncated channel event")
		}
	default:
		if len(d.cur.ReadUpTo(2)) < 2 {
			d.truncated("Truncated channel event")
		}
	}
}
