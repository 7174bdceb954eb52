package track

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/TunaEngine/OcarinaArranger-sub000/cursor"
	"github.com/TunaEngine/OcarinaArranger-sub000/model"
)

// DecodeStrict decodes one track payload assuming it is well formed. The
// first structural violation aborts the whole decode; no partial events are
// salvaged.
func DecodeStrict(trackIndex uint32, data []byte) (model.TrackDecodeResult, error) {
	d := strictDecoder{
		decoderState: newDecoderState(trackIndex),
		cur:          cursor.New(data),
	}
	if err := d.run(); err != nil {
		return model.TrackDecodeResult{}, err
	}
	return d.res, nil
}

type strictDecoder struct {
	decoderState
	cur    *cursor.Cursor
	sawEOT bool
}

func (d *strictDecoder) run() error {
	for d.cur.Remaining() > 0 && !d.sawEOT {
		delta, err := d.cur.ReadVarint(false)
		if err != nil {
			return pkgerrors.Wrapf(err, "delta-time at offset %d", d.cur.Position())
		}
		d.tick += delta
		if d.cur.Remaining() == 0 {
			break
		}
		status, err := d.resolveStatus()
		if err != nil {
			return err
		}
		if err := d.dispatch(status); err != nil {
			return err
		}
	}
	d.res.SyntheticEOT = !d.sawEOT
	return nil
}

// resolveStatus consumes a status byte if the next byte has its high bit
// set, otherwise reuses the running status without consuming anything.
func (d *strictDecoder) resolveStatus() (byte, error) {
	b, err := d.cur.PeekByte()
	if err != nil {
		return 0, err
	}
	if b&0x80 != 0 {
		d.cur.ReadByte()
		d.runningStatus = b
		return b, nil
	}
	if d.runningStatus == 0 {
		return 0, pkgerrors.Wrapf(ErrRunningStatus, "data byte 0x%02X at offset %d", b, d.cur.Position())
	}
	return d.runningStatus, nil
}

func (d *strictDecoder) dispatch(status byte) error {
	switch status {
	case CommandCodeMetaEvent:
		metaType, err := d.cur.ReadByte()
		if err != nil {
			return err
		}
		length, err := d.cur.ReadVarint(false)
		if err != nil {
			return err
		}
		payload, err := d.cur.ReadExact(int(length))
		if err != nil {
			return err
		}
		if d.applyMeta(metaType, payload) {
			// end of track: anything after it is padding
			d.cur.ReadUpTo(d.cur.Remaining())
			d.sawEOT = true
		}
		return nil
	case CommandCodeSysex, CommandCodeEox:
		length, err := d.cur.ReadVarint(false)
		if err != nil {
			return err
		}
		_, err = d.cur.ReadExact(int(length))
		return err
	}

	channel := status & 0x0F
	switch status & 0xF0 {
	case CommandCodeNoteOn, CommandCodeNoteOff:
		b, err := d.cur.ReadExact(2)
		if err != nil {
			return err
		}
		d.handleNote(status&0xF0 == CommandCodeNoteOn, channel, b[0], b[1])
	case CommandCodeProgramChange:
		b, err := d.cur.ReadExact(1)
		if err != nil {
			return err
		}
		d.res.Programs[channel] = b[0] & 0x7F
	case CommandCodeChannelAfterTouch:
		if _, err := d.cur.ReadExact(1); err != nil {
			return err
		}
	default:
		if _, err := d.cur.ReadExact(2); err != nil {
			return err
		}
	}
	return nil
}
