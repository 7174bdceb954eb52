// Package cursor provides a bounds-checked reader over an immutable byte
// buffer. It is the single primitive both track decoders are built on: the
// strict decoder uses the exact-length reads and the failing varint mode,
// the lenient decoder uses the truncating reads and the partial varint mode.
package cursor

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/TunaEngine/OcarinaArranger-sub000/util"
)

var (
	ErrTruncatedRead  = errors.New("truncated read")
	ErrOverlongVarint = errors.New("overlong varint")
)

// MaxVarintBytes caps a MIDI variable-length quantity at 4 bytes, per the
// SMF format.
const MaxVarintBytes = 4

type Cursor struct {
	data []byte
	pos  int
}

func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

func (c *Cursor) Position() int {
	return c.pos
}

// ReadExact returns the next n bytes, advancing by n. The returned slice
// aliases the underlying buffer and must not be mutated.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, pkgerrors.Wrapf(ErrTruncatedRead, "need %d bytes at offset %d, have %d", n, c.pos, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUpTo returns at most n bytes, fewer (including none) at the end of the
// buffer. It never fails.
func (c *Cursor) ReadUpTo(n int) []byte {
	n = util.Min(n, c.Remaining())
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *Cursor) ReadByte() (byte, error) {
	if c.Remaining() < 1 {
		return 0, pkgerrors.Wrapf(ErrTruncatedRead, "need 1 byte at offset %d", c.pos)
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// PeekByte returns the next byte without advancing.
func (c *Cursor) PeekByte() (byte, error) {
	if c.Remaining() < 1 {
		return 0, pkgerrors.Wrapf(ErrTruncatedRead, "peek at offset %d past end", c.pos)
	}
	return c.data[c.pos], nil
}

// ReadVarint decodes a big-endian base-128 quantity, where the top bit of
// each byte signals a continuation. Two failure modes exist and allowPartial
// controls both: if the buffer runs out mid-sequence the accumulated value is
// returned when allowPartial is set and at least one byte was consumed,
// otherwise ErrTruncatedRead; if the sequence is still unterminated after
// MaxVarintBytes the accumulated value is returned when allowPartial is set
// (the cursor stays past the consumed bytes), otherwise ErrOverlongVarint.
func (c *Cursor) ReadVarint(allowPartial bool) (uint64, error) {
	var value uint64
	consumed := 0
	for consumed < MaxVarintBytes {
		b, err := c.ReadByte()
		if err != nil {
			if allowPartial && consumed > 0 {
				return value, nil
			}
			return 0, pkgerrors.Wrapf(ErrTruncatedRead, "varint ran past end at offset %d", c.pos)
		}
		consumed++
		value = value<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	if allowPartial {
		return value, nil
	}
	return 0, pkgerrors.Wrapf(ErrOverlongVarint, "no terminator within %d bytes at offset %d", MaxVarintBytes, c.pos)
}
