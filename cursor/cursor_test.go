package cursor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadExactAdvances(t *testing.T) {
	c := New([]byte{1, 2, 3, 4})

	assert := assert.New(t)
	b, err := c.ReadExact(3)
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, b)
	assert.Equal(3, c.Position())
	assert.Equal(1, c.Remaining())
}

func TestReadExactFailsWhenShort(t *testing.T) {
	c := New([]byte{1, 2})

	_, err := c.ReadExact(3)
	assert.True(t, errors.Is(err, ErrTruncatedRead))
	assert.Equal(t, 0, c.Position())
}

func TestReadUpToTruncatesAtEnd(t *testing.T) {
	c := New([]byte{1, 2})

	assert := assert.New(t)
	assert.Equal([]byte{1, 2}, c.ReadUpTo(5))
	assert.Equal([]byte{}, c.ReadUpTo(5))
	assert.Equal(2, c.Position())
}

func TestPeekByteDoesNotAdvance(t *testing.T) {
	c := New([]byte{0x90})

	assert := assert.New(t)
	b, err := c.PeekByte()
	assert.NoError(err)
	assert.Equal(byte(0x90), b)
	assert.Equal(0, c.Position())

	c.ReadByte()
	_, err = c.PeekByte()
	assert.True(errors.Is(err, ErrTruncatedRead))
}

func TestReadVarintValues(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 127},
		{[]byte{0x81, 0x00}, 128},
		{[]byte{0xFF, 0x7F}, 16383},
		{[]byte{0x81, 0x80, 0x80, 0x00}, 1 << 21},
	}

	for _, tc := range cases {
		c := New(tc.bytes)
		got, err := c.ReadVarint(false)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, len(tc.bytes), c.Position())
	}
}

func TestReadVarintOverlongStrict(t *testing.T) {
	c := New([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	_, err := c.ReadVarint(false)
	assert.True(t, errors.Is(err, ErrOverlongVarint))
}

func TestReadVarintOverlongPartial(t *testing.T) {
	c := New([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	assert := assert.New(t)
	got, err := c.ReadVarint(true)
	assert.NoError(err)
	assert.Equal(uint64(0x0FFFFFFF), got)
	assert.Equal(4, c.Position())
}

func TestReadVarintTruncatedStrict(t *testing.T) {
	c := New([]byte{0x81})

	_, err := c.ReadVarint(false)
	assert.True(t, errors.Is(err, ErrTruncatedRead))
}

func TestReadVarintTruncatedPartial(t *testing.T) {
	c := New([]byte{0x81})

	assert := assert.New(t)
	got, err := c.ReadVarint(true)
	assert.NoError(err)
	assert.Equal(uint64(1), got)
	assert.Equal(1, c.Position())
}

func TestReadVarintPartialNeedsAtLeastOneByte(t *testing.T) {
	c := New(nil)

	_, err := c.ReadVarint(true)
	assert.True(t, errors.Is(err, ErrTruncatedRead))
}
