package audio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MPEG-1 Layer III, 128 kbit/s, 44.1 kHz, no padding, no CRC: 417 bytes.
var frameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

const (
	frameLen      = 417
	frameDuration = time.Second * 1152 / 44100
)

func testFrame() []byte {
	f := make([]byte, frameLen)
	copy(f, frameHeader)
	return f
}

func frames(n int) []byte {
	var b []byte
	for i := 0; i < n; i++ {
		b = append(b, testFrame()...)
	}
	return b
}

func id3v2(payload int) []byte {
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0}
	tag[9] = byte(payload & 0x7f)
	tag[8] = byte((payload >> 7) & 0x7f)
	return append(tag, make([]byte, payload)...)
}

func id3v1() []byte {
	tag := make([]byte, id3v1TagLen)
	copy(tag, "TAG")
	copy(tag[3:], "Some title")
	return tag
}

func TestJoinCopiesOnlyFrames(t *testing.T) {
	first := append(id3v2(200), frames(2)...)
	second := append(frames(3), id3v1()...)

	var out bytes.Buffer
	res, err := Join(&out, bytes.NewReader(first), bytes.NewReader(second))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Frames)
	assert.Equal(t, int64(5*frameLen), res.Bytes)
	assert.Equal(t, frames(5), out.Bytes())
	assert.InDelta(t, float64(5*frameDuration), float64(res.Duration), float64(time.Millisecond))
	assert.NotContains(t, out.String(), "ID3")
	assert.NotContains(t, out.String(), "TAG")
}

func TestJoinCountsEmptySegments(t *testing.T) {
	var out bytes.Buffer
	res, err := Join(&out, strings.NewReader("not audio"), bytes.NewReader(frames(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Frames)
	assert.Equal(t, 1, res.Empty)
	assert.Equal(t, frames(1), out.Bytes())
}

func TestJoinDropsTruncatedFrame(t *testing.T) {
	data := append(frames(2), testFrame()[:100]...)
	var out bytes.Buffer
	res, err := Join(&out, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Frames)
	assert.Equal(t, frames(2), out.Bytes())
}

func TestJoinNoFrames(t *testing.T) {
	_, err := Join(&bytes.Buffer{})
	require.ErrorIs(t, err, ErrNoFrames)

	_, err = Join(&bytes.Buffer{}, bytes.NewReader(id3v2(20)))
	require.ErrorIs(t, err, ErrNoFrames)
}

func TestStripTags(t *testing.T) {
	body := frames(1)
	data := append(append(id3v2(15), id3v2(3)...), body...)
	data = append(data, id3v1()...)
	assert.Equal(t, body, StripTags(data))

	assert.Nil(t, StripTags(id3v2(50)[:30]), "truncated tag")
	assert.Equal(t, body, StripTags(body))
}

func TestDuration(t *testing.T) {
	d, err := Duration(bytes.NewReader(frames(10)))
	require.NoError(t, err)
	assert.InDelta(t, float64(10*frameDuration), float64(d), float64(time.Millisecond))
}
