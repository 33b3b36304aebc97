// Package audio merges independently encoded MP3 segments into one stream.
//
// Appending MP3 files byte for byte leaves ID3 tags and partial frames in
// the middle of the output, which many players stop at. Join instead walks
// every segment frame by frame and copies only whole MPEG audio frames.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tcolgate/mp3"
)

// ErrNoFrames is returned when none of the inputs contained an MPEG frame.
var ErrNoFrames = errors.New("no mp3 frames found")

const (
	id3v2HeaderLen = 10
	id3v1TagLen    = 128
)

type Result struct {
	Frames   int
	Bytes    int64
	Duration time.Duration
	// Skipped counts non-frame bytes discarded while resyncing.
	Skipped int
	// Empty counts input segments that contributed no frames.
	Empty int
}

// Join writes the frames of every segment to w in order.
func Join(w io.Writer, segments ...io.Reader) (Result, error) {
	var res Result
	for i, seg := range segments {
		data, err := io.ReadAll(seg)
		if err != nil {
			return res, fmt.Errorf("reading segment %d: %w", i, err)
		}
		n, err := copyFrames(w, StripTags(data), &res)
		if err != nil {
			return res, fmt.Errorf("segment %d: %w", i, err)
		}
		if n == 0 {
			res.Empty++
		}
	}
	if res.Frames == 0 {
		return res, ErrNoFrames
	}
	return res, nil
}

// Duration measures the playback length of an MP3 stream.
func Duration(r io.Reader) (time.Duration, error) {
	res, err := Join(io.Discard, r)
	return res.Duration, err
}

func copyFrames(w io.Writer, data []byte, res *Result) (int, error) {
	dec := mp3.NewDecoder(bytes.NewReader(data))
	var (
		frame   mp3.Frame
		skipped int
		count   int
	)
	for {
		err := dec.Decode(&frame, &skipped)
		res.Skipped += skipped
		if err != nil {
			// a truncated trailing frame is dropped rather than copied
			return count, nil
		}
		n, err := io.Copy(w, frame.Reader())
		if err != nil {
			return count, fmt.Errorf("writing frame: %w", err)
		}
		res.Bytes += n
		res.Duration += frame.Duration()
		res.Frames++
		count++
	}
}

// StripTags removes leading ID3v2 tags and a trailing ID3v1 tag.
func StripTags(data []byte) []byte {
	for len(data) >= id3v2HeaderLen && string(data[:3]) == "ID3" {
		size := syncsafe(data[6:10])
		total := id3v2HeaderLen + size
		if data[5]&0x10 != 0 {
			total += id3v2HeaderLen // footer present
		}
		if total > len(data) {
			return nil
		}
		data = data[total:]
	}
	if len(data) >= id3v1TagLen && string(data[len(data)-id3v1TagLen:len(data)-id3v1TagLen+3]) == "TAG" {
		data = data[:len(data)-id3v1TagLen]
	}
	return data
}

func syncsafe(b []byte) int {
	return int(b[0]&0x7f)<<21 | int(b[1]&0x7f)<<14 | int(b[2]&0x7f)<<7 | int(b[3]&0x7f)
}
