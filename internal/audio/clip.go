package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Clip is a decoded stimulus: interleaved samples in [-1, 1] and a sample rate.
type Clip struct {
	Source     string
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames returns the number of sample frames (samples per channel).
func (c *Clip) Frames() int {
	if c == nil || c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(c.Frames()) / float64(c.SampleRate) * float64(time.Second))
}

// PCM16 renders the clip as signed 16-bit little-endian interleaved PCM.
func (c *Clip) PCM16() []byte {
	if c == nil {
		return nil
	}
	out := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(math.Round(v*math.MaxInt16))))
	}
	return out
}
