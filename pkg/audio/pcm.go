// Package audio decodes the raw PCM payloads returned by the speech
// synthesis call into normalized sample buffers.
package audio

import "encoding/binary"

const (
	// DefaultSampleRate is the fixed output rate of the synthesis service.
	DefaultSampleRate = 24000
	// DefaultChannels is mono, the only layout the service emits.
	DefaultChannels = 1
)

// Buffer is an immutable decoded sample buffer. Samples are normalized to
// [-1.0, 1.0) and grouped per channel.
type Buffer struct {
	sampleRate int
	channels   [][]float64
}

// Decode reinterprets data as interleaved signed 16-bit little-endian PCM.
// A trailing partial frame is dropped rather than treated as an error.
func Decode(data []byte, sampleRate, channels int) *Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}

	frames := len(data) / (2 * channels)
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * 2
			s := int16(binary.LittleEndian.Uint16(data[off : off+2]))
			out[c][i] = float64(s) / 32768.0
		}
	}
	return &Buffer{sampleRate: sampleRate, channels: out}
}

// SampleRate returns the rate the buffer was decoded at.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.channels) }

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Channel returns the samples for channel c.
func (b *Buffer) Channel(c int) []float64 { return b.channels[c] }

// Duration returns the playback length in seconds.
func (b *Buffer) Duration() float64 {
	if b.sampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.sampleRate)
}
