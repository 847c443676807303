package audio

import (
	"fmt"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SaveWAV writes the buffer as a 16-bit PCM WAV file, creating parent
// directories as needed.
func (b *Buffer) SaveWAV(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create audio dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	defer f.Close()

	channels := b.NumChannels()
	frames := b.Frames()
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  b.sampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, frames*channels),
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := b.channels[c][i] * 32768.0
			if v > 32767 {
				v = 32767
			}
			if v < -32768 {
				v = -32768
			}
			buf.Data[i*channels+c] = int(v)
		}
	}

	enc := wav.NewEncoder(f, b.sampleRate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return enc.Close()
}
