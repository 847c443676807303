package audio

import (
	"math"
	"testing"
)

func TestDecodeKnownSamples(t *testing.T) {
	// int16 values 0, 32767, -32768
	data := []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80}
	buf := Decode(data, 24000, 1)

	if buf.SampleRate() != 24000 {
		t.Fatalf("sample rate = %d, want 24000", buf.SampleRate())
	}
	if buf.NumChannels() != 1 {
		t.Fatalf("channels = %d, want 1", buf.NumChannels())
	}
	want := []float64{0.0, 32767.0 / 32768.0, -1.0}
	got := buf.Channel(0)
	if len(got) != len(want) {
		t.Fatalf("frames = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeTruncatesPartialFrame(t *testing.T) {
	even := []byte{0x01, 0x02, 0x03, 0x04}
	odd := append(append([]byte{}, even...), 0x7F)

	a := Decode(even, 24000, 1)
	b := Decode(odd, 24000, 1)

	if a.Frames() != b.Frames() {
		t.Fatalf("odd-length buffer decoded %d frames, even %d", b.Frames(), a.Frames())
	}
	for i := range a.Channel(0) {
		if a.Channel(0)[i] != b.Channel(0)[i] {
			t.Errorf("sample %d differs after truncation", i)
		}
	}
}

func TestDecodeStereoDeinterleaves(t *testing.T) {
	// Frames: (1, -1), (2, -2) as int16 LE.
	data := []byte{
		0x01, 0x00, 0xFF, 0xFF,
		0x02, 0x00, 0xFE, 0xFF,
	}
	buf := Decode(data, 24000, 2)
	if buf.NumChannels() != 2 || buf.Frames() != 2 {
		t.Fatalf("got %d channels x %d frames, want 2x2", buf.NumChannels(), buf.Frames())
	}
	left, right := buf.Channel(0), buf.Channel(1)
	if left[0] != 1.0/32768.0 || left[1] != 2.0/32768.0 {
		t.Errorf("left channel = %v", left)
	}
	if right[0] != -1.0/32768.0 || right[1] != -2.0/32768.0 {
		t.Errorf("right channel = %v", right)
	}
}

func TestDecodeDefaults(t *testing.T) {
	buf := Decode([]byte{0x00, 0x00}, 0, 0)
	if buf.SampleRate() != DefaultSampleRate || buf.NumChannels() != DefaultChannels {
		t.Fatalf("defaults not applied: rate=%d channels=%d", buf.SampleRate(), buf.NumChannels())
	}
}

func TestDuration(t *testing.T) {
	data := make([]byte, 24000*2) // one second of mono 16-bit
	buf := Decode(data, 24000, 1)
	if math.Abs(buf.Duration()-1.0) > 1e-9 {
		t.Fatalf("duration = %v, want 1.0", buf.Duration())
	}
}
