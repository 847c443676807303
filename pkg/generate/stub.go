package generate

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
)

// Stub is a deterministic in-process Generator used by tests and by
// keyless development runs. Responses are synthesized locally and each
// modality can be forced to fail.
type Stub struct {
	mu sync.Mutex

	// TextResponse overrides the generated scenario JSON when non-empty.
	TextResponse string
	Citations    []Citation

	TextErr   error
	SpeechErr error
	ImageErr  error

	// Calls records every invocation for assertions, keyed by modality.
	Calls map[string]int
}

// NewStub returns a stub that succeeds on every modality.
func NewStub() *Stub {
	return &Stub{Calls: make(map[string]int)}
}

func (s *Stub) record(modality string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Calls == nil {
		s.Calls = make(map[string]int)
	}
	s.Calls[modality]++
}

func (s *Stub) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	s.record("text")
	if err := ctx.Err(); err != nil {
		return TextResult{}, err
	}
	if s.TextErr != nil {
		return TextResult{}, s.TextErr
	}
	if s.TextResponse != "" {
		return TextResult{Text: s.TextResponse, Citations: s.Citations}, nil
	}

	topic := "un lugar olvidado"
	if i := strings.Index(req.Prompt, "\n"); i > 0 {
		topic = strings.TrimSpace(req.Prompt[:i])
	}
	doc := map[string]any{
		"context":       fmt.Sprintf("Una escena imaginada sobre %s.", topic),
		"narratorIntro": "Escucha los ecos del pasado.",
		"accentProfile": "español neutro",
		"characters": []map[string]any{
			{"name": "Ana", "gender": "female", "voice": "Kore", "visualDescription": "mujer de mercado con rebozo azul", "bio": "comerciante"},
			{"name": "Diego", "gender": "male", "voice": "Charon", "visualDescription": "arriero con sombrero de palma", "bio": "viajero"},
		},
		"script": []map[string]any{
			{"speaker": "Ana", "text": "Buen día os dé Dios.", "translation": "Buenos días."},
			{"speaker": "Diego", "text": "Igualmente, señora.", "translation": "Igualmente, señora."},
		},
	}
	b, _ := json.Marshal(doc)
	return TextResult{Text: "```json\n" + string(b) + "\n```", Citations: s.Citations}, nil
}

func (s *Stub) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	s.record("speech")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.SpeechErr != nil {
		return nil, s.SpeechErr
	}
	// A short ramp of int16 samples, two bytes per transcript byte so the
	// payload length tracks the input.
	n := len(req.Transcript)
	if n < 16 {
		n = 16
	}
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(i%512)))
	}
	return out, nil
}

func (s *Stub) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	s.record("image")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.ImageErr != nil {
		return nil, s.ImageErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.Set(0, 0, color.RGBA{R: 0xB0, G: 0x6A, B: 0x3A, A: 0xFF})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
