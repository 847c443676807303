// Package generate wraps the outbound calls to the third-party generation
// service: text completion, multi-speaker speech synthesis, and image
// synthesis.
package generate

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
)

// ErrUnsupported is returned by providers that do not implement a modality.
var ErrUnsupported = errors.New("modality not supported by this provider")

// ErrEmptyPayload is returned when a call succeeds but carries no usable
// payload.
var ErrEmptyPayload = errors.New("empty payload in response")

// Citation is a (title, uri) pair surfaced by a web-grounded text call.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// TextRequest describes one text-generation call.
type TextRequest struct {
	System string
	Prompt string

	// Schema, when non-nil, asks providers that support structured output
	// to conform the response to this JSON schema.
	Schema any

	// ResponseFormat is the pre-built chat-completions response format for
	// providers speaking that dialect. When unset, such providers wrap
	// Schema in a generic format themselves.
	ResponseFormat openai.ChatCompletionNewParamsResponseFormatUnion

	// Grounded enables the provider's web-search tool. Grounded calls may
	// return free-form text rather than schema-conforming output.
	Grounded bool

	MaxOutputTokens int
}

// TextResult is the response to a TextRequest.
type TextResult struct {
	Text      string
	Citations []Citation
}

// VoiceSlot binds a transcript speaker label to a synthesis voice. A single
// speech call accepts at most two slots.
type VoiceSlot struct {
	Speaker string
	Voice   string
}

// SpeechRequest describes one multi-speaker synthesis call. Transcript lines
// are tagged "Speaker: text" in playback order.
type SpeechRequest struct {
	Transcript string
	Slots      []VoiceSlot
}

// Generator is the narrow contract to the external generation service.
// One process-wide instance is constructed at startup and injected.
type Generator interface {
	// GenerateText runs one text completion.
	GenerateText(ctx context.Context, req TextRequest) (TextResult, error)

	// GenerateSpeech synthesizes the transcript and returns raw signed
	// 16-bit little-endian PCM at 24 kHz mono.
	GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error)

	// GenerateImage synthesizes one image from a descriptive prompt and
	// returns the encoded image bytes.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
