package generate

import (
	"cmp"
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig selects the models used for each modality.
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	TTSModel   string
	ImageModel string
}

// Gemini implements Generator on top of the Gemini API. All three
// modalities go through the same client.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGemini constructs the process-wide Gemini generator.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	cfg.TextModel = cmp.Or(cfg.TextModel, "gemini-2.5-flash")
	cfg.TTSModel = cmp.Or(cfg.TTSModel, "gemini-2.5-flash-preview-tts")
	cfg.ImageModel = cmp.Or(cfg.ImageModel, "gemini-2.5-flash-image")

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func (g *Gemini) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	config := textConfig(req)
	result, err := g.client.Models.GenerateContent(ctx, g.cfg.TextModel, genai.Text(req.Prompt), config)
	if err != nil {
		return TextResult{}, fmt.Errorf("failed to generate content: %w", err)
	}

	out := TextResult{Text: result.Text()}
	if out.Text == "" {
		return TextResult{}, ErrEmptyPayload
	}
	out.Citations = groundingCitations(result)
	return out, nil
}

func textConfig(req TextRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(cmp.Or(req.MaxOutputTokens, 8192)),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleModel)
	}
	if req.Grounded {
		// The search tool cannot be combined with a JSON response MIME
		// type; grounded responses go through the fence-stripping parser.
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = req.Schema
	}
	return config
}

func groundingCitations(result *genai.GenerateContentResponse) []Citation {
	if len(result.Candidates) == 0 {
		return nil
	}
	meta := result.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var out []Citation
	for _, chunk := range meta.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Fuente"
		}
		out = append(out, Citation{Title: title, URI: chunk.Web.URI})
	}
	return out
}

func (g *Gemini) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	if len(req.Slots) == 0 {
		return nil, fmt.Errorf("speech request has no voice slots")
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig:       speechConfig(req.Slots),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.TTSModel, genai.Text(req.Transcript), config)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	data := inlineData(result)
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}

func speechConfig(slots []VoiceSlot) *genai.SpeechConfig {
	if len(slots) == 1 {
		return &genai.SpeechConfig{
			VoiceConfig: prebuilt(slots[0].Voice),
		}
	}
	configs := make([]*genai.SpeakerVoiceConfig, 0, len(slots))
	for _, s := range slots {
		configs = append(configs, &genai.SpeakerVoiceConfig{
			Speaker:     s.Speaker,
			VoiceConfig: prebuilt(s.Voice),
		})
	}
	return &genai.SpeechConfig{
		MultiSpeakerVoiceConfig: &genai.MultiSpeakerVoiceConfig{
			SpeakerVoiceConfigs: configs,
		},
	}
}

func prebuilt(voice string) *genai.VoiceConfig {
	return &genai.VoiceConfig{
		PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
	}
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	result, err := g.client.Models.GenerateContent(ctx, g.cfg.ImageModel, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	data := inlineData(result)
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}

// inlineData returns the first inline binary payload of the response. The
// SDK base64-decodes wire payloads before handing them over.
func inlineData(result *genai.GenerateContentResponse) []byte {
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
