package generate

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"ecos/pkg/utils"
)

// OpenAI implements the text modality of Generator through the OpenAI chat
// completion endpoint. Speech and image synthesis are not available here;
// runs backed by this provider produce text-only scenarios.
type OpenAI struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAI creates a text-only fallback generator.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		client: &client,
		apiKey: apiKey,
		model:  cmp.Or(model, "gpt-4o-mini"),
	}
}

// ChangeBaseURL points the client at a local OpenAI-compatible endpoint.
func (o *OpenAI) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
	)
	o.client = &client
}

func (o *OpenAI) GenerateText(ctx context.Context, req TextRequest) (TextResult, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: req.System},
					},
				}},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: req.Prompt},
					},
				},
			},
		},
		Temperature: openai.Float(0.7),
	}

	budget := int64(cmp.Or(req.MaxOutputTokens, 4096))
	if n, err := utils.CountTokens(req.System + req.Prompt); err == nil {
		budget = max(budget, int64(n)*2)
	}
	params.MaxCompletionTokens = openai.Int(budget)

	if req.ResponseFormat.OfJSONSchema != nil {
		params.ResponseFormat = req.ResponseFormat
	} else if req.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_response",
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return TextResult{}, fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return TextResult{}, errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return TextResult{}, ErrEmptyPayload
	}

	// Grounding is not available on this provider; no citations.
	return TextResult{Text: resp.Choices[0].Message.Content}, nil
}

func (o *OpenAI) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	return nil, ErrUnsupported
}

func (o *OpenAI) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return nil, ErrUnsupported
}
