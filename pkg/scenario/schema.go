package scenario

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// Schema is the JSON schema for a Scenario, handed to providers that
// support schema-conforming structured output.
var Schema = generateSchema[Scenario]()

// StructuredOutputsResponseFormat builds the OpenAI structured-outputs
// response format for scenario generation.
func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "historical_scenario",
		Description: openai.String("Historical scene with characters and a bilingual dialogue script"),
		Schema:      Schema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
