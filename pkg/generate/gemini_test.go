package generate

import "testing"

func TestTextConfigUngroundedCarriesSchema(t *testing.T) {
	schema := map[string]any{"type": "object"}
	config := textConfig(TextRequest{Prompt: "x", Schema: schema})

	if config.ResponseMIMEType != "application/json" {
		t.Errorf("mime type = %q, want application/json", config.ResponseMIMEType)
	}
	if config.ResponseJsonSchema == nil {
		t.Error("response schema not attached")
	}
	if len(config.Tools) != 0 {
		t.Errorf("tools = %v, want none", config.Tools)
	}
}

func TestTextConfigGroundedUsesSearchTool(t *testing.T) {
	config := textConfig(TextRequest{Prompt: "x", Schema: map[string]any{}, Grounded: true})

	if len(config.Tools) != 1 || config.Tools[0].GoogleSearch == nil {
		t.Fatalf("tools = %v, want the search tool", config.Tools)
	}
	// Search and a JSON response MIME type are mutually exclusive.
	if config.ResponseMIMEType != "" {
		t.Errorf("mime type = %q, want empty", config.ResponseMIMEType)
	}
	if config.ResponseJsonSchema != nil {
		t.Error("response schema must not accompany the search tool")
	}
}
