package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedResponseError reports raw model output with no parseable JSON
// object.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaViolationError reports a parsed object missing required fields.
type SchemaViolationError struct {
	Missing []string
}

func (e *SchemaViolationError) Error() string {
	return "response missing required fields: " + strings.Join(e.Missing, ", ")
}

// Extract strips markdown code fences and slices from the first '{' to the
// last '}' of raw. This is a best-effort heuristic, not a tokenizer:
// unbalanced braces inside string values can cause a truncated slice.
func Extract(raw string) (string, error) {
	s := stripFences(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", &MalformedResponseError{Reason: "no JSON object found"}
	}
	return s[start : end+1], nil
}

// Parse extracts and decodes a Scenario from raw model output and validates
// its required fields. The returned scenario is not yet stamped.
func Parse(raw string) (*Scenario, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &MalformedResponseError{Reason: "empty response"}
	}

	body, err := Extract(raw)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := json.Unmarshal([]byte(body), &sc); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Err: err}
	}

	if missing := validate(&sc); len(missing) > 0 {
		return nil, &SchemaViolationError{Missing: missing}
	}
	return &sc, nil
}

func validate(sc *Scenario) []string {
	var missing []string
	if strings.TrimSpace(sc.Context) == "" {
		missing = append(missing, "context")
	}
	if len(sc.Characters) == 0 {
		missing = append(missing, "characters")
	}
	for i, ch := range sc.Characters {
		if strings.TrimSpace(ch.Name) == "" {
			missing = append(missing, fmt.Sprintf("characters[%d].name", i))
		}
	}
	if sc.Script == nil {
		missing = append(missing, "script")
	}
	for i, line := range sc.Script {
		if strings.TrimSpace(line.Speaker) == "" {
			missing = append(missing, fmt.Sprintf("script[%d].speaker", i))
		}
		if strings.TrimSpace(line.Text) == "" {
			missing = append(missing, fmt.Sprintf("script[%d].text", i))
		}
		if strings.TrimSpace(line.Translation) == "" {
			missing = append(missing, fmt.Sprintf("script[%d].translation", i))
		}
	}
	return missing
}

// stripFences removes a wrapping markdown code block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
