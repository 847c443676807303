// Package scenario defines the structured historical scene record produced
// by the research stage and the parser that extracts it from raw model
// output.
package scenario

import (
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// MaxVoicedCharacters is the number of characters a single synthesis call
// can voice. Scenarios may model more, but only the first two are spoken.
const MaxVoicedCharacters = 2

// MaxSources caps the grounding citations attached to a scenario.
const MaxSources = 3

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Character is one speaking participant in a scene.
type Character struct {
	Name              string `json:"name" jsonschema_description:"Name of the character, unique within the scene"`
	Gender            Gender `json:"gender" jsonschema:"enum=male,enum=female" jsonschema_description:"Gender used for approximate voice matching"`
	Voice             string `json:"voice" jsonschema_description:"Synthesis voice identifier for this character"`
	VisualDescription string `json:"visualDescription" jsonschema_description:"Physical appearance, clothing and setting details for portrait generation"`
	Bio               string `json:"bio" jsonschema_description:"One or two sentences about who this person is"`

	// AvatarURL is patched in place, exactly once, when the portrait stage
	// settles for this character. Empty until then.
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Annotation explains a phrase from a dialogue line.
type Annotation struct {
	Phrase      string `json:"phrase" jsonschema_description:"The phrase being annotated"`
	Explanation string `json:"explanation" jsonschema_description:"Cultural or linguistic explanation of the phrase"`
}

// DialogueLine is one utterance. Order within the script is speaking order.
type DialogueLine struct {
	Speaker     string       `json:"speaker" jsonschema_description:"Name of the character speaking this line"`
	Text        string       `json:"text" jsonschema_description:"The line in its original language or register"`
	Translation string       `json:"translation" jsonschema_description:"Modern Spanish rendering of the line"`
	Annotations []Annotation `json:"annotations,omitempty" jsonschema_description:"Optional phrase explanations"`
}

// Source is a grounding citation returned by a web-search-augmented call.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Scenario is the unit of work produced by one user query. It is immutable
// after construction except for per-character avatar patches and the audio
// slot tracked by the orchestrator.
type Scenario struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	// Echoes of the caller's original inputs, kept for history recall.
	LocationInput string `json:"locationInput,omitempty"`
	DateInput     string `json:"dateInput,omitempty"`

	Context       string         `json:"context" jsonschema_description:"Narrative prose describing the historical setting"`
	NarratorIntro string         `json:"narratorIntro,omitempty" jsonschema_description:"Short spoken introduction read by the narrator"`
	AccentProfile string         `json:"accentProfile,omitempty" jsonschema_description:"Linguistic and phonetic register the narration should convey"`
	Characters    []Character    `json:"characters" jsonschema_description:"One or two named characters present in the scene"`
	Script        []DialogueLine `json:"script" jsonschema_description:"Ordered bilingual dialogue script"`
	Sources       []Source       `json:"sources,omitempty"`
}

// Stamp assigns a fresh opaque id and creation timestamp and records the
// caller's original query strings. Sources beyond the cap are discarded.
func (s *Scenario) Stamp(location, date string) {
	s.ID = ksuid.New().String()
	s.CreatedAt = time.Now().UTC()
	s.LocationInput = strings.TrimSpace(location)
	s.DateInput = strings.TrimSpace(date)
	if len(s.Sources) > MaxSources {
		s.Sources = s.Sources[:MaxSources]
	}
}

// SpeakerIndex resolves a script speaker name to a character index.
// Unknown speakers resolve to 0, the narrator slot; resolution never fails.
func (s *Scenario) SpeakerIndex(speaker string) int {
	for i, ch := range s.Characters {
		if strings.EqualFold(strings.TrimSpace(ch.Name), strings.TrimSpace(speaker)) {
			if i >= MaxVoicedCharacters {
				return 0
			}
			return i
		}
	}
	return 0
}
