package scenario

import "strings"

// DefaultVoice is used when a character carries no usable voice identifier.
const DefaultVoice = "Kore"

// Voice is one prebuilt synthesis voice offered by the external service.
// The set is closed; invalid identifiers are the service's concern and are
// only normalized for casing here.
type Voice struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// Voices is the catalog of prebuilt voice identifiers, with approximate
// gender tags for character matching.
var Voices = []Voice{
	{"Zephyr", GenderFemale},
	{"Puck", GenderMale},
	{"Charon", GenderMale},
	{"Kore", GenderFemale},
	{"Fenrir", GenderMale},
	{"Leda", GenderFemale},
	{"Orus", GenderMale},
	{"Aoede", GenderFemale},
	{"Callirrhoe", GenderFemale},
	{"Autonoe", GenderFemale},
	{"Enceladus", GenderMale},
	{"Iapetus", GenderMale},
	{"Umbriel", GenderMale},
	{"Algieba", GenderMale},
	{"Despina", GenderFemale},
	{"Erinome", GenderFemale},
	{"Algenib", GenderMale},
	{"Rasalgethi", GenderMale},
	{"Laomedeia", GenderFemale},
	{"Achernar", GenderFemale},
	{"Alnilam", GenderMale},
	{"Schedar", GenderMale},
	{"Gacrux", GenderFemale},
	{"Pulcherrima", GenderFemale},
	{"Achird", GenderMale},
	{"Zubenelgenubi", GenderMale},
	{"Vindemiatrix", GenderFemale},
	{"Sadachbia", GenderMale},
	{"Sadaltager", GenderMale},
	{"Sulafat", GenderFemale},
}

// NormalizeVoice canonicalizes the casing of a voice identifier against the
// catalog. Unknown identifiers are returned trimmed but otherwise untouched.
func NormalizeVoice(name string) string {
	name = strings.TrimSpace(name)
	for _, v := range Voices {
		if strings.EqualFold(v.Name, name) {
			return v.Name
		}
	}
	return name
}

// KnownVoice reports whether name is in the catalog.
func KnownVoice(name string) bool {
	name = strings.TrimSpace(name)
	for _, v := range Voices {
		if strings.EqualFold(v.Name, name) {
			return true
		}
	}
	return false
}

// VoiceForGender picks a catalog voice by approximate gender match.
func VoiceForGender(g Gender) string {
	for _, v := range Voices {
		if v.Gender == g {
			return v.Name
		}
	}
	return DefaultVoice
}

// ResolveVoice returns the character's voice identifier, normalized, falling
// back to a gender match and finally the default voice.
func (c Character) ResolveVoice() string {
	if KnownVoice(c.Voice) {
		return NormalizeVoice(c.Voice)
	}
	if c.Gender == GenderMale || c.Gender == GenderFemale {
		return VoiceForGender(c.Gender)
	}
	return DefaultVoice
}
