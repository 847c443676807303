package scenario

import "testing"

func TestNormalizeVoice(t *testing.T) {
	if got := NormalizeVoice("kore"); got != "Kore" {
		t.Errorf("NormalizeVoice(kore) = %q", got)
	}
	if got := NormalizeVoice(" CHARON "); got != "Charon" {
		t.Errorf("NormalizeVoice(CHARON) = %q", got)
	}
	// Unknown identifiers pass through; validity is the service's concern.
	if got := NormalizeVoice("NotAVoice"); got != "NotAVoice" {
		t.Errorf("NormalizeVoice(NotAVoice) = %q", got)
	}
}

func TestResolveVoice(t *testing.T) {
	tests := []struct {
		name string
		char Character
		want string
	}{
		{"known voice", Character{Voice: "puck"}, "Puck"},
		{"unknown voice male", Character{Voice: "Gravel", Gender: GenderMale}, VoiceForGender(GenderMale)},
		{"unknown voice female", Character{Voice: "", Gender: GenderFemale}, VoiceForGender(GenderFemale)},
		{"nothing usable", Character{}, DefaultVoice},
	}
	for _, tt := range tests {
		if got := tt.char.ResolveVoice(); got != tt.want {
			t.Errorf("%s: ResolveVoice() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCatalogGenders(t *testing.T) {
	for _, v := range Voices {
		if v.Gender != GenderMale && v.Gender != GenderFemale {
			t.Errorf("voice %s has no gender tag", v.Name)
		}
	}
}
