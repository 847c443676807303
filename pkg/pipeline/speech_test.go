package pipeline

import (
	"strings"
	"testing"

	"ecos/pkg/scenario"
)

func sceneWith(chars ...scenario.Character) *scenario.Scenario {
	return &scenario.Scenario{
		Context:       "un mercado colonial",
		NarratorIntro: "Escucha los ecos.",
		AccentProfile: "español novohispano",
		Characters:    chars,
		Script: []scenario.DialogueLine{
			{Speaker: "A", Text: "primera línea", Translation: "t1"},
			{Speaker: "B", Text: "segunda línea", Translation: "t2"},
			{Speaker: "C", Text: "tercera línea", Translation: "t3"},
		},
	}
}

func TestVoiceSlotsTwoCharacters(t *testing.T) {
	sc := sceneWith(
		scenario.Character{Name: "A", Voice: "kore"},
		scenario.Character{Name: "B", Voice: "Charon"},
		scenario.Character{Name: "C", Voice: "Puck"},
	)
	slots := VoiceSlots(sc)
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if slots[0].Speaker != "A" || slots[0].Voice != "Kore" {
		t.Errorf("slot 0 = %+v", slots[0])
	}
	if slots[1].Speaker != "B" || slots[1].Voice != "Charon" {
		t.Errorf("slot 1 = %+v", slots[1])
	}
}

func TestVoiceSlotsNoCharacters(t *testing.T) {
	sc := &scenario.Scenario{Context: "x"}
	slots := VoiceSlots(sc)
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if slots[0].Speaker != narratorLabel || slots[0].Voice != scenario.DefaultVoice {
		t.Errorf("narrator slot = %+v", slots[0])
	}
}

func TestVoiceSlotsGenderFallback(t *testing.T) {
	sc := sceneWith(scenario.Character{Name: "A", Gender: scenario.GenderMale, Voice: "NotReal"})
	slots := VoiceSlots(sc)
	if slots[0].Voice != scenario.VoiceForGender(scenario.GenderMale) {
		t.Errorf("fallback voice = %q", slots[0].Voice)
	}
}

func TestTranscriptOrderAndTags(t *testing.T) {
	sc := sceneWith(
		scenario.Character{Name: "A", Voice: "Kore"},
		scenario.Character{Name: "B", Voice: "Charon"},
	)
	got := Transcript(sc, SpeechOptions{IncludeNarrator: true})

	lines := strings.Split(strings.TrimSpace(got), "\n")
	// Keep only lines tagged with a slot speaker, skipping the preamble.
	var tagged []string
	for _, l := range lines {
		if strings.HasPrefix(l, "A: ") || strings.HasPrefix(l, "B: ") {
			tagged = append(tagged, l)
		}
	}
	want := []string{
		"A: Escucha los ecos.", // narrator shares slot 0
		"A: primera línea",
		"B: segunda línea",
		"A: tercera línea", // unknown speaker C falls back to slot 0
	}
	if len(tagged) != len(want) {
		t.Fatalf("tagged lines = %v, want %v", tagged, want)
	}
	for i := range want {
		if tagged[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, tagged[i], want[i])
		}
	}
}

func TestTranscriptNarratorToggle(t *testing.T) {
	sc := sceneWith(scenario.Character{Name: "A", Voice: "Kore"})
	with := Transcript(sc, SpeechOptions{IncludeNarrator: true})
	without := Transcript(sc, SpeechOptions{IncludeNarrator: false})
	if !strings.Contains(with, "Escucha los ecos.") {
		t.Error("narrator intro missing with toggle on")
	}
	if strings.Contains(without, "Escucha los ecos.") {
		t.Error("narrator intro present with toggle off")
	}
}

func TestTranscriptMentionsAccentProfile(t *testing.T) {
	sc := sceneWith(scenario.Character{Name: "A"})
	if got := Transcript(sc, SpeechOptions{}); !strings.Contains(got, "español novohispano") {
		t.Errorf("accent profile not in preamble:\n%s", got)
	}
}
