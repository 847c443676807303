package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecos/pkg/audio"
	"ecos/pkg/generate"
	"ecos/pkg/scenario"
)

// narratorLabel tags the narrator intro in the transcript when the scenario
// has no characters at all.
const narratorLabel = "Narrador"

// SpeechOptions tune a synthesis call without re-running research.
type SpeechOptions struct {
	IncludeNarrator bool
}

// VoiceSlots maps the first characters of a scenario onto the at-most-two
// voice slots a single synthesis call supports. The narrator shares slot 0
// with the first character; with no characters a lone narrator slot is
// returned.
func VoiceSlots(sc *scenario.Scenario) []generate.VoiceSlot {
	n := len(sc.Characters)
	if n > scenario.MaxVoicedCharacters {
		n = scenario.MaxVoicedCharacters
	}
	if n == 0 {
		return []generate.VoiceSlot{{Speaker: narratorLabel, Voice: scenario.DefaultVoice}}
	}
	slots := make([]generate.VoiceSlot, 0, n)
	for _, ch := range sc.Characters[:n] {
		slots = append(slots, generate.VoiceSlot{
			Speaker: strings.TrimSpace(ch.Name),
			Voice:   ch.ResolveVoice(),
		})
	}
	return slots
}

// Transcript serializes the narrator intro and the script into the
// speaker-tagged form the synthesis call expects. Line order follows the
// script exactly; it determines playback order. Lines whose speaker does
// not resolve to a voiced character are read by slot 0.
func Transcript(sc *scenario.Scenario, opts SpeechOptions) string {
	slots := VoiceSlots(sc)

	var sb strings.Builder
	sb.WriteString(transcriptPreamble(sc.AccentProfile))
	sb.WriteString("\n\n")

	if opts.IncludeNarrator && strings.TrimSpace(sc.NarratorIntro) != "" {
		fmt.Fprintf(&sb, "%s: %s\n", slots[0].Speaker, strings.TrimSpace(sc.NarratorIntro))
	}
	for _, line := range sc.Script {
		slot := sc.SpeakerIndex(line.Speaker)
		if slot >= len(slots) {
			slot = 0
		}
		fmt.Fprintf(&sb, "%s: %s\n", slots[slot].Speaker, strings.TrimSpace(line.Text))
	}
	return sb.String()
}

// Synthesize runs the speech stage once and decodes the returned payload at
// 24 kHz mono. Calling it again on an unchanged scenario regenerates the
// audio, so the narrator toggle never forces a new research run.
func (p *Pipeline) Synthesize(ctx context.Context, sc *scenario.Scenario, opts SpeechOptions) (*audio.Buffer, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.SpeechTimeout)
	defer cancel()

	req := generate.SpeechRequest{
		Transcript: Transcript(sc, opts),
		Slots:      VoiceSlots(sc),
	}

	start := time.Now()
	data, err := p.gen.GenerateSpeech(ctx, req)
	if err != nil {
		return nil, &SynthesisFailedError{Err: err}
	}
	if len(data) == 0 {
		return nil, &SynthesisFailedError{Err: generate.ErrEmptyPayload}
	}

	buf := audio.Decode(data, audio.DefaultSampleRate, audio.DefaultChannels)
	p.log.Info("audio ready", "id", sc.ID, "duration", fmt.Sprintf("%.1fs", buf.Duration()), "elapsed", time.Since(start))
	return buf, nil
}
