package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"ecos/pkg/audio"
	"ecos/pkg/scenario"
)

// State is the orchestrator's coarse progress indicator.
type State string

const (
	StateIdle          State = "idle"
	StateResearching   State = "researching"
	StateAwaitingMedia State = "awaiting_media"
)

// EventKind tags the incremental results a run emits.
type EventKind string

const (
	// EventScenario carries the partial scenario as soon as research
	// succeeds, before any audio or portraits exist.
	EventScenario EventKind = "scenario"
	// EventPortrait carries one index-addressed avatar patch.
	EventPortrait EventKind = "portrait"
	// EventAudio reports the decoded audio buffer.
	EventAudio EventKind = "audio"
	// EventWarning reports a non-fatal media failure (typically audio).
	EventWarning EventKind = "warning"
	// EventError reports a research failure; the run is over.
	EventError EventKind = "error"
	// EventDone reports that every media call settled.
	EventDone EventKind = "done"
)

// Event is one incremental result of a pipeline run.
type Event struct {
	Kind           EventKind          `json:"kind"`
	Scenario       *scenario.Scenario `json:"scenario,omitempty"`
	CharacterIndex int                `json:"characterIndex,omitempty"`
	AvatarURL      string             `json:"avatarUrl,omitempty"`
	Audio          *AudioInfo         `json:"audio,omitempty"`
	Message        string             `json:"message,omitempty"`
}

// AudioInfo describes a decoded audio buffer without carrying the samples.
type AudioInfo struct {
	ScenarioID string  `json:"scenarioId"`
	SampleRate int     `json:"sampleRate"`
	Channels   int     `json:"channels"`
	Duration   float64 `json:"durationSeconds"`
	Path       string  `json:"-"`
}

// Query is one user submission.
type Query struct {
	Location        string `json:"location"`
	Date            string `json:"date,omitempty"`
	IncludeNarrator bool   `json:"includeNarrator"`
	Portraits       bool   `json:"portraits"`
}

// Snapshot is the orchestrator state as visible to the presentation layer.
// A scenario with absent audio and absent avatars is a valid, renderable
// snapshot.
type Snapshot struct {
	State    State              `json:"state"`
	Scenario *scenario.Scenario `json:"scenario,omitempty"`
	Audio    *AudioInfo         `json:"audio,omitempty"`
	Warning  string             `json:"warning,omitempty"`
	Error    string             `json:"error,omitempty"`
	Complete bool               `json:"complete"`
}

// Orchestrator drives one pipeline run at a time. Every mutation is guarded
// by a generation token so results from a superseded run can never touch the
// state of a newer one.
type Orchestrator struct {
	pipe *Pipeline
	base context.Context
	log  *log.Logger

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	state    State
	sc       *scenario.Scenario
	audio    *audio.Buffer
	info     *AudioInfo
	warning  string
	errMsg   string
	complete bool
}

// NewOrchestrator builds an orchestrator whose runs are bounded by base.
func NewOrchestrator(base context.Context, pipe *Pipeline, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		pipe:  pipe,
		base:  base,
		log:   logger,
		state: StateIdle,
	}
}

// Submit starts a new run, cancelling and superseding any run still in
// flight, and returns the run's event stream. The channel closes when the
// run settles completely.
func (o *Orchestrator) Submit(q Query) <-chan Event {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(o.base)
	o.cancel = cancel

	// No stale data survives a new submission.
	o.state = StateResearching
	o.sc = nil
	o.audio = nil
	o.info = nil
	o.warning = ""
	o.errMsg = ""
	o.complete = false
	o.mu.Unlock()

	events := make(chan Event, 16)
	go o.run(ctx, gen, q, events)
	return events
}

// Snapshot returns the current state. The scenario is copied so in-flight
// portrait patches never race the caller.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:    o.state,
		Scenario: copyScenario(o.sc),
		Audio:    o.info,
		Warning:  o.warning,
		Error:    o.errMsg,
		Complete: o.complete,
	}
}

// Audio returns the decoded buffer for the given scenario id, if it is the
// current one.
func (o *Orchestrator) Audio(scenarioID string) (*audio.Buffer, *AudioInfo, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.audio == nil || o.info == nil || o.info.ScenarioID != scenarioID {
		return nil, nil, false
	}
	return o.audio, o.info, true
}

// RegenerateAudio re-runs only the speech stage on the current scenario,
// for example after a narrator toggle. The research stage is not repeated.
func (o *Orchestrator) RegenerateAudio(ctx context.Context, opts SpeechOptions) (*AudioInfo, error) {
	o.mu.Lock()
	gen := o.gen
	sc := o.sc
	o.mu.Unlock()
	if sc == nil {
		return nil, errors.New("no scenario to synthesize")
	}

	buf, err := o.pipe.Synthesize(ctx, sc, opts)
	if err != nil {
		return nil, err
	}
	info := o.storeAudio(gen, sc, buf)
	if info == nil {
		return nil, errors.New("superseded by a newer query")
	}
	return info, nil
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, q Query, events chan<- Event) {
	defer close(events)

	sc, err := o.pipe.Research(ctx, q.Location, q.Date)
	if err != nil {
		o.mu.Lock()
		if gen == o.gen {
			o.state = StateIdle
			o.sc = nil
			o.errMsg = err.Error()
		}
		o.mu.Unlock()
		o.emit(ctx, events, Event{Kind: EventError, Message: err.Error()})
		return
	}

	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return
	}
	o.sc = sc
	o.state = StateAwaitingMedia
	snapshot := copyScenario(sc)
	o.mu.Unlock()

	o.emit(ctx, events, Event{Kind: EventScenario, Scenario: snapshot})

	// Media phase: one speech call plus one portrait call per character,
	// all concurrent. Every call settles before the run is declared done;
	// individual failures only degrade the result.
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		buf, err := o.pipe.Synthesize(ctx, sc, SpeechOptions{IncludeNarrator: q.IncludeNarrator})
		if err != nil {
			o.mu.Lock()
			if gen == o.gen {
				o.warning = "audio unavailable"
			}
			o.mu.Unlock()
			o.log.Warn("media phase: audio failed", "id", sc.ID, "err", err)
			o.emit(ctx, events, Event{Kind: EventWarning, Message: "audio unavailable"})
			return
		}
		if info := o.storeAudio(gen, sc, buf); info != nil {
			o.emit(ctx, events, Event{Kind: EventAudio, Audio: info})
		}
	}()

	if q.Portraits && o.pipe.Capabilities().Portraits {
		for i := range sc.Characters {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ch := sc.Characters[i]
				url, ok := o.pipe.Portrait(ch.Name, ch.VisualDescription, sc.Context)
				if !ok {
					return
				}
				if o.patchAvatar(gen, sc.ID, i, url) {
					o.emit(ctx, events, Event{Kind: EventPortrait, CharacterIndex: i, AvatarURL: url})
				}
			}(i)
		}
	}

	wg.Wait()

	o.mu.Lock()
	if gen == o.gen {
		o.state = StateIdle
		o.complete = true
	}
	o.mu.Unlock()
	o.emit(ctx, events, Event{Kind: EventDone})
}

// patchAvatar applies one index-addressed, single-field patch to the shared
// scenario. Stale generations and out-of-range indexes are ignored.
func (o *Orchestrator) patchAvatar(gen uint64, scenarioID string, idx int, url string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen || o.sc == nil || o.sc.ID != scenarioID {
		return false
	}
	if idx < 0 || idx >= len(o.sc.Characters) {
		return false
	}
	o.sc.Characters[idx].AvatarURL = url
	return true
}

// storeAudio replaces the audio slot wholesale. Returns nil if the run was
// superseded.
func (o *Orchestrator) storeAudio(gen uint64, sc *scenario.Scenario, buf *audio.Buffer) *AudioInfo {
	info := &AudioInfo{
		ScenarioID: sc.ID,
		SampleRate: buf.SampleRate(),
		Channels:   buf.NumChannels(),
		Duration:   buf.Duration(),
	}
	if dir := o.pipe.cfg.AudioDir; dir != "" {
		info.Path = filepath.Join(dir, sc.ID+".wav")
		if err := buf.SaveWAV(info.Path); err != nil {
			o.log.Warn("failed to persist audio", "path", info.Path, "err", err)
			info.Path = ""
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return nil
	}
	o.audio = buf
	o.info = info
	return info
}

// emit delivers an event unless the run has been cancelled.
func (o *Orchestrator) emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// copyScenario clones sc deeply enough that later in-place avatar patches
// cannot race a reader.
func copyScenario(sc *scenario.Scenario) *scenario.Scenario {
	if sc == nil {
		return nil
	}
	out := *sc
	out.Characters = append([]scenario.Character(nil), sc.Characters...)
	out.Script = append([]scenario.DialogueLine(nil), sc.Script...)
	out.Sources = append([]scenario.Source(nil), sc.Sources...)
	return &out
}
