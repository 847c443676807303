// Package pipeline sequences the research, speech synthesis and portrait
// stages that turn a place-and-date query into a narrated historical scene.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"ecos/pkg/flight"
	"ecos/pkg/generate"
	"ecos/pkg/scenario"
)

// Capabilities is decided once at startup and injected; stages never probe
// the environment mid-flow.
type Capabilities struct {
	// Grounding enables the provider's web-search tool during research.
	Grounding bool
	// Portraits enables the portrait stage.
	Portraits bool
}

// Config carries pipeline tuning. Zero values get reasonable defaults.
type Config struct {
	Capabilities Capabilities

	ResearchTimeout time.Duration
	SpeechTimeout   time.Duration
	PortraitTimeout time.Duration

	// PortraitDir, when set, receives generated portraits as WebP files.
	PortraitDir string
	// AudioDir, when set, receives decoded audio as WAV files so the HTTP
	// layer can serve them.
	AudioDir string
}

func (c Config) withDefaults() Config {
	if c.ResearchTimeout <= 0 {
		c.ResearchTimeout = 90 * time.Second
	}
	if c.SpeechTimeout <= 0 {
		c.SpeechTimeout = 2 * time.Minute
	}
	if c.PortraitTimeout <= 0 {
		c.PortraitTimeout = 90 * time.Second
	}
	return c
}

// Pipeline holds the injected generator and runs the individual stages.
type Pipeline struct {
	gen generate.Generator
	cfg Config
	log *log.Logger

	ctx       context.Context
	portraits *flight.Cache[portraitRequest, string]
}

// New builds a pipeline around one process-wide generator. ctx bounds
// background work such as portrait generation.
func New(ctx context.Context, gen generate.Generator, cfg Config, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	p := &Pipeline{
		gen: gen,
		cfg: cfg.withDefaults(),
		log: logger,
		ctx: ctx,
	}
	p.portraits = flight.NewCache(p.generatePortrait)
	return p
}

// Capabilities reports what this pipeline was configured to do.
func (p *Pipeline) Capabilities() Capabilities { return p.cfg.Capabilities }

// Research runs the text stage once: prompt, generation call, parse, stamp.
// Any failure comes back as a ResearchFailedError; there are no automatic
// retries.
func (p *Pipeline) Research(ctx context.Context, location, period string) (*scenario.Scenario, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ResearchTimeout)
	defer cancel()

	req := generate.TextRequest{
		System:         researchSystemPrompt,
		Prompt:         buildResearchPrompt(location, period),
		Schema:         scenario.Schema,
		ResponseFormat: scenario.StructuredOutputsResponseFormat(),
		Grounded:       p.cfg.Capabilities.Grounding,
	}

	start := time.Now()
	result, err := p.gen.GenerateText(ctx, req)
	if err != nil {
		return nil, &ResearchFailedError{Err: err}
	}
	p.log.Debug("research call finished", "elapsed", time.Since(start), "cited", len(result.Citations))

	sc, err := scenario.Parse(result.Text)
	if err != nil {
		p.log.Warn("research response unparseable", "err", err)
		return nil, &ResearchFailedError{Err: err}
	}

	for i, c := range result.Citations {
		if i >= scenario.MaxSources {
			break
		}
		title := c.Title
		if title == "" {
			title = "Fuente"
		}
		sc.Sources = append(sc.Sources, scenario.Source{Title: title, URI: c.URI})
	}
	sc.Stamp(location, period)

	p.log.Info("scenario ready", "id", sc.ID, "characters", len(sc.Characters), "lines", len(sc.Script))
	return sc, nil
}
