package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/gommon/log"

	"ecos/pkg/generate"
	"ecos/pkg/history"
	"ecos/pkg/pipeline"
	"ecos/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	gen, caps := buildGenerator(ctx)

	pipe := pipeline.New(ctx, gen, pipeline.Config{
		Capabilities: caps,
		PortraitDir:  filepath.Join("media", "portraits"),
		AudioDir:     filepath.Join("media", "audio"),
	}, nil)
	orch := pipeline.NewOrchestrator(ctx, pipe, nil)

	hist := history.NewStore("History.json", history.DefaultLimit)
	if n := len(hist.Entries()); n > 0 {
		log.Infof("Loaded %d recent searches", n)
	}

	srv := server.NewServer(ctx, orch, hist)
	srv.Echo.Logger.SetLevel(log.INFO)

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error(err)
		}
		done()
		close(finishedShutDown)
	}()

	log.Infof("Listening at %s", addr)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
	}
	<-finishedShutDown
}

// buildGenerator constructs the single process-wide generator and decides
// capabilities once, here, instead of probing the environment mid-flow.
func buildGenerator(ctx context.Context) (generate.Generator, pipeline.Capabilities) {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gen, err := generate.NewGemini(ctx, generate.GeminiConfig{
			APIKey:     apiKey,
			TextModel:  os.Getenv("GEMINI_TEXT_MODEL"),
			TTSModel:   os.Getenv("GEMINI_TTS_MODEL"),
			ImageModel: os.Getenv("GEMINI_IMAGE_MODEL"),
		})
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		return gen, pipeline.Capabilities{
			Grounding: os.Getenv("ECOS_GROUNDING") != "0",
			Portraits: os.Getenv("ECOS_PORTRAITS") != "0",
		}
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		log.Warn("No GEMINI_API_KEY set; using OpenAI for text only (no audio, no portraits)")
		return generate.NewOpenAI(apiKey, os.Getenv("OPENAI_MODEL")), pipeline.Capabilities{}
	}

	log.Warn("No API key set; using the deterministic stub generator")
	return generate.NewStub(), pipeline.Capabilities{Portraits: true}
}
