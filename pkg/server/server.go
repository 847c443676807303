// Package server exposes the generation pipeline over HTTP.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ecos/pkg/history"
	"ecos/pkg/pipeline"
)

type Server struct {
	Echo    *echo.Echo
	Orch    *pipeline.Orchestrator
	History *history.Store
	Ctx     context.Context
}

func NewServer(ctx context.Context, orch *pipeline.Orchestrator, hist *history.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:    e,
		Orch:    orch,
		History: hist,
		Ctx:     ctx,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/echoes", s.handlePostEchoes)              // run the pipeline, stream results
	api.GET("/echoes/current", s.handleGetCurrent)       // state snapshot
	api.POST("/echoes/current/audio", s.handlePostAudio) // regenerate audio only
	api.GET("/echoes/:id/audio", s.handleGetAudio)       // decoded audio as WAV
	api.GET("/voices", s.handleGetVoices)
	api.GET("/history", s.handleGetHistory)
}

func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	saveErr := s.History.Save()
	if err := s.Echo.Shutdown(ctx); err != nil {
		return err
	}
	return saveErr
}
