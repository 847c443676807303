package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ecos/pkg/scenario"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Ecos API",
		"status":  "ok",
	})
}

// GET /api/echoes/current
func (s *Server) handleGetCurrent(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Orch.Snapshot())
}

// GET /api/echoes/:id/audio
func (s *Server) handleGetAudio(c echo.Context) error {
	_, info, ok := s.Orch.Audio(c.Param("id"))
	if !ok || info.Path == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no audio for this scenario")
	}
	c.Response().Header().Set(echo.HeaderContentType, "audio/wav")
	return c.File(info.Path)
}

// GET /api/voices
func (s *Server) handleGetVoices(c echo.Context) error {
	return c.JSON(http.StatusOK, scenario.Voices)
}

// GET /api/history
func (s *Server) handleGetHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, s.History.Entries())
}
