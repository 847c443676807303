package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"ecos/pkg/history"
	"ecos/pkg/pipeline"
	"ecos/pkg/utils"
)

// POST /api/echoes
//
// Starts a pipeline run and streams its incremental results as SSE events:
// "scenario" as soon as research succeeds, one "portrait" per settled
// avatar, "audio", "warning", and finally "done" (or "error" on research
// failure).
func (s *Server) handlePostEchoes(c echo.Context) error {
	var q pipeline.Query
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	q.Location = strings.TrimSpace(q.Location)
	if q.Location == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "location is required")
	}

	events := s.Orch.Submit(q)

	w := utils.NewSSEWriter(c)
	defer w.Close()

	for ev := range events {
		if ev.Kind == pipeline.EventScenario && ev.Scenario != nil {
			s.History.Add(history.Entry{
				Location:   q.Location,
				Date:       q.Date,
				ScenarioID: ev.Scenario.ID,
			})
			if err := s.History.Save(); err != nil {
				c.Logger().Warnf("failed to persist history: %v", err)
			}
		}

		if err := w.Event(string(ev.Kind), ev); err != nil {
			c.Logger().Errorf("SSE write error: %v", err)
			break
		}
		if cancelled(c) {
			break
		}
	}

	// Keep draining so a departed client never blocks the run.
	go func() {
		for range events {
		}
	}()
	return nil
}

// POST /api/echoes/current/audio
//
// Re-runs only the speech stage on the current scenario, e.g. after the
// narrator toggle changes. Research is not repeated.
func (s *Server) handlePostAudio(c echo.Context) error {
	var req struct {
		IncludeNarrator bool `json:"includeNarrator"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	info, err := s.Orch.RegenerateAudio(c.Request().Context(), pipeline.SpeechOptions{
		IncludeNarrator: req.IncludeNarrator,
	})
	if err != nil {
		c.Logger().Errorf("audio regeneration failed: %v", err)
		return c.JSON(http.StatusBadGateway, utils.ErrJSON("audio unavailable"))
	}
	return c.JSON(http.StatusOK, info)
}

func cancelled(c echo.Context) bool {
	select {
	case <-c.Request().Context().Done():
		return true
	default:
		return false
	}
}
