package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/unicode/norm"

	"github.com/participax/civiclens/internal/model"
	"github.com/participax/civiclens/internal/phase"
)

// Server exposes the dataset API: entry listing with a phase filter,
// phase counts, ad-hoc classification, and Prometheus metrics.
type Server struct {
	echo       *echo.Echo
	store      *Store
	classifier *phase.Classifier
	addr       string
}

type healthResponse struct {
	Status   string    `json:"status"`
	Entries  int       `json:"entries"`
	LoadedAt time.Time `json:"loaded_at"`
}

type phaseCount struct {
	Phase model.Phase `json:"phase"`
	Count int         `json:"count"`
}

type phasesResponse struct {
	Total  int          `json:"total"`
	Phases []phaseCount `json:"phases"`
}

// classifyRequest carries either free text or the fields of a structured
// entry. When any entry field is set the role boosts apply, exactly as
// they do during phase assignment.
type classifyRequest struct {
	Text               string `json:"text"`
	Keyword            string `json:"keyword"`
	CitizenSentence    string `json:"citizen_sentence"`
	DesignSuggestion   string `json:"design_suggestion"`
	PlanningSuggestion string `json:"planning_suggestion"`
	Source             string `json:"source"`
}

func (r classifyRequest) hasEntryFields() bool {
	return r.Keyword != "" || r.CitizenSentence != "" || r.DesignSuggestion != "" || r.PlanningSuggestion != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates the server around a loaded store.
func New(cfg model.ServerConfig, store *Store, classifier *phase.Classifier) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metricsMiddleware)

	s := &Server{
		echo:       e,
		store:      store,
		classifier: classifier,
		addr:       fmt.Sprintf(":%d", cfg.Port),
	}

	e.GET("/health", s.handleHealth)
	e.GET("/api/entries", s.handleEntries)
	e.GET("/api/phases", s.handlePhases)
	e.POST("/api/classify", s.handleClassify)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Entries:  s.store.Len(),
		LoadedAt: s.store.LoadedAt(),
	})
}

func (s *Server) handleEntries(c echo.Context) error {
	var ph model.Phase
	if param := c.QueryParam("phase"); param != "" {
		resolved, ok := resolvePhase(param)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown phase: %s", param)})
		}
		ph = resolved
	}
	return c.JSON(http.StatusOK, s.store.Entries(ph))
}

func (s *Server) handlePhases(c echo.Context) error {
	counts := s.store.Counts()

	resp := phasesResponse{Phases: make([]phaseCount, 0, len(model.PhaseOrder))}
	for _, ph := range model.PhaseOrder {
		resp.Phases = append(resp.Phases, phaseCount{Phase: ph, Count: counts[ph]})
		resp.Total += counts[ph]
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleClassify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	// NFC keeps decomposed umlauts from slipping past the rubric patterns.
	var breakdown phase.Breakdown
	if req.hasEntryFields() {
		entry := model.Entry{
			Keyword: norm.NFC.String(req.Keyword),
			Source:  req.Source,
		}
		entry.Roles.Citizen.ExactSentence = norm.NFC.String(req.CitizenSentence)
		entry.Roles.Designer.DesignSuggestion = norm.NFC.String(req.DesignSuggestion)
		entry.Roles.Planner.PlanningSuggestion = norm.NFC.String(req.PlanningSuggestion)
		breakdown = s.classifier.Score(entry)
	} else {
		text := strings.TrimSpace(norm.NFC.String(req.Text))
		if text == "" {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "text or entry fields are required"})
		}
		breakdown = s.classifier.ScoreText(text)
	}

	classifyTotal.WithLabelValues(string(breakdown.Phase)).Inc()
	return c.JSON(http.StatusOK, breakdown)
}

// resolvePhase matches a phase name case-insensitively.
func resolvePhase(name string) (model.Phase, bool) {
	for _, ph := range model.PhaseOrder {
		if strings.EqualFold(name, string(ph)) {
			return ph, true
		}
	}
	return "", false
}
