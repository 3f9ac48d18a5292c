// Package httpapi serves the JSON API: astronomy calculations, NASA data,
// events, and account endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/astroriga/skywatch/internal/auth"
	"github.com/astroriga/skywatch/internal/lunar"
	"github.com/astroriga/skywatch/internal/nasa"
	"github.com/astroriga/skywatch/internal/observability"
	"github.com/astroriga/skywatch/internal/store"
	"github.com/astroriga/skywatch/internal/version"
)

// NASAData is the slice of the NASA client the API serves directly.
type NASAData interface {
	NEOFeed(ctx context.Context, startDate, endDate string) ([]nasa.NEO, error)
	MarsWeather(ctx context.Context) (json.RawMessage, error)
}

// Server holds the API's dependencies and builds its router.
type Server struct {
	lunar       *lunar.Service
	apod        nasa.APODSource
	nasaData    NASAData
	auth        *auth.Service
	events      *store.Events
	savedEvents *store.SavedEvents
	metrics     *observability.Metrics
	log         zerolog.Logger
}

// Config holds Server construction parameters.
type Config struct {
	Lunar       *lunar.Service
	APOD        nasa.APODSource
	NASAData    NASAData
	Auth        *auth.Service
	Events      *store.Events
	SavedEvents *store.SavedEvents
	Metrics     *observability.Metrics
	Logger      zerolog.Logger
}

// NewServer creates the API server.
func NewServer(cfg Config) *Server {
	return &Server{
		lunar:       cfg.Lunar,
		apod:        cfg.APOD,
		nasaData:    cfg.NASAData,
		auth:        cfg.Auth,
		events:      cfg.Events,
		savedEvents: cfg.SavedEvents,
		metrics:     cfg.Metrics,
		log:         cfg.Logger,
	}
}

// Router builds the chi router with all routes and middleware mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(hlog.NewHandler(s.log))
	r.Use(requestID)
	r.Use(accessLog(s.metrics))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/astronomy", func(r chi.Router) {
			r.Get("/moon-phase", s.handleMoonPhase)
			r.Get("/visibility", s.handleVisibility)
			r.Get("/next-full-moon", s.handleNextFullMoon)
		})

		r.Route("/nasa", func(r chi.Router) {
			r.Get("/apod", s.handleAPOD)
			r.Get("/neo", s.handleNEO)
			r.Get("/mars-weather", s.handleMarsWeather)
		})

		r.Get("/events", s.handleEvents)
		r.Get("/events/upcoming", s.handleUpcomingEvents)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(s.auth))
			r.Post("/events/save", s.handleSaveEvent)
			r.Post("/events/unsave", s.handleUnsaveEvent)
			r.Get("/my-events", s.handleMyEvents)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleMoonPhase(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"phase": s.lunar.PhaseNow(),
	})
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"visibility": s.lunar.Report(),
	})
}

func (s *Server) handleNextFullMoon(w http.ResponseWriter, r *http.Request) {
	day, found := s.lunar.NextFullMoon(s.lunar.Now())
	payload := map[string]any{"found": found}
	if found {
		payload["date"] = day.UTC().Format("2006-01-02")
	}
	respondJSON(w, r, http.StatusOK, payload)
}

func (s *Server) handleAPOD(w http.ResponseWriter, r *http.Request) {
	apod, err := s.apod.APOD(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("apod fetch failed")
		respondError(w, r, http.StatusBadGateway, "could not fetch picture of the day")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"apod": apod})
}

func (s *Server) handleNEO(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if start == "" || end == "" {
		respondError(w, r, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	neos, err := s.nasaData.NEOFeed(r.Context(), start, end)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("neo fetch failed")
		respondError(w, r, http.StatusBadGateway, "could not fetch near-Earth objects")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"neos": neos, "count": len(neos)})
}

func (s *Server) handleMarsWeather(w http.ResponseWriter, r *http.Request) {
	raw, err := s.nasaData.MarsWeather(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("mars weather fetch failed")
		respondError(w, r, http.StatusBadGateway, "could not fetch Mars weather")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"weather": raw})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.All(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list events failed")
		respondError(w, r, http.StatusInternalServerError, "could not load events")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := s.events.Upcoming(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list upcoming events failed")
		respondError(w, r, http.StatusInternalServerError, "could not load events")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"events": events})
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		respondError(w, r, http.StatusBadRequest, "email, username, and password are required")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	switch {
	case err == auth.ErrEmailTaken:
		respondError(w, r, http.StatusConflict, "email already registered")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("register failed")
		respondError(w, r, http.StatusInternalServerError, "could not create account")
		return
	}

	token, err := s.auth.MintToken(user)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("mint token failed")
		respondError(w, r, http.StatusInternalServerError, "could not create session")
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"token":    token,
		"username": user.Username,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == auth.ErrInvalidCredentials:
		respondError(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("login failed")
		respondError(w, r, http.StatusInternalServerError, "could not log in")
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"token":    token,
		"username": user.Username,
	})
}

type saveEventRequest struct {
	EventID int64 `json:"event_id"`
}

func (s *Server) handleSaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}

	var req saveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == 0 {
		respondError(w, r, http.StatusBadRequest, "event_id is required")
		return
	}

	if err := s.savedEvents.Save(r.Context(), userID, req.EventID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save event failed")
		respondError(w, r, http.StatusInternalServerError, "could not save event")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"saved": req.EventID})
}

func (s *Server) handleUnsaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}

	var req saveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == 0 {
		respondError(w, r, http.StatusBadRequest, "event_id is required")
		return
	}

	if err := s.savedEvents.Remove(r.Context(), userID, req.EventID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("unsave event failed")
		respondError(w, r, http.StatusInternalServerError, "could not remove saved event")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"removed": req.EventID})
}

func (s *Server) handleMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}

	saved, err := s.savedEvents.ForUser(r.Context(), userID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list saved events failed")
		respondError(w, r, http.StatusInternalServerError, "could not load saved events")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"saved_events": saved})
}
