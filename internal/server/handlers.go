package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sozercan/palestine-timeline/apimodels"
	"github.com/sozercan/palestine-timeline/internal/interpret"
	"github.com/sozercan/palestine-timeline/internal/llm"
	"github.com/sozercan/palestine-timeline/internal/prompt"
	"github.com/sozercan/palestine-timeline/internal/session"
	"github.com/sozercan/palestine-timeline/internal/view"
)

const (
	clientIDHeader = "X-Client-ID"
	clientIDCookie = "client_id"

	downloadName = "time-travel-narrative.txt"
)

// timelinePayload is the JSON answer of the timeline endpoint: the raw
// strings plus their display state.
type timelinePayload struct {
	*apimodels.TimelineResponse
	Panels panels `json:"panels"`
}

type panels struct {
	Narrative view.Panel `json:"narrative"`
	Context   view.Panel `json:"context"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	var req apimodels.TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", prompt.ErrInvalidInput, err))
		return
	}
	defer r.Body.Close()

	slog.Debug("Received timeline request", "city", req.City, "year", req.Year, "language", req.Language)

	resp, err := s.narrate(r, clientKey(r), req)
	if err != nil {
		writeError(w, err)
		return
	}

	lang, _ := prompt.ParseLanguage(req.Language)
	writeJSON(w, http.StatusOK, timelinePayload{
		TimelineResponse: resp,
		Panels: panels{
			Narrative: view.NewPanel(resp.Narrative, nil, lang),
			Context:   view.NewContextPanel(resp.Context, nil, lang),
		},
	})
}

// narrate runs one superseding narrative generation for key and commits
// the result when it is still the latest.
func (s *Server) narrate(r *http.Request, key string, req apimodels.TimelineRequest) (*apimodels.TimelineResponse, error) {
	ctx, tok := s.narratives.Begin(r.Context(), key)
	defer s.narratives.Finish(tok)

	resp, err := s.timeline.Narrate(ctx, req)
	if session.Superseded(ctx) {
		slog.Info("Dropping superseded timeline generation", "client", key, "token", tok.ID)
		return nil, session.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	resp.Metadata.Token = tok.ID
	if err := s.narratives.Commit(tok, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: year must be a number, got %q", prompt.ErrInvalidInput, q.Get("year")))
		return
	}

	resp, err := s.analyze(r, clientKey(r), year, q.Get("city"), q.Get("lang"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) analyze(r *http.Request, key string, year int, city, lang string) (*apimodels.AnalyticsResponse, error) {
	ctx, tok := s.analytics.Begin(r.Context(), key)
	defer s.analytics.Finish(tok)

	resp, err := s.timeline.Analytics(ctx, year, city, lang)
	if err != nil {
		return nil, err
	}
	if session.Superseded(ctx) {
		return nil, session.ErrSuperseded
	}

	resp.Metadata.Token = tok.ID
	if err := s.analytics.Commit(tok, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	var req apimodels.ItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", prompt.ErrInvalidInput, err))
		return
	}
	defer r.Body.Close()

	resp, err := s.timeline.Itinerary(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	lang, err := prompt.ParseLanguage(r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language": lang,
		"cities":   prompt.Cities(lang),
	})
}

// handleDownload returns the last narrative committed for the client.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.narratives.Latest(clientKey(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, apimodels.ErrorResponse{Error: "no narrative generated yet"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	if _, err := w.Write([]byte(resp.Narrative)); err != nil {
		slog.Error("Download write failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ensureClientCookie(w, r)

	lang, err := prompt.ParseLanguage(r.URL.Query().Get("lang"))
	if err != nil {
		lang = prompt.English
	}
	s.renderPage(w, http.StatusOK, view.NewPage(lang))
}

// handleSubmit is the form post of the HTML page. The narrative pair and
// the analytics widget are generated concurrently and independently.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	key := ensureClientCookie(w, r)

	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, view.NewPage(prompt.English))
		return
	}
	lang, err := prompt.ParseLanguage(r.Form.Get("lang"))
	if err != nil {
		lang = prompt.English
	}

	page := view.NewPage(lang)
	in, err := formInput(r)
	page.Form = in
	if err != nil {
		page.FormError = err.Error()
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	var (
		narrative    *apimodels.TimelineResponse
		narrativeErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		narrative, narrativeErr = s.narrate(r, key, apimodels.TimelineRequest{FormInput: in, Language: string(lang)})
		return nil
	})
	g.Go(func() error {
		resp, err := s.analyze(r, key, in.Year, in.City, string(lang))
		if err != nil {
			slog.Warn("Analytics unavailable for page", "error", err)
			return nil
		}
		page.Analytics = resp
		return nil
	})
	_ = g.Wait()

	status := http.StatusOK
	switch {
	case narrativeErr == nil:
		page.Narrative = view.NewPanel(narrative.Narrative, nil, lang)
		page.Context = view.NewContextPanel(narrative.Context, nil, lang)
	case errors.Is(narrativeErr, prompt.ErrInvalidInput):
		status = http.StatusBadRequest
		page.FormError = narrativeErr.Error()
	default:
		status = statusFor(narrativeErr)
		page.Narrative = view.NewPanel("", narrativeErr, lang)
		page.Context = view.NewContextPanel("", narrativeErr, lang)
	}
	s.renderPage(w, status, page)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page *view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(w); err != nil {
		slog.Error("Page render failed", "error", err)
	}
}

func formInput(r *http.Request) (prompt.FormInput, error) {
	in := prompt.FormInput{
		Name: r.Form.Get("name"),
		Sex:  prompt.Sex(r.Form.Get("sex")),
		City: r.Form.Get("city"),
	}

	var err error
	if in.Age, err = strconv.Atoi(r.Form.Get("age")); err != nil {
		return in, fmt.Errorf("%w: age must be a number", prompt.ErrInvalidInput)
	}
	if in.Year, err = strconv.Atoi(r.Form.Get("year")); err != nil {
		return in, fmt.Errorf("%w: year must be a number", prompt.ErrInvalidInput)
	}
	return in, nil
}

// clientKey identifies the caller for supersession: the X-Client-ID
// header, then the page cookie, then the remote host.
func clientKey(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(clientIDHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(clientIDCookie); err == nil && c.Value != "" {
		return c.Value
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ensureClientCookie gives a browser without a client id a fresh one and
// returns the key the request is tracked under.
func ensureClientCookie(w http.ResponseWriter, r *http.Request) string {
	if r.Header.Get(clientIDHeader) == "" {
		if _, err := r.Cookie(clientIDCookie); err != nil {
			id := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     clientIDCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			return id
		}
	}
	return clientKey(r)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, prompt.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, llm.ErrGeneration),
		errors.Is(err, llm.ErrEmptyCompletion),
		errors.Is(err, interpret.ErrNoStructuredData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "status", status, "error", err)
	}
	writeJSON(w, status, apimodels.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}
