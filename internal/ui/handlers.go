package ui

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/msdcl/nlq-console/internal/session"
	"github.com/msdcl/nlq-console/internal/ui/resources"
)

const cookieSessionName = "nlq-console"

func (s *Server) setupRoutes(r chi.Router) {
	r.Handle("/static/*", resources.Handler())

	r.Get("/", s.handleIndex)
	r.Get("/updates", s.handleUpdates)

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Post("/view/{name}", s.handleSetView)
		r.Post("/theme", s.handleToggleTheme)
		r.Post("/language/{code}", s.handleSetLanguage)
		r.Post("/chart/{kind}", s.handleSetChartType)
		r.Post("/history/clear", s.handleClearHistory)
	})

	r.Get("/export.json", s.handleExportHistory)
}

// handleIndex serves the page shell; all content arrives over SSE.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Restore the per-browser view preference.
	if sess, err := s.sessionStore.Get(r, cookieSessionName); err == nil {
		if v, ok := sess.Values["view"].(string); ok && v != "" {
			s.store.SetView(session.View(v))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(resources.IndexPage())
}

// handleUpdates is the SSE stream: it pushes the current topbar and
// view on connect and again after every store mutation.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ping, cancel := s.notifier.Subscribe()
	defer cancel()

	if err := s.patchAll(r.Context(), sse); err != nil {
		s.logger.Debug("initial patch failed", "err", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping:
			if err := s.patchAll(r.Context(), sse); err != nil {
				s.logger.Debug("patch failed", "err", err)
				return
			}
		}
	}
}

func (s *Server) patchAll(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	topbar, err := renderFragment("topbar", topbarView{
		Theme:    s.store.Theme(),
		FontSize: s.store.FontSize(),
		Language: s.store.Language(),
		View:     string(s.store.CurrentView()),
	})
	if err != nil {
		return err
	}
	if err := sse.PatchElements(topbar); err != nil {
		return err
	}

	var view string
	if s.store.CurrentView() == session.ViewChat {
		view, err = renderFragment("chat", buildChatView(s.store))
	} else {
		view, err = s.renderDashboard(ctx)
	}
	if err != nil {
		return err
	}
	return sse.PatchElements(view)
}

func (s *Server) renderDashboard(ctx context.Context) (string, error) {
	data, err := s.client.Dashboard(ctx)
	if err != nil {
		return renderFragment("chat", chatView{Messages: []messageView{{
			Kind:  "error",
			Error: err.Error(),
		}}})
	}
	return renderFragment("dashboard", buildDashboardView(data))
}

// handleQuery starts a query in the background; progress and the final
// answer reach the browser through the SSE stream.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Detached from the request context: the POST returns immediately
	// while the query runs against the backend.
	go func() {
		if _, err := s.runner.Run(context.Background(), query); err != nil && err != session.ErrBusy {
			s.logger.Debug("query failed", "err", err)
		}
	}()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	switch session.View(name) {
	case session.ViewDashboard, session.ViewChat:
	default:
		http.Error(w, "unknown view", http.StatusBadRequest)
		return
	}

	if sess, err := s.sessionStore.Get(r, cookieSessionName); err == nil {
		sess.Values["view"] = name
		_ = sess.Save(r, w)
	}

	s.store.SetView(session.View(name))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, _ *http.Request) {
	if s.store.Theme() == "dark" {
		s.store.SetTheme("light")
	} else {
		s.store.SetTheme("dark")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "missing language", http.StatusBadRequest)
		return
	}
	s.store.SetLanguage(code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetChartType(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	switch kind {
	case "table", "bar", "line", "pie":
	default:
		http.Error(w, "unknown chart type", http.StatusBadRequest)
		return
	}
	s.store.UpdateSettings(session.SettingsPatch{ChartType: &kind})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportHistory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="nlq-history.json"`)
	if err := s.store.ExportHistory(w); err != nil {
		s.logger.Debug("history export failed", "err", err)
	}
}
