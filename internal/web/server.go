// Package web serves the list as a server-rendered HTML page. Gestures arrive
// as form posts (or small fetch calls from the drag-and-drop script) and go
// through the same dispatcher as the TUI.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todo-cli/internal/bridge"
	"todo-cli/internal/model"
	"todo-cli/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
}

type Server struct {
	cfg     ServerConfig
	tmpl    *template.Template
	d       *bridge.Dispatcher
	metrics *Metrics
	logger  *zap.Logger
}

func NewServer(cfg ServerConfig, d *bridge.Dispatcher, metrics *Metrics, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	if d == nil {
		return nil, errors.New("web: missing dispatcher")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"title": func(f model.Filter) string {
			s := string(f)
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, d: d, metrics: metrics, logger: logger}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleHome)
	r.Get("/api/todos", s.handleSnapshotJSON)
	r.Post("/todos", s.handleAdd)
	r.Post("/todos/{id}/toggle", s.handleToggle)
	r.Post("/todos/{id}/delete", s.handleDelete)
	r.Post("/clear-completed", s.handleClearCompleted)
	r.Post("/filter", s.handleFilter)
	r.Post("/reorder", s.handleReorder)
	r.Post("/theme", s.handleTheme)

	r.Get("/static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	r.Get("/static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type pageVM struct {
	bridge.Snapshot
	Filters []model.Filter
	// View is the filter named in the query string, if any. The page is shown
	// under it without changing the active filter, and its forms carry it back.
	View model.Filter
}

// viewFilter reads the optional view filter from the query (GET) or form (POST).
func viewFilter(r *http.Request, name string) (model.Filter, bool, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return "", false, nil
	}
	f, err := model.ParseFilter(v)
	if err != nil {
		return "", false, err
	}
	return f, true, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	f, ok, err := viewFilter(r, "filter")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	vm := pageVM{Filters: model.Filters}
	if ok {
		vm.Snapshot = s.d.View(r.Context(), f)
		vm.View = f
	} else {
		vm.Snapshot = s.d.Snapshot(r.Context())
	}
	s.metrics.setItems(vm.Snapshot)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSnapshotJSON(w http.ResponseWriter, r *http.Request) {
	f, ok, err := viewFilter(r, "filter")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if ok {
		writeJSON(w, http.StatusOK, s.d.View(r.Context(), f))
		return
	}
	writeJSON(w, http.StatusOK, s.d.Snapshot(r.Context()))
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	// Blank text is dropped without complaint.
	s.respond(w, r, bridge.AddRequested{Text: r.FormValue("text")}, true)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.respond(w, r, bridge.ToggleRequested{ID: id}, false)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.respond(w, r, bridge.DeleteRequested{ID: id}, false)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, bridge.ClearCompletedRequested{}, false)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	f, err := model.ParseFilter(r.FormValue("filter"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The chosen filter becomes the active one, so drop any view filter.
	r.Form.Del("view")
	s.respond(w, r, bridge.FilterChanged{Filter: f}, false)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	from, err1 := strconv.Atoi(strings.TrimSpace(r.FormValue("from")))
	to, err2 := strconv.Atoi(strings.TrimSpace(r.FormValue("to")))
	if err1 != nil || err2 != nil {
		http.Error(w, "reorder: from and to must be integers", http.StatusBadRequest)
		return
	}
	f, _, err := viewFilter(r, "view")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.respond(w, r, bridge.ReorderRequested{From: from, To: to, Filter: f}, false)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, bridge.ThemeToggled{}, false)
}

// respond dispatches ev, then answers with JSON (fetch callers) or a redirect
// back to the page (plain form posts). A "view" form value keeps the page on
// that filter.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, ev bridge.Event, ignoreValidation bool) {
	view, hasView, err := viewFilter(r, "view")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, err := s.d.Dispatch(r.Context(), ev)
	if err != nil {
		var verr store.ValidationError
		if !(ignoreValidation && errors.As(err, &verr)) {
			status := http.StatusBadRequest
			if !errors.Is(err, store.ErrOutOfRange) && !errors.As(err, &verr) {
				status = http.StatusInternalServerError
			}
			if wantsJSON(r) {
				writeJSON(w, status, map[string]string{"error": err.Error()})
				return
			}
			http.Error(w, err.Error(), status)
			return
		}
	}
	if hasView {
		snap = s.d.View(r.Context(), view)
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, snap)
		return
	}
	target := "/"
	if hasView {
		target = "/?filter=" + url.QueryEscape(string(view))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid todo id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
