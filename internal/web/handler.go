package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vilaca/profile-card/internal/domain"
)

// ProfileAggregator builds the view model for a handle (Dependency Inversion Principle).
type ProfileAggregator interface {
	Aggregate(ctx context.Context, handle string) domain.ProfileViewModel
}

// Handler handles HTTP requests for profile pages.
type Handler struct {
	renderer       Renderer
	logger         *zap.Logger
	profiles       ProfileAggregator
	siteName       string
	requestTimeout time.Duration
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer       Renderer
	Logger         *zap.Logger
	Profiles       ProfileAggregator
	SiteName       string
	RequestTimeout time.Duration
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		renderer:       cfg.Renderer,
		logger:         logger,
		profiles:       cfg.Profiles,
		siteName:       cfg.SiteName,
		requestTimeout: cfg.RequestTimeout,
	}
}

// Routes returns the router with all routes and middleware registered.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	applyMiddlewares(r, h.logger, h.requestTimeout)

	r.Get("/api/health", h.handleHealth)
	r.Get("/api/profile/{username}", h.handleProfileJSON)
	r.Get("/user/{username}", h.handleProfile)

	return r
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Error("failed to render health", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleProfile serves the HTML profile card.
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	page := h.lookup(r)

	// Render to a buffer first so a render failure can still produce a 500
	var buf strings.Builder
	if err := h.renderer.RenderProfile(&buf, page); err != nil {
		h.logger.Error("failed to render profile", zap.String("handle", page.Handle), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(pageStatus(page))
	if _, err := w.Write([]byte(buf.String())); err != nil {
		h.logger.Debug("failed to write profile", zap.Error(err))
	}
}

// handleProfileJSON serves the page model as JSON.
func (h *Handler) handleProfileJSON(w http.ResponseWriter, r *http.Request) {
	page := h.lookup(r)

	if err := writeJSON(w, pageStatus(page), newProfileResponse(page)); err != nil {
		h.logger.Debug("failed to encode profile", zap.Error(err))
	}
}

func (h *Handler) lookup(r *http.Request) ProfilePage {
	handle := usernameParam(r)
	vm := h.profiles.Aggregate(r.Context(), handle)
	return Present(vm, h.siteName)
}

// usernameParam returns the decoded handle. chi matches on RawPath when it is
// set, so only then is the parameter still escaped.
func usernameParam(r *http.Request) string {
	param := chi.URLParam(r, "username")
	if r.URL.RawPath == "" {
		return param
	}
	if handle, err := url.PathUnescape(param); err == nil {
		return handle
	}
	return param
}

func pageStatus(page ProfilePage) int {
	if page.Found {
		return http.StatusOK
	}
	return http.StatusNotFound
}
