package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	authjwt "github.com/jekabolt/privshop-seller/internal/auth/jwt"
)

// identity resolves the caller once per request; every handler passes it down explicitly.
func identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := authjwt.CurrentIdentity(r.Context())
	if err != nil {
		render.Render(w, r, ErrFromError(err))
		return "", false
	}
	return id, true
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrFromError(err).(*ErrResponse)
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
	}
	render.Render(w, r, resp)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	d, err := s.svc.Stats(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, NewDashboardResponse(d))
}

func (s *Server) inventory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	rollups, err := s.svc.Inventory(r.Context(), id, r.URL.Query().Get("search"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.RenderList(w, r, NewInventoryListResponse(rollups))
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	rollup, err := s.svc.Product(r.Context(), id, chi.URLParam(r, "productId"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, NewProductRollupResponse(rollup))
}

func (s *Server) referrals(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	page, err := s.svc.Referrals(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, NewReferralsResponse(page))
}

func (s *Server) payoutSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	p, err := s.svc.PayoutSettings(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, NewPayoutSettingsResponse(p, time.Now().UTC()))
}

func (s *Server) updatePayoutSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	data := &PayoutSettingsRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	p, err := s.svc.UpdatePayoutSettings(r.Context(), id, &data.ProfileUpdate)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Render(w, r, NewPayoutSettingsResponse(p, time.Now().UTC()))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "store ping failed",
			slog.String("err", err.Error()),
		)
		render.Status(r, http.StatusServiceUnavailable)
		render.Render(w, r, &HealthResponse{Status: "unavailable"})
		return
	}
	render.Render(w, r, &HealthResponse{Status: "ok"})
}
