package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/campmatch/internal/campsite"
	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/theme"
)

// AppHandler はキャンプ場ディレクトリ、テーマ、データ消去、ヘルスチェックのHTTPハンドラー。
type AppHandler struct {
	services Services
	resetter Resetter
	health   HealthChecker
}

// NewAppHandler はAppHandlerを生成する。
func NewAppHandler(services Services, resetter Resetter, health HealthChecker) *AppHandler {
	return &AppHandler{services: services, resetter: resetter, health: health}
}

type campsiteResponse struct {
	campsite.Campsite
	Label string `json:"label"`
}

type themeResponse struct {
	Theme theme.Theme `json:"theme"`
}

// ListCampsites はキャンプ場ディレクトリを返す。
// GET /api/campsites
func (h *AppHandler) ListCampsites(w http.ResponseWriter, r *http.Request) {
	all := campsite.All()
	out := make([]campsiteResponse, 0, len(all))
	for _, c := range all {
		out = append(out, campsiteResponse{Campsite: c, Label: campsite.Label(c)})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTheme は現在のテーマを返す。
// GET /api/theme
func (h *AppHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: h.services.Theme().Get(r.Context())})
}

// ToggleTheme はテーマを切り替える。
// POST /api/theme/toggle
func (h *AppHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: h.services.Theme().Toggle(r.Context())})
}

// Reset はローカルデータを全て消去し、初期状態から再読み込みする。
// POST /api/reset
func (h *AppHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.resetter.Reset(r.Context()); err != nil {
		slog.Error("failed to reset local data", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health は永続化先の疎通を確認する。
// GET /health
func (h *AppHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.health.CheckHealth(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
