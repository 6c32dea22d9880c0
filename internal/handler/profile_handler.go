package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/campmatch/internal/discovery"
	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/model"
)

// ProfileHandler はプロフィール、お気に入り、提案のHTTPハンドラー。
type ProfileHandler struct {
	services Services
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(services Services) *ProfileHandler {
	return &ProfileHandler{services: services}
}

type addFavoriteRequest struct {
	Label string `json:"label"`
}

// GetProfile はプロフィールを返す。
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Profile().Get(r.Context()))
}

// UpdateProfile はプロフィールを更新する。
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var draft model.Profile
	if !decodeJSON(w, r, &draft) {
		return
	}

	p, err := h.services.Profile().Update(r.Context(), draft)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Locate は現在位置を取得してプロフィールに保存する。
// POST /api/profile/locate
func (h *ProfileHandler) Locate(w http.ResponseWriter, r *http.Request) {
	p, err := h.services.Profile().Locate(r.Context())
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListFavorites はお気に入りを距離付きで返す。
// GET /api/profile/favorites
func (h *ProfileHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Profile().Favorites(r.Context()))
}

// AddFavorite はお気に入りを追加する。
// POST /api/profile/favorites
func (h *ProfileHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req addFavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc := h.services.Profile()
	if _, err := svc.AddFavorite(r.Context(), req.Label); err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc.Favorites(r.Context()))
}

// RemoveFavorite はお気に入りを取り除く。
// DELETE /api/profile/favorites/{index}
func (h *ProfileHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Index de favori invalide"))
		return
	}

	svc := h.services.Profile()
	if _, err := svc.RemoveFavorite(r.Context(), index); err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc.Favorites(r.Context()))
}

// Suggestions は近くのキャンパーを距離順で返す。
// GET /api/suggestions
func (h *ProfileHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	p := h.services.Profile().Get(r.Context())
	writeJSON(w, http.StatusOK, discovery.Suggestions(p))
}
