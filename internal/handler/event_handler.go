package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/model"
)

// EventHandler はミートアップのHTTPハンドラー。
type EventHandler struct {
	services Services
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(services Services) *EventHandler {
	return &EventHandler{services: services}
}

// ListEvents はミートアップ一覧をプロフィール座標からの距離付きで返す。
// GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	coords := h.services.Profile().Get(r.Context()).Coords
	writeJSON(w, http.StatusOK, h.services.Meetups().List(r.Context(), coords))
}

// Draft は作成フォームの初期値を返す。
// GET /api/events/draft
func (h *EventHandler) Draft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Meetups().Draft())
}

// CreateEvent はミートアップを作成する。
// POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var draft model.EventDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	ev, err := h.services.Meetups().Create(r.Context(), draft)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// ToggleVisibility は公開範囲を切り替える。
// POST /api/events/{id}/visibility
func (h *EventHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	ev, err := h.services.Meetups().ToggleVisibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent はミートアップを削除する。
// DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Meetups().Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
