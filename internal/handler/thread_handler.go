package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/campmatch/internal/discovery"
	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/model"
)

// ThreadHandler はモック会話のHTTPハンドラー。
type ThreadHandler struct {
	services Services
}

// NewThreadHandler はThreadHandlerを生成する。
func NewThreadHandler(services Services) *ThreadHandler {
	return &ThreadHandler{services: services}
}

// threadResponse は会話画面のヘッダーに出す相手とメッセージ一覧。
type threadResponse struct {
	Camper   discovery.Camper `json:"camper"`
	Messages []model.Message  `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

// ListThreads は会話一覧を返す。
// GET /api/threads
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.services.Messaging().Threads())
}

// GetThread は会話の相手とメッセージを返す。
// GET /api/threads/{id}
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs, err := h.services.Messaging().Thread(id)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	camper, ok := discovery.FindCamper(id)
	if !ok {
		middleware.WriteServiceError(w, model.NewMatchNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, threadResponse{Camper: camper, Messages: msgs})
}

// SendMessage はメッセージを送信する。返信は遅れて会話に追加される。
// POST /api/threads/{id}/messages
func (h *ThreadHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.services.Messaging().Send(chi.URLParam(r, "id"), req.Text)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// AbandonThread は会話から離れたときに未配信の返信を破棄する。
// DELETE /api/threads/{id}/pending
func (h *ThreadHandler) AbandonThread(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Messaging().Abandon(chi.URLParam(r, "id")); err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
