package handler

import (
	"net/http"

	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/model"
)

// AuthHandler はログイン・登録・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	services Services
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(services Services) *AuthHandler {
	return &AuthHandler{services: services}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse はセッション状態のレスポンス。ログアウト状態ではSessionがnull。
type sessionResponse struct {
	Mode    string         `json:"mode"`
	Session *model.Session `json:"session"`
}

// Login はログインを処理する。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc := h.services.Auth()
	sess, err := svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Mode: svc.Mode(), Session: sess})
}

// Register は登録とログインを処理する。
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc := h.services.Auth()
	sess, err := svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Mode: svc.Mode(), Session: sess})
}

// Logout はセッションを破棄する。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.services.Auth().Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Session は現在のセッションを返す。
// GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	svc := h.services.Auth()
	writeJSON(w, http.StatusOK, sessionResponse{Mode: svc.Mode(), Session: svc.Session(r.Context())})
}
