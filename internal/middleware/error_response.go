package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/campmatch/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "Une erreur interne est survenue",
		Category: "system",
		Action:   "Réessayez dans quelques instants.",
	})
}

// WriteServiceError はサービス層のエラーを対応するHTTPステータスで書き込む。
// APIError以外は内部エラーとして扱う。
func WriteServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		WriteErrorResponse(w, StatusForError(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	WriteInternalServerError(w)
}

// StatusForError はAPIErrorコードからHTTPステータスコードにマッピングする。
func StatusForError(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeAuthFailed, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeRegistrationFailed:
		return http.StatusConflict
	case model.ErrCodeGeolocationFailed:
		return http.StatusServiceUnavailable
	case model.ErrCodeCampsiteNotFound, model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeEventNotFound, model.ErrCodeMatchNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newCSRFError() *model.APIError {
	return &model.APIError{
		Code:     "CSRF_FAILED",
		Message:  "Requête refusée",
		Category: "system",
		Action:   "Rechargez la page puis réessayez.",
	}
}
