// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/campmatch/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// emailContextKey はリクエストコンテキストにログイン中のメールアドレスを格納するためのキー。
var emailContextKey = contextKey("email")

// SessionSource は現在のセッションを返す。auth.Gatewayが実装する。
type SessionSource interface {
	Session(ctx context.Context) *model.Session
}

// NewSessionMiddleware はログイン状態を検証するミドルウェアを返す。
// セッションが無い場合は401を返し、ある場合はメールアドレスをコンテキストに注入する。
func NewSessionMiddleware(source SessionSource) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := source.Session(r.Context())
			if sess == nil || sess.Email == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// ロギングミドルウェアが外側にある場合、メールアドレスを書き戻す
			if rec, ok := w.(emailRecorder); ok {
				rec.recordEmail(sess.Email)
			}

			ctx := ContextWithEmail(r.Context(), sess.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext はリクエストコンテキストからメールアドレスを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func EmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(emailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("email not found in context")
	}
	return email, nil
}

// ContextWithEmail はコンテキストにメールアドレスを注入する。
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}
