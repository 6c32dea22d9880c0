package handler

import (
	"context"

	"github.com/hitoshi/campmatch/internal/middleware"
	"github.com/hitoshi/campmatch/internal/model"
)

// sessionSource はリクエスト時点の認証サービスからセッションを引く。
type sessionSource struct {
	services Services
}

func (s sessionSource) Session(ctx context.Context) *model.Session {
	return s.services.Auth().Session(ctx)
}

// compile-time interface check
var _ middleware.SessionSource = sessionSource{}
