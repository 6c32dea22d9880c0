package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/campmatch/internal/model"
)

// maxResponseBytes はリモートAPIの応答ボディとして読み込む上限。
const maxResponseBytes = 1 << 20

// RemoteBackend はリモート認証APIを呼び出すBackend。
// 失敗理由は分類せず、2xx以外の応答は全て同じエラーとして扱う。
type RemoteBackend struct {
	baseURL string
	client  *http.Client
}

// NewRemoteBackend はRemoteBackendを生成する。
func NewRemoteBackend(baseURL string, client *http.Client) *RemoteBackend {
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Email string `json:"email"`
	} `json:"user"`
}

// Mode はModeRemoteを返す。
func (b *RemoteBackend) Mode() string {
	return ModeRemote
}

// Login は POST {base}/api/auth/login を呼び出す。
func (b *RemoteBackend) Login(ctx context.Context, email, password string) (*model.Session, error) {
	body, err := b.post(ctx, "/api/auth/login", email, password)
	if err != nil {
		slog.Warn("remote login failed", slog.String("error", err.Error()))
		return nil, model.NewAuthFailedError()
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Warn("failed to parse login response", slog.String("error", err.Error()))
		return nil, model.NewAuthFailedError()
	}
	if resp.Token == "" || resp.User.Email == "" {
		slog.Warn("login response missing token or email")
		return nil, model.NewAuthFailedError()
	}

	return &model.Session{Token: resp.Token, Email: resp.User.Email}, nil
}

// Register は POST {base}/api/auth/register を呼び出し、成功したら同じ資格情報でログインする。
func (b *RemoteBackend) Register(ctx context.Context, email, password string) (*model.Session, error) {
	if _, err := b.post(ctx, "/api/auth/register", email, password); err != nil {
		slog.Warn("remote registration failed", slog.String("error", err.Error()))
		return nil, model.NewRegistrationFailedError()
	}
	return b.Login(ctx, email, password)
}

// post は資格情報をJSONで送信し、2xxの場合に応答ボディを返す。
func (b *RemoteBackend) post(ctx context.Context, path, email, password string) ([]byte, error) {
	payload, err := json.Marshal(credentialRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}

// compile-time interface check
var _ Backend = (*RemoteBackend)(nil)
