// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// Messageは失敗した操作の位置でそのままユーザーに表示される1行のメッセージ。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, geolocation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodeRegistrationFailed = "REGISTRATION_FAILED"
	ErrCodeGeolocationFailed  = "GEOLOCATION_FAILED"
	ErrCodeCampsiteNotFound   = "CAMPSITE_NOT_FOUND"
	ErrCodeEventNotFound      = "EVENT_NOT_FOUND"
	ErrCodeMatchNotFound      = "MATCH_NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
)

// AsAPIError はerrのチェーンからAPIErrorを取り出す。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode はerrが指定コードのAPIErrorかどうかを返す。
func HasCode(err error, code string) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Code == code
}

// NewAuthFailedError はリモートAPIでのログイン失敗エラーを生成する。
// 失敗理由の分類は行わない。
func NewAuthFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "Connexion impossible",
		Category: "auth",
		Action:   "Vérifiez vos identifiants puis réessayez.",
	}
}

// NewInvalidCredentialsError はローカル認証で一致する登録情報が無い場合のエラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthFailed,
		Message:  "Identifiants invalides",
		Category: "auth",
		Action:   "Vérifiez votre email et votre mot de passe.",
	}
}

// NewRegistrationFailedError はリモートAPIでの登録失敗エラーを生成する。
func NewRegistrationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeRegistrationFailed,
		Message:  "Inscription impossible",
		Category: "auth",
		Action:   "Réessayez dans quelques instants.",
	}
}

// NewEmailInUseError はローカル登録でメールアドレスが既に使われている場合のエラーを生成する。
func NewEmailInUseError() *APIError {
	return &APIError{
		Code:     ErrCodeRegistrationFailed,
		Message:  "Email déjà utilisé",
		Category: "auth",
		Action:   "Connectez-vous ou utilisez une autre adresse email.",
	}
}

// NewGeolocationUnsupportedError は位置情報の取得手段が無い場合のエラーを生成する。
func NewGeolocationUnsupportedError() *APIError {
	return &APIError{
		Code:     ErrCodeGeolocationFailed,
		Message:  "Géolocalisation non supportée",
		Category: "geolocation",
		Action:   "Configurez une source de position puis réessayez.",
	}
}

// NewGeolocationFailedError は位置情報の取得が拒否・タイムアウトした場合のエラーを生成する。
func NewGeolocationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeGeolocationFailed,
		Message:  "Impossible de récupérer la position",
		Category: "geolocation",
		Action:   "Autorisez la géolocalisation puis réessayez.",
	}
}

// NewCampsiteNotFoundError はディレクトリに無いキャンプ場が指定された場合のエラーを生成する。
func NewCampsiteNotFoundError(label string) *APIError {
	return &APIError{
		Code:     ErrCodeCampsiteNotFound,
		Message:  fmt.Sprintf("Camping inconnu : %s", label),
		Category: "validation",
		Action:   "Sélectionnez un camping dans la liste.",
	}
}

// NewEventNotFoundError はミートアップが見つからない場合のエラーを生成する。
func NewEventNotFoundError(eventID string) *APIError {
	return &APIError{
		Code:     ErrCodeEventNotFound,
		Message:  fmt.Sprintf("Rencontre introuvable : %s", eventID),
		Category: "validation",
		Action:   "Rechargez la liste de vos rencontres.",
	}
}

// NewMatchNotFoundError は会話相手が見つからない場合のエラーを生成する。
func NewMatchNotFoundError(matchID string) *APIError {
	return &APIError{
		Code:     ErrCodeMatchNotFound,
		Message:  fmt.Sprintf("Conversation introuvable : %s", matchID),
		Category: "validation",
		Action:   "Sélectionnez une conversation dans la liste.",
	}
}

// NewValidationError は入力値が不正な場合のエラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Corrigez le formulaire puis réessayez.",
	}
}

// NewUnauthorizedError は未ログイン状態で保護された操作を呼んだ場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Connectez-vous pour continuer",
		Category: "auth",
		Action:   "Connectez-vous ou créez un compte.",
	}
}
