// Package model はドメインモデルを定義する。
package model

// Session はログイン状態を表す。
// セッションが存在しない（nil）状態がログアウト状態。
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Credential はローカルフォールバック認証で保存される登録情報。
// パスワードは平文のまま保存される。デモ専用であり、本番の認証経路には使用しないこと。
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
