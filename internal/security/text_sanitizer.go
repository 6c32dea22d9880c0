// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザーが入力する自由記述（自己紹介、ミートアップの説明、
// メッセージ本文）からHTMLを取り除き、プレーンテキストとして保存できる形にする。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Clean は全てのタグを除去し、前後の空白を取り除いたテキストを返す。
	// 同一入力に対して常に同一出力を返す。
	Clean(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのStrictPolicyはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean はタグを除去したプレーンテキストを返す。
// StrictPolicyが行うエンティティエスケープは戻し、保存値は素のテキストにする。
// 戻した結果にタグが現れる（"&lt;b&gt;" など）場合があるため、出力が変化しなくなるまで繰り返す。
// HTMLとして描画する側でのエスケープは表示層の責務。
func (s *textSanitizer) Clean(raw string) string {
	current := strings.TrimSpace(raw)
	for range len(current) + 2 {
		if current == "" {
			return ""
		}
		next := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(current)))
		if next == current {
			break
		}
		current = next
	}
	return current
}

// CleanAll はスライスの各要素をCleanし、空になった要素を除いて返す。
func CleanAll(s TextSanitizer, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := s.Clean(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
