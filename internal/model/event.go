package model

import (
	"time"

	"github.com/hitoshi/campmatch/internal/geo"
)

// Visibility はミートアップの公開範囲。
type Visibility string

const (
	// VisibilityPublic は全員に公開。
	VisibilityPublic Visibility = "Public"
	// VisibilityPrivate は非公開。
	VisibilityPrivate Visibility = "Privé"
)

// Toggle は公開範囲を反転した値を返す。
func (v Visibility) Toggle() Visibility {
	if v == VisibilityPublic {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// EventDraft はミートアップ作成フォームの入力値。
// Campsiteはキャンプ場ディレクトリの表示値「名前 (都市)」。
type EventDraft struct {
	Title       string     `json:"title"`
	Campsite    string     `json:"camping"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
}

// Event はユーザーが投稿したキャンプ場でのミートアップ。
type Event struct {
	ID string `json:"id"`
	EventDraft
	// Coords はキャンプ場がディレクトリに無い場合nil。
	Coords    *geo.Point `json:"coords"`
	CreatedAt time.Time  `json:"createdAt"`
	Attendees int        `json:"attendees"`
}
