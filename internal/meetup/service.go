// Package meetup はユーザーが企画するキャンプ場でのミートアップを管理する。
package meetup

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/campmatch/internal/campsite"
	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/security"
	"github.com/hitoshi/campmatch/internal/storage"
)

// 作成フォームの初期値。
const (
	DefaultTitle       = "Apéro rencontre"
	DefaultTime        = "19:00"
	DefaultDescription = "Apéro convivial près de la piscine. Chacun ramène un truc !"
)

// EventView はミートアップとユーザーからの距離。
type EventView struct {
	model.Event
	DistanceKm *int `json:"distanceKm"`
}

// Service はミートアップの一覧を所有する。一覧は新しいものが先頭。
type Service struct {
	events    *storage.Binding[[]model.Event]
	sanitizer security.TextSanitizer
	now       func() time.Time
}

// NewService はServiceを生成する。
func NewService(events *storage.Binding[[]model.Event], sanitizer security.TextSanitizer) *Service {
	return &Service{
		events:    events,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// DefaultDraft は作成フォームの初期値を返す。
// キャンプ場はディレクトリの先頭、日付はnowのローカル日付。
func DefaultDraft(now time.Time) model.EventDraft {
	first := campsite.All()[0]
	return model.EventDraft{
		Title:       DefaultTitle,
		Campsite:    campsite.Label(first),
		Date:        now.Format(time.DateOnly),
		Time:        DefaultTime,
		Description: DefaultDescription,
		Visibility:  model.VisibilityPublic,
	}
}

// Draft は現在時刻での作成フォームの初期値を返す。
func (s *Service) Draft() model.EventDraft {
	return DefaultDraft(s.now())
}

// Create はミートアップを作成して一覧の先頭に追加する。
// キャンプ場がディレクトリに無い場合、座標はnilのまま作成する。
func (s *Service) Create(ctx context.Context, draft model.EventDraft) (model.Event, error) {
	draft.Title = s.sanitizer.Clean(draft.Title)
	draft.Description = s.sanitizer.Clean(draft.Description)
	if draft.Title == "" {
		return model.Event{}, model.NewValidationError("Le titre est obligatoire")
	}
	if draft.Date != "" {
		if _, err := time.Parse(time.DateOnly, draft.Date); err != nil {
			return model.Event{}, model.NewValidationError("Date invalide")
		}
	}
	if draft.Time != "" {
		if _, err := time.Parse("15:04", draft.Time); err != nil {
			return model.Event{}, model.NewValidationError("Heure invalide")
		}
	}
	if draft.Visibility != model.VisibilityPrivate {
		draft.Visibility = model.VisibilityPublic
	}

	ev := model.Event{
		ID:         uuid.New().String(),
		EventDraft: draft,
		CreatedAt:  s.now().UTC(),
		Attendees:  1,
	}
	if c, ok := campsite.FromLabel(draft.Campsite); ok {
		ev.Coords = c.Point()
	}

	_, err := s.events.Update(ctx, func(cur []model.Event) ([]model.Event, error) {
		next := make([]model.Event, 0, len(cur)+1)
		next = append(next, ev)
		return append(next, cur...), nil
	})
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// ToggleVisibility は公開範囲を反転する。
func (s *Service) ToggleVisibility(ctx context.Context, id string) (model.Event, error) {
	var toggled model.Event
	_, err := s.events.Update(ctx, func(cur []model.Event) ([]model.Event, error) {
		next := make([]model.Event, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == id {
				next[i].Visibility = next[i].Visibility.Toggle()
				toggled = next[i]
				return next, nil
			}
		}
		return nil, model.NewEventNotFoundError(id)
	})
	if err != nil {
		return model.Event{}, err
	}
	return toggled, nil
}

// Remove はミートアップを削除する。
func (s *Service) Remove(ctx context.Context, id string) error {
	_, err := s.events.Update(ctx, func(cur []model.Event) ([]model.Event, error) {
		next := make([]model.Event, 0, len(cur))
		for _, ev := range cur {
			if ev.ID != id {
				next = append(next, ev)
			}
		}
		if len(next) == len(cur) {
			return nil, model.NewEventNotFoundError(id)
		}
		return next, nil
	})
	return err
}

// List は一覧をユーザーの座標からの距離付きで返す。
func (s *Service) List(ctx context.Context, from *geo.Point) []EventView {
	events := s.events.Get(ctx)

	out := make([]EventView, 0, len(events))
	for _, ev := range events {
		out = append(out, EventView{
			Event:      ev,
			DistanceKm: geo.DistanceKmPtr(from, ev.Coords),
		})
	}
	return out
}
