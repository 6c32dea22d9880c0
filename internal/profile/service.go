// Package profile はユーザー自身のプロフィールとお気に入りキャンプ場を管理する。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/campmatch/internal/campsite"
	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/geolocation"
	"github.com/hitoshi/campmatch/internal/metrics"
	"github.com/hitoshi/campmatch/internal/model"
	"github.com/hitoshi/campmatch/internal/security"
	"github.com/hitoshi/campmatch/internal/storage"
)

// FavoriteView はお気に入りキャンプ場と現在地からの距離。
// DistanceKmはプロフィールの座標が未設定の場合nil。
type FavoriteView struct {
	campsite.Campsite
	Label      string `json:"label"`
	DistanceKm *int   `json:"distanceKm"`
}

// Service はプロフィールの読み書きを提供する。
type Service struct {
	profile    *storage.Binding[model.Profile]
	sanitizer  security.TextSanitizer
	locator    geolocation.Locator
	geoTimeout time.Duration
	metrics    metrics.MetricsCollector
}

// NewService はServiceを生成する。locatorがnilの場合、Locateは非対応エラーを返す。
func NewService(
	profile *storage.Binding[model.Profile],
	sanitizer security.TextSanitizer,
	locator geolocation.Locator,
	geoTimeout time.Duration,
	m metrics.MetricsCollector,
) *Service {
	if m == nil {
		m = metrics.NopCollector{}
	}
	return &Service{
		profile:    profile,
		sanitizer:  sanitizer,
		locator:    locator,
		geoTimeout: geoTimeout,
		metrics:    m,
	}
}

// Get は現在のプロフィールを返す。
func (s *Service) Get(ctx context.Context) model.Profile {
	return s.profile.Get(ctx)
}

// Update は編集フォームの内容でプロフィールを置き換える。
// 自由記述はサニタイズし、お気に入りはディレクトリの値で正規化する。
// draftに座標が無い場合は現在の座標を引き継ぐ。
func (s *Service) Update(ctx context.Context, draft model.Profile) (model.Profile, error) {
	next, err := s.normalize(draft)
	if err != nil {
		return model.Profile{}, err
	}

	return s.profile.Update(ctx, func(cur model.Profile) (model.Profile, error) {
		if next.Coords == nil {
			next.Coords = cur.Coords
		}
		return next, nil
	})
}

func (s *Service) normalize(draft model.Profile) (model.Profile, error) {
	next := draft
	next.DisplayName = s.sanitizer.Clean(draft.DisplayName)
	next.Bio = s.sanitizer.Clean(draft.Bio)
	next.City = s.sanitizer.Clean(draft.City)
	next.Avatar = s.sanitizer.Clean(draft.Avatar)
	next.Interests = security.CleanAll(s.sanitizer, draft.Interests)

	if next.DisplayName == "" {
		return model.Profile{}, model.NewValidationError("Le pseudo est obligatoire")
	}
	if draft.Age < model.MinAge {
		return model.Profile{}, model.NewValidationError(fmt.Sprintf("Âge minimum : %d ans", model.MinAge))
	}

	favorites := make([]campsite.Campsite, 0, len(draft.PreferredCampsites))
	for _, c := range draft.PreferredCampsites {
		known, ok := campsite.Find(c.Name, c.City)
		if !ok {
			return model.Profile{}, model.NewCampsiteNotFoundError(campsite.Label(c))
		}
		favorites = append(favorites, known)
	}
	next.PreferredCampsites = favorites
	if next.Coords != nil {
		p := *next.Coords
		next.Coords = &p
	}
	return next, nil
}

// AddFavorite はディレクトリの表示値で指定したキャンプ場をお気に入りの末尾に追加する。
// 既に登録済みの場合は何もしない。
func (s *Service) AddFavorite(ctx context.Context, label string) (model.Profile, error) {
	c, ok := campsite.FromLabel(label)
	if !ok {
		return model.Profile{}, model.NewCampsiteNotFoundError(label)
	}

	return s.profile.Update(ctx, func(cur model.Profile) (model.Profile, error) {
		for _, fav := range cur.PreferredCampsites {
			if fav.Name == c.Name && fav.City == c.City {
				return cur, nil
			}
		}
		next := cur
		next.PreferredCampsites = append(append([]campsite.Campsite{}, cur.PreferredCampsites...), c)
		return next, nil
	})
}

// RemoveFavorite はindex番目のお気に入りを取り除く。
func (s *Service) RemoveFavorite(ctx context.Context, index int) (model.Profile, error) {
	return s.profile.Update(ctx, func(cur model.Profile) (model.Profile, error) {
		if index < 0 || index >= len(cur.PreferredCampsites) {
			return cur, model.NewValidationError(fmt.Sprintf("Favori introuvable : %d", index))
		}
		next := cur
		next.PreferredCampsites = make([]campsite.Campsite, 0, len(cur.PreferredCampsites)-1)
		next.PreferredCampsites = append(next.PreferredCampsites, cur.PreferredCampsites[:index]...)
		next.PreferredCampsites = append(next.PreferredCampsites, cur.PreferredCampsites[index+1:]...)
		return next, nil
	})
}

// Locate は現在位置を1回だけ取得し、プロフィールの座標として保存する。
// 失敗した場合はプロフィールを変更しない。
func (s *Service) Locate(ctx context.Context) (model.Profile, error) {
	p, err := geolocation.Request(ctx, s.locator, s.geoTimeout)
	s.metrics.RecordGeolocation(err == nil)
	if err != nil {
		return model.Profile{}, err
	}

	slog.Info("profile location updated",
		slog.Float64("lat", p.Lat),
		slog.Float64("lon", p.Lon),
	)
	return s.profile.Update(ctx, func(cur model.Profile) (model.Profile, error) {
		next := cur
		next.Coords = &geo.Point{Lat: p.Lat, Lon: p.Lon}
		return next, nil
	})
}

// Favorites はお気に入りキャンプ場をプロフィール座標からの距離付きで返す。
func (s *Service) Favorites(ctx context.Context) []FavoriteView {
	prof := s.profile.Get(ctx)

	views := make([]FavoriteView, 0, len(prof.PreferredCampsites))
	for _, c := range prof.PreferredCampsites {
		views = append(views, FavoriteView{
			Campsite:   c,
			Label:      campsite.Label(c),
			DistanceKm: geo.DistanceKmPtr(prof.Coords, c.Point()),
		})
	}
	return views
}
