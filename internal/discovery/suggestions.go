// Package discovery は近くのキャンパーの提案を提供する。
// 候補はアプリに組み込まれた固定のモックデータで、サーバー側に他ユーザーは保存しない。
package discovery

import (
	"sort"

	"github.com/hitoshi/campmatch/internal/campsite"
	"github.com/hitoshi/campmatch/internal/geo"
	"github.com/hitoshi/campmatch/internal/model"
)

// Camper は提案候補のキャンパー。
type Camper struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Campsite campsite.Campsite `json:"camping"`
	Last     string            `json:"last"`
	Avatar   string            `json:"avatar"`
}

// Suggestion は候補とユーザーからの距離。
// DistanceKmはユーザーの座標が未設定の場合nil。
type Suggestion struct {
	Camper
	DistanceKm *int `json:"distanceKm"`
}

func mustCampsite(name, city string) campsite.Campsite {
	c, ok := campsite.Find(name, city)
	if !ok {
		panic("discovery: campsite missing from directory: " + name)
	}
	return c
}

var campers = []Camper{
	{
		ID:       "u1",
		Name:     "Léa",
		Campsite: mustCampsite("Camping La Sirène", "Argelès-sur-Mer"),
		Last:     "À l'apéro ce soir?",
		Avatar:   "https://api.dicebear.com/8.x/fun-emoji/svg?seed=lea",
	},
	{
		ID:       "u2",
		Name:     "Nico",
		Campsite: mustCampsite("Camping Les Ormes", "Dol-de-Bretagne"),
		Last:     "Partie de volley demain matin?",
		Avatar:   "https://api.dicebear.com/8.x/fun-emoji/svg?seed=nico",
	},
	{
		ID:       "u3",
		Name:     "Sarah",
		Campsite: mustCampsite("Camping Le Brasilia", "Canet-en-Roussillon"),
		Last:     "J'organise une rando dimanche à 9h",
		Avatar:   "https://api.dicebear.com/8.x/fun-emoji/svg?seed=sarah",
	},
}

// Campers は候補全件のコピーを返す。
func Campers() []Camper {
	out := make([]Camper, len(campers))
	copy(out, campers)
	return out
}

// FindCamper はIDで候補を引く。
func FindCamper(id string) (Camper, bool) {
	for _, c := range campers {
		if c.ID == id {
			return c, true
		}
	}
	return Camper{}, false
}

// Suggestions は全候補をユーザーからの距離の近い順に返す。
// 距離が不明な候補は既知の候補の後ろに元の順序のまま並ぶ。
// ユーザーの座標が未設定なら元の順序をそのまま返す。
func Suggestions(p model.Profile) []Suggestion {
	out := make([]Suggestion, 0, len(campers))
	for _, c := range campers {
		out = append(out, Suggestion{
			Camper:     c,
			DistanceKm: geo.DistanceKmPtr(p.Coords, c.Campsite.Point()),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DistanceKm, out[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
	return out
}
