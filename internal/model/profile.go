package model

import (
	"github.com/hitoshi/campmatch/internal/campsite"
	"github.com/hitoshi/campmatch/internal/geo"
)

// MinAge はプロフィール編集フォームで受け付ける最小年齢。
// データ層では強制しない。
const MinAge = 18

// Profile はユーザーのプロフィール。
type Profile struct {
	DisplayName        string              `json:"displayName"`
	Bio                string              `json:"bio"`
	Age                int                 `json:"age"`
	City               string              `json:"city"`
	Interests          []string            `json:"interests"`
	PreferredCampsites []campsite.Campsite `json:"preferredCampings"`
	Avatar             string              `json:"avatar"`
	// Coords はユーザーが位置情報の取得に同意するまでnil。
	Coords *geo.Point `json:"coords"`
}

// DefaultProfile は初回起動時のプロフィールを返す。
func DefaultProfile() Profile {
	mimosas, _ := campsite.Find("Camping Les Mimosas", "Fréjus")
	vieuxPort, _ := campsite.Find("Camping Le Vieux Port", "Messanges")

	return Profile{
		DisplayName:        "Campeur·euse Mystère",
		Bio:                "Fan de randonnée, barbecue et soirées étoiles ✨",
		Age:                26,
		City:               "Lyon",
		Interests:          []string{"Randonnée", "Surf", "Pétanque"},
		PreferredCampsites: []campsite.Campsite{mimosas, vieuxPort},
		Avatar:             "https://api.dicebear.com/8.x/fun-emoji/svg?seed=camper",
		Coords:             nil,
	}
}
