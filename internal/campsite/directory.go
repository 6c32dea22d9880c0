// Package campsite はキャンプ場の静的ディレクトリを提供する。
// ディレクトリはコンパイル時に固定され、ユーザーが追加・変更することはない。
package campsite

import (
	"fmt"

	"github.com/hitoshi/campmatch/internal/geo"
)

// Campsite はキャンプ場の参照エンティティ。
type Campsite struct {
	Name   string    `json:"name"`
	City   string    `json:"city"`
	Coords geo.Point `json:"coords"`
}

// directory はフランス国内のキャンプ場10件（座標は概算）。
var directory = []Campsite{
	{Name: "Camping La Sirène", City: "Argelès-sur-Mer", Coords: geo.Point{Lat: 42.566, Lon: 3.043}},
	{Name: "Camping Le Vieux Port", City: "Messanges", Coords: geo.Point{Lat: 43.804, Lon: -1.376}},
	{Name: "Camping Les Mimosas", City: "Fréjus", Coords: geo.Point{Lat: 43.433, Lon: 6.735}},
	{Name: "Camping Le Brasilia", City: "Canet-en-Roussillon", Coords: geo.Point{Lat: 42.703, Lon: 3.028}},
	{Name: "Camping Les Ormes", City: "Dol-de-Bretagne", Coords: geo.Point{Lat: 48.491, Lon: -1.732}},
	{Name: "Camping La Yole", City: "Valras-Plage", Coords: geo.Point{Lat: 43.268, Lon: 3.267}},
	{Name: "Domaine de la Dragonnière", City: "Vias", Coords: geo.Point{Lat: 43.309, Lon: 3.375}},
	{Name: "Camping Le Pommier", City: "Villeneuve-de-Berg", Coords: geo.Point{Lat: 44.575, Lon: 4.506}},
	{Name: "Camping Les Cigales", City: "Molitg-les-Bains", Coords: geo.Point{Lat: 42.631, Lon: 2.413}},
	{Name: "Camping La Roubine", City: "Vallon-Pont-d'Arc", Coords: geo.Point{Lat: 44.409, Lon: 4.403}},
}

// All はディレクトリ全件のコピーを返す。
func All() []Campsite {
	out := make([]Campsite, len(directory))
	copy(out, directory)
	return out
}

// Find は名前と都市が完全一致するキャンプ場を返す。
func Find(name, city string) (Campsite, bool) {
	for _, c := range directory {
		if c.Name == name && c.City == city {
			return c, true
		}
	}
	return Campsite{}, false
}

// Label は選択肢の表示値「名前 (都市)」を返す。
func Label(c Campsite) string {
	return fmt.Sprintf("%s (%s)", c.Name, c.City)
}

// FromLabel は表示値からキャンプ場を引く。
func FromLabel(label string) (Campsite, bool) {
	for _, c := range directory {
		if Label(c) == label {
			return c, true
		}
	}
	return Campsite{}, false
}

// Point はキャンプ場座標のコピーへのポインタを返す。
// 距離計算にそのまま渡すために使う。
func (c Campsite) Point() *geo.Point {
	p := c.Coords
	return &p
}
