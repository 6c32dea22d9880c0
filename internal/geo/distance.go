// Package geo は座標と大圏距離の計算を提供する。
package geo

import "math"

// EarthRadiusKm は距離計算に使用する地球の半径（km）。
const EarthRadiusKm = 6371.0

// Point は緯度・経度（度）で表す地点。
// プロフィール、キャンプ場、ミートアップの座標はすべてこの形を共有する。
// 値域の検証は行わない。
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceKm は2地点間の大圏距離をハバーサイン公式で計算し、km単位の整数に丸めて返す。
// どちらかがnilの場合は位置が未確定とみなし、okにfalseを返す。
// 丸めは四捨五入（0.5は切り上げ）。同一地点は0になる。
// 範囲外の緯度・経度も検証せずにそのまま計算する。
func DistanceKm(a, b *Point) (km int, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}

	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	x := math.Pow(math.Sin(dLat/2), 2) +
		math.Pow(math.Sin(dLon/2), 2)*math.Cos(lat1)*math.Cos(lat2)

	// 浮動小数点誤差でasinの定義域を外れないようにする
	x = math.Min(math.Max(x, 0), 1)

	d := 2 * EarthRadiusKm * math.Asin(math.Sqrt(x))
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, true
	}

	return roundKm(d), true
}

// roundKm はkm単位に四捨五入する。端数0.5は切り上げ。
func roundKm(d float64) int {
	return int(math.Floor(d + 0.5))
}

// DistanceKmPtr はDistanceKmの結果をJSON向けのnull許容値として返す。
// 位置が未確定の場合はnilを返す。
func DistanceKmPtr(a, b *Point) *int {
	km, ok := DistanceKm(a, b)
	if !ok {
		return nil
	}
	return &km
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
