package helper

import (
	"fmt"
	"math"
	"sort"

	"PetAlert-App/internal/domain/model"
)

// HaversineDistance は2地点間の大円距離を計算する (km, 丸めなし)
func HaversineDistance(p1, p2 model.Coordinate) float64 {
	lat1 := p1.Latitude * math.Pi / 180
	lng1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lng2 := p2.Longitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// 対蹠点付近では丸め誤差で a が 1 をわずかに超える
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return model.EarthRadiusKm * c
}

// Distance は緯度経度から距離を計算し、小数点以下2桁に丸めて返す (km)
// いずれかが nil・非数・範囲外の場合は nil
func Distance(lat1, lng1, lat2, lng2 *float64) *float64 {
	if lat1 == nil || lng1 == nil || lat2 == nil || lng2 == nil {
		return nil
	}
	return DistanceBetween(
		&model.Coordinate{Latitude: *lat1, Longitude: *lng1},
		&model.Coordinate{Latitude: *lat2, Longitude: *lng2},
	)
}

// DistanceBetween は Distance の Coordinate 版
func DistanceBetween(a, b *model.Coordinate) *float64 {
	if !a.Valid() || !b.Valid() {
		return nil
	}
	d := roundTo(HaversineDistance(*a, *b), 2)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return nil
	}
	return &d
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FormatDistanceText は距離を表示用文字列にする
// 1km未満はメートル整数、10km未満は小数1桁、それ以上はkm整数
func FormatDistanceText(km float64) string {
	switch {
	case km < 1:
		return fmt.Sprintf("a %dm", int(math.Round(km*1000)))
	case km < 10:
		return fmt.Sprintf("a %.1fkm", km)
	default:
		return fmt.Sprintf("a %dkm", int(math.Round(km)))
	}
}

// AnnotateDistances は各アラートに検索地点からの距離を付与する
// 座標が無効なアラートは DistanceKm が nil のまま
func AnnotateDistances(origin model.Coordinate, alerts []model.Alert) []model.AlertWithDistance {
	result := make([]model.AlertWithDistance, 0, len(alerts))
	for _, a := range alerts {
		item := model.AlertWithDistance{Alert: a}
		if c := a.Coordinate(); c != nil {
			item.DistanceKm = DistanceBetween(&origin, c)
		}
		if item.DistanceKm != nil {
			item.DistanceText = FormatDistanceText(*item.DistanceKm)
		}
		result = append(result, item)
	}
	return result
}

// SortByDistance は距離の近い順に並べ替える（安定ソート）
// 距離不明のアラートは元の順序のまま末尾に置く
func SortByDistance(alerts []model.AlertWithDistance) {
	sort.SliceStable(alerts, func(i, j int) bool {
		di, dj := alerts[i].DistanceKm, alerts[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}

// FilterWithinRadius は半径外と判明しているアラートを除外する
// 距離不明のアラートはバックエンドの判定を信頼して残す
func FilterWithinRadius(alerts []model.AlertWithDistance, radiusKm float64) []model.AlertWithDistance {
	if radiusKm <= 0 {
		return alerts
	}
	filtered := make([]model.AlertWithDistance, 0, len(alerts))
	for _, a := range alerts {
		if a.DistanceKm != nil && *a.DistanceKm > radiusKm {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}
