package repository

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geo"

	"PetAlert-App/internal/domain/model"
)

// NearbyBound 検索地点を中心に半径を含む境界ボックスを作成
func NearbyBound(center model.Coordinate, radiusMeters float64) orb.Bound {
	return geo.NewBoundAroundPoint(center.Point(), radiusMeters)
}

// PointWKT PostGIS用の EWKT 文字列（例: "SRID=4326;POINT(-3.7038 40.4168)"）
func PointWKT(c model.Coordinate) string {
	return fmt.Sprintf("SRID=4326;%s", wkt.MarshalString(c.Point()))
}

// BoundContains 境界ボックス内の座標か
func BoundContains(b orb.Bound, c *model.Coordinate) bool {
	if c == nil {
		return false
	}
	return b.Contains(c.Point())
}
