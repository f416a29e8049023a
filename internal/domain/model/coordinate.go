package model

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Coordinate 緯度経度の組（WGS84）
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate 範囲チェック付きでCoordinateを生成する
func NewCoordinate(lat, lng float64) (*Coordinate, error) {
	c := &Coordinate{Latitude: lat, Longitude: lng}
	if !c.Valid() {
		return nil, &ValidationError{Field: "coordinate", Message: fmt.Sprintf("無効な座標です: %f, %f", lat, lng)}
	}
	return c, nil
}

// Valid 緯度 [-90, 90]・経度 [-180, 180] の範囲内で有限値かを判定する
func (c *Coordinate) Valid() bool {
	if c == nil {
		return false
	}
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Point orb.Point（[lng, lat]）に変換
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// CoordinateFromPoint orb.Point から Coordinate に変換
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
}

// String 画面表示用の "lat, lng" 形式（小数点以下4桁）
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// Geometry PostGIS GEOMETRY(Point) の GeoJSON 表現
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// ToCoordinate GeoJSON Point を Coordinate に変換する。形式が不正な場合は nil
func (g *Geometry) ToCoordinate() *Coordinate {
	if g == nil || len(g.Coordinates) < 2 {
		return nil
	}
	c := CoordinateFromPoint(orb.Point{g.Coordinates[0], g.Coordinates[1]})
	return &c
}
