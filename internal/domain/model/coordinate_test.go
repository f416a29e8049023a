package model

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate(t *testing.T) {
	t.Run("範囲チェック", func(t *testing.T) {
		_, err := NewCoordinate(90, 180)
		assert.NoError(t, err)
		_, err = NewCoordinate(90.1, 0)
		assert.Error(t, err)
		_, err = NewCoordinate(0, math.NaN())
		assert.Error(t, err)

		var nilCoord *Coordinate
		assert.False(t, nilCoord.Valid())
	})

	t.Run("orb.Pointとの相互変換", func(t *testing.T) {
		c := Coordinate{Latitude: 40.4168, Longitude: -3.7038}
		p := c.Point()
		assert.Equal(t, orb.Point{-3.7038, 40.4168}, p)
		assert.Equal(t, c, CoordinateFromPoint(p))
	})

	t.Run("表示文字列は小数点以下4桁", func(t *testing.T) {
		assert.Equal(t, "40.4168, -3.7038", Coordinate{Latitude: 40.41684, Longitude: -3.70379}.String())
	})

	t.Run("GeoJSONのPoint", func(t *testing.T) {
		g := &Geometry{Type: "Point", Coordinates: []float64{-3.7, 40.4}}
		c := g.ToCoordinate()
		require.NotNil(t, c)
		assert.Equal(t, 40.4, c.Latitude)
		assert.Nil(t, (&Geometry{Type: "Point"}).ToCoordinate())
	})
}

func TestLocationResultAccessors(t *testing.T) {
	var r *LocationResult
	assert.Nil(t, r.Latitude())

	r = &LocationResult{Location: "Madrid", Coordinate: &Coordinate{Latitude: 1, Longitude: 2}, Source: SourceAuto}
	require.NotNil(t, r.Latitude())
	assert.Equal(t, 1.0, *r.Latitude())
	assert.Equal(t, 2.0, *r.Longitude())
}
