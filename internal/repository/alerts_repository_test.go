package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PetAlert-App/internal/domain/model"
)

func TestClassifyPostgresError(t *testing.T) {
	t.Run("テーブル未定義は未実装", func(t *testing.T) {
		err := classifyPostgresError(&pq.Error{Code: "42P01", Message: `relation "alerts" does not exist`})
		assert.ErrorIs(t, err, model.ErrNearbyNotImplemented)
	})

	t.Run("PostGIS関数未定義も未実装", func(t *testing.T) {
		err := classifyPostgresError(fmt.Errorf("query: %w", &pq.Error{Code: "42883", Message: "function st_dwithin does not exist"}))
		assert.ErrorIs(t, err, model.ErrNearbyNotImplemented)
	})

	t.Run("その他はそのまま", func(t *testing.T) {
		cause := &pq.Error{Code: "08006", Message: "connection failure"}
		err := classifyPostgresError(cause)
		assert.NotErrorIs(t, err, model.ErrNearbyNotImplemented)
		var pqErr *pq.Error
		assert.True(t, errors.As(err, &pqErr))
	})
}

func TestAlertResult_ToAlert(t *testing.T) {
	created := time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)
	r := &AlertResult{
		ID:        "a1",
		Type:      "lost",
		PetName:   "Toby",
		PhotoURLs: pq.StringArray{"https://example.com/1.jpg"},
		Latitude:  sql.NullFloat64{Float64: 40.4, Valid: true},
		Longitude: sql.NullFloat64{Float64: -3.7, Valid: true},
		CreatedAt: sql.NullTime{Time: created, Valid: true},
	}
	a := r.ToAlert()
	assert.Equal(t, model.AlertTypeLost, a.Type)
	require.NotNil(t, a.Latitude)
	assert.Equal(t, 40.4, *a.Latitude)
	assert.Equal(t, []string{"https://example.com/1.jpg"}, a.PhotoURLs)
	assert.Equal(t, created, a.CreatedAt)

	r.Longitude.Valid = false
	a = r.ToAlert()
	assert.Nil(t, a.Latitude)
	assert.Nil(t, a.Longitude)
}

func TestGeoHelper(t *testing.T) {
	center := model.Coordinate{Latitude: 40.4168, Longitude: -3.7038}

	assert.Equal(t, "SRID=4326;POINT(-3.7038 40.4168)", PointWKT(center))

	bound := NearbyBound(center, 1000)
	assert.True(t, BoundContains(bound, &center))
	assert.True(t, BoundContains(bound, &model.Coordinate{Latitude: 40.4230, Longitude: -3.7038}))
	assert.False(t, BoundContains(bound, &model.Coordinate{Latitude: 40.4300, Longitude: -3.7038}))
	assert.False(t, BoundContains(bound, nil))
}

func TestSupabaseAlertRow_ToAlert(t *testing.T) {
	var rows []supabaseAlertRow
	data := `[
		{"id":"geo","type":"lost","pet_name":"Luna","location_text":"Calle Mayor","location":{"type":"Point","coordinates":[-3.7040,40.4180]},"latitude":0,"longitude":0},
		{"id":"cols","type":"found","location":null,"latitude":40.4170,"longitude":-3.7038},
		{"id":"none","type":"found"}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &rows))
	require.Len(t, rows, 3)

	geo := rows[0].ToAlert()
	assert.Equal(t, "Calle Mayor", geo.Location)
	require.NotNil(t, geo.Coordinate())
	assert.Equal(t, model.Coordinate{Latitude: 40.4180, Longitude: -3.7040}, *geo.Coordinate())

	cols := rows[1].ToAlert()
	require.NotNil(t, cols.Coordinate())
	assert.Equal(t, 40.4170, cols.Coordinate().Latitude)

	assert.Nil(t, rows[2].ToAlert().Coordinate())
}

func TestSelectNearby(t *testing.T) {
	center := model.Coordinate{Latitude: 40.4168, Longitude: -3.7038}
	q := model.NearbyQuery{Center: center, RadiusKm: 1, Limit: 2}
	bound := NearbyBound(center, q.RadiusMeters())

	row := func(id string, lat, lng float64) supabaseAlertRow {
		return supabaseAlertRow{ID: id, Type: model.AlertTypeLost, Geom: &model.Geometry{Type: "Point", Coordinates: []float64{lng, lat}}}
	}
	rows := []supabaseAlertRow{
		row("far", 40.4230, -3.7038),
		row("near", 40.4170, -3.7038),
		// 列では境界内でもジオメトリは別の場所
		row("moved", 41.3874, 2.1686),
		{ID: "nocoord", Type: model.AlertTypeFound},
		row("mid", 40.4200, -3.7038),
	}

	alerts := selectNearby(q, bound, rows)
	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"near", "mid"}, ids)
}
