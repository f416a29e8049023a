package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"PetAlert-App/internal/domain/helper"
	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
	"PetAlert-App/internal/infrastructure/database"
)

type SupabaseAlertsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseAlertsRepository(client *database.SupabaseClient) repository.AlertsRepository {
	return &SupabaseAlertsRepository{
		client: client,
	}
}

const supabaseAlertColumns = "id,type,pet_name,species,breed,description,photo_urls,location_text,location,latitude,longitude,postal_code,country_code,created_at"

// supabaseAlertRow PostgRESTが返す alerts の行。location は GeoJSON で返る
type supabaseAlertRow struct {
	ID           string          `json:"id"`
	Type         model.AlertType `json:"type"`
	PetName      string          `json:"pet_name"`
	Species      string          `json:"species"`
	Breed        string          `json:"breed"`
	Description  string          `json:"description"`
	PhotoURLs    []string        `json:"photo_urls"`
	LocationText string          `json:"location_text"`
	Geom         *model.Geometry `json:"location"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	PostalCode   string          `json:"postal_code"`
	CountryCode  string          `json:"country_code"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToAlert 位置ジオメトリがあればそれを座標とし、なければ緯度経度列を使う
func (r supabaseAlertRow) ToAlert() model.Alert {
	alert := model.Alert{
		ID:          r.ID,
		Type:        r.Type,
		PetName:     r.PetName,
		Species:     r.Species,
		Breed:       r.Breed,
		Description: r.Description,
		PhotoURLs:   r.PhotoURLs,
		Location:    r.LocationText,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		PostalCode:  r.PostalCode,
		CountryCode: r.CountryCode,
		CreatedAt:   r.CreatedAt,
	}
	if c := r.Geom.ToCoordinate(); c != nil {
		lat, lng := c.Latitude, c.Longitude
		alert.Latitude, alert.Longitude = &lat, &lng
	}
	return alert
}

// FindNearby 境界ボックスで絞り込んだ後、半径内のものを距離順に返す
func (r *SupabaseAlertsRepository) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.Alert, error) {
	bound := NearbyBound(q.Center, q.RadiusMeters())

	builder := r.client.GetClient().From("alerts").
		Select(supabaseAlertColumns, "exact", false).
		Gte("latitude", formatFloat(bound.Min.Lat())).
		Lte("latitude", formatFloat(bound.Max.Lat())).
		Gte("longitude", formatFloat(bound.Min.Lon())).
		Lte("longitude", formatFloat(bound.Max.Lon()))
	if q.Type != "" {
		builder = builder.Eq("type", string(q.Type))
	}

	data, _, err := builder.Execute()
	if err != nil {
		if database.IsMissingRelation(err) {
			return nil, fmt.Errorf("%w: %v", model.ErrNearbyNotImplemented, err)
		}
		return nil, fmt.Errorf("境界ボックス検索エラー: %w", err)
	}

	var rows []supabaseAlertRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("アラートデータのJSONアンマーシャル失敗: %w", err)
	}
	return selectNearby(q, bound, rows), nil
}

// selectNearby 位置ジオメトリで境界ボックスを再確認し、半径内を距離順に limit 件まで返す
func selectNearby(q model.NearbyQuery, bound orb.Bound, rows []supabaseAlertRow) []model.Alert {
	alerts := make([]model.Alert, 0, len(rows))
	for _, row := range rows {
		alert := row.ToAlert()
		// 緯度経度列とジオメトリが食い違う行は除外する
		if !BoundContains(bound, alert.Coordinate()) {
			continue
		}
		alerts = append(alerts, alert)
	}

	// 境界ボックスの角は半径外になるため距離で再判定する
	within := helper.FilterWithinRadius(helper.AnnotateDistances(q.Center, alerts), q.RadiusKm)
	helper.SortByDistance(within)

	limit := q.Limit
	if limit <= 0 {
		limit = model.DefaultNearbyLimit
	}
	result := make([]model.Alert, 0, len(within))
	for _, a := range within {
		if a.DistanceKm == nil {
			continue
		}
		result = append(result, a.Alert)
		if len(result) >= limit {
			break
		}
	}
	return result
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
