package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
	"PetAlert-App/internal/infrastructure/database"
)

// PostgreSQLのエラーコード
const (
	pqUndefinedTable    = "42P01"
	pqUndefinedFunction = "42883"
)

type PostgresAlertsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresAlertsRepository(client *database.PostgreSQLClient) repository.AlertsRepository {
	return &PostgresAlertsRepository{
		client: client,
	}
}

// AlertResult クエリ結果を受け取るための構造体
type AlertResult struct {
	ID          string
	Type        string
	PetName     string
	Species     string
	Breed       string
	Description string
	PhotoURLs   pq.StringArray
	Location    string
	Latitude    sql.NullFloat64
	Longitude   sql.NullFloat64
	PostalCode  string
	CountryCode string
	CreatedAt   sql.NullTime
}

// ToAlert AlertResultをmodel.Alertに変換
func (ar *AlertResult) ToAlert() model.Alert {
	alert := model.Alert{
		ID:          ar.ID,
		Type:        model.AlertType(ar.Type),
		PetName:     ar.PetName,
		Species:     ar.Species,
		Breed:       ar.Breed,
		Description: ar.Description,
		PhotoURLs:   []string(ar.PhotoURLs),
		Location:    ar.Location,
		PostalCode:  ar.PostalCode,
		CountryCode: ar.CountryCode,
	}
	if ar.Latitude.Valid && ar.Longitude.Valid {
		lat, lng := ar.Latitude.Float64, ar.Longitude.Float64
		alert.Latitude, alert.Longitude = &lat, &lng
	}
	if ar.CreatedAt.Valid {
		alert.CreatedAt = ar.CreatedAt.Time
	}
	return alert
}

// FindNearby PostGISの ST_DWithin で半径内のアラートを距離順に取得する
// alerts テーブルや PostGIS 関数が存在しない場合は未実装として扱う
func (r *PostgresAlertsRepository) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.Alert, error) {
	query := `
		SELECT
			a.id, a.type,
			COALESCE(a.pet_name, ''), COALESCE(a.species, ''), COALESCE(a.breed, ''),
			COALESCE(a.description, ''), COALESCE(a.photo_urls, '{}'),
			COALESCE(a.location_text, ''),
			ST_Y(a.location::geometry), ST_X(a.location::geometry),
			COALESCE(a.postal_code, ''), COALESCE(a.country_code, ''),
			a.created_at
		FROM alerts a
		WHERE a.location IS NOT NULL
		AND ST_DWithin(a.location::geography, ST_GeogFromText($1), $2)
		AND ($3 = '' OR a.type = $3)
		ORDER BY ST_Distance(a.location::geography, ST_GeogFromText($1))
		LIMIT $4
	`

	limit := q.Limit
	if limit <= 0 {
		limit = model.DefaultNearbyLimit
	}

	rows, err := r.client.DB.QueryContext(ctx, query, PointWKT(q.Center), q.RadiusMeters(), string(q.Type), limit)
	if err != nil {
		return nil, classifyPostgresError(err)
	}
	defer rows.Close()

	alerts := []model.Alert{}
	for rows.Next() {
		var result AlertResult
		err := rows.Scan(&result.ID, &result.Type, &result.PetName, &result.Species, &result.Breed,
			&result.Description, &result.PhotoURLs, &result.Location,
			&result.Latitude, &result.Longitude, &result.PostalCode, &result.CountryCode, &result.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("アラートデータスキャンエラー: %w", err)
		}
		alerts = append(alerts, result.ToAlert())
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgresError(err)
	}

	return alerts, nil
}

// classifyPostgresError テーブル・関数未定義は model.ErrNearbyNotImplemented に変換する
func classifyPostgresError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUndefinedTable, pqUndefinedFunction:
			return fmt.Errorf("%w: %s", model.ErrNearbyNotImplemented, pqErr.Message)
		}
	}
	return fmt.Errorf("周辺アラート検索失敗: %w", err)
}
