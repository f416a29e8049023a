package repository

import (
	"context"

	"PetAlert-App/internal/domain/model"
)

// PlacesProvider 場所検索・詳細取得・逆ジオコーディングを提供する外部API
// APIキー未設定時は model.ErrMissingAPIKey を返す
type PlacesProvider interface {
	Autocomplete(ctx context.Context, req model.AutocompleteRequest) ([]model.PlaceSuggestion, error)
	Details(ctx context.Context, placeID, sessionToken string) (*model.PlaceDetails, error)
	ReverseGeocode(ctx context.Context, c model.Coordinate) (string, error)
}
