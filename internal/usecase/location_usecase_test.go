package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/service"
	"PetAlert-App/internal/infrastructure/device"
)

func TestLocationUseCase_GetCurrentLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("住所付きで返す", func(t *testing.T) {
		uc := NewLocationUseCase(service.NewReverseGeocoder(&fakePlacesProvider{}, nil), time.Second)
		resp, err := uc.GetCurrentLocation(ctx, device.NewReportedProvider(grantedAt(40.4168, -3.7038)))
		require.NoError(t, err)
		require.NotNil(t, resp.Location)
		assert.Equal(t, "Calle Mayor 1, Madrid", resp.Location.Location)
		assert.Equal(t, model.SourceGPS, resp.Location.Source)
		assert.Equal(t, 40.4168, *resp.Location.Latitude())
	})

	t.Run("取得失敗は理由とメッセージ", func(t *testing.T) {
		uc := NewLocationUseCase(service.NewReverseGeocoder(&fakePlacesProvider{}, nil), time.Second)
		resp, err := uc.GetCurrentLocation(ctx, device.NewReportedProvider(device.LocationReport{Permission: "granted", Error: "unavailable"}))
		require.NoError(t, err)
		assert.Nil(t, resp.Location)
		assert.Equal(t, string(model.FailureUnavailable), resp.Failure)
		assert.Equal(t, model.MessageLocationUnavailable, resp.Message)
	})

	t.Run("逆ジオコーディング失敗は座標文字列", func(t *testing.T) {
		places := &fakePlacesProvider{reverseFn: func(ctx context.Context, c model.Coordinate) (string, error) {
			return "", errors.New("timeout")
		}}
		uc := NewLocationUseCase(service.NewReverseGeocoder(places, nil), time.Second)
		result, err := uc.ReverseGeocode(ctx, model.Coordinate{Latitude: 1.23456, Longitude: 2})
		require.NoError(t, err)
		assert.Equal(t, "1.2346, 2.0000", result.Location)
	})

	t.Run("APIキー未設定はエラー", func(t *testing.T) {
		places := &fakePlacesProvider{reverseFn: func(ctx context.Context, c model.Coordinate) (string, error) {
			return "", model.ErrMissingAPIKey
		}}
		uc := NewLocationUseCase(service.NewReverseGeocoder(places, nil), time.Second)
		_, err := uc.GetCurrentLocation(ctx, device.NewReportedProvider(grantedAt(1, 2)))
		assert.ErrorIs(t, err, model.ErrMissingAPIKey)
	})
}
