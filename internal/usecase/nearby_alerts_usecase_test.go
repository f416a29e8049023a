package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/service"
)

type stubAlertsRepository struct {
	alerts []model.Alert
	err    error
}

func (s *stubAlertsRepository) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.Alert, error) {
	return s.alerts, s.err
}

func TestNearbyAlertsUseCase_GetNearbyAlerts(t *testing.T) {
	ctx := context.Background()
	center := model.Coordinate{Latitude: 40.4168, Longitude: -3.7038}
	repo := &stubAlertsRepository{alerts: []model.Alert{
		{ID: "far", Latitude: fp(40.50), Longitude: fp(-3.70), Location: "Alcobendas"},
		{ID: "outside", Latitude: fp(41.00), Longitude: fp(-3.70), Location: "Guadalajara"},
		{ID: "near", Latitude: fp(40.42), Longitude: fp(-3.70)},
		{ID: "nocoord", PostalCode: "28001", CountryCode: "ES"},
	}}

	t.Run("距離順に並べて半径外を除く", func(t *testing.T) {
		places := &fakePlacesProvider{}
		enricher := service.NewParallelAddressEnricher(service.NewReverseGeocoder(places, nil))
		uc := NewNearbyAlertsUseCase(service.NewProximityService(repo), enricher)

		resp, err := uc.GetNearbyAlerts(ctx, &NearbyAlertsRequest{
			Query:          model.NearbyQuery{Center: center, RadiusKm: 20},
			SortByDistance: true,
		})
		require.NoError(t, err)
		require.Equal(t, 3, resp.Count)
		assert.Equal(t, "near", resp.Alerts[0].ID)
		assert.Equal(t, "far", resp.Alerts[1].ID)
		assert.Equal(t, "nocoord", resp.Alerts[2].ID)
		assert.Equal(t, "Calle Mayor 1, Madrid", resp.Alerts[0].Location, "住所のないアラートは補完する")
		assert.Equal(t, "Alcobendas", resp.Alerts[1].Location)
		assert.Equal(t, 20.0, resp.RadiusKm)
	})

	t.Run("並べ替えなしはバックエンドの順序", func(t *testing.T) {
		uc := NewNearbyAlertsUseCase(service.NewProximityService(repo), nil)
		resp, err := uc.GetNearbyAlerts(ctx, &NearbyAlertsRequest{Query: model.NearbyQuery{Center: center}})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Count)
		assert.Equal(t, "far", resp.Alerts[0].ID)
		assert.Equal(t, model.DefaultNearbyRadiusKm, resp.RadiusKm)
	})

	t.Run("未実装は空", func(t *testing.T) {
		uc := NewNearbyAlertsUseCase(service.NewProximityService(&stubAlertsRepository{err: model.ErrNearbyNotImplemented}), nil)
		resp, err := uc.GetNearbyAlerts(ctx, &NearbyAlertsRequest{Query: model.NearbyQuery{Center: center}})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Count)
		assert.NotNil(t, resp.Alerts)
	})
}
