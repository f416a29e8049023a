package usecase

import (
	"context"

	"PetAlert-App/internal/domain/helper"
	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/service"
)

// NearbyAlertsRequest 周辺アラート検索リクエスト
type NearbyAlertsRequest struct {
	Query          model.NearbyQuery
	SortByDistance bool
}

// NearbyAlertsResponse 周辺アラート検索結果
type NearbyAlertsResponse struct {
	Alerts   []model.AlertWithDistance `json:"alerts"`
	Count    int                       `json:"count"`
	RadiusKm float64                   `json:"radius_km"`
}

type NearbyAlertsUseCase interface {
	GetNearbyAlerts(ctx context.Context, req *NearbyAlertsRequest) (*NearbyAlertsResponse, error)
}

type nearbyAlertsUseCaseImpl struct {
	proximityService service.ProximityService
	enricher         *service.ParallelAddressEnricher
}

// NewNearbyAlertsUseCase enricher は nil 可（住所補完なし）
func NewNearbyAlertsUseCase(proximityService service.ProximityService, enricher *service.ParallelAddressEnricher) NearbyAlertsUseCase {
	return &nearbyAlertsUseCaseImpl{
		proximityService: proximityService,
		enricher:         enricher,
	}
}

func (u *nearbyAlertsUseCaseImpl) GetNearbyAlerts(ctx context.Context, req *NearbyAlertsRequest) (*NearbyAlertsResponse, error) {
	q := req.Query
	if q.RadiusKm <= 0 {
		q.RadiusKm = model.DefaultNearbyRadiusKm
	}

	alerts, err := u.proximityService.GetAlertsNearby(ctx, q)
	if err != nil {
		return nil, err
	}
	if req.SortByDistance {
		alerts = helper.FilterWithinRadius(alerts, q.RadiusKm)
		helper.SortByDistance(alerts)
	}
	if u.enricher != nil {
		u.enricher.Enrich(ctx, alerts)
	}

	return &NearbyAlertsResponse{
		Alerts:   alerts,
		Count:    len(alerts),
		RadiusKm: q.RadiusKm,
	}, nil
}
