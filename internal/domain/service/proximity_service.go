package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"PetAlert-App/internal/domain/helper"
	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// ProximityService は周辺アラート検索を行う
type ProximityService interface {
	GetAlertsNearby(ctx context.Context, q model.NearbyQuery) ([]model.AlertWithDistance, error)
}

type proximityService struct {
	alertsRepo repository.AlertsRepository
}

func NewProximityService(repo repository.AlertsRepository) ProximityService {
	return &proximityService{alertsRepo: repo}
}

// GetAlertsNearby はバックエンドの検索結果に距離を付与して返す
// 検索機能が未実装（404）の場合は空の一覧を返し、それ以外のエラーはそのまま返す
func (s *proximityService) GetAlertsNearby(ctx context.Context, q model.NearbyQuery) ([]model.AlertWithDistance, error) {
	if !q.Center.Valid() {
		return nil, &model.ValidationError{Field: "lat/lng", Message: "検索地点の座標が無効です"}
	}
	if !q.Type.Valid() {
		return nil, &model.ValidationError{Field: "type", Message: "typeは'lost'または'found'を指定してください"}
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = model.DefaultNearbyRadiusKm
	}

	alerts, err := s.alertsRepo.FindNearby(ctx, q)
	if err != nil {
		if errors.Is(err, model.ErrNearbyNotImplemented) {
			log.Printf("⚠️ 周辺検索が未実装のため空の一覧を返します")
			return []model.AlertWithDistance{}, nil
		}
		return nil, fmt.Errorf("周辺アラートの取得に失敗: %w", err)
	}

	return helper.AnnotateDistances(q.Center, alerts), nil
}
