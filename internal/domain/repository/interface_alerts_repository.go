package repository

import (
	"context"

	"PetAlert-App/internal/domain/model"
)

// AlertsRepository 周辺アラートの検索元
// 検索機能が存在しない場合は model.ErrNearbyNotImplemented を返す
type AlertsRepository interface {
	FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.Alert, error)
}
