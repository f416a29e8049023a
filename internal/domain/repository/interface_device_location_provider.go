package repository

import (
	"context"

	"PetAlert-App/internal/domain/model"
)

// DeviceLocationProvider 端末の位置情報へのアクセス
type DeviceLocationProvider interface {
	PermissionStatus(ctx context.Context) (model.PermissionStatus, error)
	RequestPermission(ctx context.Context) (model.PermissionStatus, error)
	// CurrentPosition は ctx のキャンセルで中断される
	// 失敗時は model.ErrPositionTimeout / model.ErrPositionUnavailable をラップして返す
	CurrentPosition(ctx context.Context, accuracy model.Accuracy) (*model.Coordinate, error)
}
