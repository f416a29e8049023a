package repository

import (
	"context"
	"time"

	"PetAlert-App/internal/domain/model"
)

// AlertPublisher 送信確定したアラートの配信先
type AlertPublisher interface {
	PublishSubmitted(ctx context.Context, submission *model.AlertSubmission) error
}

// PhotoStorage 写真アップロード用の署名付きURLを発行する
type PhotoStorage interface {
	PresignUpload(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}
