package repository

import (
	"context"

	"PetAlert-App/internal/domain/model"
)

// DraftRepository アラート作成フォームの下書き保存先
type DraftRepository interface {
	Save(ctx context.Context, draft *model.AlertDraft) error
	// Get は存在しない場合 model.ErrDraftNotFound を返す
	Get(ctx context.Context, id string) (*model.AlertDraft, error)
	Delete(ctx context.Context, id string) error
}
