package repository

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

const draftsCollection = "alertDrafts"

// FirestoreDraftRepository Firestoreを使用した下書きリポジトリ
// expireAt にTTLポリシーを設定して期限切れの下書きを削除する
type FirestoreDraftRepository struct {
	client   *firestore.Client
	ttlHours int
}

// NewFirestoreDraftRepository 新しいFirestoreDraftRepositoryインスタンスを作成
func NewFirestoreDraftRepository(client *firestore.Client, ttlHours int) repository.DraftRepository {
	return &FirestoreDraftRepository{
		client:   client,
		ttlHours: ttlHours,
	}
}

func (r *FirestoreDraftRepository) Save(ctx context.Context, draft *model.AlertDraft) error {
	data := draft.ToFirestoreDraft(r.ttlHours)
	if _, err := r.client.Collection(draftsCollection).Doc(draft.ID).Set(ctx, data); err != nil {
		log.Printf("❌ Failed to save alert draft %s: %v", draft.ID, err)
		return fmt.Errorf("下書きの保存に失敗しました: %w", err)
	}
	return nil
}

func (r *FirestoreDraftRepository) Get(ctx context.Context, id string) (*model.AlertDraft, error) {
	doc, err := r.client.Collection(draftsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", model.ErrDraftNotFound, id)
		}
		return nil, fmt.Errorf("下書きの取得に失敗しました: %w", err)
	}

	var data model.FirestoreDraft
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return data.ToAlertDraft(id), nil
}

func (r *FirestoreDraftRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(draftsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("下書きの削除に失敗しました: %w", err)
	}
	return nil
}
