package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// MemoryDraftRepository Firestore未設定時に使うプロセス内の下書き保存先
// 最終更新から ttl を過ぎた下書きはバックグラウンドで削除される
type MemoryDraftRepository struct {
	ttl    time.Duration
	now    func() time.Time
	drafts *expirable.LRU[string, *model.AlertDraft]
}

func NewMemoryDraftRepository(ttl time.Duration) repository.DraftRepository {
	return &MemoryDraftRepository{
		ttl:    ttl,
		now:    time.Now,
		drafts: expirable.NewLRU[string, *model.AlertDraft](0, nil, ttl),
	}
}

func (r *MemoryDraftRepository) Save(ctx context.Context, draft *model.AlertDraft) error {
	r.drafts.Add(draft.ID, cloneDraft(draft))
	return nil
}

func (r *MemoryDraftRepository) Get(ctx context.Context, id string) (*model.AlertDraft, error) {
	draft, ok := r.drafts.Get(id)
	if !ok || r.expired(draft) {
		return nil, fmt.Errorf("%w: %s", model.ErrDraftNotFound, id)
	}
	return cloneDraft(draft), nil
}

func (r *MemoryDraftRepository) Delete(ctx context.Context, id string) error {
	r.drafts.Remove(id)
	return nil
}

func (r *MemoryDraftRepository) expired(d *model.AlertDraft) bool {
	return r.ttl > 0 && r.now().After(d.UpdatedAt.Add(r.ttl))
}

func cloneDraft(d *model.AlertDraft) *model.AlertDraft {
	c := *d
	c.PhotoKeys = append([]string(nil), d.PhotoKeys...)
	if m, ok := d.Input.(model.ManualLocation); ok && m.Coordinate != nil {
		coord := *m.Coordinate
		m.Coordinate = &coord
		c.Input = m
	}
	return &c
}
