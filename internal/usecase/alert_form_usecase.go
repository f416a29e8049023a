package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
	"PetAlert-App/internal/domain/service"
)

const (
	photoUploadExpiry = 15 * time.Minute
	maxPhotosPerDraft = 5
	// 一定時間操作のない下書きのロックは破棄する
	draftLockIdleTTL = 30 * time.Minute
)

// PhotoUploadResponse 写真アップロード用の署名付きURL
type PhotoUploadResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoKeyFunc 下書きIDとファイル名からオブジェクトキーを作る
type PhotoKeyFunc func(draftID, filename string) string

type AlertFormUseCase interface {
	// CreateDraft は auto モードで下書きを作成し、現在地の自動判定まで行う
	CreateDraft(ctx context.Context, provider repository.DeviceLocationProvider) (*model.DraftFields, error)
	GetDraft(ctx context.Context, id string) (*model.DraftFields, error)
	// UseGPS は現在地を取得して gps モードに切り替える。取得できなければモードは変わらない
	UseGPS(ctx context.Context, id string, provider repository.DeviceLocationProvider) (*model.DraftFields, error)
	SwitchMode(ctx context.Context, id string, mode model.LocationMode) (*model.DraftFields, error)
	SetManualText(ctx context.Context, id, text string) (*model.DraftFields, error)
	// SelectManualSuggestion はオートコンプリート候補を確定して manual モードの値にする
	// typed は詳細取得に失敗した場合に残す入力テキスト（セッションが失われている場合に使う）
	SelectManualSuggestion(ctx context.Context, id string, coordinator *service.AutocompleteCoordinator, suggestion model.PlaceSuggestion, typed string) (*model.DraftFields, error)
	SetPostal(ctx context.Context, id, postalCode, countryCode string) (*model.DraftFields, error)
	PresignPhotoUpload(ctx context.Context, id, filename string) (*PhotoUploadResponse, error)
	Submit(ctx context.Context, id string, details model.AlertDetails) (*model.AlertSubmission, error)
}

type alertFormUseCaseImpl struct {
	drafts          repository.DraftRepository
	geocoder        *service.ReverseGeocoder
	publisher       repository.AlertPublisher
	photos          repository.PhotoStorage
	photoKey        PhotoKeyFunc
	locationTimeout time.Duration
	now             func() time.Time

	locks *draftLocks
}

// NewAlertFormUseCase photos は nil 可（写真アップロード無効）
func NewAlertFormUseCase(
	drafts repository.DraftRepository,
	geocoder *service.ReverseGeocoder,
	publisher repository.AlertPublisher,
	photos repository.PhotoStorage,
	photoKey PhotoKeyFunc,
	locationTimeout time.Duration,
) AlertFormUseCase {
	return &alertFormUseCaseImpl{
		drafts:          drafts,
		geocoder:        geocoder,
		publisher:       publisher,
		photos:          photos,
		photoKey:        photoKey,
		locationTimeout: locationTimeout,
		now:             time.Now,
		locks:           newDraftLocks(draftLockIdleTTL),
	}
}

func (u *alertFormUseCaseImpl) CreateDraft(ctx context.Context, provider repository.DeviceLocationProvider) (*model.DraftFields, error) {
	userID := ""
	if auth, ok := model.AuthFrom(ctx); ok {
		userID = auth.UserID
	}
	draft := model.NewAlertDraft(uuid.NewString(), userID, u.now())
	log.Printf("🚀 下書き作成: %s (auto)", draft.ID)

	acq := service.NewLocationAcquirer(provider, u.locationTimeout).GetCurrentLocation(ctx)
	generation, err := draft.ApplyAutoDetection(acq)
	if err != nil {
		return nil, err
	}
	if err := u.save(ctx, draft); err != nil {
		return nil, err
	}

	if draft.Mode() == model.ModeGPS {
		return u.resolveGPSAddress(ctx, draft.ID, generation)
	}
	log.Printf("⚠️ 自動判定で現在地を取得できず postal に切り替え: %s", draft.ID)
	fields := draft.Fields()
	return &fields, nil
}

func (u *alertFormUseCaseImpl) GetDraft(ctx context.Context, id string) (*model.DraftFields, error) {
	draft, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := draft.Fields()
	return &fields, nil
}

func (u *alertFormUseCaseImpl) UseGPS(ctx context.Context, id string, provider repository.DeviceLocationProvider) (*model.DraftFields, error) {
	if _, err := u.load(ctx, id); err != nil {
		return nil, err
	}

	// 測位は時間がかかるためロックの外で行う
	acq := service.NewLocationAcquirer(provider, u.locationTimeout).GetCurrentLocation(ctx)

	var generation int64
	draft, err := u.mutate(ctx, id, func(d *model.AlertDraft) error {
		if !acq.OK() {
			d.Message = acq.Message
			return nil
		}
		g, err := d.EnterGPS(*acq.Coordinate)
		generation = g
		return err
	})
	if err != nil {
		return nil, err
	}
	if !acq.OK() {
		fields := draft.Fields()
		return &fields, nil
	}
	return u.resolveGPSAddress(ctx, id, generation)
}

func (u *alertFormUseCaseImpl) SwitchMode(ctx context.Context, id string, mode model.LocationMode) (*model.DraftFields, error) {
	draft, err := u.mutate(ctx, id, func(d *model.AlertDraft) error {
		return d.SwitchTo(mode)
	})
	if err != nil {
		return nil, err
	}
	fields := draft.Fields()
	return &fields, nil
}

func (u *alertFormUseCaseImpl) SetManualText(ctx context.Context, id, text string) (*model.DraftFields, error) {
	draft, err := u.mutate(ctx, id, func(d *model.AlertDraft) error {
		return d.SetManual(text, nil)
	})
	if err != nil {
		return nil, err
	}
	fields := draft.Fields()
	return &fields, nil
}

func (u *alertFormUseCaseImpl) SelectManualSuggestion(ctx context.Context, id string, coordinator *service.AutocompleteCoordinator, suggestion model.PlaceSuggestion, typed string) (*model.DraftFields, error) {
	if _, err := u.load(ctx, id); err != nil {
		return nil, err
	}

	result, err := coordinator.SelectSuggestion(ctx, suggestion)
	if err != nil {
		return nil, err
	}
	if result.Location == "" {
		result.Location = strings.TrimSpace(typed)
	}

	draft, err := u.mutate(ctx, id, func(d *model.AlertDraft) error {
		if result.Source == model.SourceError {
			d.Message = model.MessageLocationGeneric
		}
		return d.SelectManual(result)
	})
	if err != nil {
		return nil, err
	}
	fields := draft.Fields()
	return &fields, nil
}

func (u *alertFormUseCaseImpl) SetPostal(ctx context.Context, id, postalCode, countryCode string) (*model.DraftFields, error) {
	draft, err := u.mutate(ctx, id, func(d *model.AlertDraft) error {
		return d.SetPostal(postalCode, countryCode)
	})
	if err != nil {
		return nil, err
	}
	fields := draft.Fields()
	return &fields, nil
}

func (u *alertFormUseCaseImpl) PresignPhotoUpload(ctx context.Context, id, filename string) (*PhotoUploadResponse, error) {
	if u.photos == nil {
		return nil, errors.New("写真アップロードは設定されていません")
	}

	draft, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkPhotoLimit(draft); err != nil {
		return nil, err
	}

	// 署名に失敗したキーは下書きに残さない
	key := u.photoKey(draft.ID, filename)
	uploadURL, err := u.photos.PresignUpload(ctx, key, photoUploadExpiry)
	if err != nil {
		return nil, err
	}

	if _, err := u.mutate(ctx, id, func(d *model.AlertDraft) error {
		if err := checkPhotoLimit(d); err != nil {
			return err
		}
		d.PhotoKeys = append(d.PhotoKeys, key)
		return nil
	}); err != nil {
		return nil, err
	}
	return &PhotoUploadResponse{
		ObjectKey: key,
		UploadURL: uploadURL,
		ExpiresAt: u.now().Add(photoUploadExpiry),
	}, nil
}

func checkPhotoLimit(d *model.AlertDraft) error {
	if len(d.PhotoKeys) >= maxPhotosPerDraft {
		return &model.ValidationError{Field: "photos", Message: fmt.Sprintf("写真は最大%d枚までです", maxPhotosPerDraft)}
	}
	return nil
}

func (u *alertFormUseCaseImpl) Submit(ctx context.Context, id string, details model.AlertDetails) (*model.AlertSubmission, error) {
	if details.Type != model.AlertTypeLost && details.Type != model.AlertTypeFound {
		return nil, &model.ValidationError{Field: "type", Message: "typeは'lost'または'found'を指定してください"}
	}

	unlock := u.lock(id)
	defer unlock()

	draft, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	fields := draft.Fields()
	submission := &model.AlertSubmission{
		AlertID:     uuid.NewString(),
		DraftID:     draft.ID,
		UserID:      draft.UserID,
		Type:        details.Type,
		PetName:     strings.TrimSpace(details.PetName),
		Species:     strings.TrimSpace(details.Species),
		Breed:       strings.TrimSpace(details.Breed),
		Description: strings.TrimSpace(details.Description),
		PhotoKeys:   draft.PhotoKeys,
		Mode:        fields.Mode,
		Location:    fields.Location,
		Latitude:    fields.Latitude,
		Longitude:   fields.Longitude,
		PostalCode:  fields.PostalCode,
		CountryCode: fields.CountryCode,
		SubmittedAt: u.now(),
	}

	if err := u.publisher.PublishSubmitted(ctx, submission); err != nil {
		return nil, err
	}
	if err := u.drafts.Delete(ctx, id); err != nil {
		log.Printf("⚠️ 送信済み下書きの削除に失敗: %s: %v", id, err)
	}
	u.locks.remove(id)

	log.Printf("✅ アラート送信完了: %s (draft=%s, mode=%s)", submission.AlertID, id, submission.Mode)
	return submission, nil
}

// resolveGPSAddress 住所を解決し、その間に入力が変わっていなければ反映する
func (u *alertFormUseCaseImpl) resolveGPSAddress(ctx context.Context, id string, generation int64) (*model.DraftFields, error) {
	draft, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	gps, ok := draft.Input.(model.GPSLocation)
	if !ok || draft.AddressGeneration != generation {
		fields := draft.Fields()
		return &fields, nil
	}

	address, err := u.geocoder.ResolveAddress(ctx, gps.Coordinate.Latitude, gps.Coordinate.Longitude)
	if err != nil {
		log.Printf("❌ 住所を解決できません: %v", err)
		address = gps.Coordinate.String()
	}

	draft, err = u.mutate(ctx, id, func(d *model.AlertDraft) error {
		if !d.SetGPSAddress(generation, address) {
			log.Printf("⚠️ 古い住所解決結果を破棄: %s (generation=%d)", id, generation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields := draft.Fields()
	return &fields, nil
}

// mutate 下書きを読み込み、変更して保存する。同じ下書きへの変更は直列化される
func (u *alertFormUseCaseImpl) mutate(ctx context.Context, id string, fn func(*model.AlertDraft) error) (*model.AlertDraft, error) {
	unlock := u.lock(id)
	defer unlock()

	draft, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	if err := u.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// load 下書きを読み込み、呼び出し元が作成者であることを確認する
func (u *alertFormUseCaseImpl) load(ctx context.Context, id string) (*model.AlertDraft, error) {
	draft, err := u.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	userID := ""
	if auth, ok := model.AuthFrom(ctx); ok {
		userID = auth.UserID
	}
	if !draft.OwnedBy(userID) {
		log.Printf("⚠️ 他ユーザーの下書きへのアクセスを拒否: %s (user=%s)", id, userID)
		return nil, fmt.Errorf("%w: %s", model.ErrDraftForbidden, id)
	}
	return draft, nil
}

func (u *alertFormUseCaseImpl) save(ctx context.Context, draft *model.AlertDraft) error {
	draft.UpdatedAt = u.now()
	return u.drafts.Save(ctx, draft)
}

func (u *alertFormUseCaseImpl) lock(id string) func() {
	mu := u.locks.get(id)
	mu.Lock()
	return mu.Unlock
}

// draftLocks 下書きごとのミューテックス。idleTTL の間使われなかったものは削除される
type draftLocks struct {
	mu    sync.Mutex
	locks *expirable.LRU[string, *sync.Mutex]
}

func newDraftLocks(idleTTL time.Duration) *draftLocks {
	return &draftLocks{locks: expirable.NewLRU[string, *sync.Mutex](0, nil, idleTTL)}
}

func (l *draftLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks.Get(id)
	if !ok {
		m = &sync.Mutex{}
	}
	// 使うたびに有効期限を延長する
	l.locks.Add(id, m)
	return m
}

func (l *draftLocks) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks.Remove(id)
}
