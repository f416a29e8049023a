package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// LocationAcquirer 端末の現在地を取得する
// 失敗してもエラーは返さず、座標 nil とユーザー向けメッセージを返す
type LocationAcquirer struct {
	provider repository.DeviceLocationProvider
	timeout  time.Duration
	accuracy model.Accuracy
}

// NewLocationAcquirer timeout が0以下なら10秒
func NewLocationAcquirer(provider repository.DeviceLocationProvider, timeout time.Duration) *LocationAcquirer {
	if timeout <= 0 {
		timeout = model.DefaultLocationTimeout
	}
	return &LocationAcquirer{
		provider: provider,
		timeout:  timeout,
		accuracy: model.AccuracyBalanced,
	}
}

type positionResult struct {
	coord *model.Coordinate
	err   error
}

// GetCurrentLocation 権限確認 → 必要なら権限要求 → 測位（タイムアウト付き）
func (a *LocationAcquirer) GetCurrentLocation(ctx context.Context) model.Acquisition {
	status, err := a.provider.PermissionStatus(ctx)
	if err != nil {
		log.Printf("⚠️ 位置情報の権限確認に失敗: %v", err)
		status = model.PermissionUndetermined
	}
	if status != model.PermissionGranted {
		status, err = a.provider.RequestPermission(ctx)
		if err != nil {
			log.Printf("⚠️ 位置情報の権限要求に失敗: %v", err)
			return failedAcquisition(model.FailureOther)
		}
	}
	if status != model.PermissionGranted {
		return failedAcquisition(model.FailureDenied)
	}

	fixCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// プロバイダがキャンセルに応答しない場合もタイムアウトで打ち切る
	done := make(chan positionResult, 1)
	go func() {
		coord, err := a.provider.CurrentPosition(fixCtx, a.accuracy)
		done <- positionResult{coord: coord, err: err}
	}()

	var res positionResult
	select {
	case res = <-done:
	case <-fixCtx.Done():
		res = positionResult{err: fixCtx.Err()}
	}

	if res.err != nil {
		failure := ClassifyLocationError(res.err)
		log.Printf("⚠️ 現在地の取得に失敗 (%s): %v", failure, res.err)
		return failedAcquisition(failure)
	}
	if !res.coord.Valid() {
		return failedAcquisition(model.FailureUnavailable)
	}

	log.Printf("✅ 現在地を取得: %s", res.coord.String())
	return model.Acquisition{Coordinate: res.coord}
}

// ClassifyLocationError 測位エラーを分類する
func ClassifyLocationError(err error) model.AcquisitionFailure {
	switch {
	case err == nil:
		return model.FailureNone
	case errors.Is(err, model.ErrPermissionDenied):
		return model.FailureDenied
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, model.ErrPositionTimeout):
		return model.FailureTimeout
	case errors.Is(err, model.ErrPositionUnavailable):
		return model.FailureUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return model.FailureTimeout
	case strings.Contains(msg, "unavailable"), strings.Contains(msg, "disabled"):
		return model.FailureUnavailable
	default:
		return model.FailureOther
	}
}

// FailureMessage 失敗分類に対応するユーザー向けメッセージ
func FailureMessage(f model.AcquisitionFailure) string {
	switch f {
	case model.FailureNone:
		return ""
	case model.FailureDenied:
		return model.MessagePermissionDenied
	case model.FailureTimeout:
		return model.MessageLocationTimeout
	case model.FailureUnavailable:
		return model.MessageLocationUnavailable
	default:
		return model.MessageLocationGeneric
	}
}

func failedAcquisition(f model.AcquisitionFailure) model.Acquisition {
	return model.Acquisition{Failure: f, Message: FailureMessage(f)}
}
