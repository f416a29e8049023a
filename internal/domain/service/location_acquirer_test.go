package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PetAlert-App/internal/domain/model"
)

func TestLocationAcquirer_GetCurrentLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("権限ありで取得成功", func(t *testing.T) {
		provider := &fakeDeviceProvider{
			status: model.PermissionGranted,
			positionFn: func(ctx context.Context) (*model.Coordinate, error) {
				return &model.Coordinate{Latitude: 40.4168, Longitude: -3.7038}, nil
			},
		}
		acq := NewLocationAcquirer(provider, time.Second).GetCurrentLocation(ctx)
		require.True(t, acq.OK())
		assert.Equal(t, 40.4168, acq.Coordinate.Latitude)
		assert.Empty(t, acq.Message)
		assert.Equal(t, 0, provider.requestCalls)
	})

	t.Run("未決定なら権限を要求する", func(t *testing.T) {
		provider := &fakeDeviceProvider{
			status:    model.PermissionUndetermined,
			requested: model.PermissionGranted,
			positionFn: func(ctx context.Context) (*model.Coordinate, error) {
				return &model.Coordinate{Latitude: 1, Longitude: 2}, nil
			},
		}
		acq := NewLocationAcquirer(provider, time.Second).GetCurrentLocation(ctx)
		assert.True(t, acq.OK())
		assert.Equal(t, 1, provider.requestCalls)
	})

	t.Run("権限拒否", func(t *testing.T) {
		provider := &fakeDeviceProvider{status: model.PermissionDenied, requested: model.PermissionDenied}
		acq := NewLocationAcquirer(provider, time.Second).GetCurrentLocation(ctx)
		assert.False(t, acq.OK())
		assert.Equal(t, model.FailureDenied, acq.Failure)
		assert.Equal(t, model.MessagePermissionDenied, acq.Message)
	})

	t.Run("応答しない測位はタイムアウト", func(t *testing.T) {
		block := make(chan struct{})
		t.Cleanup(func() { close(block) })
		provider := &fakeDeviceProvider{
			status: model.PermissionGranted,
			positionFn: func(ctx context.Context) (*model.Coordinate, error) {
				<-block
				return nil, nil
			},
		}
		start := time.Now()
		acq := NewLocationAcquirer(provider, 30*time.Millisecond).GetCurrentLocation(ctx)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, model.FailureTimeout, acq.Failure)
		assert.Equal(t, model.MessageLocationTimeout, acq.Message)
	})

	t.Run("測位不可", func(t *testing.T) {
		provider := &fakeDeviceProvider{
			status: model.PermissionGranted,
			positionFn: func(ctx context.Context) (*model.Coordinate, error) {
				return nil, fmt.Errorf("GPS無効: %w", model.ErrPositionUnavailable)
			},
		}
		acq := NewLocationAcquirer(provider, time.Second).GetCurrentLocation(ctx)
		assert.Equal(t, model.FailureUnavailable, acq.Failure)
		assert.Equal(t, model.MessageLocationUnavailable, acq.Message)
	})

	t.Run("無効な座標は測位不可扱い", func(t *testing.T) {
		provider := &fakeDeviceProvider{
			status: model.PermissionGranted,
			positionFn: func(ctx context.Context) (*model.Coordinate, error) {
				return &model.Coordinate{Latitude: 91}, nil
			},
		}
		acq := NewLocationAcquirer(provider, time.Second).GetCurrentLocation(ctx)
		assert.Equal(t, model.FailureUnavailable, acq.Failure)
	})

	t.Run("権限要求の失敗は汎用メッセージ", func(t *testing.T) {
		provider := &fakeDeviceProvider{status: model.PermissionUndetermined, requestErr: errors.New("boom")}
		acq := NewLocationAcquirer(provider, time.Second).GetCurrentLocation(ctx)
		assert.Equal(t, model.FailureOther, acq.Failure)
		assert.Equal(t, model.MessageLocationGeneric, acq.Message)
	})
}

func TestClassifyLocationError(t *testing.T) {
	tests := []struct {
		err  error
		want model.AcquisitionFailure
	}{
		{nil, model.FailureNone},
		{model.ErrPermissionDenied, model.FailureDenied},
		{context.DeadlineExceeded, model.FailureTimeout},
		{fmt.Errorf("wrap: %w", model.ErrPositionTimeout), model.FailureTimeout},
		{errors.New("Location request timed out"), model.FailureTimeout},
		{errors.New("Location services are disabled"), model.FailureUnavailable},
		{errors.New("something else"), model.FailureOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyLocationError(tt.err), "err=%v", tt.err)
	}
}
