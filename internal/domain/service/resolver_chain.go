package service

import (
	"context"
	"errors"
	"fmt"

	"PetAlert-App/internal/domain/model"
)

// LocationResolver 位置解決の1手段
type LocationResolver func(ctx context.Context) (*model.LocationResult, error)

type haltError struct {
	err error
}

func (e *haltError) Error() string { return e.err.Error() }
func (e *haltError) Unwrap() error { return e.err }

// Halt 後続の手段を試さずに解決を打ち切る（設定ミスなど）
func Halt(err error) error {
	return &haltError{err: err}
}

// FirstSuccess 手段を順に試し、最初に成功した結果を返す
func FirstSuccess(ctx context.Context, resolvers ...LocationResolver) (*model.LocationResult, error) {
	var lastErr error
	for _, resolve := range resolvers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := resolve(ctx)
		if err == nil && result != nil {
			return result, nil
		}
		var halt *haltError
		if errors.As(err, &halt) {
			return nil, halt.err
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("解決手段がありません")
	}
	return nil, fmt.Errorf("全ての位置解決に失敗: %w", lastErr)
}

// RawCoordinateResolver 座標をそのまま "lat, lng" 文字列にする（必ず成功する）
func RawCoordinateResolver(c model.Coordinate, source model.LocationSource) LocationResolver {
	return func(ctx context.Context) (*model.LocationResult, error) {
		coord := c
		return &model.LocationResult{Location: c.String(), Coordinate: &coord, Source: source}, nil
	}
}
