package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// ReverseGeocoder 座標から住所文字列を解決する
type ReverseGeocoder struct {
	provider repository.PlacesProvider
	cache    *GeocodeCache
}

// NewReverseGeocoder キャッシュは呼び出し側が所有する
func NewReverseGeocoder(provider repository.PlacesProvider, cache *GeocodeCache) *ReverseGeocoder {
	if cache == nil {
		cache = NewGeocodeCache(0, 0)
	}
	return &ReverseGeocoder{provider: provider, cache: cache}
}

// Lookup キャッシュまたはAPIから住所を取得する。失敗時はエラーを返しキャッシュしない
func (r *ReverseGeocoder) Lookup(ctx context.Context, c model.Coordinate) (*model.LocationResult, error) {
	coord := c
	if addr, ok := r.cache.Get(c.Latitude, c.Longitude); ok {
		return &model.LocationResult{Location: addr, Coordinate: &coord, Source: model.SourceGPS}, nil
	}

	addr, err := r.provider.ReverseGeocode(ctx, c)
	if err != nil {
		if errors.Is(err, model.ErrMissingAPIKey) {
			return nil, Halt(err)
		}
		return nil, fmt.Errorf("逆ジオコーディングに失敗: %w", err)
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("逆ジオコーディングの結果が空です")
	}

	r.cache.Put(c.Latitude, c.Longitude, addr)
	return &model.LocationResult{Location: addr, Coordinate: &coord, Source: model.SourceGPS}, nil
}

// ResolveAddress 住所を解決する。失敗しても "lat, lng" 形式の文字列を返す
// APIキー未設定の場合のみエラーを返す
func (r *ReverseGeocoder) ResolveAddress(ctx context.Context, lat, lng float64) (string, error) {
	c := model.Coordinate{Latitude: lat, Longitude: lng}
	result, err := FirstSuccess(ctx,
		func(ctx context.Context) (*model.LocationResult, error) { return r.Lookup(ctx, c) },
		func(ctx context.Context) (*model.LocationResult, error) {
			log.Printf("⚠️ 住所を取得できないため座標を表示します: %s", c.String())
			return RawCoordinateResolver(c, model.SourceGPS)(ctx)
		},
	)
	if err != nil {
		if errors.Is(err, model.ErrMissingAPIKey) {
			return "", err
		}
		return c.String(), nil
	}
	return result.Location, nil
}
