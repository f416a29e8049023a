package usecase

import (
	"context"
	"log"
	"time"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
	"PetAlert-App/internal/domain/service"
)

// CurrentLocationResponse 現在地取得の結果
type CurrentLocationResponse struct {
	Location *model.LocationResult `json:"location"`
	Failure  string               `json:"failure,omitempty"`
	Message  string               `json:"message,omitempty"`
}

type LocationUseCase interface {
	// GetCurrentLocation は現在地を取得して住所を解決する。失敗時も正常応答とする
	GetCurrentLocation(ctx context.Context, provider repository.DeviceLocationProvider) (*CurrentLocationResponse, error)
	// ReverseGeocode は座標から住所を解決する
	ReverseGeocode(ctx context.Context, c model.Coordinate) (*model.LocationResult, error)
}

type locationUseCaseImpl struct {
	geocoder        *service.ReverseGeocoder
	locationTimeout time.Duration
}

func NewLocationUseCase(geocoder *service.ReverseGeocoder, locationTimeout time.Duration) LocationUseCase {
	return &locationUseCaseImpl{
		geocoder:        geocoder,
		locationTimeout: locationTimeout,
	}
}

func (u *locationUseCaseImpl) GetCurrentLocation(ctx context.Context, provider repository.DeviceLocationProvider) (*CurrentLocationResponse, error) {
	acq := service.NewLocationAcquirer(provider, u.locationTimeout).GetCurrentLocation(ctx)
	if !acq.OK() {
		return &CurrentLocationResponse{Failure: string(acq.Failure), Message: acq.Message}, nil
	}

	result, err := u.ReverseGeocode(ctx, *acq.Coordinate)
	if err != nil {
		return nil, err
	}
	return &CurrentLocationResponse{Location: result}, nil
}

func (u *locationUseCaseImpl) ReverseGeocode(ctx context.Context, c model.Coordinate) (*model.LocationResult, error) {
	address, err := u.geocoder.ResolveAddress(ctx, c.Latitude, c.Longitude)
	if err != nil {
		log.Printf("❌ 逆ジオコーディング設定エラー: %v", err)
		return nil, err
	}
	coord := c
	return &model.LocationResult{Location: address, Coordinate: &coord, Source: model.SourceGPS}, nil
}
