package service

import (
	"context"
	"sync"

	"PetAlert-App/internal/domain/model"
)

// fakePlacesProvider テスト用の PlacesProvider
type fakePlacesProvider struct {
	mu sync.Mutex

	autocompleteFn func(ctx context.Context, req model.AutocompleteRequest) ([]model.PlaceSuggestion, error)
	detailsFn      func(ctx context.Context, placeID, sessionToken string) (*model.PlaceDetails, error)
	reverseFn      func(ctx context.Context, c model.Coordinate) (string, error)

	autocompleteInputs []string
	detailsCalls       int
	reverseCalls       int
}

func (f *fakePlacesProvider) Autocomplete(ctx context.Context, req model.AutocompleteRequest) ([]model.PlaceSuggestion, error) {
	f.mu.Lock()
	f.autocompleteInputs = append(f.autocompleteInputs, req.Input)
	fn := f.autocompleteFn
	f.mu.Unlock()
	if fn == nil {
		return []model.PlaceSuggestion{{PlaceID: "p-" + req.Input, Title: req.Input}}, nil
	}
	return fn(ctx, req)
}

func (f *fakePlacesProvider) Details(ctx context.Context, placeID, sessionToken string) (*model.PlaceDetails, error) {
	f.mu.Lock()
	f.detailsCalls++
	fn := f.detailsFn
	f.mu.Unlock()
	if fn == nil {
		return &model.PlaceDetails{PlaceID: placeID}, nil
	}
	return fn(ctx, placeID, sessionToken)
}

func (f *fakePlacesProvider) ReverseGeocode(ctx context.Context, c model.Coordinate) (string, error) {
	f.mu.Lock()
	f.reverseCalls++
	fn := f.reverseFn
	f.mu.Unlock()
	if fn == nil {
		return "Calle Mayor 1, Madrid", nil
	}
	return fn(ctx, c)
}

func (f *fakePlacesProvider) inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.autocompleteInputs))
	copy(out, f.autocompleteInputs)
	return out
}

func (f *fakePlacesProvider) reverseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reverseCalls
}

// fakeDeviceProvider テスト用の DeviceLocationProvider
type fakeDeviceProvider struct {
	status     model.PermissionStatus
	requested  model.PermissionStatus
	requestErr error
	positionFn func(ctx context.Context) (*model.Coordinate, error)

	requestCalls int
}

func (f *fakeDeviceProvider) PermissionStatus(ctx context.Context) (model.PermissionStatus, error) {
	return f.status, nil
}

func (f *fakeDeviceProvider) RequestPermission(ctx context.Context) (model.PermissionStatus, error) {
	f.requestCalls++
	return f.requested, f.requestErr
}

func (f *fakeDeviceProvider) CurrentPosition(ctx context.Context, accuracy model.Accuracy) (*model.Coordinate, error) {
	return f.positionFn(ctx)
}

// fakeAlertsRepository テスト用の AlertsRepository
type fakeAlertsRepository struct {
	alerts []model.Alert
	err    error
	last   model.NearbyQuery
}

func (f *fakeAlertsRepository) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.Alert, error) {
	f.last = q
	return f.alerts, f.err
}

func fp(v float64) *float64 { return &v }
