package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/infrastructure/device"
)

type fakePlacesProvider struct {
	reverseFn func(ctx context.Context, c model.Coordinate) (string, error)
	details   *model.PlaceDetails
}

func (f *fakePlacesProvider) Autocomplete(ctx context.Context, req model.AutocompleteRequest) ([]model.PlaceSuggestion, error) {
	return []model.PlaceSuggestion{{PlaceID: "p-" + req.Input, Title: req.Input}}, nil
}

func (f *fakePlacesProvider) Details(ctx context.Context, placeID, sessionToken string) (*model.PlaceDetails, error) {
	if f.details == nil {
		return nil, errors.New("NOT_FOUND")
	}
	return f.details, nil
}

func (f *fakePlacesProvider) ReverseGeocode(ctx context.Context, c model.Coordinate) (string, error) {
	if f.reverseFn == nil {
		return "Calle Mayor 1, Madrid", nil
	}
	return f.reverseFn(ctx, c)
}

type recordingPublisher struct {
	mu          sync.Mutex
	submissions []*model.AlertSubmission
	err         error
}

func (p *recordingPublisher) PublishSubmitted(ctx context.Context, s *model.AlertSubmission) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.submissions = append(p.submissions, s)
	return nil
}

type fakePhotoStorage struct {
	err error
}

func (f *fakePhotoStorage) PresignUpload(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example.com/" + objectKey + "?sig=1", nil
}

func fp(v float64) *float64 { return &v }

func grantedAt(lat, lng float64) device.LocationReport {
	return device.LocationReport{Permission: "granted", Latitude: fp(lat), Longitude: fp(lng)}
}

func denied() device.LocationReport {
	return device.LocationReport{Permission: "denied"}
}
