package device

import (
	"context"
	"errors"
	"strings"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// LocationReport モバイル端末が送ってくる権限状態と測位結果
type LocationReport struct {
	Permission string   `json:"permission"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Error      string   `json:"error,omitempty"`
}

// ReportedProvider 端末からの報告をそのまま位置情報として扱う
type ReportedProvider struct {
	report LocationReport
}

func NewReportedProvider(report LocationReport) repository.DeviceLocationProvider {
	return &ReportedProvider{report: report}
}

func (p *ReportedProvider) PermissionStatus(ctx context.Context) (model.PermissionStatus, error) {
	return parsePermission(p.report.Permission), nil
}

// RequestPermission 権限要求は端末側で済んでいるため、報告された状態を返す
func (p *ReportedProvider) RequestPermission(ctx context.Context) (model.PermissionStatus, error) {
	return parsePermission(p.report.Permission), nil
}

func (p *ReportedProvider) CurrentPosition(ctx context.Context, accuracy model.Accuracy) (*model.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(p.report.Error)) {
	case "":
	case "timeout":
		return nil, model.ErrPositionTimeout
	case "unavailable":
		return nil, model.ErrPositionUnavailable
	case "denied", "permission_denied":
		return nil, model.ErrPermissionDenied
	default:
		return nil, errors.New(p.report.Error)
	}

	if p.report.Latitude == nil || p.report.Longitude == nil {
		return nil, model.ErrPositionUnavailable
	}
	return &model.Coordinate{Latitude: *p.report.Latitude, Longitude: *p.report.Longitude}, nil
}

func parsePermission(s string) model.PermissionStatus {
	switch model.PermissionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case model.PermissionGranted:
		return model.PermissionGranted
	case model.PermissionDenied:
		return model.PermissionDenied
	default:
		return model.PermissionUndetermined
	}
}
