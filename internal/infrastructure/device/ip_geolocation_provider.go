package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

const (
	defaultGeolocationURL = "https://ipapi.co"
	defaultMaxRetries     = 2
	defaultRetryDelay     = 500 * time.Millisecond
)

// IPGeolocationProvider IPアドレスからおおよその位置を推定する
// 端末の権限を必要としないため、権限は常に許可として扱う
type IPGeolocationProvider struct {
	baseURL    string
	clientIP   string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// IPOption はプロバイダの設定を変更する
type IPOption func(*IPGeolocationProvider)

func WithBaseURL(baseURL string) IPOption {
	return func(p *IPGeolocationProvider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithMaxRetries(maxRetries int) IPOption {
	return func(p *IPGeolocationProvider) {
		p.maxRetries = maxRetries
	}
}

func WithRetryDelay(delay time.Duration) IPOption {
	return func(p *IPGeolocationProvider) {
		p.retryDelay = delay
	}
}

// NewIPGeolocationProvider clientIP が空ならサーバー自身のIPで推定される
func NewIPGeolocationProvider(clientIP string, opts ...IPOption) repository.DeviceLocationProvider {
	p := &IPGeolocationProvider{
		baseURL:    defaultGeolocationURL,
		clientIP:   clientIP,
		httpClient: &http.Client{},
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type ipLocationResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Country   string   `json:"country_name"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

func (p *IPGeolocationProvider) PermissionStatus(ctx context.Context) (model.PermissionStatus, error) {
	return model.PermissionGranted, nil
}

func (p *IPGeolocationProvider) RequestPermission(ctx context.Context) (model.PermissionStatus, error) {
	return model.PermissionGranted, nil
}

// CurrentPosition 5xx・通信エラーは指数バックオフで再試行する
func (p *IPGeolocationProvider) CurrentPosition(ctx context.Context, accuracy model.Accuracy) (*model.Coordinate, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		coord, retriable, err := p.fetch(ctx)
		if err == nil {
			return coord, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !retriable {
			break
		}
		log.Printf("⚠️ IP位置推定を再試行 (%d/%d): %v", attempt+1, p.maxRetries+1, err)
	}
	return nil, lastErr
}

func (p *IPGeolocationProvider) fetch(ctx context.Context) (*model.Coordinate, bool, error) {
	path := "/json/"
	if p.clientIP != "" {
		path = fmt.Sprintf("/%s/json/", p.clientIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, false, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		return nil, true, fmt.Errorf("%w: %v", model.ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retriable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retriable, fmt.Errorf("%w: status %d", model.ErrPositionUnavailable, resp.StatusCode)
	}

	var body ipLocationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if body.Error || body.Latitude == nil || body.Longitude == nil {
		return nil, false, fmt.Errorf("%w: %s", model.ErrPositionUnavailable, body.Reason)
	}

	return &model.Coordinate{Latitude: *body.Latitude, Longitude: *body.Longitude}, false, nil
}
