package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	defaultRetryDelay = 500 * time.Millisecond
)

// HTTPAlertsClient はアラートバックエンドのREST APIクライアント
type HTTPAlertsClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// ClientOption はクライアントの設定を変更する
type ClientOption func(*HTTPAlertsClient)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPAlertsClient) {
		c.httpClient = client
	}
}

func WithMaxRetries(maxRetries int) ClientOption {
	return func(c *HTTPAlertsClient) {
		c.maxRetries = maxRetries
	}
}

func WithRetryDelay(delay time.Duration) ClientOption {
	return func(c *HTTPAlertsClient) {
		c.retryDelay = delay
	}
}

// NewHTTPAlertsClient 新しいクライアントを作成
func NewHTTPAlertsClient(baseURL string, opts ...ClientOption) repository.AlertsRepository {
	c := &HTTPAlertsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError はバックエンドが返したエラー
type APIError struct {
	StatusCode int
	Retriable  bool
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("アラートAPIエラー (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("アラートAPIエラー: %v", e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func isRetriableStatusCode(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusRequestTimeout ||
		statusCode >= 500
}

// FindNearby GET /alerts/nearby を呼び出す
// 404 は model.ErrNearbyNotImplemented として返す
func (c *HTTPAlertsClient) FindNearby(ctx context.Context, q model.NearbyQuery) ([]model.Alert, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(q.Center.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(q.Center.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.FormatFloat(q.RadiusKm, 'f', -1, 64))
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	reqURL := fmt.Sprintf("%s/alerts/nearby?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Printf("⚠️ 周辺アラート検索を再試行 (%d/%d) %v後", attempt+1, c.maxRetries+1, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		alerts, err := c.doFindNearby(ctx, reqURL)
		if err == nil {
			return alerts, nil
		}
		if errors.Is(err, model.ErrNearbyNotImplemented) {
			return nil, err
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retriable {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *HTTPAlertsClient) doFindNearby(ctx context.Context, reqURL string) ([]model.Alert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if auth, ok := model.AuthFrom(ctx); ok && auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, model.ErrNearbyNotImplemented
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み込みに失敗: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Retriable:  isRetriableStatusCode(resp.StatusCode),
			Err:        fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	return decodeAlerts(body)
}

// decodeAlerts 配列、または {"alerts": [...]} / {"data": [...]} のいずれかを受け付ける
func decodeAlerts(body []byte) ([]model.Alert, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []model.Alert{}, nil
	}

	var alerts []model.Alert
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &alerts); err != nil {
			return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
		}
		return alerts, nil
	}

	var envelope struct {
		Alerts []model.Alert `json:"alerts"`
		Data   []model.Alert `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if envelope.Alerts != nil {
		return envelope.Alerts, nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return []model.Alert{}, nil
}
