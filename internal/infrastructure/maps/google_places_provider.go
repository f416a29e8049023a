package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PetAlert-App/internal/domain/model"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// GooglePlacesProvider はGoogle Places / Geocoding APIを使用した場所検索の実装
type GooglePlacesProvider struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// Option はプロバイダの設定を変更する
type Option func(*GooglePlacesProvider)

// WithBaseURL APIのベースURLを変更する（テスト用）
func WithBaseURL(baseURL string) Option {
	return func(g *GooglePlacesProvider) {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLanguage 結果の言語
func WithLanguage(language string) Option {
	return func(g *GooglePlacesProvider) {
		g.language = language
	}
}

// WithHTTPClient HTTPクライアントを差し替える
func WithHTTPClient(client *http.Client) Option {
	return func(g *GooglePlacesProvider) {
		g.httpClient = client
	}
}

// NewGooglePlacesProvider は新しいプロバイダを生成する
// APIキーが空でも生成でき、呼び出し時に model.ErrMissingAPIKey を返す
func NewGooglePlacesProvider(apiKey string, opts ...Option) *GooglePlacesProvider {
	g := &GooglePlacesProvider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		language:   "es",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Autocomplete は入力文字列に一致する場所の候補を取得する
func (g *GooglePlacesProvider) Autocomplete(ctx context.Context, req model.AutocompleteRequest) ([]model.PlaceSuggestion, error) {
	params := url.Values{}
	params.Set("input", req.Input)
	params.Set("language", g.languageFor(req.Language))
	if len(req.Countries) > 0 {
		components := make([]string, 0, len(req.Countries))
		for _, c := range req.Countries {
			components = append(components, "country:"+strings.ToLower(c))
		}
		params.Set("components", strings.Join(components, "|"))
	}
	if req.Bias != nil {
		params.Set("location", fmt.Sprintf("%f,%f", req.Bias.Latitude, req.Bias.Longitude))
		if req.BiasRadiusM > 0 {
			params.Set("radius", fmt.Sprintf("%d", req.BiasRadiusM))
		}
	}
	if req.SessionToken != "" {
		params.Set("sessiontoken", req.SessionToken)
	}

	var apiResp autocompleteResponse
	if err := g.get(ctx, "/place/autocomplete/json", params, &apiResp); err != nil {
		return nil, err
	}
	if err := checkStatus(apiResp.Status, apiResp.ErrorMessage); err != nil {
		return nil, err
	}

	suggestions := make([]model.PlaceSuggestion, 0, len(apiResp.Predictions))
	for _, p := range apiResp.Predictions {
		title := p.StructuredFormatting.MainText
		if title == "" {
			title = p.Description
		}
		suggestions = append(suggestions, model.PlaceSuggestion{
			PlaceID:  p.PlaceID,
			Title:    title,
			Subtitle: p.StructuredFormatting.SecondaryText,
			Types:    p.Types,
		})
	}
	return suggestions, nil
}

// Details は場所IDから座標と住所を取得する
func (g *GooglePlacesProvider) Details(ctx context.Context, placeID, sessionToken string) (*model.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "geometry,formatted_address,name,address_components")
	params.Set("language", g.language)
	if sessionToken != "" {
		params.Set("sessiontoken", sessionToken)
	}

	var apiResp detailsResponse
	if err := g.get(ctx, "/place/details/json", params, &apiResp); err != nil {
		return nil, err
	}
	if err := checkStatus(apiResp.Status, apiResp.ErrorMessage); err != nil {
		return nil, err
	}
	if apiResp.Result == nil {
		return nil, errors.New("APIから場所の詳細が返されませんでした")
	}

	r := apiResp.Result
	details := &model.PlaceDetails{
		PlaceID:          placeID,
		Title:            r.Name,
		FormattedAddress: r.FormattedAddress,
		Coordinate: model.Coordinate{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		},
	}
	for _, c := range r.AddressComponents {
		details.AddressComponents = append(details.AddressComponents, model.AddressComponent{
			LongName:  c.LongName,
			ShortName: c.ShortName,
			Types:     c.Types,
		})
	}
	return details, nil
}

// ReverseGeocode は座標から住所文字列を取得する
func (g *GooglePlacesProvider) ReverseGeocode(ctx context.Context, c model.Coordinate) (string, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", c.Latitude, c.Longitude))
	params.Set("language", g.language)

	var apiResp geocodeResponse
	if err := g.get(ctx, "/geocode/json", params, &apiResp); err != nil {
		return "", err
	}
	if err := checkStatus(apiResp.Status, apiResp.ErrorMessage); err != nil {
		return "", err
	}
	if len(apiResp.Results) == 0 {
		return "", errors.New("APIから住所が返されませんでした")
	}
	return apiResp.Results[0].FormattedAddress, nil
}

func (g *GooglePlacesProvider) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if g.apiKey == "" {
		return model.ErrMissingAPIKey
	}
	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	return nil
}

func (g *GooglePlacesProvider) languageFor(language string) string {
	if language != "" {
		return language
	}
	return g.language
}

// checkStatus Google APIの status フィールドを判定する（ZERO_RESULTS は正常扱い）
func checkStatus(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS", "":
		return nil
	default:
		if message != "" {
			return fmt.Errorf("APIエラー %s: %s", status, message)
		}
		return fmt.Errorf("APIエラー %s", status)
	}
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type autocompleteResponse struct {
	Predictions  []prediction `json:"predictions"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
}
type prediction struct {
	PlaceID              string               `json:"place_id"`
	Description          string               `json:"description"`
	StructuredFormatting structuredFormatting `json:"structured_formatting"`
	Types                []string             `json:"types"`
}
type structuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type detailsResponse struct {
	Result       *placeResult `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
}
type placeResult struct {
	Name              string             `json:"name"`
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          geometry           `json:"geometry"`
	AddressComponents []addressComponent `json:"address_components"`
}
type geometry struct {
	Location latLng `json:"location"`
}
type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}
