package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// AutocompleteOptions オートコンプリートの動作設定
type AutocompleteOptions struct {
	Debounce    time.Duration
	MinChars    int
	Limit       int
	SuppressFor time.Duration
	Language    string
	Countries   []string
	BiasRadiusM int
}

// DefaultAutocompleteOptions 既定値（300ms・3文字・5件）
func DefaultAutocompleteOptions() AutocompleteOptions {
	return AutocompleteOptions{
		Debounce:    model.DefaultAutocompleteDebounce,
		MinChars:    model.DefaultAutocompleteMinChars,
		Limit:       model.DefaultAutocompleteLimit,
		SuppressFor: model.DefaultSuppressionWindow,
		Language:    "es",
		BiasRadiusM: model.DefaultBiasRadiusMeters,
	}
}

// SearchResult 検索結果
// Superseded は後続の入力に置き換えられたことを示し、クライアントは結果を無視する
type SearchResult struct {
	Query       string                  `json:"query"`
	Suggestions []model.PlaceSuggestion `json:"suggestions"`
	Superseded  bool                    `json:"superseded"`
	Suppressed  bool                    `json:"suppressed"`
}

// AutocompleteCoordinator 1つの入力欄に対するオートコンプリートを調停する
// 入力ごとに連番を振り、最新の入力以外の応答は破棄する
type AutocompleteCoordinator struct {
	provider repository.PlacesProvider
	opts     AutocompleteOptions
	now      func() time.Time

	mu            sync.Mutex
	seq           uint64
	pending       chan struct{}
	suppressUntil time.Time
	lastQuery     string
	suggestions   []model.PlaceSuggestion
	sessionToken  string
}

// NewAutocompleteCoordinator 新しいコーディネーターを作成
func NewAutocompleteCoordinator(provider repository.PlacesProvider, opts AutocompleteOptions) *AutocompleteCoordinator {
	defaults := DefaultAutocompleteOptions()
	if opts.Debounce <= 0 {
		opts.Debounce = defaults.Debounce
	}
	if opts.MinChars <= 0 {
		opts.MinChars = defaults.MinChars
	}
	if opts.Limit <= 0 {
		opts.Limit = defaults.Limit
	}
	if opts.SuppressFor < 0 {
		opts.SuppressFor = 0
	}
	return &AutocompleteCoordinator{
		provider:     provider,
		opts:         opts,
		now:          time.Now,
		sessionToken: uuid.NewString(),
	}
}

// Search 入力の変更を通知する
// デバウンス期間内に次の入力があれば Superseded を返し、APIは呼ばない
func (c *AutocompleteCoordinator) Search(ctx context.Context, query string, bias *model.Coordinate) (SearchResult, error) {
	trimmed := strings.TrimSpace(query)

	c.mu.Lock()
	if c.now().Before(c.suppressUntil) {
		result := SearchResult{Query: query, Suggestions: c.currentLocked(), Suppressed: true}
		c.mu.Unlock()
		return result, nil
	}

	c.lastQuery = query
	c.seq++
	token := c.seq
	c.cancelPendingLocked()

	if utf8.RuneCountInString(trimmed) < c.opts.MinChars {
		c.suggestions = nil
		c.mu.Unlock()
		return SearchResult{Query: query, Suggestions: []model.PlaceSuggestion{}}, nil
	}

	superseded := make(chan struct{})
	c.pending = superseded
	sessionToken := c.sessionToken
	c.mu.Unlock()

	timer := time.NewTimer(c.opts.Debounce)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.mu.Lock()
		if c.pending == superseded {
			c.pending = nil
		}
		c.mu.Unlock()
		return SearchResult{}, ctx.Err()
	case <-superseded:
		return SearchResult{Query: query, Suggestions: []model.PlaceSuggestion{}, Superseded: true}, nil
	case <-timer.C:
	}

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		return SearchResult{Query: query, Suggestions: []model.PlaceSuggestion{}, Superseded: true}, nil
	}
	c.pending = nil
	c.mu.Unlock()

	var validBias *model.Coordinate
	if bias.Valid() {
		validBias = bias
	}
	suggestions, err := c.provider.Autocomplete(ctx, model.AutocompleteRequest{
		Input:        trimmed,
		Bias:         validBias,
		BiasRadiusM:  c.opts.BiasRadiusM,
		Language:     c.opts.Language,
		Countries:    c.opts.Countries,
		SessionToken: sessionToken,
	})
	if err != nil {
		if errors.Is(err, model.ErrMissingAPIKey) {
			return SearchResult{}, err
		}
		log.Printf("⚠️ オートコンプリート検索に失敗: %v", err)
		suggestions = nil
	}
	if len(suggestions) > c.opts.Limit {
		suggestions = suggestions[:c.opts.Limit]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.seq {
		return SearchResult{Query: query, Suggestions: []model.PlaceSuggestion{}, Superseded: true}, nil
	}
	c.suggestions = suggestions
	return SearchResult{Query: query, Suggestions: c.currentLocked()}, nil
}

// SelectSuggestion 候補の選択を確定し、位置情報に変換する
// 詳細取得に失敗した場合は入力中のテキストを ERROR として返す（APIキー未設定のみエラー）
func (c *AutocompleteCoordinator) SelectSuggestion(ctx context.Context, s model.PlaceSuggestion) (model.LocationResult, error) {
	c.mu.Lock()
	c.seq++
	c.cancelPendingLocked()
	c.suggestions = nil
	c.suppressUntil = c.now().Add(c.opts.SuppressFor)
	typed := strings.TrimSpace(c.lastQuery)
	if s.Title != "" {
		c.lastQuery = s.Title
	}
	sessionToken := c.sessionToken
	// 詳細取得でセッションは終了する
	c.sessionToken = uuid.NewString()
	c.mu.Unlock()

	if s.PlaceID == "" {
		text := strings.TrimSpace(s.Title)
		if text == "" {
			text = typed
		}
		if s.Coordinate.Valid() {
			coord := *s.Coordinate
			return model.LocationResult{Location: text, Coordinate: &coord, Source: model.SourceAuto}, nil
		}
		return model.LocationResult{Location: text, Source: model.SourceManual}, nil
	}

	details, err := c.provider.Details(ctx, s.PlaceID, sessionToken)
	if err != nil {
		if errors.Is(err, model.ErrMissingAPIKey) {
			return model.LocationResult{}, err
		}
		log.Printf("⚠️ 場所の詳細取得に失敗 (place_id=%s): %v", s.PlaceID, err)
		return model.LocationResult{Location: typed, Source: model.SourceError}, nil
	}
	if !details.Coordinate.Valid() {
		log.Printf("⚠️ 場所の詳細に有効な座標がありません (place_id=%s)", s.PlaceID)
		return model.LocationResult{Location: typed, Source: model.SourceError}, nil
	}

	text := details.FormattedAddress
	if text == "" {
		text = details.Title
	}
	if text == "" {
		text = s.Title
	}
	coord := details.Coordinate
	result := model.LocationResult{Location: text, Coordinate: &coord, Source: model.SourceAuto}
	if pc, ok := details.Component("postal_code"); ok {
		result.PostalCode = pc.LongName
	}
	if country, ok := details.Component("country"); ok {
		result.CountryCode = country.ShortName
	}
	return result, nil
}

// Suggestions 現在表示中の候補
func (c *AutocompleteCoordinator) Suggestions() []model.PlaceSuggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

// Reset 入力欄のクリア。待機中・通信中の検索結果は破棄される
func (c *AutocompleteCoordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.cancelPendingLocked()
	c.suggestions = nil
	c.lastQuery = ""
	c.suppressUntil = time.Time{}
}

func (c *AutocompleteCoordinator) cancelPendingLocked() {
	if c.pending != nil {
		close(c.pending)
		c.pending = nil
	}
}

func (c *AutocompleteCoordinator) currentLocked() []model.PlaceSuggestion {
	out := make([]model.PlaceSuggestion, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}
