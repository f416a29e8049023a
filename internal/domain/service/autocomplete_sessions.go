package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"PetAlert-App/internal/domain/repository"
)

// AutocompleteSessions 入力セッションごとのコーディネーターを保持する
// 一定時間アクセスのないセッションは破棄される
type AutocompleteSessions struct {
	provider repository.PlacesProvider
	opts     AutocompleteOptions

	mu       sync.Mutex
	sessions *expirable.LRU[string, *AutocompleteCoordinator]
}

func NewAutocompleteSessions(provider repository.PlacesProvider, opts AutocompleteOptions, maxSessions int, idleTTL time.Duration) *AutocompleteSessions {
	return &AutocompleteSessions{
		provider: provider,
		opts:     opts,
		sessions: expirable.NewLRU[string, *AutocompleteCoordinator](maxSessions, nil, idleTTL),
	}
}

// Create 新しいセッションを作成してIDを返す
func (s *AutocompleteSessions) Create() (string, *AutocompleteCoordinator) {
	id := uuid.NewString()
	return id, s.Get(id)
}

// Get セッションを取得する。存在しなければ作成する
func (s *AutocompleteSessions) Get(id string) *AutocompleteCoordinator {
	s.mu.Lock()
	defer s.mu.Unlock()

	coordinator, ok := s.sessions.Get(id)
	if !ok {
		coordinator = NewAutocompleteCoordinator(s.provider, s.opts)
	}
	// アクセスのたびに期限を延長する
	s.sessions.Add(id, coordinator)
	return coordinator
}

// Len 保持中のセッション数
func (s *AutocompleteSessions) Len() int {
	return s.sessions.Len()
}
