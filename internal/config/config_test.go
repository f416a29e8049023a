package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GOOGLE_MAPS_API_KEY", "PLACES_COUNTRIES", "AUTOCOMPLETE_DEBOUNCE_MS",
		"ALERTS_BACKEND", "ALERTS_API_BASE_URL", "FIRESTORE_PROJECT_ID", "KAFKA_BROKER",
		"JWT_SECRET", "MINIO_ENDPOINT", "GEOCODE_CACHE_TTL_MINUTES", "AUTOCOMPLETE_LIMIT",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "es", cfg.PlacesLanguage)
	assert.Nil(t, cfg.PlacesCountries)
	assert.Equal(t, 300*time.Millisecond, cfg.AutocompleteDebounce)
	assert.Equal(t, 5, cfg.AutocompleteLimit)
	assert.Equal(t, BackendHTTP, cfg.AlertsBackend)
	assert.Equal(t, time.Duration(0), cfg.GeocodeCacheTTL)
	assert.False(t, cfg.MinioEnabled())
	assert.Len(t, cfg.Warnings(), 5)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GOOGLE_MAPS_API_KEY", "key")
	t.Setenv("PLACES_COUNTRIES", "es, ar,,mx ")
	t.Setenv("AUTOCOMPLETE_DEBOUNCE_MS", "150")
	t.Setenv("GEOCODE_CACHE_TTL_MINUTES", "30")
	t.Setenv("ALERTS_BACKEND", "Postgres")
	t.Setenv("DRAFT_TTL_HOURS", "not-a-number")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MINIO_SECRET_KEY", "minio123")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"es", "ar", "mx"}, cfg.PlacesCountries)
	assert.Equal(t, 150*time.Millisecond, cfg.AutocompleteDebounce)
	assert.Equal(t, 30*time.Minute, cfg.GeocodeCacheTTL)
	assert.Equal(t, BackendPostgres, cfg.AlertsBackend)
	assert.Equal(t, 24, cfg.DraftTTLHours, "数値でなければ既定値")
	assert.True(t, cfg.MinioUseSSL)
	assert.True(t, cfg.MinioEnabled())
	assert.NotContains(t, cfg.Warnings(), "GOOGLE_MAPS_API_KEY が未設定です（場所検索・逆ジオコーディングはエラーになります）")
}
