package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AlertsBackend 周辺アラートの取得元
type AlertsBackend string

const (
	BackendHTTP     AlertsBackend = "http"
	BackendPostgres AlertsBackend = "postgres"
	BackendSupabase AlertsBackend = "supabase"
)

// Config アプリケーション設定
type Config struct {
	Port string

	GoogleMapsAPIKey string
	PlacesLanguage   string
	PlacesCountries  []string

	AutocompleteLimit    int
	AutocompleteDebounce time.Duration
	GeocodeCacheSize     int
	GeocodeCacheTTL      time.Duration

	AlertsBackend    AlertsBackend
	AlertsAPIBaseURL string
	DatabaseURL      string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseDBPassword string

	FirestoreProjectID   string
	GoogleCredentialFile string
	DraftTTLHours        int

	KafkaBroker string
	KafkaTopic  string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	MinioRegion    string

	JWTSecret        string
	IPGeolocationURL string
}

// Load .env を読み込んだ上で環境変数から設定を作成する
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv 環境変数のみから設定を作成する
func FromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		PlacesLanguage:   getEnv("PLACES_LANGUAGE", "es"),
		PlacesCountries:  getList("PLACES_COUNTRIES"),

		AutocompleteLimit:    getInt("AUTOCOMPLETE_LIMIT", 5),
		AutocompleteDebounce: time.Duration(getInt("AUTOCOMPLETE_DEBOUNCE_MS", 300)) * time.Millisecond,
		GeocodeCacheSize:     getInt("GEOCODE_CACHE_SIZE", 1000),
		GeocodeCacheTTL:      time.Duration(getInt("GEOCODE_CACHE_TTL_MINUTES", 0)) * time.Minute,

		AlertsBackend:    AlertsBackend(strings.ToLower(getEnv("ALERTS_BACKEND", string(BackendHTTP)))),
		AlertsAPIBaseURL: os.Getenv("ALERTS_API_BASE_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseDBPassword: os.Getenv("SUPABASE_DB_PASSWORD"),

		FirestoreProjectID:   os.Getenv("FIRESTORE_PROJECT_ID"),
		GoogleCredentialFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DraftTTLHours:        getInt("DRAFT_TTL_HOURS", 24),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "alerts.submitted"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),
		MinioBucket:    getEnv("MINIO_BUCKET", "alert-photos"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		IPGeolocationURL: os.Getenv("IP_GEOLOCATION_URL"),
	}
}

// Warnings 起動時に知らせるべき設定の不足
func (c *Config) Warnings() []string {
	var warnings []string
	if c.GoogleMapsAPIKey == "" {
		warnings = append(warnings, "GOOGLE_MAPS_API_KEY が未設定です（場所検索・逆ジオコーディングはエラーになります）")
	}
	if c.AlertsBackend == BackendHTTP && c.AlertsAPIBaseURL == "" {
		warnings = append(warnings, "ALERTS_API_BASE_URL が未設定です")
	}
	if c.FirestoreProjectID == "" {
		warnings = append(warnings, "FIRESTORE_PROJECT_ID が未設定のため下書きはメモリに保存されます")
	}
	if c.KafkaBroker == "" {
		warnings = append(warnings, "KAFKA_BROKER が未設定のため送信イベントはログ出力のみです")
	}
	if c.JWTSecret == "" {
		warnings = append(warnings, "JWT_SECRET が未設定のため認証は無効です")
	}
	return warnings
}

// MinioEnabled 写真アップロードが設定されているか
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s の値が数値ではありません (%q)、既定値 %d を使用します", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
