package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"PetAlert-App/internal/config"
	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
	"PetAlert-App/internal/domain/service"
	"PetAlert-App/internal/handler"
	"PetAlert-App/internal/infrastructure/alerts"
	"PetAlert-App/internal/infrastructure/database"
	"PetAlert-App/internal/infrastructure/firestore"
	"PetAlert-App/internal/infrastructure/maps"
	"PetAlert-App/internal/infrastructure/messaging"
	"PetAlert-App/internal/infrastructure/storage"
	repoImpl "PetAlert-App/internal/repository"
	"PetAlert-App/internal/usecase"
)

func main() {
	cfg := config.Load()
	for _, w := range cfg.Warnings() {
		log.Printf("⚠️ %s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 場所検索・逆ジオコーディング
	places := maps.NewGooglePlacesProvider(cfg.GoogleMapsAPIKey, maps.WithLanguage(cfg.PlacesLanguage))
	geocoder := service.NewReverseGeocoder(places, service.NewGeocodeCache(cfg.GeocodeCacheSize, cfg.GeocodeCacheTTL))

	opts := service.DefaultAutocompleteOptions()
	opts.Limit = cfg.AutocompleteLimit
	opts.Debounce = cfg.AutocompleteDebounce
	opts.Language = cfg.PlacesLanguage
	opts.Countries = cfg.PlacesCountries
	sessions := service.NewAutocompleteSessions(places, opts, 10000, 15*time.Minute)

	// 周辺アラート
	alertsRepo, closeAlerts, err := newAlertsRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ アラートリポジトリ初期化失敗: %v", err)
	}
	defer closeAlerts()

	// 下書き
	draftRepo, closeDrafts, err := newDraftRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ 下書きリポジトリ初期化失敗: %v", err)
	}
	defer closeDrafts()

	// 送信イベント
	var publisher repository.AlertPublisher = messaging.NewLogAlertPublisher()
	if cfg.KafkaBroker != "" {
		kafkaPublisher := messaging.NewKafkaAlertPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("✅ Kafka publisher: %s (topic=%s)", cfg.KafkaBroker, cfg.KafkaTopic)
	}

	// 写真アップロード
	var photos repository.PhotoStorage
	if cfg.MinioEnabled() {
		minioStorage, err := storage.NewMinioPhotoStorage(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
		})
		if err != nil {
			log.Fatalf("❌ MinIO初期化失敗: %v", err)
		}
		if err := minioStorage.EnsureBucket(ctx, cfg.MinioRegion); err != nil {
			log.Printf("⚠️ バケットの確認に失敗: %v", err)
		}
		photos = minioStorage
	}

	providers := handler.NewDeviceProviderFactory(cfg.IPGeolocationURL)

	locationUseCase := usecase.NewLocationUseCase(geocoder, model.DefaultLocationTimeout)
	nearbyUseCase := usecase.NewNearbyAlertsUseCase(service.NewProximityService(alertsRepo), service.NewParallelAddressEnricher(geocoder))
	formUseCase := usecase.NewAlertFormUseCase(draftRepo, geocoder, publisher, photos, storage.PhotoObjectKey, model.DefaultLocationTimeout)

	router := handler.NewRouter(handler.Handlers{
		Location:  handler.NewLocationHandler(locationUseCase, providers),
		Places:    handler.NewPlacesHandler(sessions),
		Alerts:    handler.NewAlertsHandler(nearbyUseCase),
		AlertForm: handler.NewAlertFormHandler(formUseCase, sessions, providers),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 PetAlert-App server starting on :%s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ サーバー起動失敗: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 シャットダウン中...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ シャットダウンに失敗: %v", err)
	}
}

func newAlertsRepository(ctx context.Context, cfg *config.Config) (repository.AlertsRepository, func(), error) {
	switch cfg.AlertsBackend {
	case config.BackendPostgres:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			var err error
			dsn, err = database.SupabaseDSN(cfg.SupabaseURL, cfg.SupabaseDBPassword)
			if err != nil {
				return nil, nil, err
			}
		}
		client, err := database.NewPostgreSQLClientWithRetry(ctx, dsn, 5, 2*time.Second)
		if err != nil {
			return nil, nil, err
		}
		log.Println("✅ PostgreSQL connection successful!")
		return repoImpl.NewPostgresAlertsRepository(client), func() { client.Close() }, nil

	case config.BackendSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, nil, err
		}
		if err := client.HealthCheck(); err != nil {
			return nil, nil, err
		}
		log.Println("✅ Supabase connection successful!")
		return repoImpl.NewSupabaseAlertsRepository(client), func() {}, nil

	case config.BackendHTTP:
		return alerts.NewHTTPAlertsClient(cfg.AlertsAPIBaseURL), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("不明な ALERTS_BACKEND です: %s", cfg.AlertsBackend)
	}
}

func newDraftRepository(ctx context.Context, cfg *config.Config) (repository.DraftRepository, func(), error) {
	if cfg.FirestoreProjectID == "" {
		return repoImpl.NewMemoryDraftRepository(time.Duration(cfg.DraftTTLHours) * time.Hour), func() {}, nil
	}

	client, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleCredentialFile)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("⚠️ Firestoreクライアントのクローズに失敗: %v", err)
		}
	}
	return repoImpl.NewFirestoreDraftRepository(client.GetClient(), cfg.DraftTTLHours), closeFn, nil
}
