package storage

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig S3互換ストレージの接続設定
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// MinioPhotoStorage アラート写真のアップロード先
type MinioPhotoStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioPhotoStorage リージョンを指定すると署名付きURLの発行に通信が不要になる
func NewMinioPhotoStorage(cfg MinioConfig) (*MinioPhotoStorage, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET のいずれかが設定されていません")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("MinIOクライアントの初期化に失敗: %w", err)
	}

	log.Printf("✅ MinIO endpoint: %s (bucket=%s)", cfg.Endpoint, cfg.Bucket)
	return &MinioPhotoStorage{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket バケットがなければ作成する
func (s *MinioPhotoStorage) EnsureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("バケットの確認に失敗: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("バケットの作成に失敗: %w", err)
	}
	return nil
}

// PresignUpload PUT用の署名付きURLを発行する
func (s *MinioPhotoStorage) PresignUpload(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, expiry)
	if err != nil {
		return "", fmt.Errorf("署名付きURLの発行に失敗: %w", err)
	}
	return u.String(), nil
}

// PhotoObjectKey 下書きごとの写真オブジェクトキー（例: drafts/<id>/<uuid>.jpg）
func PhotoObjectKey(draftID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".heic", ".webp":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("drafts/%s/%s%s", draftID, uuid.NewString(), ext)
}
