package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"PetAlert-App/internal/domain/model"
	"PetAlert-App/internal/domain/repository"
)

// KafkaWriter テストでモックに差し替えるための書き込みインターフェース
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaAlertPublisher 送信確定したアラートをKafkaトピックに配信する
type KafkaAlertPublisher struct {
	writer KafkaWriter
	topic  string
}

// NewKafkaAlertPublisher ブローカーとトピックからパブリッシャーを作成
func NewKafkaAlertPublisher(broker, topic string) *KafkaAlertPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewKafkaAlertPublisherWithWriter(writer, topic)
}

func NewKafkaAlertPublisherWithWriter(writer KafkaWriter, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{writer: writer, topic: topic}
}

// PublishSubmitted アラートIDをキーにして配信する
func (p *KafkaAlertPublisher) PublishSubmitted(ctx context.Context, submission *model.AlertSubmission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("アラートのJSONマーシャル失敗: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(submission.AlertID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("alert.submitted")},
			{Key: "location_mode", Value: []byte(submission.Mode)},
		},
		Time: submission.SubmittedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("アラートイベントの配信に失敗: %w", err)
	}

	log.Printf("✅ アラートイベントを配信: %s (topic=%s)", submission.AlertID, p.topic)
	return nil
}

func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}

// LogAlertPublisher ブローカー未設定時にログ出力のみ行う
type LogAlertPublisher struct{}

func NewLogAlertPublisher() repository.AlertPublisher {
	return &LogAlertPublisher{}
}

func (p *LogAlertPublisher) PublishSubmitted(ctx context.Context, submission *model.AlertSubmission) error {
	log.Printf("📝 アラート送信 (配信先未設定): %s mode=%s", submission.AlertID, submission.Mode)
	return nil
}
