package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PetAlert-App/internal/domain/model"
)

type mockKafkaWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed = true
	return nil
}

func TestKafkaAlertPublisher_PublishSubmitted(t *testing.T) {
	lat, lng := 40.4168, -3.7038
	submission := &model.AlertSubmission{
		AlertID:     "alert-1",
		DraftID:     "draft-1",
		Type:        model.AlertTypeFound,
		PetName:     "Luna",
		Mode:        model.ModeGPS,
		Location:    "Puerta del Sol, Madrid",
		Latitude:    &lat,
		Longitude:   &lng,
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("アラートIDをキーにして配信", func(t *testing.T) {
		writer := &mockKafkaWriter{}
		publisher := NewKafkaAlertPublisherWithWriter(writer, "alerts.submitted")

		require.NoError(t, publisher.PublishSubmitted(context.Background(), submission))
		require.Len(t, writer.messages, 1)

		msg := writer.messages[0]
		assert.Equal(t, "alert-1", string(msg.Key))
		assert.Equal(t, submission.SubmittedAt, msg.Time)
		assert.Equal(t, []kafka.Header{
			{Key: "event", Value: []byte("alert.submitted")},
			{Key: "location_mode", Value: []byte("gps")},
		}, msg.Headers)

		var decoded model.AlertSubmission
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, "Luna", decoded.PetName)
		require.NotNil(t, decoded.Latitude)
		assert.Equal(t, lat, *decoded.Latitude)

		require.NoError(t, publisher.Close())
		assert.True(t, writer.closed)
	})

	t.Run("書き込み失敗", func(t *testing.T) {
		writer := &mockKafkaWriter{err: errors.New("leader not available")}
		err := NewKafkaAlertPublisherWithWriter(writer, "alerts.submitted").PublishSubmitted(context.Background(), submission)
		assert.ErrorIs(t, err, writer.err)
	})

	t.Run("ログのみの配信先", func(t *testing.T) {
		assert.NoError(t, NewLogAlertPublisher().PublishSubmitted(context.Background(), submission))
	})
}
