package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/premarket-digest/internal/models"
	"github.com/DeafMist/premarket-digest/internal/notify"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublishesEnvelope(t *testing.T) {
	w := new(MockWriter)
	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)
	w.On("Close").Return(nil)

	k := notify.NewKafkaWithWriter(w, "digests")
	require.Equal(t, "kafka:digests", k.Name())
	require.NoError(t, k.Notify(context.Background(), models.Digest{Title: "t", Body: "b"}))
	require.NoError(t, k.Close())

	require.Len(t, sent, 1)
	var env models.Envelope
	require.NoError(t, json.Unmarshal(sent[0].Value, &env))
	require.Equal(t, "t", env.Title)
	require.Equal(t, "b", env.Body)
	require.NotEmpty(t, env.ID)
	require.Equal(t, env.ID, string(sent[0].Key))
	require.False(t, env.GeneratedAt.IsZero())

	w.AssertExpectations(t)
}

func TestKafkaWriteError(t *testing.T) {
	w := new(MockWriter)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	err := notify.NewKafkaWithWriter(w, "digests").Notify(context.Background(), models.Digest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "leader not available")
}
