package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vacq/booking-service/internal/config"
	"github.com/vacq/booking-service/internal/events"
)

func TestStartNotificationWorkerSubscribes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	cfg := &config.Config{
		App:          config.AppConfig{PublicURL: "http://localhost:5000"},
		Notification: config.NotificationConfig{EmailFrom: "noreply@vacq.test"},
	}

	require.NotNil(t, StartNotificationWorker(dispatcher, zap.New(core), cfg))

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventUserRegistered,
		UserID:    "u1",
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Email: "ann@vacq.test", Name: "Ann", Role: "user"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("sendEmailStub").Len())
}

func TestStartNotificationWorkerWithoutDispatcher(t *testing.T) {
	assert.Nil(t, StartNotificationWorker(nil, zap.NewNop(), &config.Config{}))
}
