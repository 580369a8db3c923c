package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vacq/booking-service/internal/events"
)

func TestNotificationServiceResetURL(t *testing.T) {
	n := NewNotificationService(nil, nil, "noreply@vacq.test", "https://vacq.test/")
	assert.Equal(t, "https://vacq.test/api/v1/auth/resetpassword/abc", n.ResetURL("abc"))
}

func TestNotificationServiceNeverLogsTokenAtInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, zap.New(core), "noreply@vacq.test", "https://vacq.test").RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:     "e1",
		Type:   events.EventPasswordResetRequested,
		UserID: "u1",
		Payload: events.PasswordResetRequestedPayload{
			Email:      "ann@vacq.test",
			ResetToken: "raw-token",
			ExpiresAt:  time.Now().Add(10 * time.Minute),
		},
	})
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("PasswordResetRequested").Len())
	for _, entry := range logs.FilterLevelExact(zapcore.InfoLevel).All() {
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, "raw-token")
		}
	}

	stub := logs.FilterMessage("sendEmailStub").All()
	require.Len(t, stub, 1)
	assert.Equal(t, zapcore.DebugLevel, stub[0].Level)
	assert.Equal(t, "https://vacq.test/api/v1/auth/resetpassword/raw-token", stub[0].ContextMap()["reset_url"])
}
