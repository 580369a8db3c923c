package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vacq/booking-service/internal/events"
)

// NotificationService turns account events into outbound notifications. Mail
// delivery is stubbed with structured logs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	emailFrom  string
	publicURL  string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, emailFrom, publicURL string) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		emailFrom:  emailFrom,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(ctx, payload.Email, "Welcome to VacQ", event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordResetRequested",
		zap.String("user_id", event.UserID),
		zap.Time("expires_at", payload.ExpiresAt))
	n.sendEmailStub(ctx, payload.Email, "Password reset token", event,
		zap.String("reset_url", n.ResetURL(payload.ResetToken)))
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordChanged", zap.String("user_id", event.UserID), zap.String("via", payload.Via))
	n.sendEmailStub(ctx, payload.Email, "Your password was changed", event)
	return nil
}

// ResetURL is the link mailed to users who asked for a password reset.
func (n *NotificationService) ResetURL(rawToken string) string {
	return n.publicURL + "/api/v1/auth/resetpassword/" + rawToken
}

func (n *NotificationService) sendEmailStub(_ context.Context, to, subject string, event events.Event, extra ...zap.Field) {
	if strings.TrimSpace(n.emailFrom) == "" {
		return
	}
	fields := append([]zap.Field{
		zap.String("from", n.emailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("event_type", string(event.Type)),
	}, extra...)
	n.logger.Debug("sendEmailStub", fields...)
}
