package worker

import (
	"go.uber.org/zap"

	"github.com/vacq/booking-service/internal/config"
	"github.com/vacq/booking-service/internal/events"
	"github.com/vacq/booking-service/internal/service"
)

// StartNotificationWorker subscribes account notifications to dispatcher.
// Delivery runs synchronously on the publishing request.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger, cfg *config.Config) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification.EmailFrom, cfg.App.PublicURL)
	notifications.RegisterHandlers()
	logger.Info("notification worker started", zap.String("from", cfg.Notification.EmailFrom))
	return notifications
}
