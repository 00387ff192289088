package worker

import (
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/service"
)

// StartNotificationWorker registers notification handlers and, when Redis
// is configured, the pub/sub fan-out.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, publisher *events.RedisPublisher) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	publisher.SubscribeAll(dispatcher)
}
