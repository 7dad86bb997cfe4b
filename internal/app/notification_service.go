package app

import (
	"context"
	"log/slog"

	"talkpad/internal/bus"
	"talkpad/internal/config"
	"talkpad/internal/notifications"
)

// NotificationService forwards user notices from the bus to the desktop
// notification backend. Per-kind one-time deduplication already happened at
// the publisher; this service only applies the user's enable toggle.
type NotificationService struct {
	bus           bus.MessageBus
	currentConfig func() config.AppConfig
	sender        notifications.Sender
	logger        *slog.Logger
}

func NewNotificationService(
	messageBus bus.MessageBus,
	currentConfig func() config.AppConfig,
	sender notifications.Sender,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default().With("component", "app.notifications")
	}

	return &NotificationService{
		bus:           messageBus,
		currentConfig: currentConfig,
		sender:        sender,
		logger:        logger,
	}
}

func (s *NotificationService) Start(ctx context.Context) {
	if s == nil || s.bus == nil || s.sender == nil {
		return
	}

	noticeSub := s.bus.Subscribe(TopicUserNotice)

	go func() {
		defer s.bus.Unsubscribe(noticeSub, TopicUserNotice)

		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-noticeSub:
				if !ok {
					return
				}
				notice, ok := raw.(UserNotice)
				if !ok {
					continue
				}
				s.handleNotice(notice)
			}
		}
	}()
}

func (s *NotificationService) handleNotice(notice UserNotice) {
	if s.currentConfig != nil && !s.currentConfig().Notifications.Enabled {
		s.logger.Debug("notice suppressed by preference", "kind", notice.Kind)

		return
	}
	s.logger.Info("showing notice", "kind", notice.Kind)
	s.sender.Send(notifications.Payload{
		Title:   notice.Title,
		Content: notice.Content,
	})
}
