package notifications

import (
	"log/slog"
	"strings"

	"github.com/gen2brain/beeep"
)

// BeeepSender delivers notices through the OS notification center.
type BeeepSender struct {
	appName string
	logger  *slog.Logger
}

func NewBeeepSender(appName string, logger *slog.Logger) *BeeepSender {
	if logger == nil {
		logger = slog.Default().With("component", "notifications")
	}

	return &BeeepSender{appName: appName, logger: logger}
}

func (s *BeeepSender) Send(payload Payload) {
	title := strings.TrimSpace(payload.Title)
	content := strings.TrimSpace(payload.Content)
	if title == "" && content == "" {
		return
	}
	if title == "" {
		title = s.appName
	}

	if err := beeep.Notify(title, content, ""); err != nil {
		s.logger.Warn("send desktop notification", "error", err)
	}
}
