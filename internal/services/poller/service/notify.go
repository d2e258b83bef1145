package service

import (
	"reqrelay/internal/platform/logger"
	"reqrelay/internal/services/poller/domain"
)

// LogNotifier reports outcomes on log; nothing stays at debug level
func LogNotifier(log logger.Logger) domain.Notifier {
	return domain.NotifierFunc(func(o domain.Outcome, id string, err error) {
		switch o {
		case domain.Failed:
			log.Error().Err(err).Str("conversation_id", id).Msg("requirements delivery failed")
		case domain.Succeeded:
			log.Info().Str("conversation_id", id).Msg("requirements delivered")
		default:
			log.Debug().Str("conversation_id", id).Msg("requirements delivery produced no reply")
		}
	})
}
