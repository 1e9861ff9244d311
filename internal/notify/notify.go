// Package notify is the side channel for user-facing outcome messages, the
// server-side counterpart of the UI toast: mutations report success or
// failure here in addition to their return values.
package notify

import "github.com/rs/zerolog"

// Notifier receives user-facing success and error messages.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// logNotifier emits notifications to the structured log.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier backed by the application log.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

func (n *logNotifier) Success(title, message string) {
	n.logger.Info().Str("title", title).Msg(message)
}

func (n *logNotifier) Error(title, message string) {
	n.logger.Error().Str("title", title).Msg(message)
}
