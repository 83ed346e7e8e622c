package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink writes notifications to the log. It is used when no broker is configured.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink returns LogSink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver implements Sink.
func (s *LogSink) Deliver(_ context.Context, n Notification) error {
	s.logger.Info().
		Int64("recipient", n.Recipient).
		Str("kind", string(n.Kind)).
		Str("amount", n.Amount.String()).
		Int64("escrow", n.EscrowID).
		Msg(n.Message)

	return nil
}
