package bus

import (
	"context"
	"io"
	"log"
)

// NullBus is the no-op implementation used when Redis is disabled.
type NullBus struct {
	logger *log.Logger
}

// NewNullBus creates a null bus.
func NewNullBus(logger *log.Logger) *NullBus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &NullBus{logger: logger}
}

// PublishReport logs the notification instead of publishing it.
func (nb *NullBus) PublishReport(ctx context.Context, msg ReportMessage) error {
	nb.logger.Printf("would publish report %s (redis disabled)", msg.InvestigationID)
	return nil
}

// HealthCheck always succeeds for the null bus.
func (nb *NullBus) HealthCheck(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (nb *NullBus) Close() error {
	return nil
}
