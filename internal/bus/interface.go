// Package bus publishes completed-investigation notifications to a Redis
// Stream so downstream tooling (alerting, archival, dashboards) can react
// without polling the cache. Publishing is always best-effort.
package bus

import (
	"context"
	"io"
	"log"
)

// ReportMessage is the notification published when an investigation
// completes or is imported.
type ReportMessage struct {
	InvestigationID string  `json:"investigation_id"`
	TargetName      string  `json:"target_name"`
	OverallScore    float64 `json:"overall_score"`
	RiskLevel       string  `json:"risk_level"`
	Recommendation  string  `json:"recommendation"`
	CompletedAt     int64   `json:"completed_at"`
}

// Bus is the notification interface with Redis and no-op implementations.
type Bus interface {
	// PublishReport publishes a completed-report notification.
	PublishReport(ctx context.Context, msg ReportMessage) error

	// HealthCheck verifies the bus connection.
	HealthCheck(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// NewBus returns a RedisBus for redisURL, falling back to a NullBus when
// the URL is empty or the connection fails. Callers never need to care
// which they got.
func NewBus(redisURL string, logger *log.Logger) Bus {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if redisURL == "" {
		return NewNullBus(logger)
	}

	if rb, err := NewRedisBus(redisURL, logger); err == nil {
		return rb
	} else {
		logger.Printf("redis unavailable, notifications disabled: %v", err)
	}
	return NewNullBus(logger)
}
