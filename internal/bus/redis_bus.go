package bus

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// reportStream is the Redis Stream notifications land on. Trimmed
// approximately so an unconsumed stream cannot grow without bound.
const (
	reportStream    = "meridian:reports"
	reportStreamCap = 10_000
)

// RedisBus publishes report notifications over Redis Streams.
type RedisBus struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedisBus connects to redisURL and verifies the connection.
func NewRedisBus(redisURL string, logger *log.Logger) (*RedisBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RedisBus{client: client, logger: logger}, nil
}

// PublishReport appends the notification to the report stream.
func (rb *RedisBus) PublishReport(ctx context.Context, msg ReportMessage) error {
	result := rb.client.XAdd(ctx, &redis.XAddArgs{
		Stream: reportStream,
		MaxLen: reportStreamCap,
		Approx: true,
		Values: map[string]interface{}{
			"investigation_id": msg.InvestigationID,
			"target_name":      msg.TargetName,
			"overall_score":    msg.OverallScore,
			"risk_level":       msg.RiskLevel,
			"recommendation":   msg.Recommendation,
			"completed_at":     msg.CompletedAt,
		},
	})
	if err := result.Err(); err != nil {
		return fmt.Errorf("publish report %s: %w", msg.InvestigationID, err)
	}

	rb.logger.Printf("published report %s to %s", msg.InvestigationID, reportStream)
	return nil
}

// HealthCheck pings Redis.
func (rb *RedisBus) HealthCheck(ctx context.Context) error {
	if err := rb.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (rb *RedisBus) Close() error {
	return rb.client.Close()
}
