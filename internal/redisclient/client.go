package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client wraps a Redis client with OpenTelemetry tracing
type Client struct {
	client *redis.Client
}

// NewClient creates a new traced Redis client for a single Redis instance
func NewClient(client *redis.Client) *Client {
	return &Client{client: client}
}

// startSpan opens a span for one Redis command; the returned func closes it
func startSpan(ctx context.Context, operation, key string, extra ...attribute.KeyValue) (context.Context, trace.Span, func()) {
	start := time.Now()
	attrs := append([]attribute.KeyValue{
		attribute.String("redis.key", key),
		attribute.String("redis.operation", operation),
		attribute.String("redis.client", "eservice-portal"),
	}, extra...)

	ctx, span := otel.Tracer("redis").Start(ctx, "redis."+operation, trace.WithAttributes(attrs...))
	return ctx, span, func() {
		duration := time.Since(start)
		span.SetAttributes(
			attribute.Int64("redis.duration_ms", duration.Milliseconds()),
			attribute.String("redis.duration", duration.String()),
		)
		span.End()
	}
}

func recordResult(span trace.Span, err error) {
	if err != nil && err != redis.Nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("redis.error", err.Error()))
		return
	}
	span.SetStatus(codes.Ok, "success")
}

// Incr wraps Redis Incr with tracing
func (c *Client) Incr(ctx context.Context, key string) *redis.IntCmd {
	ctx, span, end := startSpan(ctx, "incr", key)
	defer end()

	cmd := c.client.Incr(ctx, key)
	recordResult(span, cmd.Err())
	return cmd
}

// Expire wraps Redis Expire with tracing
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	ctx, span, end := startSpan(ctx, "expire", key, attribute.String("redis.expiration", expiration.String()))
	defer end()

	cmd := c.client.Expire(ctx, key, expiration)
	recordResult(span, cmd.Err())
	return cmd
}

// TTL wraps Redis TTL with tracing
func (c *Client) TTL(ctx context.Context, key string) *redis.DurationCmd {
	ctx, span, end := startSpan(ctx, "ttl", key)
	defer end()

	cmd := c.client.TTL(ctx, key)
	recordResult(span, cmd.Err())
	return cmd
}

// Del wraps Redis Del with tracing
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	key := ""
	if len(keys) > 0 {
		key = keys[0]
	}
	ctx, span, end := startSpan(ctx, "del", key, attribute.Int("redis.keys_count", len(keys)))
	defer end()

	cmd := c.client.Del(ctx, keys...)
	recordResult(span, cmd.Err())
	return cmd
}

// Ping wraps Redis Ping with tracing
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, span, end := startSpan(ctx, "ping", "")
	defer end()

	cmd := c.client.Ping(ctx)
	recordResult(span, cmd.Err())
	return cmd
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	return c.client.Close()
}
