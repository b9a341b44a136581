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
	cmdable redis.Cmdable
}

// NewClient creates a new traced Redis client for single Redis instance
func NewClient(client *redis.Client) *Client {
	return &Client{cmdable: client}
}

// NewClusterClient creates a new traced Redis client for Redis cluster
func NewClusterClient(client *redis.ClusterClient) *Client {
	return &Client{cmdable: client}
}

func (c *Client) span(ctx context.Context, op, key string) (context.Context, trace.Span, time.Time) {
	ctx, sp := otel.Tracer("redis").Start(ctx, "redis."+op,
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.String("redis.operation", op),
			attribute.String("redis.client", "bellinati-negocia"),
		),
	)
	return ctx, sp, time.Now()
}

func finish(sp trace.Span, start time.Time, err error) {
	if err != nil && err != redis.Nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, err.Error())
	} else {
		sp.SetStatus(codes.Ok, "success")
	}
	sp.SetAttributes(attribute.Int64("redis.duration_ms", time.Since(start).Milliseconds()))
	sp.End()
}

// Get wraps Redis Get with tracing
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, sp, start := c.span(ctx, "get", key)
	cmd := c.cmdable.Get(ctx, key)
	finish(sp, start, cmd.Err())
	return cmd
}

// Set wraps Redis Set with tracing
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	ctx, sp, start := c.span(ctx, "set", key)
	cmd := c.cmdable.Set(ctx, key, value, expiration)
	finish(sp, start, cmd.Err())
	return cmd
}

// SetNX wraps Redis SetNX with tracing
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	ctx, sp, start := c.span(ctx, "setnx", key)
	cmd := c.cmdable.SetNX(ctx, key, value, expiration)
	finish(sp, start, cmd.Err())
	return cmd
}

// Del wraps Redis Del with tracing
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	key := ""
	if len(keys) > 0 {
		key = keys[0]
	}
	ctx, sp, start := c.span(ctx, "del", key)
	cmd := c.cmdable.Del(ctx, keys...)
	finish(sp, start, cmd.Err())
	return cmd
}

// Keys wraps Redis Keys with tracing
func (c *Client) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	ctx, sp, start := c.span(ctx, "keys", pattern)
	cmd := c.cmdable.Keys(ctx, pattern)
	finish(sp, start, cmd.Err())
	return cmd
}

// Ping wraps Redis Ping with tracing
func (c *Client) Ping(ctx context.Context) *redis.StatusCmd {
	ctx, sp, start := c.span(ctx, "ping", "")
	cmd := c.cmdable.Ping(ctx)
	finish(sp, start, cmd.Err())
	return cmd
}
