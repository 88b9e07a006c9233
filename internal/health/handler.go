// Package health exposes the liveness endpoint.
package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to the Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler handles health check operations.
type Handler struct {
	database Checker
	cache    Checker
}

// NewHandler creates a health handler. cache may be nil when no Redis cache
// is configured.
func NewHandler(database, cache Checker) *Handler {
	return &Handler{database: database, cache: cache}
}

// Response is the response for the health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Cache    string `json:"cache"`
	}
}

// Check reports the health of the service and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if err := h.database.Ping(ctx); err != nil {
		resp.Body.Database = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Database = "healthy"
	}

	switch {
	case h.cache == nil:
		resp.Body.Cache = "disabled"
	case h.cache.Ping(ctx) != nil:
		resp.Body.Cache = "unhealthy"
		resp.Body.Status = "degraded"
	default:
		resp.Body.Cache = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers the health check route.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
