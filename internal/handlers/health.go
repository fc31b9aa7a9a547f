package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/pulse/backend/internal/logger"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

// HealthHandler reports service health, checking dependencies concurrently.
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, check := range h.checks {
		g.Go(func() error {
			if err := check(gctx); err != nil {
				logger.L().Warn("health check failed", "dependency", name, "error", err)
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":  "unhealthy",
			"service": "pulse-api",
			"failing": failed,
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pulse-api",
	})
}
