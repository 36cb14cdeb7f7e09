package pg

import (
	"context"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	pool pinger
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	if pool == nil {
		return &HealthChecker{}
	}
	return &HealthChecker{
		pool: pool,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}
	return hc.pool.Ping(ctx) == nil
}
