package server

import (
	"context"
	"sort"
	"sync"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// CompositeHealthChecker is healthy when every named dependency is.
type CompositeHealthChecker struct {
	checks map[string]HealthChecker
}

func NewCompositeHealthChecker() *CompositeHealthChecker {
	return &CompositeHealthChecker{checks: map[string]HealthChecker{}}
}

func (c *CompositeHealthChecker) Add(name string, hc HealthChecker) *CompositeHealthChecker {
	if hc != nil {
		c.checks[name] = hc
	}
	return c
}

// Report runs all checks concurrently.
func (c *CompositeHealthChecker) Report(ctx context.Context) map[string]bool {
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]bool, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.checks[name].Healthy(ctx)
		}()
	}
	wg.Wait()

	report := make(map[string]bool, len(names))
	for i, name := range names {
		report[name] = results[i]
	}
	return report
}

func (c *CompositeHealthChecker) Healthy(ctx context.Context) bool {
	for _, ok := range c.Report(ctx) {
		if !ok {
			return false
		}
	}
	return true
}
