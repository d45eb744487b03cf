package composite

import (
	"context"
	"log/slog"
	"sync"
)

// Health reports each core service's liveness distinctly. No single overall
// flag is computed here; that is left to whoever renders the report.
type Health struct {
	Product        Status
	Recommendation Status
	Review         Status
}

// HealthAggregator queries the three core service health checks
// concurrently. It always answers.
type HealthAggregator struct {
	checker HealthChecker
	logger  *slog.Logger
}

func NewHealthAggregator(checker HealthChecker, logger *slog.Logger) *HealthAggregator {
	return &HealthAggregator{
		checker: checker,
		logger:  logger,
	}
}

func (h *HealthAggregator) Check(ctx context.Context) Health {
	var health Health
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		health.Product = h.checker.ProductHealth(ctx)
	}()
	go func() {
		defer wg.Done()
		health.Recommendation = h.checker.RecommendationHealth(ctx)
	}()
	go func() {
		defer wg.Done()
		health.Review = h.checker.ReviewHealth(ctx)
	}()
	wg.Wait()

	if health.Product == StatusDown || health.Recommendation == StatusDown || health.Review == StatusDown {
		h.logger.Warn("one or more core services are down")
	}
	return health
}
