package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/runtara-monitor/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SnapshotSource fetches the periodic collections as one unit.
// Instances, images, metrics and health are requested concurrently; if any
// request fails the whole snapshot fails and no partial result is returned.
type SnapshotSource struct {
	client Client
	logger *zap.Logger
	now    func() time.Time
}

// NewSnapshotSource creates a snapshot source on top of a client
func NewSnapshotSource(client Client, logger *zap.Logger) *SnapshotSource {
	return &SnapshotSource{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Client returns the underlying client for on-demand fetches
func (s *SnapshotSource) Client() Client {
	return s.client
}

// FetchSnapshot retrieves all periodic collections for the given query
func (s *SnapshotSource) FetchSnapshot(ctx context.Context, q model.Query) (*model.Snapshot, error) {
	start := s.now()
	s.logger.Debug("Fetching snapshot", zap.Stringer("query", q))

	var (
		instances []model.Instance
		images    []model.Image
		metrics   *model.MetricSeries
		health    *model.HealthSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		health, err = s.client.GetHealth(gctx)
		if err != nil {
			return fmt.Errorf("failed to get health: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		instances, err = s.client.ListInstances(gctx, InstanceQuery{
			TenantID: q.TenantID,
			Status:   q.Status,
			Limit:    q.Limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list instances: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		images, err = s.client.ListImages(gctx, q.TenantID)
		if err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		return nil
	})

	// Metrics are per tenant; without one the collection is absent
	if q.TenantID != "" {
		g.Go(func() error {
			var err error
			metrics, err = s.client.GetMetrics(gctx, q.TenantID, q.Granularity)
			if err != nil {
				return fmt.Errorf("failed to get metrics: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Snapshot fetch failed",
			zap.Stringer("query", q),
			zap.Duration("elapsed", s.now().Sub(start)),
			zap.Error(err))
		return nil, err
	}

	// Keep the filter consistent even if the server ignored the status parameter
	instances = model.FilterByStatus(instances, q.Status)

	snapshot := &model.Snapshot{
		Instances: instances,
		Images:    images,
		Metrics:   metrics,
		Health:    health,
		Query:     q,
		FetchedAt: s.now(),
	}

	s.logger.Info("Snapshot fetched",
		zap.Int("instances", len(instances)),
		zap.Int("images", len(images)),
		zap.Bool("metrics", metrics != nil),
		zap.Duration("elapsed", snapshot.FetchedAt.Sub(start)))

	return snapshot, nil
}
