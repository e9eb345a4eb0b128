package datasource

import (
	"context"

	"github.com/yourusername/runtara-monitor/internal/model"
)

// DefaultListLimit caps list calls, matching the server's page size
const DefaultListLimit = 100

// InstanceQuery filters a ListInstances call
type InstanceQuery struct {
	TenantID string
	Status   model.InstanceStatus // Empty means all statuses
	Limit    int
}

// Client is the read-only management API of a Runtara environment.
// Every failure is returned as an *Error.
type Client interface {
	// ListInstances retrieves workflow instances, optionally filtered by tenant and status
	ListInstances(ctx context.Context, q InstanceQuery) ([]model.Instance, error)

	// ListImages retrieves registered images, optionally filtered by tenant
	ListImages(ctx context.Context, tenantID string) ([]model.Image, error)

	// GetMetrics retrieves the metric buckets of one tenant
	GetMetrics(ctx context.Context, tenantID string, granularity model.Granularity) (*model.MetricSeries, error)

	// GetHealth retrieves the service health
	GetHealth(ctx context.Context) (*model.HealthSnapshot, error)

	// ListCheckpoints retrieves the checkpoints of one instance
	ListCheckpoints(ctx context.Context, instanceID string) ([]model.Checkpoint, error)

	// GetCheckpointData retrieves the serialized state of one checkpoint
	GetCheckpointData(ctx context.Context, instanceID, checkpointID string) ([]byte, error)

	// Close releases idle connections
	Close() error
}
