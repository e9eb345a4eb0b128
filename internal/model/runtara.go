package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// InstanceStatus is the lifecycle state of a workflow instance
type InstanceStatus string

const (
	StatusPending   InstanceStatus = "Pending"
	StatusRunning   InstanceStatus = "Running"
	StatusSuspended InstanceStatus = "Suspended"
	StatusCompleted InstanceStatus = "Completed"
	StatusFailed    InstanceStatus = "Failed"
	StatusCancelled InstanceStatus = "Cancelled" // Reported by the server, never used as a filter
	StatusUnknown   InstanceStatus = "Unknown"
)

// ParseInstanceStatus maps a wire value to a status, case-insensitively
func ParseInstanceStatus(s string) InstanceStatus {
	switch s {
	case "pending", "Pending", "PENDING":
		return StatusPending
	case "running", "Running", "RUNNING":
		return StatusRunning
	case "suspended", "Suspended", "SUSPENDED":
		return StatusSuspended
	case "completed", "Completed", "COMPLETED":
		return StatusCompleted
	case "failed", "Failed", "FAILED":
		return StatusFailed
	case "cancelled", "Cancelled", "CANCELLED", "canceled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// Instance represents one durable workflow execution
type Instance struct {
	ID           string
	TenantID     string
	Status       InstanceStatus
	ImageID      string
	ImageName    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
	CheckpointID string // Latest checkpoint, empty if none
	RetryCount   int
	MaxRetries   int
	Input        json.RawMessage
	Output       json.RawMessage
	Error        string // Only set when Status is Failed
}

// FilterByStatus returns the instances with the given status in their original order.
// An empty status returns the input unchanged.
func FilterByStatus(instances []Instance, status InstanceStatus) []Instance {
	if status == "" {
		return instances
	}
	filtered := make([]Instance, 0, len(instances))
	for _, inst := range instances {
		if inst.Status == status {
			filtered = append(filtered, inst)
		}
	}
	return filtered
}

// Checkpoint is a persisted intermediate state of an instance.
// The state blob itself is fetched on demand.
type Checkpoint struct {
	ID         string
	InstanceID string
	Sequence   int64
	CreatedAt  time.Time
	SizeBytes  int64
}

// Image is a registered container image
type Image struct {
	ID          string
	Name        string
	Tag         string
	TenantID    string
	RunnerType  string
	Description string
	CreatedAt   time.Time
}

// Reference returns name:tag, or just the name when untagged
func (i Image) Reference() string {
	if i.Tag == "" {
		return i.Name
	}
	return i.Name + ":" + i.Tag
}

// Granularity is the width of a metrics time bucket
type Granularity string

const (
	GranularityHourly Granularity = "hourly"
	GranularityDaily  Granularity = "daily"
)

// Toggle switches between hourly and daily
func (g Granularity) Toggle() Granularity {
	if g == GranularityDaily {
		return GranularityHourly
	}
	return GranularityDaily
}

// MetricBucket aggregates invocations of one tenant over one time bucket
type MetricBucket struct {
	TenantID    string
	Granularity Granularity
	BucketTime  time.Time
	Invocations int64
	Successes   int64
	Failures    int64
	AvgDuration time.Duration
	MaxDuration time.Duration
}

// Key identifies the bucket within its series
func (b MetricBucket) Key() string {
	return b.BucketTime.UTC().Format(time.RFC3339)
}

// SuccessRate returns the success percentage, false when there were no invocations
func (b MetricBucket) SuccessRate() (float64, bool) {
	if b.Invocations == 0 {
		return 0, false
	}
	return float64(b.Successes) / float64(b.Invocations) * 100, true
}

// MetricSeries is the metrics result for one tenant and granularity
type MetricSeries struct {
	TenantID    string
	Granularity Granularity
	Start       time.Time
	End         time.Time
	Buckets     []MetricBucket
}

// HealthSnapshot describes the remote service
type HealthSnapshot struct {
	Healthy         bool
	Version         string
	Uptime          time.Duration
	ActiveInstances int
}

// Query captures the parameters a periodic snapshot is fetched with
type Query struct {
	TenantID    string
	Status      InstanceStatus // Empty means all statuses
	Granularity Granularity
	Limit       int
}

// String renders the query for logs
func (q Query) String() string {
	status := string(q.Status)
	if status == "" {
		status = "All"
	}
	return fmt.Sprintf("tenant=%q status=%s granularity=%s", q.TenantID, status, q.Granularity)
}

// Snapshot is one atomically fetched copy of all periodic collections
type Snapshot struct {
	Instances []Instance
	Images    []Image
	Metrics   *MetricSeries // nil when no tenant is selected
	Health    *HealthSnapshot
	Query     Query
	FetchedAt time.Time
}

// CheckpointData is the decoded state blob of a checkpoint
type CheckpointData struct {
	InstanceID   string
	CheckpointID string
	Raw          []byte
	Pretty       string // Indented JSON, empty when unreadable
	Readable     bool
}

// DecodeCheckpointData pretty-prints a checkpoint blob.
// Blobs that are not valid JSON are kept raw and marked unreadable.
func DecodeCheckpointData(instanceID, checkpointID string, raw []byte) *CheckpointData {
	data := &CheckpointData{
		InstanceID:   instanceID,
		CheckpointID: checkpointID,
		Raw:          raw,
	}
	if len(raw) == 0 || !json.Valid(raw) {
		return data
	}
	// Indent keeps numbers and key order exactly as stored
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return data
	}
	data.Pretty = pretty.String()
	data.Readable = true
	return data
}
