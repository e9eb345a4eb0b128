package datasource

import (
	"encoding/json"
	"time"

	"github.com/yourusername/runtara-monitor/internal/model"
)

// Wire types of the management API. They are converted to internal models right after decoding.

type instanceDTO struct {
	InstanceID   string          `json:"instance_id"`
	TenantID     string          `json:"tenant_id"`
	Status       string          `json:"status"`
	ImageID      string          `json:"image_id"`
	ImageName    string          `json:"image_name"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	StartedAt    *time.Time      `json:"started_at"`
	FinishedAt   *time.Time      `json:"finished_at"`
	CheckpointID string          `json:"checkpoint_id"`
	RetryCount   int             `json:"retry_count"`
	MaxRetries   int             `json:"max_retries"`
	Input        json.RawMessage `json:"input"`
	Output       json.RawMessage `json:"output"`
	Error        string          `json:"error"`
}

type listInstancesResponse struct {
	Instances  []instanceDTO `json:"instances"`
	TotalCount int           `json:"total_count"`
}

type imageDTO struct {
	ImageID     string    `json:"image_id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	TenantID    string    `json:"tenant_id"`
	RunnerType  string    `json:"runner_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type listImagesResponse struct {
	Images     []imageDTO `json:"images"`
	TotalCount int        `json:"total_count"`
}

type metricBucketDTO struct {
	BucketTime         time.Time `json:"bucket_time"`
	InvocationCount    int64     `json:"invocation_count"`
	SuccessCount       int64     `json:"success_count"`
	FailureCount       int64     `json:"failure_count"`
	AvgDurationSeconds float64   `json:"avg_duration_seconds"`
	MaxDurationSeconds float64   `json:"max_duration_seconds"`
}

type metricsResponse struct {
	TenantID    string            `json:"tenant_id"`
	Granularity string            `json:"granularity"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Buckets     []metricBucketDTO `json:"buckets"`
}

type healthResponse struct {
	Healthy         bool   `json:"healthy"`
	Version         string `json:"version"`
	UptimeMs        int64  `json:"uptime_ms"`
	ActiveInstances int    `json:"active_instances"`
}

type checkpointDTO struct {
	CheckpointID  string    `json:"checkpoint_id"`
	InstanceID    string    `json:"instance_id"`
	Sequence      int64     `json:"sequence"`
	CreatedAt     time.Time `json:"created_at"`
	DataSizeBytes int64     `json:"data_size_bytes"`
}

type listCheckpointsResponse struct {
	Checkpoints []checkpointDTO `json:"checkpoints"`
	TotalCount  int             `json:"total_count"`
}

// ConvertInstance converts a wire instance to the internal model.
// The error payload is only kept for failed instances.
func ConvertInstance(dto instanceDTO) model.Instance {
	inst := model.Instance{
		ID:           dto.InstanceID,
		TenantID:     dto.TenantID,
		Status:       model.ParseInstanceStatus(dto.Status),
		ImageID:      dto.ImageID,
		ImageName:    dto.ImageName,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		StartedAt:    dto.StartedAt,
		FinishedAt:   dto.FinishedAt,
		CheckpointID: dto.CheckpointID,
		RetryCount:   dto.RetryCount,
		MaxRetries:   dto.MaxRetries,
		Input:        nullToEmpty(dto.Input),
		Output:       nullToEmpty(dto.Output),
	}
	if inst.Status == model.StatusFailed {
		inst.Error = dto.Error
	}
	if inst.UpdatedAt.IsZero() {
		inst.UpdatedAt = inst.CreatedAt
	}
	return inst
}

// ConvertImage converts a wire image to the internal model
func ConvertImage(dto imageDTO) model.Image {
	return model.Image{
		ID:          dto.ImageID,
		Name:        dto.Name,
		Tag:         dto.Tag,
		TenantID:    dto.TenantID,
		RunnerType:  dto.RunnerType,
		Description: dto.Description,
		CreatedAt:   dto.CreatedAt,
	}
}

// ConvertMetrics converts a wire metrics result, stamping tenant and granularity onto each bucket
func ConvertMetrics(resp metricsResponse, tenantID string, requested model.Granularity) *model.MetricSeries {
	granularity := model.Granularity(resp.Granularity)
	if granularity != model.GranularityHourly && granularity != model.GranularityDaily {
		granularity = requested
	}
	if resp.TenantID != "" {
		tenantID = resp.TenantID
	}

	series := &model.MetricSeries{
		TenantID:    tenantID,
		Granularity: granularity,
		Start:       resp.StartTime,
		End:         resp.EndTime,
		Buckets:     make([]model.MetricBucket, 0, len(resp.Buckets)),
	}
	for _, b := range resp.Buckets {
		series.Buckets = append(series.Buckets, model.MetricBucket{
			TenantID:    tenantID,
			Granularity: granularity,
			BucketTime:  b.BucketTime,
			Invocations: b.InvocationCount,
			Successes:   b.SuccessCount,
			Failures:    b.FailureCount,
			AvgDuration: secondsToDuration(b.AvgDurationSeconds),
			MaxDuration: secondsToDuration(b.MaxDurationSeconds),
		})
	}
	return series
}

// ConvertHealth converts a wire health response
func ConvertHealth(resp healthResponse) *model.HealthSnapshot {
	return &model.HealthSnapshot{
		Healthy:         resp.Healthy,
		Version:         resp.Version,
		Uptime:          time.Duration(resp.UptimeMs) * time.Millisecond,
		ActiveInstances: resp.ActiveInstances,
	}
}

// ConvertCheckpoint converts a wire checkpoint summary
func ConvertCheckpoint(dto checkpointDTO, instanceID string) model.Checkpoint {
	cp := model.Checkpoint{
		ID:         dto.CheckpointID,
		InstanceID: dto.InstanceID,
		Sequence:   dto.Sequence,
		CreatedAt:  dto.CreatedAt,
		SizeBytes:  dto.DataSizeBytes,
	}
	if cp.InstanceID == "" {
		cp.InstanceID = instanceID
	}
	return cp
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func nullToEmpty(raw json.RawMessage) json.RawMessage {
	if string(raw) == "null" {
		return nil
	}
	return raw
}
