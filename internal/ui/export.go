package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/runtara-monitor/internal/model"
	"github.com/yourusername/runtara-monitor/internal/nav"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

// writeClipboard copies text to the system clipboard
func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// getExportDir returns the export directory path and ensures it exists
func getExportDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir not available
		return ".", nil
	}

	exportDir := filepath.Join(homeDir, ".config", "runtara-monitor", "exports")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create export directory %s: %w", exportDir, err)
	}

	// Test write permission by creating a temporary file
	testFile := filepath.Join(exportDir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		return "", fmt.Errorf("export directory %s is not writable: %w", exportDir, err)
	}
	f.Close()
	os.Remove(testFile)

	return exportDir, nil
}

type exportedInstance struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenantId"`
	Status       string `json:"status"`
	ImageID      string `json:"imageId,omitempty"`
	ImageName    string `json:"imageName,omitempty"`
	CreatedAt    string `json:"createdAt"`
	FinishedAt   string `json:"finishedAt,omitempty"`
	CheckpointID string `json:"checkpointId,omitempty"`
	RetryCount   int    `json:"retryCount"`
	MaxRetries   int    `json:"maxRetries"`
	Error        string `json:"error,omitempty"`
}

type exportedImage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tag         string `json:"tag,omitempty"`
	TenantID    string `json:"tenantId"`
	RunnerType  string `json:"runnerType,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type exportedBucket struct {
	BucketTime         string   `json:"bucketTime"`
	Invocations        int64    `json:"invocations"`
	Successes          int64    `json:"successes"`
	Failures           int64    `json:"failures"`
	SuccessRate        *float64 `json:"successRate,omitempty"`
	AvgDurationSeconds float64  `json:"avgDurationSeconds"`
	MaxDurationSeconds float64  `json:"maxDurationSeconds"`
}

type exportedMetrics struct {
	TenantID    string           `json:"tenantId"`
	Granularity string           `json:"granularity"`
	Buckets     []exportedBucket `json:"buckets"`
}

func rfc3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// exportPayload builds the document for the given tab from the current snapshot
func (m *Model) exportPayload(tab nav.Tab) (interface{}, int, error) {
	snap := m.store.Snapshot()
	if snap == nil {
		return nil, 0, fmt.Errorf("no data to export yet")
	}

	switch tab {
	case nav.TabInstances:
		instances := m.visibleInstances()
		out := make([]exportedInstance, 0, len(instances))
		for _, inst := range instances {
			e := exportedInstance{
				ID:           inst.ID,
				TenantID:     inst.TenantID,
				Status:       string(inst.Status),
				ImageID:      inst.ImageID,
				ImageName:    inst.ImageName,
				CreatedAt:    rfc3339(inst.CreatedAt),
				CheckpointID: inst.CheckpointID,
				RetryCount:   inst.RetryCount,
				MaxRetries:   inst.MaxRetries,
				Error:        inst.Error,
			}
			if inst.FinishedAt != nil {
				e.FinishedAt = rfc3339(*inst.FinishedAt)
			}
			out = append(out, e)
		}
		return out, len(out), nil

	case nav.TabImages:
		out := make([]exportedImage, 0, len(snap.Images))
		for _, img := range snap.Images {
			out = append(out, exportedImage{
				ID:          img.ID,
				Name:        img.Name,
				Tag:         img.Tag,
				TenantID:    img.TenantID,
				RunnerType:  img.RunnerType,
				Description: img.Description,
				CreatedAt:   rfc3339(img.CreatedAt),
			})
		}
		return out, len(out), nil

	case nav.TabMetrics:
		if snap.Metrics == nil {
			return nil, 0, fmt.Errorf("no metrics to export")
		}
		return exportMetrics(snap.Metrics), len(snap.Metrics.Buckets), nil
	}

	return nil, 0, fmt.Errorf("export not supported for %s", tab)
}

func exportMetrics(series *model.MetricSeries) exportedMetrics {
	out := exportedMetrics{
		TenantID:    series.TenantID,
		Granularity: string(series.Granularity),
		Buckets:     make([]exportedBucket, 0, len(series.Buckets)),
	}
	for _, b := range series.Buckets {
		e := exportedBucket{
			BucketTime:         rfc3339(b.BucketTime),
			Invocations:        b.Invocations,
			Successes:          b.Successes,
			Failures:           b.Failures,
			AvgDurationSeconds: b.AvgDuration.Seconds(),
			MaxDurationSeconds: b.MaxDuration.Seconds(),
		}
		if rate, ok := b.SuccessRate(); ok {
			e.SuccessRate = &rate
		}
		out.Buckets = append(out.Buckets, e)
	}
	return out
}

// exportList writes the visible list of a tab to a YAML file
func (m *Model) exportList(tab nav.Tab) tea.Cmd {
	payload, count, err := m.exportPayload(tab)
	if err != nil {
		return statusCmd(m.TF("export.failed", map[string]interface{}{"Error": err.Error()}), true)
	}
	exportDir := m.exportDir
	logger := m.logger
	filename := fmt.Sprintf("runtara-%s-%s.yaml", strings.ToLower(tab.String()), m.now().Format("20060102-150405"))

	return func() tea.Msg {
		dir, err := exportDir()
		if err != nil {
			return statusMsg{text: m.TF("export.failed", map[string]interface{}{"Error": err.Error()}), isError: true}
		}

		data, err := yaml.Marshal(payload)
		if err != nil {
			return statusMsg{text: m.TF("export.failed", map[string]interface{}{"Error": err.Error()}), isError: true}
		}

		fullPath := filepath.Join(dir, filename)
		if err := os.WriteFile(fullPath, data, 0644); err != nil {
			return statusMsg{text: m.TF("export.failed", map[string]interface{}{"Error": err.Error()}), isError: true}
		}

		logger.Info("Exported list", zap.String("path", fullPath), zap.Int("count", count))
		return statusMsg{text: m.TF("export.success", map[string]interface{}{"Count": count, "Path": fullPath})}
	}
}

// copyToClipboard copies an identifier and reports the outcome
func (m *Model) copyToClipboard(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	write := m.clipboardWrite
	return func() tea.Msg {
		if err := write(text); err != nil {
			return statusMsg{text: m.TF("copy.failed", map[string]interface{}{"Error": err.Error()}), isError: true}
		}
		return statusMsg{text: m.TF("copy.success", map[string]interface{}{"Text": text})}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
