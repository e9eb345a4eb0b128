package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/runtara-monitor/internal/model"
	"github.com/yourusername/runtara-monitor/internal/nav"
)

// payloadPreviewLines limits input/output previews in the instance detail
const payloadPreviewLines = 5

// renderInstances renders the instance list with the active status filter
func (m *Model) renderInstances() string {
	var b strings.Builder

	filter := m.view.Filter()
	filterText := m.T("filters.all")
	if filter != nav.FilterAll {
		filterText = filter.String()
	}
	b.WriteString(fmt.Sprintf("%s %s  %s\n\n",
		StyleKeyDesc.Render(m.T("instances.filter")+":"),
		StyleHighlight.Render(filterText),
		StyleTextMuted.Render(m.T("instances.filter_hint"))))

	if m.store.Snapshot() == nil {
		b.WriteString(StyleTextMuted.Render(m.T("common.loading")))
		return b.String()
	}

	instances := m.visibleInstances()
	b.WriteString(StyleSubHeader.Render(fmt.Sprintf("%s (%d)", m.T("tabs.instances"), len(instances))))
	b.WriteString("\n")

	if len(instances) == 0 {
		b.WriteString("\n" + StyleTextMuted.Render(m.T("instances.empty")))
		return b.String()
	}

	widths := []int{36, 10, 20, 24, 19, 19}
	b.WriteString(StyleHeader.Render(renderRow([]string{
		m.T("instances.col.id"),
		m.T("instances.col.status"),
		m.T("instances.col.tenant"),
		m.T("instances.col.image"),
		m.T("instances.col.created"),
		m.T("instances.col.finished"),
	}, widths)))
	b.WriteString("\n")

	cursor := m.view.Cursor(nav.ListInstances)
	start, end := m.listWindow(len(instances), cursor.Index)
	for i := start; i < end; i++ {
		inst := instances[i]
		image := inst.ImageName
		if image == "" {
			image = inst.ImageID
		}
		row := renderRow([]string{
			inst.ID,
			RenderInstanceStatus(inst.Status),
			inst.TenantID,
			image,
			formatTime(inst.CreatedAt),
			formatTimePtr(inst.FinishedAt),
		}, widths)
		if i == cursor.Index {
			row = StyleSelected.Render(stripANSI(row))
		}
		b.WriteString(row + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderInstanceDetail renders one instance, scrollable
func (m *Model) renderInstanceDetail() string {
	top, _ := m.view.Top()
	inst, ok := m.findInstance(top.InstanceID)
	if !ok {
		return StyleSubHeader.Render(m.T("instance.title")) + "\n\n" +
			StyleWarning.Render(m.TF("instance.gone", map[string]interface{}{"ID": top.InstanceID}))
	}
	return m.renderScrolled(m.instanceDetailLines(inst), top.Scroll)
}

func (m *Model) instanceDetailLines(inst model.Instance) []string {
	field := func(labelKey, value string) string {
		return "  " + padRight(StyleTextMuted.Render(m.T(labelKey)+":"), 16) + value
	}

	lines := []string{
		StyleSubHeader.Render(m.T("instance.title")),
		"",
		field("instance.id", inst.ID),
		field("instance.status", RenderInstanceStatus(inst.Status)),
		"",
		field("instance.tenant", StyleHighlight.Render(inst.TenantID)),
		field("instance.image_id", inst.ImageID),
		field("instance.image_name", StyleHighlight.Render(orDash(inst.ImageName))),
		"",
		field("instance.created", formatTime(inst.CreatedAt)),
		field("instance.updated", formatTime(inst.UpdatedAt)),
		field("instance.started", formatTimePtr(inst.StartedAt)),
		field("instance.finished", formatTimePtr(inst.FinishedAt)),
		"",
		field("instance.checkpoint", StyleWarning.Render(orDash(inst.CheckpointID))),
		field("instance.retries", fmt.Sprintf("%d / %d", inst.RetryCount, inst.MaxRetries)),
	}

	lines = append(lines, payloadPreview(m.T("instance.input"), inst.Input, StyleTextSecondary.Render)...)
	lines = append(lines, payloadPreview(m.T("instance.output"), inst.Output, StyleSuccess.Render)...)

	if inst.Error != "" {
		lines = append(lines, "", "  "+StyleError.Render(m.T("instance.error")+":"))
		lines = append(lines, previewLines(strings.Split(inst.Error, "\n"), StyleError.Render)...)
	}
	return lines
}

// payloadPreview indents a JSON payload as stored, keeping the first few lines
func payloadPreview(label string, raw json.RawMessage, render func(...string) string) []string {
	if len(raw) == 0 {
		return nil
	}

	text := string(raw)
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err == nil {
		text = pretty.String()
	}

	out := []string{"", "  " + StyleTextMuted.Render(label+":")}
	return append(out, previewLines(strings.Split(text, "\n"), render)...)
}

// previewLines keeps at most payloadPreviewLines lines and marks the cut with "..."
func previewLines(lines []string, render func(...string) string) []string {
	out := make([]string, 0, payloadPreviewLines+1)
	for i, line := range lines {
		if i == payloadPreviewLines {
			out = append(out, "    "+StyleTextMuted.Render("..."))
			break
		}
		out = append(out, "    "+render(line))
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
