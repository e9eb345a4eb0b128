package ui

import (
	"fmt"
	"strings"

	"github.com/yourusername/runtara-monitor/internal/model"
	"github.com/yourusername/runtara-monitor/internal/nav"
)

// renderHealth renders the server health panel
func (m *Model) renderHealth() string {
	var b strings.Builder
	b.WriteString(StyleSubHeader.Render(m.T("health.title")))
	b.WriteString("\n\n")

	field := func(labelKey, value string) {
		b.WriteString("  " + padRight(StyleTextMuted.Render(m.T(labelKey)+":"), 20) + value + "\n")
	}

	snap := m.store.Snapshot()
	if snap == nil || snap.Health == nil {
		if m.store.LastError() != nil {
			field("health.status", StyleError.Render(m.T("health.unreachable")))
		} else {
			field("health.status", StyleTextMuted.Render(m.T("common.loading")))
		}
		field("health.server", m.opts.ServerAddress)
		field("health.last_refresh", StyleTextMuted.Render(m.T("health.never")))
		return strings.TrimRight(b.String(), "\n")
	}

	h := snap.Health
	if h.Healthy {
		field("health.status", StyleSuccess.Render("● "+m.T("health.healthy")))
	} else {
		field("health.status", StyleError.Render("● "+m.T("health.unhealthy")))
	}
	field("health.version", orDash(h.Version))
	field("health.uptime", formatDuration(h.Uptime))
	field("health.active_instances", StyleHighlight.Render(fmt.Sprintf("%d", h.ActiveInstances)))
	b.WriteString(StyleTextMuted.Render(renderSeparator(m.width/2)) + "\n")
	field("health.server", m.opts.ServerAddress)
	field("health.last_refresh", m.TF("health.ago", map[string]interface{}{
		"Seconds": int(m.now().Sub(m.store.FetchedAt()).Seconds()),
	}))

	if snap.Instances != nil {
		counts := make(map[model.InstanceStatus]int)
		for _, inst := range snap.Instances {
			counts[inst.Status]++
		}
		b.WriteString("\n" + StyleSubHeader.Render(m.T("health.by_status")) + "\n")
		for _, filter := range nav.Filters() {
			if filter == nav.FilterAll {
				continue
			}
			field("filters."+strings.ToLower(filter.String()), fmt.Sprintf("%d", counts[filter.Status()]))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
