package ui

import (
	"fmt"
	"strings"

	"github.com/yourusername/runtara-monitor/internal/model"
	"github.com/yourusername/runtara-monitor/internal/nav"
)

// renderMetrics renders the per-tenant invocation buckets
func (m *Model) renderMetrics() string {
	var b strings.Builder

	granularity := m.T("metrics.hourly")
	if m.view.Granularity() == model.GranularityDaily {
		granularity = m.T("metrics.daily")
	}
	tenant := StyleTextMuted.Render(m.T("metrics.no_tenant_selected"))
	if m.opts.TenantID != "" {
		tenant = m.T("common.tenant") + ": " + StyleHighlight.Render(m.opts.TenantID)
	}
	b.WriteString(fmt.Sprintf("%s %s | %s | %s\n\n",
		StyleKeyDesc.Render(m.T("metrics.granularity")+":"),
		StyleHighlight.Render(granularity),
		tenant,
		StyleTextMuted.Render(m.T("metrics.toggle_hint"))))

	if m.opts.TenantID == "" {
		b.WriteString(StyleWarning.Render("  "+m.T("metrics.need_tenant")) + "\n\n")
		b.WriteString("  " + m.T("metrics.need_tenant_hint"))
		return b.String()
	}

	snap := m.store.Snapshot()
	if snap == nil {
		b.WriteString(StyleTextMuted.Render(m.T("common.loading")))
		return b.String()
	}

	series := snap.Metrics
	if series == nil || len(series.Buckets) == 0 {
		b.WriteString(StyleWarning.Render("  "+m.T("metrics.no_data")) + "\n\n")
		b.WriteString("  " + m.T("metrics.no_data_hint"))
		return b.String()
	}

	if series.Granularity != m.view.Granularity() {
		b.WriteString(StyleTextMuted.Render(m.T("metrics.pending_granularity")) + "\n")
	}

	widths := []int{16, 12, 10, 10, 10, 14, 14}
	b.WriteString(StyleHeader.Render(renderRow([]string{
		m.T("metrics.col.time"),
		m.T("metrics.col.invocations"),
		m.T("metrics.col.success"),
		m.T("metrics.col.failed"),
		m.T("metrics.col.rate"),
		m.T("metrics.col.avg"),
		m.T("metrics.col.max"),
	}, widths)))
	b.WriteString("\n")

	var invocations, successes, failures int64
	for _, bucket := range series.Buckets {
		invocations += bucket.Invocations
		successes += bucket.Successes
		failures += bucket.Failures
	}

	cursor := m.view.Cursor(nav.ListMetrics)
	start, end := m.listWindow(len(series.Buckets), cursor.Index)
	for i := start; i < end; i++ {
		bucket := series.Buckets[i]
		row := renderRow([]string{
			formatBucketTime(bucket.BucketTime, bucket.Granularity),
			fmt.Sprintf("%d", bucket.Invocations),
			StyleSuccess.Render(fmt.Sprintf("%d", bucket.Successes)),
			renderFailures(bucket.Failures),
			renderSuccessRate(bucket),
			formatSeconds(bucket.AvgDuration),
			formatSeconds(bucket.MaxDuration),
		}, widths)
		if i == cursor.Index {
			row = StyleSelected.Render(stripANSI(row))
		}
		b.WriteString(row + "\n")
	}

	total := model.MetricBucket{Invocations: invocations, Successes: successes, Failures: failures}
	b.WriteString("\n" + StyleTextMuted.Render(m.TP("metrics.buckets", len(series.Buckets))))
	b.WriteString("\n" + StyleTextSecondary.Render(m.T("metrics.total")+": ") +
		fmt.Sprintf("%d / %d / %d  ", invocations, successes, failures) + renderSuccessRate(total))

	return b.String()
}

func renderFailures(n int64) string {
	text := fmt.Sprintf("%d", n)
	if n > 0 {
		return StyleError.Render(text)
	}
	return text
}
