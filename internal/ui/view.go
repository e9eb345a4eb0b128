package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/runtara-monitor/internal/diagnostic"
	"github.com/yourusername/runtara-monitor/internal/nav"
)

// chromeHeight is the number of lines used around the main content
const chromeHeight = 8

var tabKeys = map[nav.Tab]string{
	nav.TabInstances: "tabs.instances",
	nav.TabImages:    "tabs.images",
	nav.TabMetrics:   "tabs.metrics",
	nav.TabHealth:    "tabs.health",
}

// View renders the current frame. It only reads state.
func (m *Model) View() string {
	if m.quitting {
		return m.T("common.goodbye") + "\n"
	}

	if m.width == 0 {
		return m.T("common.loading")
	}

	sections := []string{m.renderHeader(), m.renderTabs()}
	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.renderContent(), m.renderFooter())

	if m.statusMessage != "" {
		style := StyleSuccess
		if m.statusIsError {
			style = StyleError
		}
		sections = append(sections, style.Render(m.statusMessage))
	}

	return strings.Join(sections, "\n\n")
}

// renderContent picks the view for the current mode and tab
func (m *Model) renderContent() string {
	switch m.view.Mode() {
	case nav.ModeInstanceDetail:
		return m.renderInstanceDetail()
	case nav.ModeCheckpointsList:
		return m.renderCheckpoints()
	case nav.ModeCheckpointDetail:
		return m.renderCheckpointDetail()
	}

	switch m.view.Tab() {
	case nav.TabImages:
		return m.renderImages()
	case nav.TabMetrics:
		return m.renderMetrics()
	case nav.TabHealth:
		return m.renderHealth()
	default:
		return m.renderInstances()
	}
}

// renderHeader renders the title line and the connection status
func (m *Model) renderHeader() string {
	title := StyleTitle.Render(m.T("app.title")) + "  " + StyleSubtitle.Render(m.opts.Version)

	var conn string
	if m.store.Connected() {
		conn = StyleSuccess.Render("● " + m.T("status.connected"))
	} else {
		conn = StyleError.Render("○ " + m.T("status.disconnected"))
	}

	parts := []string{conn, StyleTextSecondary.Render(m.opts.ServerAddress)}
	if m.opts.TenantID != "" {
		parts = append(parts, StyleHighlight.Render(m.T("common.tenant")+": "+m.opts.TenantID))
	}

	now := m.now()
	if fetchedAt := m.store.FetchedAt(); !fetchedAt.IsZero() {
		parts = append(parts, StyleTextSecondary.Render(fmt.Sprintf("%s: %s",
			m.T("common.last_updated"), fetchedAt.Local().Format("15:04:05"))))
	}
	if m.store.Snapshot() != nil && m.store.IsStale(now) {
		parts = append(parts, StyleWarning.Render(m.T("status.stale")))
	}
	if m.scheduler.InFlight() {
		parts = append(parts, m.spinner.View()+StyleTextSecondary.Render(m.T("common.refreshing")))
	}

	return title + "\n" + strings.Join(parts, "  ")
}

// renderTabs renders the tab bar, highlighting the active tab
func (m *Model) renderTabs() string {
	var tabParts []string
	for i, tab := range nav.Tabs() {
		tabText := fmt.Sprintf("%d:%s", i+1, m.localizer.TWithDefault(tabKeys[tab], tab.String()))
		if m.view.Tab() == tab {
			tabParts = append(tabParts, StyleSelected.Render(" "+tabText+" "))
		} else {
			tabParts = append(tabParts, StyleTextMuted.Render(" "+tabText+" "))
		}
	}
	return strings.Join(tabParts, " ")
}

// renderBanner shows the last fetch error and a recommended action
func (m *Model) renderBanner() string {
	err := m.store.LastError()
	if err == nil {
		return ""
	}

	lines := []string{StyleError.Render(fmt.Sprintf("%s: %v", m.T("common.error"), err))}
	if m.store.Snapshot() != nil {
		lines = append(lines, StyleTextSecondary.Render(m.TF("banner.showing_stale", map[string]interface{}{
			"Age": formatDuration(m.now().Sub(m.store.FetchedAt())),
		})))
	}
	if result, ok := diagnostic.Diagnose(err, m.opts.ServerAddress, m.opts.Locale); ok && result.Action != "" {
		lines = append(lines, StyleKeyDesc.Render("→ "+result.Action))
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return StyleBanner.Width(width).Render(strings.Join(lines, "\n"))
}

// renderFooter renders the key bindings for the current mode and tab
func (m *Model) renderFooter() string {
	var bindings []string

	switch m.view.Mode() {
	case nav.ModeInstanceDetail:
		bindings = append(bindings,
			RenderKeyBinding("esc", m.T("keys.back")),
			RenderKeyBinding("c", m.T("keys.checkpoints")),
			RenderKeyBinding("j/k", m.T("keys.scroll")),
			RenderKeyBinding("y", m.T("keys.copy")),
		)
	case nav.ModeCheckpointsList:
		bindings = append(bindings,
			RenderKeyBinding("esc", m.T("keys.back")),
			RenderKeyBinding("enter", m.T("keys.view_data")),
			RenderKeyBinding("j/k", m.T("keys.navigate")),
			RenderKeyBinding("y", m.T("keys.copy")),
		)
	case nav.ModeCheckpointDetail:
		bindings = append(bindings,
			RenderKeyBinding("esc", m.T("keys.back")),
			RenderKeyBinding("j/k", m.T("keys.scroll")),
			RenderKeyBinding("y", m.T("keys.copy")),
		)
	default:
		bindings = append(bindings,
			RenderKeyBinding("q", m.T("keys.quit")),
			RenderKeyBinding("tab", m.T("keys.switch_tab")),
			RenderKeyBinding("1-4", m.T("keys.tab")),
		)
		switch m.view.Tab() {
		case nav.TabInstances:
			bindings = append(bindings,
				RenderKeyBinding("j/k", m.T("keys.navigate")),
				RenderKeyBinding("enter", m.T("keys.detail")),
				RenderKeyBinding("f", m.T("keys.filter")),
				RenderKeyBinding("e", m.T("keys.export")),
			)
		case nav.TabImages:
			bindings = append(bindings,
				RenderKeyBinding("j/k", m.T("keys.navigate")),
				RenderKeyBinding("e", m.T("keys.export")),
			)
		case nav.TabMetrics:
			bindings = append(bindings,
				RenderKeyBinding("j/k", m.T("keys.navigate")),
				RenderKeyBinding("g", m.T("keys.granularity")),
				RenderKeyBinding("e", m.T("keys.export")),
			)
		}
	}
	bindings = append(bindings, RenderKeyBinding("r", m.T("keys.refresh")))

	footer := StyleKeyDesc.Render(strings.Join(bindings, " • "))

	if m.view.Mode() == nav.ModeList {
		remaining := m.scheduler.Remaining(m.now())
		secs := int((remaining + time.Second - 1) / time.Second)
		footer += "  " + StyleTextMuted.Render(m.TF("footer.next_refresh", map[string]interface{}{
			"Seconds": secs,
		}))
	}

	return footer
}

// contentHeight returns the number of lines available for the main content
func (m *Model) contentHeight() int {
	h := m.height - chromeHeight
	if m.store.LastError() != nil {
		h -= 5
	}
	if h < 5 {
		h = 5
	}
	return h
}

// renderScrolled shows a window of lines starting at the frame's scroll offset, clamped to the content
func (m *Model) renderScrolled(lines []string, scroll int) string {
	visible := m.contentHeight()
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}

	end := scroll + visible
	if end > len(lines) {
		end = len(lines)
	}

	out := strings.Join(lines[scroll:end], "\n")
	if maxScroll > 0 {
		out += "\n" + StyleTextMuted.Render(m.TF("common.scroll_position", map[string]interface{}{
			"Current": scroll + 1,
			"Max":     maxScroll + 1,
		}))
	}
	return out
}

// clampScroll writes the visible scroll range back into the view state so
// scrolling up after overscrolling takes effect on the first press
func (m *Model) clampScroll() {
	var lines []string
	top, _ := m.view.Top()
	switch top.Mode {
	case nav.ModeInstanceDetail:
		inst, ok := m.findInstance(top.InstanceID)
		if !ok {
			return
		}
		lines = m.instanceDetailLines(inst)
	case nav.ModeCheckpointDetail:
		lines = m.checkpointDetailLines(top)
	default:
		return
	}
	m.view = m.view.ClampScroll(len(lines) - m.contentHeight())
}

// listWindow returns the slice bounds that keep the selected row visible
func (m *Model) listWindow(total, selected int) (int, int) {
	visible := m.contentHeight() - 3
	if visible < 3 {
		visible = 3
	}
	if total <= visible {
		return 0, total
	}
	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
	}
	return start, end
}
