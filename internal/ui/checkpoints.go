package ui

import (
	"fmt"
	"strings"

	"github.com/yourusername/runtara-monitor/internal/nav"
)

// renderCheckpoints renders the checkpoints of the instance on top of the stack
func (m *Model) renderCheckpoints() string {
	top, _ := m.view.Top()

	var b strings.Builder
	b.WriteString(StyleSubHeader.Render(m.TF("checkpoints.title", map[string]interface{}{
		"ID":    top.InstanceID,
		"Count": len(m.checkpoints),
	})))
	b.WriteString("\n")

	switch {
	case m.checkpointsLoading:
		b.WriteString("\n" + m.spinner.View() + StyleTextMuted.Render(m.T("checkpoints.loading")))
		return b.String()
	case m.checkpointsErr != nil:
		b.WriteString("\n" + StyleError.Render(fmt.Sprintf("%s: %v", m.T("checkpoints.load_failed"), m.checkpointsErr)))
		return b.String()
	case len(m.checkpoints) == 0:
		b.WriteString("\n" + StyleTextMuted.Render(m.T("checkpoints.empty")))
		return b.String()
	}

	widths := []int{40, 8, 19, 12}
	b.WriteString(StyleHeader.Render(renderRow([]string{
		m.T("checkpoints.col.id"),
		m.T("checkpoints.col.sequence"),
		m.T("checkpoints.col.created"),
		m.T("checkpoints.col.size"),
	}, widths)))
	b.WriteString("\n")

	cursor := m.view.Cursor(nav.ListCheckpoints)
	start, end := m.listWindow(len(m.checkpoints), cursor.Index)
	for i := start; i < end; i++ {
		cp := m.checkpoints[i]
		row := renderRow([]string{
			cp.ID,
			fmt.Sprintf("%d", cp.Sequence),
			formatTime(cp.CreatedAt),
			FormatBytes(cp.SizeBytes),
		}, widths)
		if i == cursor.Index {
			row = StyleSelected.Render(row)
		}
		b.WriteString(row + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderCheckpointDetail renders one checkpoint and its decoded state
func (m *Model) renderCheckpointDetail() string {
	top, _ := m.view.Top()
	return m.renderScrolled(m.checkpointDetailLines(top), top.Scroll)
}

func (m *Model) checkpointDetailLines(top nav.Frame) []string {
	field := func(labelKey, value string) string {
		return "  " + padRight(StyleTextMuted.Render(m.T(labelKey)+":"), 16) + value
	}

	lines := []string{
		StyleSubHeader.Render(m.T("checkpoint.title")),
		"",
		field("checkpoint.id", top.CheckpointID),
		field("checkpoint.instance", top.InstanceID),
	}
	if cp, ok := m.findCheckpoint(top.CheckpointID); ok {
		lines = append(lines,
			field("checkpoint.created", formatTime(cp.CreatedAt)),
			field("checkpoint.size", FormatBytes(cp.SizeBytes)),
		)
	}
	lines = append(lines, "", "  "+StyleTextMuted.Render(m.T("checkpoint.data")+":"))

	switch {
	case m.checkpointLoading:
		lines = append(lines, "    "+m.spinner.View()+StyleTextMuted.Render(m.T("checkpoint.loading")))
	case m.checkpointDataErr != nil:
		lines = append(lines, "    "+StyleError.Render(fmt.Sprintf("%s: %v", m.T("checkpoint.load_failed"), m.checkpointDataErr)))
	case m.checkpointData == nil:
		lines = append(lines, "    "+StyleTextMuted.Render("-"))
	case !m.checkpointData.Readable:
		lines = append(lines, "    "+StyleWarning.Render(m.TF("checkpoint.unreadable", map[string]interface{}{
			"Size": FormatBytes(int64(len(m.checkpointData.Raw))),
		})))
	default:
		for _, line := range strings.Split(m.checkpointData.Pretty, "\n") {
			lines = append(lines, "    "+line)
		}
	}
	return lines
}
