package ui

import (
	"fmt"
	"strings"

	"github.com/yourusername/runtara-monitor/internal/nav"
)

// renderImages renders the registered images
func (m *Model) renderImages() string {
	snap := m.store.Snapshot()
	if snap == nil {
		return StyleTextMuted.Render(m.T("common.loading"))
	}

	var b strings.Builder
	b.WriteString(StyleSubHeader.Render(fmt.Sprintf("%s (%d)", m.T("tabs.images"), len(snap.Images))))
	b.WriteString("\n")

	if len(snap.Images) == 0 {
		b.WriteString("\n" + StyleTextMuted.Render(m.T("images.empty")))
		return b.String()
	}

	widths := []int{36, 30, 20, 10, 19, 30}
	b.WriteString(StyleHeader.Render(renderRow([]string{
		m.T("images.col.id"),
		m.T("images.col.name"),
		m.T("images.col.tenant"),
		m.T("images.col.runner"),
		m.T("images.col.created"),
		m.T("images.col.description"),
	}, widths)))
	b.WriteString("\n")

	cursor := m.view.Cursor(nav.ListImages)
	start, end := m.listWindow(len(snap.Images), cursor.Index)
	for i := start; i < end; i++ {
		img := snap.Images[i]
		row := renderRow([]string{
			img.ID,
			img.Reference(),
			img.TenantID,
			orDash(img.RunnerType),
			formatTime(img.CreatedAt),
			orDash(img.Description),
		}, widths)
		if i == cursor.Index {
			row = StyleSelected.Render(row)
		}
		b.WriteString(row + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
