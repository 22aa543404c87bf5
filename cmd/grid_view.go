package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/grid"
	"github.com/casthub/catadm/pkg/ui"
)

// chromeRows is the screen height consumed by header, search bar and footer
const chromeRows = 6

func (m *gridModel) View() string {
	if !m.ready {
		return "\n  Loading grid..."
	}

	switch m.mode {
	case gridHelp:
		return m.viewHelp()
	case gridConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewGrid()
	}
}

func (m *gridModel) viewGrid() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n")

	visible := m.visibleAssets()
	if len(visible) == 0 {
		empty := "No assets in this category."
		if m.searchInput.Value() != "" {
			empty = "No assets match your search."
		}
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(2, 4).
			Render(empty))
		s.WriteString("\n")
	} else {
		window := grid.Compute(len(visible), m.scrollTop, m.layout)
		s.WriteString(m.renderWindow(visible, window))
	}

	if m.mode == gridEditPrompt || m.mode == gridEditCountry {
		s.WriteString(m.renderEditBar())
		s.WriteString("\n")
	}

	s.WriteString(m.renderFooter(visible))

	return s.String()
}

// renderWindow renders only the rows the window covers. Rows above and
// below are represented by the position indicator in the footer, not by
// filler content.
func (m *gridModel) renderWindow(visible []domain.Asset, w grid.Window) string {
	var s strings.Builder

	cardWidth := m.width/m.layout.Columns - 2
	if cardWidth < 16 {
		cardWidth = 16
	}

	for row := w.FirstRow; row <= w.LastRow; row++ {
		cards := make([]string, 0, m.layout.Columns)
		for col := 0; col < m.layout.Columns; col++ {
			idx := row*m.layout.Columns + col
			if idx >= len(visible) {
				break
			}
			cards = append(cards, m.renderCard(visible[idx], idx, cardWidth))
		}
		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		s.WriteString("\n")
	}

	return s.String()
}

func (m *gridModel) renderCard(a domain.Asset, idx, width int) string {
	// Rendering is the visibility trigger: a card inside the window starts
	// its media load exactly once per mount
	cell := m.cells.Get(a.ID, a.MediaURL)
	cell.EnterView(m.ctx)

	style := ui.StyleCard
	switch {
	case m.drag.Active() && idx == m.cursor:
		style = ui.StyleCardDragging
	case idx == m.cursor:
		style = ui.StyleCardCursor
	case m.selection.Has(a.ID):
		style = ui.StyleCardSelected
	}

	var media string
	switch cell.State() {
	case grid.CellLoading:
		media = ui.StyleMuted.Render("⋯ loading")
	case grid.CellLoaded:
		media = ui.StyleInfo.Render(fmt.Sprintf("▦ %dKB", len(cell.Data())/1024))
	case grid.CellFailed:
		media = ui.StyleError.Render("✘ media unavailable")
	default:
		media = ui.StyleMuted.Render("·")
	}

	marks := ""
	if m.selection.Has(a.ID) {
		marks += ui.StyleAccent.Render(ui.IconSelected + " ")
	}
	if a.IsPremium {
		marks += ui.StylePremiumBadge.Render(ui.IconPremium + " ")
	}
	if m.overlay.Pending(a.ID) || m.dispatcher.InFlight(a.ID) {
		marks += ui.StyleCardPending.Render(ui.IconPending)
	}

	title := fmt.Sprintf("#%-3d %s", a.Order, truncate(a.ID, width-12))
	meta := fmt.Sprintf("×%d  %s", a.Count, a.Country)
	prompt := ui.StyleMuted.Render(truncate(a.Prompt, width-4))

	content := fmt.Sprintf("%s %s\n%s  %s\n%s", title, marks, media, meta, prompt)
	return style.Width(width).Render(content)
}

func (m *gridModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Render(m.category.Name)

	info := fmt.Sprintf("%d assets", m.pagination.Total)
	if m.pagination.TotalPages > 1 {
		info += fmt.Sprintf("  page %d/%d", m.pagination.Page, m.pagination.TotalPages)
	}
	if n := m.selection.Count(); n > 0 {
		info += fmt.Sprintf("  %d selected", n)
	}
	if n := m.dispatcher.PendingCount(); n > 0 {
		info += fmt.Sprintf("  %s %d pending", ui.IconPending, n)
	}
	stats := ui.StyleMuted.Render(info)

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func (m *gridModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == gridSearch {
		borderColor = ui.ColorPrimary
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 4)

	content := m.searchInput.View()
	if m.mode != gridSearch && m.searchInput.Value() == "" {
		content = ui.StyleMuted.Render("Press / to search...")
	}
	return style.Render(content)
}

func (m *gridModel) renderEditBar() string {
	label := "Prompt"
	if m.mode == gridEditCountry {
		label = "Country"
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorAccent).
		Padding(0, 1).
		Width(m.width-4).
		Render(ui.StyleAccent.Render(label+": ") + m.editInput.View())
}

func (m *gridModel) renderFooter(visible []domain.Asset) string {
	var statusLine string
	if m.message != "" {
		statusLine = m.messageStyle.Render(m.message)
	} else if len(visible) > 0 {
		w := grid.Compute(len(visible), m.scrollTop, m.layout)
		if w.Bypass {
			statusLine = ui.StyleMuted.Render(fmt.Sprintf("%d assets", len(visible)))
		} else {
			statusLine = ui.StyleMuted.Render(fmt.Sprintf("assets %d-%d of %d  rows %d/%d",
				w.First+1, w.Last+1, len(visible), w.LastRow+1, w.TotalRows))
		}
	} else {
		statusLine = ui.StyleMuted.Render("Ready")
	}

	hint := "[hjkl] Move  [space] Select  [p +/- e c] Edit  [m] Reorder  [d/D] Delete  [?] Help  [q] Quit"
	if m.drag.Active() {
		hint = "[hjkl] Move card  [m] Drop  [esc] Cancel"
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, statusLine, ui.StyleMuted.Render(hint)))
}

func (m *gridModel) viewConfirmDelete() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(56).
		Align(lipgloss.Center)

	subject := "1 asset"
	if n := len(m.deleteIDs); n > 1 {
		subject = fmt.Sprintf("%d assets", n)
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s",
		ui.StyleWarning.Render("Delete "+subject+"?"),
		ui.StyleMuted.Render(strings.Join(m.deleteIDs, ", ")),
		"Press 'y' to confirm, 'n' or ESC to cancel",
	)

	box := boxStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *gridModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(1, 2)
	sectionStyle := lipgloss.NewStyle().Foreground(ui.ColorAccent).Bold(true).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)

	s.WriteString(titleStyle.Render("Asset Grid - Keyboard Shortcuts"))
	s.WriteString("\n")

	sections := []struct {
		title string
		keys  []struct{ key, desc string }
	}{
		{
			title: "Navigation",
			keys: []struct{ key, desc string }{
				{"←↓↑→ / hjkl", "Move cursor"},
				{"g / G", "Jump to start / end"},
				{"[ / ]", "Previous / next page"},
			},
		},
		{
			title: "Editing",
			keys: []struct{ key, desc string }{
				{"p", "Toggle premium (selection: mark premium)"},
				{"+ / -", "Increment / decrement count"},
				{"e", "Edit prompt (saved as you type)"},
				{"c", "Edit country code"},
				{"d", "Delete asset (with confirmation)"},
			},
		},
		{
			title: "Selection & Reorder",
			keys: []struct{ key, desc string }{
				{"space", "Toggle selection"},
				{"a", "Select all"},
				{"x", "Clear selection"},
				{"D", "Delete selection"},
				{"m", "Pick up / drop card"},
			},
		},
		{
			title: "Other",
			keys: []struct{ key, desc string }{
				{"y", "Copy media URL"},
				{"/", "Search"},
				{"r", "Refresh from backend"},
				{"q", "Quit"},
			},
		},
	}

	for _, section := range sections {
		s.WriteString(sectionStyle.Render(section.title))
		s.WriteString("\n")
		for _, binding := range section.keys {
			s.WriteString("  ")
			s.WriteString(keyStyle.Render(binding.key))
			s.WriteString(descStyle.Render(binding.desc))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to the grid"))
	s.WriteString("\n")

	return s.String()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	// Slice runes, not bytes, so multibyte prompts stay valid UTF-8
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
