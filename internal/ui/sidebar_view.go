package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sidebarkit/internal/domain"
	"sidebarkit/internal/services"
	"sidebarkit/internal/theme"
)

// sidebarFrame returns the container style for a sidebar variant
func sidebarFrame(sb domain.Sidebar, focused bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch sb.Variant {
	case domain.VariantFloating:
		style = style.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor(focused))
	case domain.VariantInset:
		style = style.
			Background(theme.ColorInsetBg).
			Padding(0, 1)
		if focused {
			style = style.
				Border(lipgloss.Border{Left: "▎"}, false, false, false, true).
				BorderForeground(theme.ColorFocused)
		}
	default:
		// Only the edge facing the content gets a border
		style = style.
			Border(lipgloss.NormalBorder(), false, sb.Side == domain.SideLeft, false, sb.Side == domain.SideRight).
			BorderForeground(theme.BorderColor(focused))
	}
	return style
}

// renderSidebar draws one sidebar into a width x height box
func renderSidebar(decl services.SidebarDeclaration, sb domain.Sidebar, expanded bool, width, height int, focused bool) string {
	frame := sidebarFrame(sb, focused)
	innerWidth := max(width-frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-frame.GetVerticalFrameSize(), 1)

	var body string
	if expanded {
		body = renderExpanded(decl, sb, innerWidth)
	} else {
		body = renderCollapsed(decl, sb, innerWidth)
	}

	return frame.
		Width(innerWidth + frame.GetHorizontalPadding()).
		Height(innerHeight).
		MaxHeight(height).
		Render(body)
}

func renderExpanded(decl services.SidebarDeclaration, sb domain.Sidebar, width int) string {
	var b strings.Builder
	b.WriteString(theme.SidebarTitleStyle.Render(truncate(decl.Title, width)))
	b.WriteString("\n")

	for _, item := range decl.Items {
		if item == sb.ActiveItem {
			b.WriteString(theme.ActiveItemStyle.Render(truncate("▸ "+item, width)))
		} else {
			b.WriteString(theme.ItemStyle.Render(truncate("  "+item, width)))
		}
		b.WriteString("\n")
	}

	if sb.KeyboardShortcut != "" {
		b.WriteString("\n")
		b.WriteString(theme.ShortcutStyle.Render(truncate(terminalShortcut(sb.KeyboardShortcut), width)))
	}
	return b.String()
}

func renderCollapsed(decl services.SidebarDeclaration, sb domain.Sidebar, width int) string {
	lines := []string{theme.SidebarTitleStyle.Render(initial(decl.Title))}
	for _, item := range decl.Items {
		style := theme.CollapsedStyle
		if item == sb.ActiveItem {
			style = theme.ActiveItemStyle
		}
		lines = append(lines, style.Width(width).Render(initial(item)))
	}
	return strings.Join(lines, "\n")
}

// initial returns the first rune of s in upper case
func initial(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return "·"
}

// truncate shortens s to width cells
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)+"…") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// stateLine summarizes a sidebar record for the content panel
func stateLine(sb domain.Sidebar, isMobile bool) string {
	status := theme.ClosedStyle.Render("closed")
	if sb.IsOpen(isMobile) {
		status = theme.OpenStyle.Render("open  ")
	}

	parts := []string{
		theme.NormalStyle.Render(padRight(sb.ID, 12)),
		status,
		theme.LabelStyle.Render(padRight(string(sb.Variant), 9)),
		theme.LabelStyle.Render(padRight(string(sb.Side), 6)),
	}
	if sb.KeyboardShortcut != "" {
		parts = append(parts, theme.ShortcutStyle.Render(sb.KeyboardShortcut))
	}
	return strings.Join(parts, " ")
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
