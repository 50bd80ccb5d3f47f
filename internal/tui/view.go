package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Slide Narrator"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeEntry:
		b.WriteString(m.entryView())
	case modeBeginning:
		b.WriteString(m.spinner.View() + " Splitting text into captions...")
	case modeList:
		b.WriteString(m.listView())
	case modeEdit:
		b.WriteString(m.editView())
	case modeConfirm:
		b.WriteString(m.listView())
		b.WriteString("\n")
		b.WriteString(dialogStyle.Render(m.confirm.question))
	}

	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(renderNotice(m.noticeKind, m.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) entryView() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Presentation text"))
	b.WriteString("\n")
	b.WriteString(m.script.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Base name"))
	b.WriteString("\n")
	b.WriteString(m.baseInput.View())
	return b.String()
}

func (m Model) editView() string {
	title := "Edit caption"
	if m.inserting {
		title = "New caption"
	}
	return labelStyle.Render(title) + "\n" + m.editor.View()
}

func (m Model) listView() string {
	var b strings.Builder
	list := m.sess.Store().Units()

	slide := "none"
	if order, ok := m.selectedSlide(); ok {
		slide = fmt.Sprintf("%d (%d/%d)", order, m.slideIdx+1, len(m.slideOrders))
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %d/%d ok\n\n",
		labelStyle.Render("Base:"), m.sess.BaseName(),
		labelStyle.Render("Slide:"), slide,
		labelStyle.Render("Audio:"), countStatus(list, units.Success), len(list)))

	if len(list) == 0 {
		b.WriteString(helpStyle.Render("No captions. Press a to add one."))
	}

	start, end := visibleRange(len(list), m.cursor, m.listHeight())
	for _, u := range list[start:end] {
		b.WriteString(m.renderRow(u, u.Seq-1 == m.cursor))
		b.WriteString("\n")
	}

	if m.synthBatch {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " ")
		b.WriteString(m.progress.ViewAs(fraction(m.synthDone, m.synthTotal)))
		b.WriteString(fmt.Sprintf(" %d/%d", m.synthDone, m.synthTotal))
	} else if m.sess.SynthesisRunning() {
		b.WriteString("\n" + m.spinner.View() + " Regenerating...")
	}
	if m.publishing {
		b.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" Publishing... %d uploaded", m.published))
	}
	return b.String()
}

func (m Model) renderRow(u units.Unit, selected bool) string {
	width := max(m.width-2, 60)
	status := statusStyles[u.Status.String()].Render(fmt.Sprintf("%-7s", u.Status))
	prefix := fmt.Sprintf("%3d  %s  %3dw  ", u.Seq, status, u.WordCount)
	line := prefix + truncate(u.Text, width-lipgloss.Width(prefix))

	style := evenRowStyle
	if u.Row == units.RowOdd {
		style = oddRowStyle
	}
	if selected {
		style = selectedRowStyle
	}
	return style.Width(width).Render(line)
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeEntry:
		return "tab: switch field • ctrl+s: start • esc: quit"
	case modeEdit:
		return "ctrl+s: save • esc: cancel"
	case modeConfirm:
		return "y: yes • n: no"
	case modeList:
		return "↑/↓: select • a: add • e: edit • d: delete • K/J: move • g: generate all • r: regenerate • p: play • [/]: slide • u: publish • x: export • n: new • q: quit"
	}
	return ""
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	return max(m.height-12, 3)
}

func renderNotice(kind noticeKind, text string) string {
	switch kind {
	case noticeError:
		return errorStyle.Render(text)
	case noticeWarn:
		return warnStyle.Render(text)
	default:
		return infoStyle.Render(text)
	}
}

// visibleRange returns the window of rows to draw so the cursor stays on screen.
func visibleRange(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

func fraction(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
