package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/kako/internal/filter"
)

// Focus slots inside the filter panel, cycled with tab.
const (
	focusQuery = iota
	focusChips
	focusStart
	focusEnd
	focusSlots
)

const dateLayout = "2006-01-02"

// filterPanel is the transient filter overlay. It is not a view state:
// opening and closing it never changes the controller phase.
type filterPanel struct {
	queryInput textinput.Model
	startInput textinput.Model
	endInput   textinput.Model
	keywords   []string
	selected   map[string]struct{}
	chipCursor int
	focus      int
	open       bool
	dateErr    string
}

func newFilterPanel() *filterPanel {
	qi := textinput.New()
	qi.Placeholder = "Search threads and replies…"
	qi.CharLimit = 256

	si := textinput.New()
	si.Placeholder = dateLayout
	si.CharLimit = len(dateLayout)
	si.Width = len(dateLayout) + 2

	ei := textinput.New()
	ei.Placeholder = dateLayout
	ei.CharLimit = len(dateLayout)
	ei.Width = len(dateLayout) + 2

	return &filterPanel{
		queryInput: qi,
		startInput: si,
		endInput:   ei,
		selected:   map[string]struct{}{},
	}
}

// SetKeywords installs the distinct keyword values once the archive loads.
func (p *filterPanel) SetKeywords(keywords []string) {
	p.keywords = keywords
}

// Open seeds the panel from the active filter state so reopening shows
// what is currently applied.
func (p *filterPanel) Open(state filter.State) {
	p.open = true
	p.focus = focusQuery
	p.chipCursor = 0
	p.dateErr = ""

	p.queryInput.SetValue(state.Query)
	p.selected = map[string]struct{}{}
	for k := range state.Keywords {
		p.selected[k] = struct{}{}
	}
	if state.Start != nil {
		p.startInput.SetValue(state.Start.Format(dateLayout))
	} else {
		p.startInput.Reset()
	}
	if state.End != nil {
		p.endInput.SetValue(state.End.Format(dateLayout))
	} else {
		p.endInput.Reset()
	}
	p.applyFocus()
}

func (p *filterPanel) Close() {
	p.open = false
	p.queryInput.Blur()
	p.startInput.Blur()
	p.endInput.Blur()
}

// Clear empties every control, mirroring a filter reset.
func (p *filterPanel) Clear() {
	p.queryInput.Reset()
	p.startInput.Reset()
	p.endInput.Reset()
	p.selected = map[string]struct{}{}
	p.dateErr = ""
}

func (p *filterPanel) CycleFocus(backward bool) {
	if backward {
		p.focus = (p.focus + focusSlots - 1) % focusSlots
	} else {
		p.focus = (p.focus + 1) % focusSlots
	}
	if p.focus == focusChips && len(p.keywords) == 0 {
		// Nothing to toggle; skip the chip row.
		if backward {
			p.focus = focusQuery
		} else {
			p.focus = focusStart
		}
	}
	p.applyFocus()
}

func (p *filterPanel) applyFocus() {
	p.queryInput.Blur()
	p.startInput.Blur()
	p.endInput.Blur()
	switch p.focus {
	case focusQuery:
		p.queryInput.Focus()
	case focusStart:
		p.startInput.Focus()
	case focusEnd:
		p.endInput.Focus()
	}
}

// textFocused reports whether a text input currently has focus.
func (p *filterPanel) textFocused() bool {
	return p.queryInput.Focused() || p.startInput.Focused() || p.endInput.Focused()
}

// HandleChipKey moves the chip cursor or toggles the selected chip.
// Returns true when the key was consumed.
func (p *filterPanel) HandleChipKey(key string) bool {
	if p.focus != focusChips || len(p.keywords) == 0 {
		return false
	}
	switch key {
	case "left", "h":
		if p.chipCursor > 0 {
			p.chipCursor--
		}
		return true
	case "right", "l":
		if p.chipCursor < len(p.keywords)-1 {
			p.chipCursor++
		}
		return true
	case " ", "space":
		kw := p.keywords[p.chipCursor]
		if _, ok := p.selected[kw]; ok {
			delete(p.selected, kw)
		} else {
			p.selected[kw] = struct{}{}
		}
		return true
	}
	return false
}

// UpdateInputs forwards the key to whichever text input has focus.
func (p *filterPanel) UpdateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case p.queryInput.Focused():
		p.queryInput, cmd = p.queryInput.Update(msg)
	case p.startInput.Focused():
		p.startInput, cmd = p.startInput.Update(msg)
	case p.endInput.Focused():
		p.endInput, cmd = p.endInput.Update(msg)
	}
	return cmd
}

// BuildState converts the panel's controls into a FilterState. A date range
// needs both bounds; a single bound or an unparsable date is rejected so
// the user can fix it instead of silently filtering nothing.
func (p *filterPanel) BuildState() (filter.State, error) {
	state := filter.State{
		Query: strings.TrimSpace(p.queryInput.Value()),
	}
	if len(p.selected) > 0 {
		state.Keywords = make(map[string]struct{}, len(p.selected))
		for k := range p.selected {
			state.Keywords[k] = struct{}{}
		}
	}

	startRaw := strings.TrimSpace(p.startInput.Value())
	endRaw := strings.TrimSpace(p.endInput.Value())
	if startRaw == "" && endRaw == "" {
		return state, nil
	}
	if startRaw == "" || endRaw == "" {
		return state, fmt.Errorf("date range needs both start and end")
	}

	start, err := time.ParseInLocation(dateLayout, startRaw, time.Local)
	if err != nil {
		return state, fmt.Errorf("invalid start date %q", startRaw)
	}
	end, err := time.ParseInLocation(dateLayout, endRaw, time.Local)
	if err != nil {
		return state, fmt.Errorf("invalid end date %q", endRaw)
	}
	if end.Before(start) {
		return state, fmt.Errorf("end date is before start date")
	}

	lo, hi := filter.DayRange(start, end)
	state.Start = &lo
	state.End = &hi
	return state, nil
}

// View renders the panel as a bordered overlay block.
func (p *filterPanel) View(width int) string {
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.queryInput.Width = inputWidth

	var rows []string
	rows = append(rows, HeaderStyle.Render("› filters"))
	rows = append(rows, "")
	rows = append(rows, renderInputFrame(p.queryInput.View(), p.queryInput.Focused(), inputWidth))

	if len(p.keywords) > 0 {
		rows = append(rows, renderMuted("keywords"))
		rows = append(rows, p.renderChips(width-8))
	}

	dates := lipgloss.JoinHorizontal(
		lipgloss.Top,
		renderInputFrame(p.startInput.View(), p.startInput.Focused(), p.startInput.Width),
		" — ",
		renderInputFrame(p.endInput.View(), p.endInput.Focused(), p.endInput.Width),
	)
	rows = append(rows, renderMuted("replied between"))
	rows = append(rows, dates)

	if p.dateErr != "" {
		rows = append(rows, ErrorMessageStyle.Render(p.dateErr))
	}

	rows = append(rows, "")
	rows = append(rows, renderHelp("Tab: next field • Space: toggle keyword • Enter: apply • Esc: close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (p *filterPanel) renderChips(maxWidth int) string {
	var chips []string
	for i, kw := range p.keywords {
		label := " " + kw + " "
		_, active := p.selected[kw]
		cursor := p.focus == focusChips && i == p.chipCursor

		style := KeywordChipStyle
		switch {
		case active && cursor:
			style = SelectedChipStyle.Underline(true)
		case active:
			style = SelectedChipStyle
		case cursor:
			style = KeywordChipStyle.Underline(true)
		}
		chips = append(chips, style.Render(label))
	}

	line := strings.Join(chips, " ")
	return lipgloss.NewStyle().MaxWidth(maxWidth).Render(line)
}
