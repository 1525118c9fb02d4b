package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/kako/internal/config"
	"github.com/pders01/kako/internal/search"
	"github.com/pders01/kako/internal/viewstate"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.panel.open {
		return kh.handlePanelMode(msg)
	}

	if kh.app.searchMode && kh.app.searchInput.Focused() {
		return kh.handleSearchInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg.String()); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

// handlePanelMode owns every key while the filter panel is open. Escape
// closes the panel before anything else happens, per the contextual-cancel
// rule.
func (kh *KeyHandler) handlePanelMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return kh.app, tea.Quit
	case "esc":
		kh.app.panel.Close()
		return kh.app, nil
	case "tab":
		kh.app.panel.CycleFocus(false)
		return kh.app, nil
	case "shift+tab":
		kh.app.panel.CycleFocus(true)
		return kh.app, nil
	case "enter":
		return kh.applyFilters()
	case kh.modifierKey + kh.config.Keys.Bindings.Reset:
		return kh.resetFilters()
	}

	if kh.app.panel.HandleChipKey(key) {
		return kh.app, nil
	}

	cmd := kh.app.panel.UpdateInputs(msg)
	return kh.app, cmd
}

// applyFilters replaces the filter state wholesale from the panel.
func (kh *KeyHandler) applyFilters() (tea.Model, tea.Cmd) {
	state, err := kh.app.panel.BuildState()
	if err != nil {
		kh.app.panel.dateErr = err.Error()
		return kh.app, nil
	}

	kh.app.ctrl.Apply(state)
	kh.app.refreshThreadList()
	kh.app.panel.Close()
	kh.app.err = nil

	if state.Active() {
		kh.app.setStatus(MsgFiltersApplied, StatusInfo)
	} else {
		kh.app.setStatus(MsgFiltersReset, StatusInfo)
	}
	return kh.app, nil
}

// resetFilters clears all criteria, from any surface.
func (kh *KeyHandler) resetFilters() (tea.Model, tea.Cmd) {
	kh.app.ctrl.Reset()
	kh.app.panel.Clear()
	kh.app.refreshThreadList()
	kh.app.setStatus(MsgFiltersReset, StatusInfo)
	return kh.app, nil
}

func (kh *KeyHandler) handleSearchInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		return kh.exitSearchMode()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if i, ok := items[0].(searchResultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, nil
	case "tab", "down":
		if len(kh.app.searchList.Items()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.searchList.Select(0)
		}
		return kh.app, nil
	default:
		return kh.delegateToSearchInput(msg)
	}
}

// delegateToSearchInput passes the key to the search input with debounce
// scheduling, so the engine runs only after typing pauses.
func (kh *KeyHandler) delegateToSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	newVal := sanitizeSearchInput(kh.app.searchInput.Value())
	if newVal != prev {
		kh.app.pendingSearchQuery = newVal
		kh.app.searchSeq++
		seq := kh.app.searchSeq
		wait := time.Duration(kh.app.searchDebounceMillis) * time.Millisecond
		return kh.app, tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg { return searchDebounceFireMsg{seq: seq} }))
	}
	return kh.app, cmd
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", kh.config.Keys.Bindings.Quit:
		return kh.app, tea.Quit, true
	case "esc":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.modifierKey + kh.config.Keys.Bindings.Search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.modifierKey + kh.config.Keys.Bindings.Filter:
		model, cmd := kh.openFilterPanel()
		return model, cmd, true
	case kh.modifierKey + kh.config.Keys.Bindings.Reset:
		model, cmd := kh.resetFilters()
		return model, cmd, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.currentView() {
	case ViewThreads:
		kh.app.threadList, cmd = kh.app.threadList.Update(msg)
		if msg.String() == "enter" {
			return kh.selectThread(kh.app.threadList.Index())
		}
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	case ViewSearch:
		if !kh.app.searchInput.Focused() {
			switch msg.String() {
			case "tab", "shift+tab", "/", "i":
				kh.app.searchInput.Focus()
				return kh.app, nil
			case "up":
				if len(kh.app.searchList.Items()) > 0 && kh.app.searchList.Index() == 0 {
					kh.app.searchInput.Focus()
					return kh.app, nil
				}
			}
		}

		kh.app.searchList, cmd = kh.app.searchList.Update(msg)
		if msg.String() == "enter" && !kh.app.searchInput.Focused() {
			if i, ok := kh.app.searchList.SelectedItem().(searchResultItem); ok {
				return kh.selectSearchResult(i)
			}
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// selectThread enters the detail view for the visible thread at idx.
func (kh *KeyHandler) selectThread(idx int) (tea.Model, tea.Cmd) {
	visible := kh.app.ctrl.Visible()
	if idx < 0 || idx >= len(visible) {
		return kh.app, nil
	}

	if err := kh.app.ctrl.Select(visible[idx]); err != nil {
		kh.app.err = wrapErr("selecting thread", err)
		return kh.app, nil
	}

	kh.app.loadingDetail = true
	detail := kh.app.ctrl.Render().Detail
	return kh.app, tea.Batch(kh.app.spin.Tick, kh.app.renderDetail(detail))
}

// selectSearchResult opens the thread behind a ranked search hit.
func (kh *KeyHandler) selectSearchResult(result searchResultItem) (tea.Model, tea.Cmd) {
	if result.result == nil || result.result.Thread == nil {
		return kh.app, nil
	}

	kh.app.searchMode = false
	kh.app.searchInput.Reset()
	kh.app.searchList.SetItems([]list.Item{})

	// A within-thread hit points at the thread already open in detail.
	if kh.app.ctrl.Selected() == result.result.Thread {
		return kh.app, nil
	}

	if err := kh.app.ctrl.Select(result.result.Thread); err != nil {
		// The hit may be filtered out of the current list; surface that
		// instead of bypassing the state machine.
		kh.app.setStatus(fmt.Sprintf("Cannot open thread: %v", err), StatusWarn)
		return kh.app, nil
	}

	kh.app.loadingDetail = true
	detail := kh.app.ctrl.Render().Detail
	return kh.app, tea.Batch(kh.app.spin.Tick, kh.app.renderDetail(detail))
}

// navigateBack implements contextual back navigation: filter panel first,
// then search mode, then detail.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	if kh.app.panel.open {
		kh.app.panel.Close()
		return kh.app, nil
	}

	if kh.app.searchMode {
		return kh.exitSearchMode()
	}

	if kh.app.ctrl.Phase() == viewstate.PhaseDetail {
		kh.app.ctrl.Back()
		return kh.app, nil
	}

	return kh.app, tea.Quit
}

// openFilterPanel shows the filter overlay seeded from the active state.
func (kh *KeyHandler) openFilterPanel() (tea.Model, tea.Cmd) {
	switch kh.app.ctrl.Phase() {
	case viewstate.PhaseLoading, viewstate.PhaseError:
		return kh.app, nil
	}

	if kh.app.searchMode {
		kh.exitSearchMode()
	}
	kh.app.panel.Open(kh.app.ctrl.FilterState())
	return kh.app, nil
}

func (kh *KeyHandler) exitSearchMode() (tea.Model, tea.Cmd) {
	kh.app.searchMode = false
	kh.app.searchInput.Reset()
	kh.app.pendingSearchQuery = ""
	kh.app.searchList.SetItems([]list.Item{})
	return kh.app, nil
}

// enterSearchMode transitions to the ranked search surface.
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	switch kh.app.ctrl.Phase() {
	case viewstate.PhaseLoading, viewstate.PhaseError:
		return kh.app, nil
	}

	kh.app.searchMode = true
	kh.app.searchInput.Reset()
	kh.app.searchInput.Focus()
	kh.app.searchList.SetItems([]list.Item{})

	if ds, ok := kh.app.searcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			kh.app.setStatus(fmt.Sprintf("Search: %T • idx: %d", kh.app.searcher, n), StatusInfo)
			return kh.app, nil
		}
	}
	kh.app.setStatus(fmt.Sprintf("Search: %T", kh.app.searcher), StatusInfo)
	return kh.app, nil
}

// sanitizeSearchInput trims and limits search input length.
func sanitizeSearchInput(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > 256 {
		input = input[:256]
	}
	return input
}

// GetHelpForCurrentView returns status-bar key hints for the active surface.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	mod := kh.modifierKey
	b := kh.config.Keys.Bindings

	switch kh.app.currentView() {
	case ViewThreads:
		return []string{
			"enter: open",
			mod + b.Filter + ": filters",
			mod + b.Search + ": search",
			mod + b.Reset + ": reset",
			b.Quit + ": quit",
		}
	case ViewDetail:
		return []string{
			"↑↓: scroll",
			"esc: back",
			mod + b.Search + ": search",
			b.Quit + ": quit",
		}
	case ViewSearch:
		return nil
	case ViewError:
		return []string{b.Quit + ": quit"}
	default:
		return nil
	}
}
