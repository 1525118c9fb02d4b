package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/kako/internal/archive"
	"github.com/pders01/kako/internal/config"
	"github.com/pders01/kako/internal/debuglog"
	"github.com/pders01/kako/internal/search"
	"github.com/pders01/kako/internal/viewstate"
)

type App struct {
	config     *config.Config
	loader     *archive.Loader
	ctrl       *viewstate.Controller
	searcher   search.Searcher
	keyHandler *KeyHandler

	threadList  list.Model
	searchList  list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	spin        spinner.Model
	help        help.Model
	panel       *filterPanel

	searchMode           bool
	pendingSearchQuery   string
	searchSeq            int
	searchDebounceMillis int

	width         int
	height        int
	err           error
	status        string
	statusKind    StatusKind
	loadingDetail bool

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config) *App {
	threadList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	threadList.Title = "› threads"
	threadList.SetShowStatusBar(false)
	threadList.SetShowHelp(true)
	// The filter panel is the filtering mechanism; the list's own fuzzy
	// filter would fight it.
	threadList.SetFilteringEnabled(false)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	si := textinput.New()
	si.Placeholder = "Search threads and replies…"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	vp := viewport.New(0, 0)

	app := &App{
		config:               cfg,
		loader:               archive.NewLoader(cfg.Archive.Source, cfg.Archive.UserAgent, cfg.Archive.HTTPTimeout),
		ctrl:                 viewstate.NewController(),
		threadList:           threadList,
		searchList:           searchList,
		searchInput:          si,
		viewport:             vp,
		spin:                 sp,
		help:                 help.New(),
		panel:                newFilterPanel(),
		searchDebounceMillis: cfg.Search.DebounceMillis,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// currentView derives the drawn surface from controller phase plus the
// presentation-only search mode.
func (a *App) currentView() View {
	if a.searchMode {
		return ViewSearch
	}
	switch a.ctrl.Phase() {
	case viewstate.PhaseLoading:
		return ViewLoading
	case viewstate.PhaseError:
		return ViewError
	case viewstate.PhaseDetail:
		return ViewDetail
	default:
		return ViewThreads
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > a.config.UI.Card.WordWrapMaxWidth {
		wordWrapWidth = a.config.UI.Card.WordWrapMaxWidth
	}
	if wordWrapWidth < a.config.UI.Card.WordWrapMinWidth {
		wordWrapWidth = a.config.UI.Card.WordWrapMinWidth
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spin.Tick,
		a.loadArchive(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.threadList.SetSize(msg.Width, msg.Height-3)
		// Search view layout needs room for input and help chrome
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.ctrl.Phase() == viewstate.PhaseLoading || a.loadingDetail {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case archiveLoadedMsg:
		a.ctrl.SetLoaded(msg.collection)
		a.panel.SetKeywords(a.ctrl.Keywords())
		a.initSearcher()
		a.refreshThreadList()
		a.setStatus(MsgLoadedSummary(len(msg.collection.Threads), len(msg.collection.Keywords)), StatusSuccess)

	case archiveLoadFailedMsg:
		a.ctrl.SetLoadFailed(msg.err)

	case detailRenderedMsg:
		if a.currentView() == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
		}

	case searchDebounceFireMsg:
		if a.searchMode && msg.seq == a.searchSeq && len(a.pendingSearchQuery) > 1 {
			if a.ctrl.Phase() == viewstate.PhaseDetail && a.ctrl.Selected() != nil {
				cmds = append(cmds, a.performSearchWithScope(a.pendingSearchQuery, "thread"))
			} else {
				cmds = append(cmds, a.performSearch(a.pendingSearchQuery))
			}
		}

	case searchResultsMsg:
		if a.searchMode {
			items := make([]list.Item, len(msg.results))
			for i, r := range msg.results {
				items[i] = r
			}
			a.searchList.SetItems(items)
			if len(msg.results) == 0 {
				a.setStatus(MsgNoResults, StatusInfo)
			} else {
				a.setStatus(MsgResultsCount(len(msg.results)), StatusInfo)
			}
		}

	case errorMsg:
		a.err = msg.err
	}

	// Non-key messages still flow to the focused component.
	switch a.currentView() {
	case ViewThreads:
		if !a.panel.open {
			newListModel, cmd := a.threadList.Update(msg)
			a.threadList = newListModel
			cmds = append(cmds, cmd)
		}
	case ViewDetail:
		switch msg.(type) {
		case tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewSearch:
		// Cursor blink and other component ticks.
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// initSearcher picks the ranked search backend per config. A bleve failure
// falls back to the memory engine rather than aborting the session.
func (a *App) initSearcher() {
	threads := a.ctrl.Threads()
	if a.config.Search.Engine == "bleve" {
		s, err := search.NewBleveEngine(threads)
		if err == nil {
			a.searcher = s
			return
		}
		debuglog.Warnf("bleve engine unavailable, using memory engine: %v", err)
	}
	a.searcher = search.NewEngine(threads)
}

// refreshThreadList projects the controller's visible set into the list.
func (a *App) refreshThreadList() {
	model := a.ctrl.Render()
	items := make([]list.Item, len(model.List))
	for i, s := range model.List {
		items[i] = threadItem{summary: s, maxPreview: a.config.UI.Card.MaxPreviewLength}
	}
	a.threadList.SetItems(items)
	a.threadList.ResetSelected()
}

func (a *App) setStatus(message string, kind StatusKind) {
	a.status = message
	a.statusKind = kind
}

func (a *App) View() string {
	var content string

	switch a.currentView() {
	case ViewLoading:
		content = renderCentered(a.width, a.height-3,
			a.spin.View()+" "+renderMuted(MsgLoadingArchive))

	case ViewError:
		model := a.ctrl.Render()
		content = renderCentered(a.width, a.height-3,
			lipgloss.JoinVertical(
				lipgloss.Center,
				ErrorMessageStyle.Render("✗ Failed to load archive"),
				"",
				lipgloss.NewStyle().Foreground(TextColor).Width(min(a.width-8, 70)).Render(model.Message),
				"",
				renderHelp("The archive could not be loaded. Press q to quit."),
			))

	case ViewThreads:
		if a.panel.open {
			content = renderCentered(a.width, a.height-3, a.panel.View(min(a.width-4, 72)))
			break
		}
		if a.ctrl.Phase() == viewstate.PhaseEmpty {
			model := a.ctrl.Render()
			hint := model.Message
			if a.ctrl.FilterState().Active() {
				hint += " — press " + a.keyHandler.modifierKey + "r to reset"
			}
			content = renderCentered(a.width, a.height-3, GetEmptyMessage(hint))
			break
		}
		content = a.threadList.View()

	case ViewDetail:
		if a.panel.open {
			content = renderCentered(a.width, a.height-3, a.panel.View(min(a.width-4, 72)))
			break
		}
		if a.loadingDetail {
			content = renderCentered(a.width, a.height-3,
				a.spin.View()+" "+renderMuted("Rendering thread…"))
			break
		}
		content = a.viewport.View()

	case ViewSearch:
		content = a.renderSearchView()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := SeparatorStyle.Render(strings.Repeat("─", separatorWidth+1))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

func (a *App) renderSearchView() string {
	searchInputWidth := a.width - 8
	if searchInputWidth < 10 {
		searchInputWidth = a.width - 4
	}
	a.searchInput.Width = searchInputWidth

	searchInput := renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), searchInputWidth)

	helpText := ""
	switch {
	case a.searchInput.Focused():
		helpText = "Type to search • Tab/↓: results • Esc: back"
	case len(a.searchList.Items()) > 0:
		helpText = "↑↓: navigate • Enter: open thread • Tab/↑: search box • Esc: back"
	default:
		helpText = "No results found • Tab/↑: search box • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader("› search", "", a.width),
		"",
		searchInput,
		renderMuted(helpText),
		"",
		a.searchList.View(),
	)

	return ContentWrapper(a.width, a.height-3).Render(searchContent)
}

func (a *App) getCustomStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()

	if a.err != nil {
		errorText := ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err))
		return StatusBarStyle.Width(a.width).Render(errorText)
	}

	var parts []string
	if a.status != "" {
		style := StatusBarStyle
		switch a.statusKind {
		case StatusSuccess:
			style = style.Foreground(SuccessColor)
		case StatusWarn:
			style = style.Foreground(KeywordColor)
		case StatusError:
			style = style.Foreground(ErrorColor)
		}
		parts = append(parts, style.Render(a.status))
	}

	if a.ctrl.FilterState().Active() && !a.searchMode {
		parts = append(parts, renderMuted(
			MsgFilterSummary(len(a.ctrl.Visible()), len(a.ctrl.Threads()), a.ctrl.Unparsable())))
	}

	if len(commands) > 0 {
		parts = append(parts, renderMuted(strings.Join(commands, " • ")))
	}

	if len(parts) == 0 {
		return ""
	}

	return StatusBarStyle.Width(a.width).Render(strings.Join(parts, "  │  "))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
