package tui

// View is the TUI surface currently drawn. Loading, list, detail, empty,
// and error mirror the controller phases; ViewSearch is the ranked-search
// overlay surface, which is presentation-only.
type View int

const (
	ViewLoading View = iota
	ViewThreads
	ViewDetail
	ViewSearch
	ViewError
)
