package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "kako"

// ASCII art logo lines for kako - canonical definition
var LogoLines = []string{
	"▄ █▄▀ ▄▀▄ █▄▀ ▄▀▄ ▄",
	"  █ █ █▀█ █ █ ▀▄▀  ",
}

const CompactLogo = "kako ›"

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

// Brand colors. Mutable so a configured theme can restyle the app at
// startup before the program runs.
var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	SurfaceColor    = lipgloss.Color("#16213E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#10B981")
	KeywordColor = lipgloss.Color("#FFE66D")
)

// Styled components
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	KeywordChipStyle = lipgloss.NewStyle().
				Foreground(KeywordColor).
				Bold(true)

	SelectedChipStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(AccentColor).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	EmptyStyle = lipgloss.NewStyle()
)

// ApplyColors restyles the brand palette from resolved config colors.
// Called once at startup, before the program is constructed.
func ApplyColors(primary, secondary, accent, background, surface, text, muted, errColor, success string) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, primary)
	set(&SecondaryColor, secondary)
	set(&AccentColor, accent)
	set(&BackgroundColor, background)
	set(&SurfaceColor, surface)
	set(&TextColor, text)
	set(&MutedColor, muted)
	set(&ErrorColor, errColor)
	set(&SuccessColor, success)

	LogoStyle = LogoStyle.Foreground(PrimaryColor)
	TitleStyle = TitleStyle.Foreground(TextColor).Background(SurfaceColor)
	HeaderStyle = HeaderStyle.Foreground(SecondaryColor)
	StatusBarStyle = StatusBarStyle.Foreground(MutedColor)
	SelectedChipStyle = SelectedChipStyle.Foreground(BackgroundColor).Background(AccentColor)
	HelpStyle = HelpStyle.Foreground(MutedColor)
	TimeStyle = TimeStyle.Foreground(MutedColor)
	ErrorMessageStyle = ErrorMessageStyle.Foreground(ErrorColor)
	SeparatorStyle = SeparatorStyle.Foreground(MutedColor)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return EmptyStyle.Width(width).Height(height).MaxHeight(height)
}

func GetEmptyMessage(message string) string {
	return GetCompactBanner(message)
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("  thread archive viewer %s", versionTag))
	} else {
		lines = append(lines, "  thread archive viewer")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(output))
}
