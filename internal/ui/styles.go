package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	readyStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Foreground(colorRed)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	pending   = "[  ]"
	warnMark  = "[??]"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// palette holds the styling functions of one rendering.
type palette struct {
	title, section, ready, failed, warning, dim styleFunc
}

func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func plain(str string) string { return str }

func newPalette(styled bool) palette {
	if !styled {
		return palette{plain, plain, plain, plain, plain, plain}
	}
	return palette{
		title:   sf(titleStyle),
		section: sf(sectionStyle),
		ready:   sf(readyStyle),
		failed:  sf(failedStyle),
		warning: sf(warningStyle),
		dim:     sf(dimStyle),
	}
}
