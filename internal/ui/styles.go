package ui

import "github.com/charmbracelet/lipgloss"

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#30363d")).
			Padding(0, 1)

	focusedColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("#58a6ff"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#c9d1d9"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9"))

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#0d1117")).
				Background(lipgloss.Color("#58a6ff"))

	dueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d29922"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149"))

	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))
)

// platformBadges give each platform a short, recognizable tag on a card.
var platformBadges = map[string]string{
	"shortvideo":   "▶ short",
	"photo":        "◻ photo",
	"longvideo":    "▶▶ long",
	"professional": "in pro",
	"micro":        "µ micro",
	"other":        "·",
}
