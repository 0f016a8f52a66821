package render

import "github.com/charmbracelet/lipgloss"

var (
	cardStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	redCardStyle = cardStyle.
			Foreground(lipgloss.Color("196"))

	hiddenCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())

	playerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	currentPlayerStyle = playerBoxStyle.
				Border(lipgloss.ThickBorder()).
				BorderForeground(lipgloss.Color("46"))

	yourPlayerStyle = playerBoxStyle.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("39"))

	foldedPlayerStyle = playerBoxStyle.
				BorderForeground(lipgloss.Color("241")).
				Foreground(lipgloss.Color("241"))

	potStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("46"))

	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("140"))
)
