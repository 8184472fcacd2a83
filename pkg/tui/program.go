package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run blocks on the Bubbletea event loop until the user quits. Mouse cell
// motion is enabled for the clickable legend.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
