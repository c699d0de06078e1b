package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	AppName      lipgloss.Style
	Comment      lipgloss.Style
	ErrorHeader  lipgloss.Style
	ErrorDetails lipgloss.Style
	ErrPadding   lipgloss.Style
	Failure      lipgloss.Style
	Header       lipgloss.Style
	InlineCode   lipgloss.Style
	Pipe         lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
}

func makeStyles(r *lipgloss.Renderer) (s styles) {
	const horizontalEdgePadding = 2
	s.AppName = r.NewStyle().Bold(true)
	s.Comment = r.NewStyle().Foreground(lipgloss.Color("#757575"))
	s.ErrorHeader = r.NewStyle().Foreground(lipgloss.Color("#F1F1F1")).Background(lipgloss.Color("#FF5F87")).Bold(true).Padding(0, 1).SetString("ERROR")
	s.ErrorDetails = s.Comment
	s.ErrPadding = r.NewStyle().Padding(0, horizontalEdgePadding)
	s.Failure = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF78D2"})
	s.Header = r.NewStyle().Bold(true)
	s.InlineCode = r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Background(lipgloss.Color("#3A3A3A")).Padding(0, 1)
	s.Pipe = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8470FF", Dark: "#745CFF"})
	s.Success = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00B594", Dark: "#3EEFCF"})
	s.Warning = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7A400", Dark: "#FFD866"})
	return s
}
