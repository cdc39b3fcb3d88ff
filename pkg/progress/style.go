package progress

import "github.com/charmbracelet/lipgloss"

// palette maps each Color to the lipgloss style Render applies to it.
var palette = map[Color]lipgloss.Style{
	ColorSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	ColorError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	ColorWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// Render converts a StyleMessage into an ANSI-styled string for terminal
// output, applying palette to each span with a recognized Color and
// passing ColorNone spans through unstyled.
func Render(msg StyleMessage) string {
	var out string
	for _, span := range msg {
		style, ok := palette[span.Color]
		if !ok {
			out += span.Text
			continue
		}
		out += style.Render(span.Text)
	}
	return out
}
