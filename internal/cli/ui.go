package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleSuccess.Render(iconSuccess), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleWarning.Render(iconWarning), fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleDim.Render(iconInfo), fmt.Sprintf(format, args...))
}

func printFile(w io.Writer, kind, path string) {
	fmt.Fprintf(w, "  %s %s %s\n", styleDim.Render(iconArrow), styleLabel.Render(kind), path)
}

// printKeyValue prints an aligned "key  value" line; keys are padded to 18 columns.
func printKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "  %s %v\n", styleLabel.Render(fmt.Sprintf("%-18s", key)), value)
}

func number(format string, args ...any) string {
	return styleNumber.Render(fmt.Sprintf(format, args...))
}
