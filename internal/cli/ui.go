package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Command output goes to stdout through the helpers below. Logs and the
// spinner use stderr, so `render -o -` stays pipeable.

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleDim is used for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleNumber is used for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarning is used for recoverable problems.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleBar     = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh   = lipgloss.NewStyle().Foreground(colorGray)
)

// status is a one-line message prefixed with a colored icon.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusNote = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) printf(format string, args ...any) {
	fmt.Println(s.style.Render(s.icon) + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printStats prints the tree's shape on one line and whether it came from
// the cache.
func printStats(nodes, leaves, depth int, cached bool) {
	source := styleFresh.Render("fresh")
	if cached {
		source = styleCached.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d leaves", leaves)),
		StyleDim.Render(fmt.Sprintf("depth %d", depth)),
		source,
	}, sep))
}

// histogramWidth is the bar length of the fullest depth.
const histogramWidth = 40

// printHistogram prints one bar per depth, scaled to the largest count.
func printHistogram(leavesByDepth []int) {
	fmt.Print(histogram(leavesByDepth))
}

func histogram(leavesByDepth []int) string {
	peak := 0
	for _, n := range leavesByDepth {
		peak = max(peak, n)
	}
	labelStyle := lipgloss.NewStyle().Foreground(colorGray).Width(8)
	var b strings.Builder
	for d, n := range leavesByDepth {
		bar := 0
		if peak > 0 {
			bar = n * histogramWidth / peak
		}
		if n > 0 && bar == 0 {
			bar = 1
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("depth %d", d)))
		b.WriteString(" ")
		b.WriteString(styleBar.Render(strings.Repeat("█", bar)))
		b.WriteString(" ")
		b.WriteString(StyleNumber.Render(fmt.Sprintf("%d", n)))
		b.WriteString("\n")
	}
	return b.String()
}
