package replay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// Summary 渲染回放结果
func Summary(name string, res *Result) string {
	status := warnStyle.Render("not completed")
	if res.Completed {
		status = okStyle.Render("completed")
	}

	lines := []string{
		titleStyle.Render("replay: " + name),
		row("status", status),
		row("strokes", fmt.Sprintf("%d", res.Strokes)),
		row("cleared", fmt.Sprintf("%.1f%%", res.ClearedFraction*100)),
		row("phase", res.Phase.String()),
		row("frames", fmt.Sprintf("%d", res.Frames)),
		row("elapsed", res.Elapsed.String()),
	}
	if res.Fireworks > 0 {
		lines = append(lines, row("fireworks", fmt.Sprintf("%d (peak %d)", res.Fireworks, res.PeakFireworks)))
	}
	if res.FramesWritten > 0 {
		lines = append(lines, row("png frames", fmt.Sprintf("%d", res.FramesWritten)))
	}

	if len(res.Transitions) > 0 {
		trace := make([]string, 0, len(res.Transitions))
		for _, t := range res.Transitions {
			trace = append(trace, fmt.Sprintf("%s→%s @%d", t.From, t.To, t.Frame))
		}
		lines = append(lines, row("trace", strings.Join(trace, ", ")))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
