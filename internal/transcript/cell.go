package transcript

import (
	"chatpane/internal/render"

	"github.com/charmbracelet/lipgloss"
)

var (
	userPrefixStyle  = lipgloss.NewStyle().Faint(true).Bold(true)
	userIndentStyle  = lipgloss.NewStyle().Faint(true)
	agentPrefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	agentIndentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	systemStyle      = lipgloss.NewStyle().Faint(true)
	userScrollbackBg = lipgloss.NewStyle().Background(lipgloss.Color("#3B3357"))
)

// GutterWidth 是转写区左侧前缀列宽（"› " / "• "）。该区域永远不可选取。
const GutterWidth = 2

// CellKind 区分历史单元的种类。种类是封闭集合：渲染通过 switch 分发。
type CellKind int

const (
	CellUserPrompt CellKind = iota
	CellAgentResponse
	CellSystemInfo
)

// Cell 是会话历史中的一个逻辑单元。除了流式中的 AgentResponse 允许尾部追加，
// 单元一经写入即不可变，也不会被删除或重排。
type Cell struct {
	Kind CellKind
	Text string
	// Streaming 标记一个仍在接收增量文本的 AgentResponse。
	Streaming bool
}

// Render 将单元渲染为给定宽度下的样式化行。渲染是纯函数：
// 内容与宽度不变时输出完全一致。
func (c Cell) Render(width int) []render.Line {
	wrapWidth := width - GutterWidth
	if wrapWidth < 1 {
		wrapWidth = maxInt(1, width)
	}
	switch c.Kind {
	case CellUserPrompt:
		body := render.WrapText(c.Text, wrapWidth, lipgloss.Style{})
		return render.PrefixLines(body,
			render.Span{Text: "› ", Style: userPrefixStyle},
			render.Span{Text: "  ", Style: userIndentStyle})
	case CellAgentResponse:
		body := render.WrapText(c.Text, wrapWidth, lipgloss.Style{})
		lines := render.PrefixLines(body,
			render.Span{Text: "• ", Style: agentPrefixStyle},
			render.Span{Text: "  ", Style: agentIndentStyle})
		if len(lines) == 0 {
			lines = []render.Line{{Spans: []render.Span{{Text: "• ", Style: agentPrefixStyle}}}}
		}
		return lines
	case CellSystemInfo:
		body := render.WrapText(c.Text, wrapWidth, systemStyle)
		return render.PrefixLines(body,
			render.Span{Text: "  ", Style: systemStyle},
			render.Span{Text: "  ", Style: systemStyle})
	default:
		return render.WrapText(c.Text, width, lipgloss.Style{})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
