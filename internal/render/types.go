package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Span 表示一段文本及其样式。
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line 由多个 Span 组成，可选整体样式。
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Text 返回行的纯文本（不含样式转义）。
func (l Line) Text() string {
	var b strings.Builder
	for _, sp := range l.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// Width 返回行占用的终端列数。
func (l Line) Width() int {
	w := 0
	for _, sp := range l.Spans {
		w += runewidth.StringWidth(sp.Text)
	}
	return w
}

// IsBlank 判断行是否为空或仅包含空格。
func (l Line) IsBlank() bool {
	for _, sp := range l.Spans {
		if strings.Trim(sp.Text, " ") != "" {
			return false
		}
	}
	return true
}

// Rect 表示矩形区域。
type Rect struct {
	X, Y          int
	Width, Height int
}

// LineToStatic 深拷贝行，便于安全缓存。
func LineToStatic(line Line) Line {
	spans := make([]Span, len(line.Spans))
	copy(spans, line.Spans)
	return Line{Spans: spans, Style: line.Style}
}

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}

// LineToString 渲染单行为带样式转义的字符串。
func LineToString(line Line) string {
	segments := make([]string, 0, len(line.Spans))
	for _, sp := range line.Spans {
		segments = append(segments, sp.Style.Render(sp.Text))
	}
	text := strings.Join(segments, "")
	return line.Style.Render(text)
}

// PadLine 在行尾补空格至 width 列，补充部分使用 style。
// 行已超宽时原样返回。
func PadLine(line Line, width int, style lipgloss.Style) Line {
	gap := width - line.Width()
	if gap <= 0 {
		return line
	}
	out := LineToStatic(line)
	out.Spans = append(out.Spans, Span{Text: strings.Repeat(" ", gap), Style: style})
	return out
}
