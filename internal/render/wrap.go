package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// WrapLine 将一行按 width 列拆分为若干子行：拆分保留样式段，
// 永远不会切断占多列的字符。断点优先落在空格处，断点处的那个空格被移除。
func WrapLine(line Line, width int) []Line {
	if width <= 0 || line.Width() <= width {
		return []Line{LineToStatic(line)}
	}
	runes := []rune(line.Text())
	out := []Line{}
	start := 0
	for start < len(runes) {
		w := 0
		lastSpace := -1
		i := start
		for i < len(runes) {
			rw := runewidth.RuneWidth(runes[i])
			if w+rw > width && i > start {
				break
			}
			if runes[i] == ' ' {
				lastSpace = i
			}
			w += rw
			i++
		}
		if i >= len(runes) {
			out = append(out, Slice(line, start, len(runes)))
			break
		}
		end, next := i, i
		if lastSpace > start {
			end, next = lastSpace, lastSpace+1
		}
		out = append(out, Slice(line, start, end))
		start = next
	}
	if len(out) == 0 {
		return []Line{LineToStatic(line)}
	}
	return out
}

// WrapText 将纯文本按换行符拆分后逐行换行，统一应用 style。
func WrapText(text string, width int, style lipgloss.Style) []Line {
	out := []Line{}
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			out = append(out, Line{})
			continue
		}
		out = append(out, WrapLine(Line{Spans: []Span{{Text: raw, Style: style}}}, width)...)
	}
	if len(out) == 0 {
		out = append(out, Line{})
	}
	return out
}

// Slice 取出行中 [start,end) 的 rune 区间，保持原有样式段。
func Slice(line Line, start, end int) Line {
	spans := []Span{}
	offset := 0
	for _, sp := range line.Spans {
		runes := []rune(sp.Text)
		spStart, spEnd := offset, offset+len(runes)
		offset = spEnd
		if spEnd <= start || spStart >= end {
			continue
		}
		lo := maxInt(start, spStart) - spStart
		hi := minInt(end, spEnd) - spStart
		if lo >= hi {
			continue
		}
		spans = append(spans, Span{Text: string(runes[lo:hi]), Style: sp.Style})
	}
	return Line{Spans: spans, Style: line.Style}
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
