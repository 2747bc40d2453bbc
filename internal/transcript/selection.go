package transcript

import (
	"strings"

	"chatpane/internal/render"

	"github.com/mattn/go-runewidth"
)

// Point 是当前帧内的屏幕坐标：Row 为可见窗口内的行号（0 = 顶行），
// Col 为终端列号（含 gutter）。
type Point struct {
	Row int
	Col int
}

// Selection 维护屏幕坐标系下的选区。选区只对产生它的那一帧几何有意义：
// 任何几何变化（resize、锚点解析到不同窗口）都应由调用方清除选区。
type Selection struct {
	active   bool
	dragging bool
	anchor   Point
	head     Point
}

// Start 在 p 处开始一次新选区（anchor == head）。
func (s *Selection) Start(p Point) {
	s.active = true
	s.dragging = true
	s.anchor = p
	s.head = p
}

// Drag 更新选区头部。未激活时忽略。
func (s *Selection) Drag(p Point) {
	if !s.active {
		return
	}
	s.head = p
}

// Release 结束拖动。anchor 与 head 重合（单击）时选区收敛为空，
// 返回 false；否则保留选区并返回 true。
func (s *Selection) Release() bool {
	s.dragging = false
	if !s.active {
		return false
	}
	if s.anchor == s.head {
		s.Clear()
		return false
	}
	return true
}

// Clear 清除选区。
func (s *Selection) Clear() {
	s.active = false
	s.dragging = false
}

// Active 报告是否存在选区（含拖动中）。
func (s *Selection) Active() bool {
	return s.active
}

// Dragging 报告是否处于按下拖动状态。
func (s *Selection) Dragging() bool {
	return s.dragging
}

// Bounds 返回规范化后的选区端点（上在前）。
func (s *Selection) Bounds() (Point, Point) {
	a, b := s.anchor, s.head
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}
	return a, b
}

// Apply 在帧的可见行上叠加反白样式。只改动帧内的行拷贝，
// 不触碰底层单元内容与展平缓存。
func (s *Selection) Apply(frame *Frame) {
	if !s.active {
		return
	}
	top, bot := s.Bounds()
	rows := append([]FlatLine(nil), frame.Lines...)
	for r := maxInt(top.Row, 0); r <= bot.Row && r < len(rows); r++ {
		startCol, endCol, ok := rowSpan(rows[r].Line, r, top, bot)
		if !ok {
			continue
		}
		rows[r] = FlatLine{Line: styleRange(rows[r].Line, startCol, endCol), Src: rows[r].Src}
	}
	frame.Lines = rows
}

// Extract 按与高亮完全相同的行列相交规则抽取选区文本。
// 行内空格原样保留；完全空白的中间行保留为空字符串，绝不丢弃。
// 各行以换行符连接。
func (s *Selection) Extract(frame Frame) (string, bool) {
	if !s.active {
		return "", false
	}
	top, bot := s.Bounds()
	rows := []string{}
	for r := maxInt(top.Row, 0); r <= bot.Row && r < len(frame.Lines); r++ {
		line := frame.Lines[r].Line
		startCol, endCol, ok := rowSpan(line, r, top, bot)
		if !ok {
			rows = append(rows, "")
			continue
		}
		lo, hi := runeRange(line, startCol, endCol)
		rows = append(rows, render.Slice(line, lo, hi).Text())
	}
	if len(rows) == 0 {
		return "", false
	}
	return strings.Join(rows, "\n"), true
}

// rowSpan 计算第 r 行被选中的列区间 [startCol, endCol]（闭区间）。
// 中间行取首个非空格字形列到最后字形列；边界行取 anchor/head 的列并钳制
// 到该行的字形范围。gutter 列永远被排除。该行没有可选内容时 ok 为 false。
func rowSpan(line render.Line, r int, top, bot Point) (int, int, bool) {
	last := line.Width() - 1
	first := firstGlyphCol(line)
	if last < GutterWidth || first < 0 {
		return 0, 0, false
	}
	startCol, endCol := first, last
	if r == top.Row && r == bot.Row {
		startCol = clampInt(minInt(top.Col, bot.Col), GutterWidth, last)
		endCol = clampInt(maxInt(top.Col, bot.Col), GutterWidth, last)
	} else if r == top.Row {
		startCol = clampInt(top.Col, GutterWidth, last)
	} else if r == bot.Row {
		endCol = clampInt(bot.Col, GutterWidth, last)
	}
	if startCol > endCol {
		return 0, 0, false
	}
	return startCol, endCol, true
}

// firstGlyphCol 返回 gutter 之后第一个非空格字形所在列，没有则 -1。
func firstGlyphCol(line render.Line) int {
	col := 0
	for _, r := range line.Text() {
		w := runewidth.RuneWidth(r)
		if col >= GutterWidth && r != ' ' && w > 0 {
			return col
		}
		col += w
	}
	return -1
}

// runeRange 返回覆盖列区间 [startCol, endCol] 的 rune 下标区间 [lo, hi)。
// 占两列的字形只要与区间相交就整体包含，避免从中间截断。
func runeRange(line render.Line, startCol, endCol int) (int, int) {
	lo, hi := -1, 0
	col := 0
	for i, r := range []rune(line.Text()) {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if lo >= 0 {
				hi = i + 1
			}
			continue
		}
		if col+w-1 >= startCol && col <= endCol {
			if lo < 0 {
				lo = i
			}
			hi = i + 1
		}
		col += w
	}
	if lo < 0 {
		return 0, 0
	}
	return lo, hi
}

// styleRange 对列区间叠加反白样式，区间外保持原样。
func styleRange(line render.Line, startCol, endCol int) render.Line {
	lo, hi := runeRange(line, startCol, endCol)
	if lo >= hi {
		return line
	}
	total := len([]rune(line.Text()))
	mid := render.Slice(line, lo, hi)
	for i := range mid.Spans {
		mid.Spans[i].Style = mid.Spans[i].Style.Reverse(true)
	}
	out := render.Line{Style: line.Style}
	if lo > 0 {
		out.Spans = append(out.Spans, render.Slice(line, 0, lo).Spans...)
	}
	out.Spans = append(out.Spans, mid.Spans...)
	if hi < total {
		out.Spans = append(out.Spans, render.Slice(line, hi, total).Spans...)
	}
	return out
}
