package transcript

import "chatpane/internal/render"

// LineRef 记录一条展平行的来源：第 Cell 个单元中的第 Line 行。
type LineRef struct {
	Cell int
	Line int
}

// FlatLine 是展平后的一行。Src 为 nil 表示单元之间插入的空白分隔行。
type FlatLine struct {
	Line render.Line
	Src  *LineRef
}

// BuildLines 将单元序列在给定宽度下展平为带来源信息的行序列。
// 纯函数：相同的 (cells, width) 输入产生完全一致的输出。
// 相邻两个单元都不处于流式状态时，在它们之间插入一个分隔行。
func BuildLines(cells []Cell, width int) []FlatLine {
	out := []FlatLine{}
	for i, cell := range cells {
		if i > 0 && !cells[i-1].Streaming && !cell.Streaming {
			out = append(out, FlatLine{})
		}
		for j, line := range cell.Render(width) {
			out = append(out, FlatLine{Line: line, Src: &LineRef{Cell: i, Line: j}})
		}
	}
	return out
}

// FindRef 返回来源等于 ref 的第一行下标，找不到时返回 -1。
func FindRef(lines []FlatLine, ref LineRef) int {
	for i, fl := range lines {
		if fl.Src != nil && *fl.Src == ref {
			return i
		}
	}
	return -1
}

// Flattener 缓存最近一次展平结果，避免内容与宽度都未变时的重复计算。
// 缓存键包含单元数量、尾部单元内容长度与流式标记：
// 任一变化都会触发重算。
type Flattener struct {
	valid     bool
	cellCount int
	tailLen   int
	tailOpen  bool
	width     int
	lines     []FlatLine
}

// Flatten 返回展平结果，必要时重算。
func (f *Flattener) Flatten(cells []Cell, width int) []FlatLine {
	tailLen := 0
	tailOpen := false
	if n := len(cells); n > 0 {
		tailLen = len(cells[n-1].Text)
		tailOpen = cells[n-1].Streaming
	}
	if f.valid && f.cellCount == len(cells) && f.tailLen == tailLen &&
		f.tailOpen == tailOpen && f.width == width {
		return f.lines
	}
	f.lines = BuildLines(cells, width)
	f.cellCount = len(cells)
	f.tailLen = tailLen
	f.tailOpen = tailOpen
	f.width = width
	f.valid = true
	return f.lines
}

// Invalidate 丢弃缓存，下一次 Flatten 必然重算。用于 resize/resume 等强制重绘。
func (f *Flattener) Invalidate() {
	f.valid = false
	f.lines = nil
}
