package transcript

import "chatpane/internal/render"

// Frame 是一次视口渲染的结果：可见行加上调用方需要的几何信息。
type Frame struct {
	// Lines 是可见窗口内的展平行（自上而下）。
	Lines []FlatLine
	// TopOffset 是窗口第一行在完整展平序列中的下标。
	TopOffset int
	// Total 是完整展平序列的行数。
	Total int
	// Height 是转写区可用的行数（区域高度减去输入区高度）。
	Height int
	// Width 是渲染宽度。
	Width int
	// ComposerTop 是输入区在区域内的起始行（相对区域顶部）。
	ComposerTop int
	// Anchor 是解析后的锚点；来源行消失时已回退为贴底。
	Anchor Anchor
}

// Scrolled 报告窗口是否离开了自然底部。
func (f Frame) Scrolled() bool {
	return f.TopOffset+len(f.Lines) < f.Total
}

// Position 返回 (当前底部行号, 总行数)，供 "scrolled X/Y" 指示使用。
func (f Frame) Position() (int, int) {
	return f.TopOffset + len(f.Lines), f.Total
}

// Viewport 把展平结果解析为固定终端网格上的可见窗口。
// 内部持有展平缓存；宽度或内容变化时自动重算。
type Viewport struct {
	flattener Flattener
}

// Render 在 area 内布局转写窗口与输入区。
//
// 高度分配：max_transcript = area.Height - composerHeight（饱和为 0，
// composerHeight 超过区域高度时被钳制）。历史能完整放下时，输入区紧跟在
// 转写内容正下方；放不下时输入区钉在区域底部，转写区占满其余行。
func (v *Viewport) Render(area render.Rect, anchor Anchor, cells []Cell, composerHeight int) Frame {
	if area.Width < 1 {
		area.Width = 1
	}
	if area.Height < 0 {
		area.Height = 0
	}
	composerHeight = clampInt(composerHeight, 0, area.Height)
	maxTranscript := area.Height - composerHeight

	lines := v.flattener.Flatten(cells, area.Width)
	total := len(lines)

	top, resolved := anchor.Resolve(lines, maxTranscript)
	count := minInt(maxTranscript, total-top)
	if count < 0 {
		count = 0
	}

	composerTop := area.Height - composerHeight
	if total <= maxTranscript {
		// 历史放得下：输入区紧贴内容正下方，其余行留空并逐帧清除。
		composerTop = total
	}

	return Frame{
		Lines:       lines[top : top+count],
		TopOffset:   top,
		Total:       total,
		Height:      maxTranscript,
		Width:       area.Width,
		ComposerTop: composerTop,
		Anchor:      resolved,
	}
}

// Lines 返回当前宽度下的完整展平序列（滚动换算需要）。与 Render 共享缓存。
func (v *Viewport) Lines(cells []Cell, width int) []FlatLine {
	if width < 1 {
		width = 1
	}
	return v.flattener.Flatten(cells, width)
}

// Invalidate 清空展平缓存。resize、挂起恢复等强制全量重绘时调用。
func (v *Viewport) Invalidate() {
	v.flattener.Invalidate()
}

// Strings 把可见行组装为输入区上方的全部行：内容行在前，不足部分以空行
// 补齐，覆盖上一帧更高布局留下的残影。返回的行数恰为 ComposerTop。
func (f Frame) Strings() []string {
	out := make([]string, 0, f.ComposerTop)
	for _, fl := range f.Lines {
		out = append(out, render.LineToString(fl.Line))
	}
	for len(out) < f.ComposerTop {
		out = append(out, "")
	}
	return out
}
