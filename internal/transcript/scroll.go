package transcript

// Anchor 描述可见窗口的逻辑定位：贴底，或钉在某条来源行上。
// 零值不是合法锚点，请使用 BottomAnchor / LineAnchor 构造。
type Anchor struct {
	Bottom bool
	Ref    LineRef
}

// BottomAnchor 返回默认锚点：窗口始终以最后一行结尾。
func BottomAnchor() Anchor {
	return Anchor{Bottom: true}
}

// LineAnchor 返回钉在指定来源行上的锚点。
func LineAnchor(cell, line int) Anchor {
	return Anchor{Ref: LineRef{Cell: cell, Line: line}}
}

// Resolve 将锚点解析为窗口顶部行号，并返回可能发生回退后的锚点。
// 被引用的来源行在当前展平结果中不存在时，静默回退为贴底。
func (a Anchor) Resolve(lines []FlatLine, height int) (int, Anchor) {
	maxTop := maxInt(0, len(lines)-height)
	if a.Bottom {
		return maxTop, a
	}
	idx := FindRef(lines, a.Ref)
	if idx < 0 {
		return maxTop, BottomAnchor()
	}
	return clampInt(idx, 0, maxTop), a
}

// anchorAt 返回钉在 top 行上的锚点。top 行是分隔行时向下（再向上）找最近的
// 来源行；完全没有来源行时退回贴底。
func anchorAt(lines []FlatLine, top int) Anchor {
	for i := top; i < len(lines); i++ {
		if lines[i].Src != nil {
			return Anchor{Ref: *lines[i].Src}
		}
	}
	for i := minInt(top, len(lines)-1); i >= 0; i-- {
		if lines[i].Src != nil {
			return Anchor{Ref: *lines[i].Src}
		}
	}
	return BottomAnchor()
}

// Controller 是滚动锚点的状态机。所有转移都基于当前展平结果与窗口高度，
// 解析、换算均为同步的有界计算。
type Controller struct {
	anchor    Anchor
	wheelStep int
}

// NewController 创建滚动控制器。wheelStep 是单次滚轮滚动的行数。
func NewController(wheelStep int) *Controller {
	if wheelStep <= 0 {
		wheelStep = 3
	}
	return &Controller{anchor: BottomAnchor(), wheelStep: wheelStep}
}

// Anchor 返回当前锚点。
func (c *Controller) Anchor() Anchor {
	return c.anchor
}

// SetAnchor 覆盖当前锚点（视口渲染回报回退结果时使用）。
func (c *Controller) SetAnchor(a Anchor) {
	c.anchor = a
}

// AtBottom 报告是否处于贴底状态。
func (c *Controller) AtBottom() bool {
	return c.anchor.Bottom
}

// ScrollBy 以 delta 行移动窗口（负数向上）。向下移动触底时收敛回贴底；
// 其余情况重新钉在新顶部所在的来源行上。
func (c *Controller) ScrollBy(delta int, lines []FlatLine, height int) {
	if len(lines) == 0 {
		c.anchor = BottomAnchor()
		return
	}
	top, _ := c.anchor.Resolve(lines, height)
	maxTop := maxInt(0, len(lines)-height)
	newTop := clampInt(top+delta, 0, maxTop)
	if delta > 0 && newTop >= maxTop {
		c.anchor = BottomAnchor()
		return
	}
	c.anchor = anchorAt(lines, newTop)
}

// WheelUp 向上滚动一个滚轮步长。
func (c *Controller) WheelUp(lines []FlatLine, height int) {
	c.ScrollBy(-c.wheelStep, lines, height)
}

// WheelDown 向下滚动一个滚轮步长。
func (c *Controller) WheelDown(lines []FlatLine, height int) {
	c.ScrollBy(c.wheelStep, lines, height)
}

// PageUp 向上翻一页（当前视口高度）。
func (c *Controller) PageUp(lines []FlatLine, height int) {
	c.ScrollBy(-height, lines, height)
}

// PageDown 向下翻一页。
func (c *Controller) PageDown(lines []FlatLine, height int) {
	c.ScrollBy(height, lines, height)
}

// GotoTop 跳到第一条历史行。
func (c *Controller) GotoTop() {
	c.anchor = LineAnchor(0, 0)
}

// GotoBottom 回到贴底。
func (c *Controller) GotoBottom() {
	c.anchor = BottomAnchor()
}

// FreezeTop 把贴底锚点转换为钉在当前窗口顶部的来源行上。
// 用于流式输出期间开始/拖动选区：冻结视图，避免新输出把内容从
// 用户选区下面推走。已经处于钉住状态时不做任何事。
func (c *Controller) FreezeTop(lines []FlatLine, height int) {
	if !c.anchor.Bottom || len(lines) == 0 {
		return
	}
	top, _ := c.anchor.Resolve(lines, height)
	c.anchor = anchorAt(lines, top)
}
