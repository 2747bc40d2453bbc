package transcript

import (
	"fmt"
	"io"
	"os"

	"chatpane/internal/render"
)

// Scrollback 把最终成稿逐行追加进终端的原生回滚缓冲（或任意 io.Writer）。
// 每一行都是独立的、一经写出绝不重绘的输出。
type Scrollback struct {
	w io.Writer
}

// NewScrollback 创建回滚写入器，w 为 nil 时写到 stdout。
func NewScrollback(w io.Writer) *Scrollback {
	if w == nil {
		w = os.Stdout
	}
	return &Scrollback{w: w}
}

// WriteLine 追加一行。
func (s *Scrollback) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// ExitTranscript 在退出或挂起时把完整历史序列化为带样式的行。
// 忽略实时滚动锚点：整份日志都会被序列化。来源于 UserPrompt 的行
// 以背景色补齐到整个终端宽度，在回滚缓冲里呈现为整块高亮；
// 其余行保留原生样式、不做强制补齐。
func ExitTranscript(cells []Cell, width int) []string {
	if width < 1 {
		width = 1
	}
	flat := BuildLines(cells, width)
	out := make([]string, 0, len(flat))
	for _, fl := range flat {
		if fl.Src != nil && cells[fl.Src.Cell].Kind == CellUserPrompt {
			line := render.PadLine(fl.Line, width, userScrollbackBg)
			line.Style = userScrollbackBg
			out = append(out, render.LineToString(line))
			continue
		}
		out = append(out, render.LineToString(fl.Line))
	}
	return out
}

// WriteExitTranscript 把完整历史写入回滚缓冲，在任何收尾输出之前调用。
func WriteExitTranscript(sink *Scrollback, cells []Cell, width int) error {
	for _, line := range ExitTranscript(cells, width) {
		if err := sink.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}
