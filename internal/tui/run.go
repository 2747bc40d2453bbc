package tui

import (
	"errors"
	"io"

	"chatpane/internal/transcript"

	tea "github.com/charmbracelet/bubbletea"
)

// Run 封装 Bubble Tea 入口：备用屏 + 指针捕获，退出后把完整历史
// 以最终宽度序列化进终端回滚缓冲（在任何收尾输出之前）。
// scrollback 为 nil 时写到 stdout。
func Run(opts Options, scrollback io.Writer) error {
	programOptions := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Config.Mouse {
		programOptions = append(programOptions, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(New(opts), programOptions...)
	final, err := program.Run()
	if err != nil {
		return err
	}
	model, ok := final.(*Model)
	if !ok {
		return errors.New("unexpected tui model")
	}
	sink := transcript.NewScrollback(scrollback)
	return transcript.WriteExitTranscript(sink, model.Cells(), model.Width())
}
