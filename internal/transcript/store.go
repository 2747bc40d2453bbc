package transcript

import "errors"

// ErrInvalidAppend 表示当前没有可继续追加的流式响应单元。
var ErrInvalidAppend = errors.New("transcript: no open streaming response to extend")

// Store 持有严格追加的历史单元序列。单元只增不减、不重排；
// 其它组件一律通过稳定下标只读访问。
type Store struct {
	cells []Cell
	gen   uint64
}

// NewStore 创建空的历史存储。
func NewStore() *Store {
	return &Store{}
}

// Append 在尾部追加一个单元，返回其稳定下标。
func (s *Store) Append(cell Cell) int {
	s.cells = append(s.cells, cell)
	s.gen++
	return len(s.cells) - 1
}

// AppendUserPrompt 追加一条用户输入。
func (s *Store) AppendUserPrompt(text string) int {
	return s.Append(Cell{Kind: CellUserPrompt, Text: text})
}

// AppendSystemInfo 追加一条系统提示。
func (s *Store) AppendSystemInfo(text string) int {
	return s.Append(Cell{Kind: CellSystemInfo, Text: text})
}

// BeginResponse 追加一个开放的流式响应单元，后续 AppendChunk 会落到它的尾部。
func (s *Store) BeginResponse() int {
	return s.Append(Cell{Kind: CellAgentResponse, Streaming: true})
}

// AppendChunk 将增量文本追加到最近一个仍然开放的流式响应。
// 尾部单元不是开放的 AgentResponse 时返回 ErrInvalidAppend，存储保持不变。
func (s *Store) AppendChunk(text string) error {
	last := len(s.cells) - 1
	if last < 0 || s.cells[last].Kind != CellAgentResponse || !s.cells[last].Streaming {
		return ErrInvalidAppend
	}
	s.cells[last].Text += text
	s.gen++
	return nil
}

// FinalizeResponse 关闭尾部的流式响应（若有）。之后的 AppendChunk 会失败。
func (s *Store) FinalizeResponse() {
	last := len(s.cells) - 1
	if last < 0 || !s.cells[last].Streaming {
		return
	}
	s.cells[last].Streaming = false
	s.gen++
}

// Streaming 报告尾部是否存在仍开放的流式响应。
func (s *Store) Streaming() bool {
	last := len(s.cells) - 1
	return last >= 0 && s.cells[last].Streaming
}

// Cells 返回单元序列。调用方只读，不得修改。
func (s *Store) Cells() []Cell {
	return s.cells
}

// Generation 每次成功变更后递增。UI 循环据此判断一次事件是否真的
// 改动了内容（贴底选区的失效检查只在变更后进行）。
func (s *Store) Generation() uint64 {
	return s.gen
}
