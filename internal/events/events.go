package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind 描述追加事件的类型。
type Kind string

const (
	// KindUserPrompt 追加一条用户输入单元。
	KindUserPrompt Kind = "cell.user"
	// KindSystemInfo 追加一条系统提示单元。
	KindSystemInfo Kind = "cell.system"
	// KindResponseBegin 开启一个流式响应单元。
	KindResponseBegin Kind = "response.begin"
	// KindResponseChunk 向开放的流式响应追加增量文本。
	KindResponseChunk Kind = "response.chunk"
	// KindResponseEnd 关闭流式响应。
	KindResponseEnd Kind = "response.end"
)

// Event 是进入 UI 循环的追加事件。流式事件通过 SubmissionID 归属到
// 同一次响应。
type Event struct {
	Kind         Kind
	SubmissionID string
	Text         string
	Timestamp    time.Time
}

// NewSubmissionID 生成一次流式响应的标识。
func NewSubmissionID() string {
	return uuid.NewString()
}
