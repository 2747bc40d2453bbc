package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatpane/internal/config"
	"chatpane/internal/events"
	"chatpane/internal/history"
	"chatpane/internal/logger"
	"chatpane/internal/render"
	"chatpane/internal/transcript"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Responder 是外部会话机器的最小抽象：针对一条用户提示，
// 通过队列投递流式响应事件。实现应阻塞到本次响应结束。
type Responder interface {
	Respond(ctx context.Context, prompt string, q *events.Queue)
}

type Options struct {
	Config       config.Config
	Queue        *events.Queue
	Responder    Responder
	History      *history.Store
	InitialCells []transcript.Cell
	// CopyText 覆盖剪贴板实现，nil 时使用系统剪贴板。
	CopyText func(string) error
}

type appendEventMsg struct {
	Event events.Event
	OK    bool
}

type statusExpireMsg struct {
	Seq int
}

const footerHeight = 1

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)

// Model 是唯一持有 HistoryStore 与全部 UI 状态（锚点、选区、几何信息）的
// 上下文。所有变更都由离散事件按到达顺序驱动：绘制、按键、指针与追加事件。
type Model struct {
	textarea textarea.Model
	spin     spinner.Model

	store    *transcript.Store
	viewport transcript.Viewport
	scroll   *transcript.Controller
	sel      transcript.Selection

	promptHist promptHistory
	histSearch historySearch
	histStore  *history.Store

	queue     *events.Queue
	responder Responder
	copyText  func(string) error

	cfg       config.Config
	log       *logger.LogEntry
	activeSub string
	pending   bool
	searching bool

	width  int
	height int

	status    string
	statusSeq int
}

func New(opts Options) *Model {
	ti := textarea.New()
	ti.Placeholder = "Type a message…"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.SetWidth(80)
	ti.SetHeight(1) // 默认单行，按需扩展
	ti.ShowLineNumbers = false
	ti.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	cfg := opts.Config
	if cfg.WheelStep <= 0 {
		cfg = config.Default()
	}

	copyText := opts.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	store := transcript.NewStore()
	for _, cell := range opts.InitialCells {
		store.Append(cell)
	}

	m := Model{
		textarea:  ti,
		spin:      spin,
		store:     store,
		scroll:    transcript.NewController(cfg.WheelStep),
		histStore: opts.History,
		queue:     opts.Queue,
		responder: opts.Responder,
		copyText:  copyText,
		cfg:       cfg,
		log:       logger.Named("tui"),
		width:     80,
		height:    24,
	}
	if opts.History != nil {
		if texts, err := opts.History.LoadTail(cfg.HistoryLimit); err != nil {
			m.log.WithField("error", err).Warn("load prompt history failed")
		} else {
			m.promptHist.Set(texts)
		}
	}
	return &m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if cmd := m.listenQueue(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case appendEventMsg:
		if !msg.OK {
			return m, nil
		}
		m.applyEvent(msg.Event)
		return m, m.listenQueue()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case statusExpireMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && msg.Alt {
			break // Alt+Enter 交给输入框换行
		}
		if m.searching {
			return m, m.handleSearchKey(msg)
		}
		if cmd, handled := m.handleScrollKeys(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.sel.Clear()
			return m, nil
		case "ctrl+y":
			return m, m.copySelection()
		case "ctrl+r":
			m.searching = true
			m.histSearch.Open(m.promptHist.Entries())
			return m, nil
		case "up":
			if m.composerAtTop() {
				if text, ok := m.promptHist.Prev(m.textarea.Value()); ok {
					m.setComposerText(text)
				}
				return m, nil
			}
		case "down":
			if m.composerAtBottom() {
				if text, ok := m.promptHist.Next(); ok {
					m.setComposerText(text)
				}
				return m, nil
			}
		case "enter":
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.setComposerHeight()
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applyEvent 把队列里到达的追加事件写入存储。追加顺序与到达顺序一致。
// 贴底时内容增长会移动窗口：窗口顶部发生位移时，屏幕坐标选区随之失效；
// 钉住（含冻结）的视图顶部不动，选区保留。
func (m *Model) applyEvent(evt events.Event) {
	bottomSel := m.sel.Active() && m.scroll.AtBottom()
	topBefore := 0
	if bottomSel {
		topBefore, _ = m.scroll.Anchor().Resolve(m.flatLines(), m.transcriptHeight())
	}
	gen := m.store.Generation()

	switch evt.Kind {
	case events.KindUserPrompt:
		m.store.AppendUserPrompt(evt.Text)
	case events.KindSystemInfo:
		m.store.AppendSystemInfo(evt.Text)
	case events.KindResponseBegin:
		m.store.BeginResponse()
		m.activeSub = evt.SubmissionID
		m.pending = true
	case events.KindResponseChunk:
		if m.activeSub != "" && evt.SubmissionID != m.activeSub {
			return
		}
		if err := m.store.AppendChunk(evt.Text); err != nil {
			m.log.WithField("error", err).Warn("chunk rejected")
		}
	case events.KindResponseEnd:
		if m.activeSub != "" && evt.SubmissionID != m.activeSub {
			return
		}
		m.store.FinalizeResponse()
		m.activeSub = ""
		m.pending = false
	}

	if bottomSel && m.store.Generation() != gen {
		topAfter, _ := m.scroll.Anchor().Resolve(m.flatLines(), m.transcriptHeight())
		if topAfter != topBefore {
			m.sel.Clear()
		}
	}
}

func (m *Model) listenQueue() tea.Cmd {
	if m.queue == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := m.queue.Next()
		return appendEventMsg{Event: evt, OK: ok}
	}
}

func (m *Model) submit() tea.Cmd {
	if m.pending {
		return nil
	}
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil
	}
	m.store.AppendUserPrompt(input)
	m.promptHist.Add(input)
	if m.histStore != nil {
		if err := m.histStore.Append(input); err != nil {
			m.log.WithField("error", err).Warn("persist prompt failed")
		}
	}
	m.textarea.Reset()
	m.setComposerHeight()
	m.sel.Clear()
	m.scroll.GotoBottom()
	if m.responder == nil || m.queue == nil {
		return nil
	}
	m.pending = true
	responder, queue := m.responder, m.queue
	return func() tea.Msg {
		responder.Respond(context.Background(), input, queue)
		return nil
	}
}

// --- 几何 ---

func (m *Model) composerHeight() int {
	return m.textarea.Height()
}

func (m *Model) transcriptArea() render.Rect {
	h := m.height - footerHeight
	if h < 0 {
		h = 0
	}
	return render.Rect{Width: maxInt(1, m.width), Height: h}
}

func (m *Model) transcriptHeight() int {
	h := m.transcriptArea().Height - m.composerHeight()
	if h < 0 {
		h = 0
	}
	return h
}

// frame 在当前几何下渲染可见窗口，并采纳解析后的锚点（来源行消失时
// 回退为贴底，同时使选区失效）。
func (m *Model) frame() transcript.Frame {
	frame := m.viewport.Render(m.transcriptArea(), m.scroll.Anchor(), m.store.Cells(), m.composerHeight())
	if frame.Anchor != m.scroll.Anchor() {
		m.scroll.SetAnchor(frame.Anchor)
		m.sel.Clear()
	}
	return frame
}

func (m *Model) flatLines() []transcript.FlatLine {
	return m.viewport.Lines(m.store.Cells(), m.transcriptArea().Width)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.textarea.SetWidth(width)
	m.viewport.Invalidate()
	// resize 使选区坐标失去意义，直接清除。
	m.sel.Clear()
}

func (m *Model) setComposerHeight() {
	lines := strings.Count(m.textarea.Value(), "\n") + 1
	if lines < 1 {
		lines = 1
	}
	if lines > m.cfg.ComposerMaxHeight {
		lines = m.cfg.ComposerMaxHeight
	}
	if m.textarea.Height() != lines {
		m.textarea.SetHeight(lines)
	}
}

func (m *Model) setComposerText(text string) {
	m.textarea.SetValue(text)
	m.textarea.CursorEnd()
	m.setComposerHeight()
}

func (m *Model) composerAtTop() bool {
	return m.textarea.Line() == 0
}

func (m *Model) composerAtBottom() bool {
	return m.textarea.Line() >= m.textarea.LineCount()-1
}

// --- 滚动 ---

func (m *Model) handleScrollKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	scroll := func(f func()) (tea.Cmd, bool) {
		f()
		// 滚动转移一律清除选区（流式冻结转换除外，见 handleMouse）。
		m.sel.Clear()
		return nil, true
	}
	lines, h := m.flatLines(), m.transcriptHeight()
	switch msg.Type {
	case tea.KeyPgUp:
		return scroll(func() { m.scroll.PageUp(lines, h) })
	case tea.KeyPgDown:
		return scroll(func() { m.scroll.PageDown(lines, h) })
	case tea.KeyHome:
		return scroll(func() { m.scroll.GotoTop() })
	case tea.KeyEnd:
		return scroll(func() { m.scroll.GotoBottom() })
	case tea.KeyUp:
		if msg.Alt {
			return scroll(func() { m.scroll.ScrollBy(-1, lines, h) })
		}
	case tea.KeyDown:
		if msg.Alt {
			return scroll(func() { m.scroll.ScrollBy(1, lines, h) })
		}
	}
	return nil, false
}

// --- 指针 ---

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	lines, h := m.flatLines(), m.transcriptHeight()
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll.WheelUp(lines, h)
		m.sel.Clear()
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll.WheelDown(lines, h)
		m.sel.Clear()
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		p, ok := m.transcriptPoint(msg.X, msg.Y)
		if !ok || msg.X < transcript.GutterWidth {
			m.sel.Clear()
			return nil
		}
		m.freezeIfStreaming(lines, h)
		m.sel.Start(p)
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft:
		if !m.sel.Dragging() {
			return nil
		}
		p, ok := m.transcriptPoint(msg.X, msg.Y)
		if !ok {
			return nil
		}
		m.freezeIfStreaming(lines, h)
		m.sel.Drag(p)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease,
		msg.Button == tea.MouseButtonNone && msg.Action == tea.MouseActionRelease:
		m.sel.Release()
	}
	return nil
}

// freezeIfStreaming 在贴底 + 流式输出时把锚点钉在当前窗口顶部，
// 冻结视图，让新输出不会把内容从选区下面推走。这是唯一不清除选区的转移。
func (m *Model) freezeIfStreaming(lines []transcript.FlatLine, h int) {
	if m.scroll.AtBottom() && m.store.Streaming() {
		m.scroll.FreezeTop(lines, h)
	}
}

// transcriptPoint 把终端坐标换算为帧内坐标，并钳制进可见内容范围。
// 指针落在转写区之外时 ok 为 false。
func (m *Model) transcriptPoint(x, y int) (transcript.Point, bool) {
	frame := m.frame()
	visible := len(frame.Lines)
	if visible == 0 || y >= frame.ComposerTop {
		return transcript.Point{}, false
	}
	row := clampInt(y, 0, visible-1)
	col := clampInt(x, 0, maxInt(0, m.width-1))
	return transcript.Point{Row: row, Col: col}, true
}

// --- 复制 ---

func (m *Model) copySelection() tea.Cmd {
	if !m.sel.Active() {
		return nil
	}
	// 以当前宽度与锚点离屏重渲染，保证抽取内容与屏幕所见一致。
	frame := m.frame()
	text, ok := m.sel.Extract(frame)
	if !ok || text == "" {
		return nil
	}
	if err := m.copyText(text); err != nil {
		// 剪贴板失败只记日志、提示一条瞬态状态，绝不中断 UI 状态。
		m.log.WithField("error", err).Warn("clipboard write failed")
		return m.setStatus("copy failed")
	}
	rows := strings.Count(text, "\n") + 1
	return m.setStatus(fmt.Sprintf("copied %d line(s)", rows))
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpireMsg{Seq: seq}
	})
}

// --- 视图 ---

func (m *Model) View() string {
	frame := m.frame()
	m.sel.Apply(&frame)

	area := m.transcriptArea()
	rows := frame.Strings()
	rows = append(rows, strings.Split(m.textarea.View(), "\n")...)
	for len(rows) < area.Height {
		rows = append(rows, "")
	}
	if len(rows) > area.Height && area.Height > 0 {
		rows = rows[:area.Height]
	}
	if m.searching {
		rows = overlayRows(rows, strings.Split(m.histSearch.View(m.width), "\n"))
	}
	rows = append(rows, m.footerView(frame))

	return strings.Join(rows, "\n")
}

// overlayRows 把浮层覆盖到画面底部的行上，不改变总行数。
// 浮层比画面高时裁掉其顶部。
func overlayRows(rows, overlay []string) []string {
	if len(overlay) > len(rows) {
		overlay = overlay[len(overlay)-len(rows):]
	}
	start := len(rows) - len(overlay)
	for i, line := range overlay {
		rows[start+i] = line
	}
	return rows
}

func (m *Model) footerView(frame transcript.Frame) string {
	parts := []string{}
	if m.pending {
		parts = append(parts, m.spin.View()+"working")
	}
	if frame.Scrolled() {
		cur, total := frame.Position()
		parts = append(parts, fmt.Sprintf("%d/%d ▲ scrolled", cur, total))
	}
	if m.sel.Active() {
		parts = append(parts, "selection • ctrl+y copy")
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if len(parts) == 0 {
		parts = append(parts, "Enter send • PgUp/PgDn scroll • Home/End jump • Ctrl+R history • Ctrl+C quit")
	}
	// MaxWidth 截断而不换行：页脚必须保持单行，否则会把固定高度的
	// 画面挤出终端。
	return footerStyle.MaxWidth(maxInt(1, m.width)).Render(strings.Join(parts, " • "))
}

// Cells 返回当前历史单元，供退出序列化使用。
func (m *Model) Cells() []transcript.Cell {
	return m.store.Cells()
}

// Width 返回最终终端宽度。
func (m *Model) Width() int {
	return m.width
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
