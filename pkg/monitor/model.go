package monitor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/modalkit/internal/config"
	"github.com/marcus/modalkit/internal/termpage"
	"github.com/marcus/modalkit/pkg/modal"
	"github.com/marcus/modalkit/pkg/monitor/mouse"
)

// Hit regions registered by View
const (
	regionPage    = "page"
	regionTrigger = "trigger"
	regionWrapper = "wrapper"
	regionContent = "content"
	regionClose   = "close"
	regionItem    = "item"
)

const (
	footerRows = 1
	traceLimit = 200
	// statusTTL is how long a status message stays in the footer
	statusTTL = 3 * time.Second
)

// flushMsg runs the coordinator's deferred tasks on the next turn
type flushMsg struct{}

// ClearStatusMsg clears the footer status message
type ClearStatusMsg struct{}

// Model is the Bubble Tea model hosting a coordinator over a terminal page
type Model struct {
	// Window dimensions
	Width  int
	Height int

	Coord  *modal.Coordinator
	Queue  *modal.Queue
	Page   *termpage.Page
	Config *config.Config

	Keys  KeyMap
	Help  help.Model
	Theme Theme

	// Status line shown in the footer
	StatusMessage string
	StatusIsError bool

	// ClipboardFn copies text to the clipboard
	ClipboardFn func(string) error

	contents map[string]*panelContent
	// triggers maps a key to the panel it opens
	triggers map[string]string
	finder   *finder
	mouse    *mouse.Handler
	trace    *eventTrace
	host     *hostState
	logger   *slog.Logger
}

// hostState is shared between the model copies Bubble Tea passes around
// and the coordinator listeners registered at construction
type hostState struct {
	cmds  []tea.Cmd
	hover string
}

func (h *hostState) add(cmd tea.Cmd) {
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
}

func (h *hostState) take() []tea.Cmd {
	cmds := h.cmds
	h.cmds = nil
	return cmds
}

// Option configures the model
type Option func(*modelOptions)

type modelOptions struct {
	logger *slog.Logger
	theme  Theme
	keys   KeyMap
}

// WithLogger sets the logger used by the model and its coordinator
func WithLogger(l *slog.Logger) Option {
	return func(o *modelOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTheme sets the colour theme
func WithTheme(t Theme) Option {
	return func(o *modelOptions) { o.theme = t }
}

// WithKeyMap replaces the default key bindings
func WithKeyMap(k KeyMap) Option {
	return func(o *modelOptions) { o.keys = k }
}

// NewModel creates a monitor for cfg. Configured panels are bound in
// order, then the built-in finder and help panels.
func NewModel(cfg *config.Config, opts ...Option) Model {
	o := modelOptions{logger: slog.Default(), theme: PlainTheme(), keys: DefaultKeyMap()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = modal.DefaultNamespace
	}

	page := termpage.New(termpage.Config{
		Title:     cfg.Page.Title,
		Body:      cfg.Page.Body,
		LockClass: ns + "-open",
	})
	q := modal.NewQueue()
	c := modal.NewCoordinator(page, q, modal.WithLogger(o.logger), modal.WithNamespace(ns))

	m := Model{
		Coord:       c,
		Queue:       q,
		Page:        page,
		Config:      cfg,
		Keys:        o.keys,
		Help:        help.New(),
		Theme:       o.theme,
		ClipboardFn: copyToClipboard,
		contents:    make(map[string]*panelContent),
		triggers:    make(map[string]string),
		finder:      &finder{},
		mouse:       mouse.NewHandler(),
		trace:       newEventTrace(traceLimit),
		host:        &hostState{},
		logger:      o.logger,
	}

	for _, t := range []modal.EventType{
		modal.EventInitialize, modal.EventBeforeOpen, modal.EventAfterOpen,
		modal.EventBeforeClose, modal.EventAfterClose,
	} {
		c.On(t, modal.Observe(m.trace.observe))
	}
	host := m.host
	// after-events run on the turn following the one that deferred them
	q.OnSchedule(func() { host.add(flush) })
	c.On(modal.EventAfterClose, modal.Observe(func(ev modal.Event) {
		if ev.Panel.ID() != QuitPanelID {
			return
		}
		if ok, _ := ev.Payload.(bool); ok {
			host.add(tea.Quit)
		}
	}))

	for _, pc := range cfg.Panels {
		m.bind(pc)
	}
	m.bind(config.PanelConfig{
		ID:      FinderPanelID,
		Title:   "Panels",
		Kind:    kindFinder,
		Options: modal.Overrides{Position: modal.At(modal.PositionTop)},
	})
	m.bind(config.PanelConfig{
		ID:    HelpPanelID,
		Title: "Keys",
		Kind:  kindHelp,
	})
	return m
}

// bind registers pc with the coordinator unless its id is already taken
func (m *Model) bind(pc config.PanelConfig) {
	if _, ok := m.contents[pc.ID]; ok || pc.ID == "" {
		return
	}
	content := newContent(pc)
	m.contents[pc.ID] = content
	p := m.Coord.Bind(pc.ID, pc, modal.Overrides{})
	for _, k := range pc.Triggers {
		if _, taken := m.triggers[k]; !taken {
			m.triggers[k] = pc.ID
		}
	}

	switch content.kind() {
	case config.KindConfirm:
		page, host := m.Page, m.host
		p.On(modal.EventBeforeOpen, modal.Observe(func(modal.Event) {
			w, _ := page.Size()
			bw, _ := bodyDimensions(w, 0)
			host.add(content.resetForm(bw).Init())
		}))
	case kindFinder:
		f, c := m.finder, m.Coord
		p.On(modal.EventBeforeOpen, modal.Observe(func(modal.Event) { f.reset(c) }))
	default:
		p.On(modal.EventBeforeOpen, modal.Observe(func(modal.Event) { content.offset = 0 }))
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.finish()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Page.SetSize(msg.Width, max(0, msg.Height-footerRows))
		m.Help.Width = msg.Width
		if c := m.activeContent(); c != nil && c.form != nil {
			bw, _ := bodyDimensions(msg.Width, 0)
			c.form = c.form.WithWidth(bw)
		}

	case flushMsg:
		n := m.Queue.Drain()
		m.logger.Debug("deferred tasks ran", "tasks", n, "pending", m.Queue.Pending())

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case ClearStatusMsg:
		m.StatusMessage = ""
		m.StatusIsError = false

	default:
		// huh forms drive themselves with their own messages
		if p := m.Coord.Instance(); p != nil {
			if c := m.contents[p.ID()]; c != nil && c.kind() == config.KindConfirm {
				cmd = m.updateForm(p, c, msg)
			}
		}
	}
	return m, m.finish(cmd)
}

// finish adds the commands queued by listeners, including the flush the
// queue asks for when it stops being empty
func (m *Model) finish(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.host.take()...)
	return tea.Batch(cmds...)
}

func flush() tea.Msg { return flushMsg{} }

func (m *Model) activeContent() *panelContent {
	p := m.Coord.Instance()
	if p == nil {
		return nil
	}
	return m.contents[p.ID()]
}

// handleKey routes a key to the active panel, or to page bindings and
// panel triggers when nothing is open
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.Keys.ForceQuit) {
		return tea.Quit
	}
	if p := m.Coord.Instance(); p != nil {
		return m.handlePanelKey(p, msg)
	}

	if id, ok := m.triggers[msg.String()]; ok {
		m.trigger(id, msg.String())
		return nil
	}
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m.requestQuit()
	case key.Matches(msg, m.Keys.Finder):
		m.trigger(FinderPanelID, msg.String())
	case key.Matches(msg, m.Keys.Help):
		m.trigger(HelpPanelID, msg.String())
	case key.Matches(msg, m.Keys.Copy):
		return m.copyTrace()
	case key.Matches(msg, m.Keys.ScrollDown, m.Keys.Down):
		m.Page.ScrollDown(1)
	case key.Matches(msg, m.Keys.ScrollUp, m.Keys.Up):
		m.Page.ScrollUp(1)
	}
	return nil
}

// handlePanelKey delivers every key to the coordinator's dismissal
// bindings, then to the panel's content unless it was escape
func (m *Model) handlePanelKey(p *modal.Panel, msg tea.KeyMsg) tea.Cmd {
	m.Coord.KeyUp(msg.String())
	if msg.Type == tea.KeyEscape {
		return nil
	}
	c := m.contents[p.ID()]
	if c == nil {
		return nil
	}

	switch c.kind() {
	case config.KindConfirm:
		return m.updateForm(p, c, msg)
	case kindFinder:
		m.updateFinder(msg)
		return nil
	}

	if id, ok := m.triggers[msg.String()]; ok && id != p.ID() {
		m.trigger(id, msg.String())
		return nil
	}
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m.requestQuit()
	case key.Matches(msg, m.Keys.Finder):
		m.trigger(FinderPanelID, msg.String())
	case key.Matches(msg, m.Keys.Help):
		if p.ID() != HelpPanelID {
			m.trigger(HelpPanelID, msg.String())
		}
	case key.Matches(msg, m.Keys.Copy):
		return m.copyTrace()
	case key.Matches(msg, m.Keys.ScrollDown, m.Keys.Down):
		c.scroll(1)
	case key.Matches(msg, m.Keys.ScrollUp, m.Keys.Up):
		c.scroll(-1)
	}
	return nil
}

// trigger opens id the way a click on a trigger element would
func (m *Model) trigger(id, source string) {
	m.Coord.Click(modal.Target{Kind: modal.TargetTrigger, PanelID: id, Source: source})
}

// requestQuit asks the quit panel when one is configured, and quits
// straight away otherwise
func (m *Model) requestQuit() tea.Cmd {
	c, ok := m.contents[QuitPanelID]
	if !ok || c.kind() != config.KindConfirm {
		return tea.Quit
	}
	if p := m.Coord.Instance(); p != nil && p.ID() == QuitPanelID {
		return nil
	}
	m.trigger(QuitPanelID, "quit")
	return nil
}

func (m *Model) updateFinder(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		m.finder.move(-1)
	case key.Matches(msg, m.Keys.Down):
		m.finder.move(1)
	case key.Matches(msg, m.Keys.Select):
		if id, ok := m.finder.selected(); ok {
			m.openFromFinder(id)
		}
	default:
		if m.finder.input(msg) {
			m.finder.refresh(m.Coord)
		}
	}
}

// openFromFinder hands the finder's slot over to id
func (m *Model) openFromFinder(id string) {
	if err := m.Coord.Open(id, nil, modal.EventData{RelatedTarget: FinderPanelID}); err != nil {
		m.setStatus(fmt.Sprintf("open %s: %v", id, err), true)
	}
}

// updateForm forwards msg to a confirm panel's form and closes the panel
// with the answer once the form is done. A refused close leaves the form
// finished so the next message retries it.
func (m *Model) updateForm(p *modal.Panel, c *panelContent, msg tea.Msg) tea.Cmd {
	if c.form == nil {
		return nil
	}
	var cmd tea.Cmd
	if c.form.State == huh.StateNormal {
		form, fc := c.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			c.form = f
		}
		cmd = fc
	}

	var answer bool
	switch c.form.State {
	case huh.StateCompleted:
		answer = c.answer
	case huh.StateAborted:
	default:
		return cmd
	}
	ed := modal.EventData{Values: map[string]any{"answer": answer}}
	if err := p.TryClose(answer, ed); err != nil {
		m.logger.Debug("confirm close refused", "panel", p.ID(), "err", err)
		return cmd
	}
	c.form = nil
	return cmd
}

// handleMouse resolves a mouse message against the regions from the last View
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	action := m.mouse.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return nil
		}
		return m.click(*action.Region)

	case mouse.ActionHover:
		m.host.hover = ""
		if action.Region != nil && action.Region.ID == regionClose {
			m.host.hover = regionClose
		}

	case mouse.ActionScrollDown, mouse.ActionScrollUp:
		delta := 1
		if action.Type == mouse.ActionScrollUp {
			delta = -1
		}
		if c := m.activeContent(); c != nil {
			switch c.kind() {
			case kindFinder:
				m.finder.move(delta)
			case config.KindMarkdown:
				c.scroll(delta)
			}
			return nil
		}
		if delta > 0 {
			m.Page.ScrollDown(3)
		} else {
			m.Page.ScrollUp(3)
		}
	}
	return nil
}

func (m *Model) click(r mouse.Region) tea.Cmd {
	id, _ := r.Data.(string)
	switch r.ID {
	case regionTrigger:
		m.trigger(id, "click")
	case regionWrapper:
		m.Coord.Click(modal.Target{Kind: modal.TargetWrapper, PanelID: id, Source: r})
	case regionContent:
		m.Coord.Click(modal.Target{Kind: modal.TargetContent, PanelID: id, Source: r})
	case regionClose:
		m.Coord.Click(modal.Target{Kind: modal.TargetCloseAction, PanelID: id, Source: r})
	case regionItem:
		m.openFromFinder(id)
	default:
		m.Coord.Click(modal.Target{Kind: modal.TargetPage, Source: r})
	}
	return nil
}

// copyTrace copies the event trace to the clipboard
func (m *Model) copyTrace() tea.Cmd {
	text := formatTraceAsMarkdown(m.trace.entries)
	if err := m.ClipboardFn(text); err != nil {
		m.setStatus("copy failed: "+err.Error(), true)
	} else {
		m.setStatus(fmt.Sprintf("copied %d events", len(m.trace.entries)), false)
	}
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{} })
}

func (m *Model) setStatus(msg string, isError bool) {
	m.StatusMessage = msg
	m.StatusIsError = isError
}

// View implements tea.Model. It also rebuilds the mouse hit map, so
// regions always match what is on screen.
func (m Model) View() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	hm := m.mouse.HitMap
	hm.Clear()
	// page layers stop above the footer so trigger labels stay clickable
	// while a panel is open
	pageRows := max(0, m.Height-footerRows)
	hm.AddRect(regionPage, 0, 0, m.Width, pageRows, nil)
	footer := m.renderFooter()

	active := m.Coord.Instance()
	if active == nil {
		screen, _ := m.Page.Compose("", modal.PositionNone)
		return screen + "\n" + footer
	}

	panel := m.renderPanel(active)
	screen, pl := m.Page.Compose(panel.view, active.Options().Position)

	// the wrapper fills the page; content sits on top of it
	hm.AddRect(regionWrapper, 0, 0, m.Width, pageRows, active.ID())
	if !pl.Empty() {
		hm.AddRect(regionContent, pl.X, pl.Y, pl.Width, pl.Height, active.ID())
		hm.AddRect(regionClose, pl.X+panel.closeX, pl.Y+panel.closeY, len(closeButton), 1, active.ID())
		for row, id := range panel.items {
			hm.AddRect(regionItem, pl.X+2, pl.Y+row, max(0, pl.Width-frameWidth), 1, id)
		}
	}
	return screen + "\n" + footer
}

// renderPanel draws the active panel's content inside its frame
func (m Model) renderPanel(p *modal.Panel) renderedPanel {
	w, h := m.Page.Size()
	pw, _ := panelDimensions(w, h)
	bw, bh := bodyDimensions(w, h)

	c := m.contents[p.ID()]
	if c == nil {
		return frame(p.ID(), "", pw, p.Busy(), m.host.hover == regionClose)
	}

	var body string
	var items map[int]string
	switch c.kind() {
	case config.KindConfirm:
		if c.form != nil {
			body = c.window(c.form.View(), bw, bh)
		}
	case kindFinder:
		body, items = m.finder.view(bw, bh)
	case kindHelp:
		body = c.window(m.helpView(), bw, bh)
	default:
		body = c.window(c.markdown(bw, m.Theme.GlamourStyle()), bw, bh)
	}

	rp := frame(c.title(), body, pw, p.Busy(), m.host.hover == regionClose)
	if len(items) > 0 {
		rp.items = make(map[int]string, len(items))
		for row, id := range items {
			rp.items[bodyTop+row] = id
		}
	}
	return rp
}

// helpView lists key bindings and configured panel triggers
func (m Model) helpView() string {
	var sb strings.Builder
	sb.WriteString(m.Help.FullHelpView(m.Keys.FullHelp()))
	if len(m.triggers) == 0 {
		return sb.String()
	}
	sb.WriteString("\n\n")
	for _, k := range m.triggerKeys() {
		sb.WriteString(fmt.Sprintf("%s  %s\n", infoText.Render(k), m.triggers[k]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// triggerKeys returns trigger keys in panel binding order
func (m Model) triggerKeys() []string {
	var keys []string
	for _, p := range m.Coord.Panels() {
		c := m.contents[p.ID()]
		if c == nil {
			continue
		}
		for _, k := range c.cfg.Triggers {
			if m.triggers[k] == p.ID() {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// renderFooter draws the trigger bar and status line, registering a hit
// region for every trigger
func (m Model) renderFooter() string {
	y := m.Height - footerRows
	var parts []string
	x := 0
	for _, k := range m.triggerKeys() {
		id := m.triggers[k]
		label := triggerKeyStyle.Render(k) + " " + id
		m.mouse.HitMap.AddRect(regionTrigger, x, y, lipgloss.Width(label), 1, id)
		parts = append(parts, label)
		x += lipgloss.Width(label) + 2
	}

	left := strings.Join(parts, "  ")
	if left == "" {
		left = m.Help.ShortHelpView(m.Keys.ShortHelp())
	}

	right := m.status()
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, m.Width, "")
	}
	return footerStyle.Render(left) + strings.Repeat(" ", gap) + right
}

// status returns the status message, or the last lifecycle event
func (m Model) status() string {
	if m.StatusMessage != "" {
		if m.StatusIsError {
			return errorText.Render(m.StatusMessage)
		}
		return infoText.Render(m.StatusMessage)
	}
	if e, ok := m.trace.last(); ok {
		return mutedText.Render(e.String())
	}
	return ""
}
