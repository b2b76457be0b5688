package script

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/marcus/modalkit/internal/termpage"
	"github.com/marcus/modalkit/pkg/modal"
)

// Step is the outcome of one command
type Step struct {
	Command Command
	// Events lists every event emitted while the command ran, as
	// "panel:type" with a related panel appended after "<-" or "->"
	Events []string
	// Refusal is set when an open or close was refused
	Refusal string
	// Failure is set when an expect command did not hold
	Failure string
}

// Trace is the record of a whole run
type Trace struct {
	Steps []Step
	// Overlay counts backdrop creations and removals
	Overlay modal.OverlayStats
}

// Failed reports whether any expectation failed
func (t *Trace) Failed() bool {
	for _, s := range t.Steps {
		if s.Failure != "" {
			return true
		}
	}
	return false
}

// Failures returns the failed expectations
func (t *Trace) Failures() []Step {
	var out []Step
	for _, s := range t.Steps {
		if s.Failure != "" {
			out = append(out, s)
		}
	}
	return out
}

// Runner executes commands against its own coordinator and page
type Runner struct {
	page   *termpage.Page
	queue  *modal.Queue
	coord  *modal.Coordinator
	logger *slog.Logger

	vetoes map[string]*modal.Subscription
	events []string
}

// Option configures a Runner
type Option func(*runnerConfig)

type runnerConfig struct {
	namespace     string
	logger        *slog.Logger
	width, height int
}

// WithNamespace sets the class namespace
func WithNamespace(ns string) Option {
	return func(c *runnerConfig) { c.namespace = ns }
}

// WithLogger sets the coordinator logger
func WithLogger(l *slog.Logger) Option {
	return func(c *runnerConfig) { c.logger = l }
}

// WithSize sets the page size
func WithSize(width, height int) Option {
	return func(c *runnerConfig) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// NewRunner creates a runner with a fixed 80x24 page
func NewRunner(opts ...Option) *Runner {
	cfg := runnerConfig{namespace: modal.DefaultNamespace, logger: slog.Default(), width: 80, height: 24}
	for _, opt := range opts {
		opt(&cfg)
	}

	page := termpage.New(termpage.Config{Title: "script", LockClass: cfg.namespace + "-open"})
	page.SetSize(cfg.width, cfg.height)
	q := modal.NewQueue()
	c := modal.NewCoordinator(page, q, modal.WithLogger(cfg.logger), modal.WithNamespace(cfg.namespace))

	r := &Runner{
		page:   page,
		queue:  q,
		coord:  c,
		logger: cfg.logger,
		vetoes: make(map[string]*modal.Subscription),
	}
	for _, t := range []modal.EventType{
		modal.EventInitialize, modal.EventBeforeOpen, modal.EventAfterOpen,
		modal.EventBeforeClose, modal.EventAfterClose,
	} {
		c.On(t, modal.Observe(r.observe))
	}
	return r
}

// Coordinator exposes the coordinator commands run against
func (r *Runner) Coordinator() *modal.Coordinator { return r.coord }

// Page exposes the page commands run against
func (r *Runner) Page() *termpage.Page { return r.page }

func (r *Runner) observe(ev modal.Event) {
	name := ev.Panel.ID() + ":" + string(ev.Type)
	if rel := ev.Data.RelatedModal; rel != nil {
		switch ev.Type {
		case modal.EventBeforeOpen, modal.EventAfterOpen:
			name += "<-" + rel.ID()
		default:
			name += "->" + rel.ID()
		}
	}
	r.events = append(r.events, name)
}

// Run executes every command. Command errors (unknown panels, bad option
// values) stop the run; failed expectations do not.
func (r *Runner) Run(cmds []Command) (*Trace, error) {
	trace := &Trace{}
	for _, cmd := range cmds {
		r.events = nil
		r.logger.Debug("script step", "line", cmd.Line, "cmd", cmd.String())
		step := Step{Command: cmd}
		if err := r.exec(cmd, &step); err != nil {
			return trace, fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Name, err)
		}
		step.Events = r.events
		trace.Steps = append(trace.Steps, step)
	}
	trace.Overlay = r.coord.Overlay().Stats()
	return trace, nil
}

func (r *Runner) panel(id string) (*modal.Panel, error) {
	p, ok := r.coord.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", modal.ErrUnknownPanel, id)
	}
	return p, nil
}

func (r *Runner) exec(cmd Command, step *Step) error {
	switch cmd.Name {
	case "page":
		switch cmd.Args[0] {
		case "scrollable":
			r.page.SetContent("script", strings.Repeat("lorem ipsum\n", r.page.ViewportWidth()))
		case "fixed":
			r.page.SetContent("script", "")
		default:
			return fmt.Errorf("page must be scrollable or fixed, got %q", cmd.Args[0])
		}

	case "bind":
		ov, err := overridesFrom(cmd.Params)
		if err != nil {
			return err
		}
		r.coord.Bind(cmd.Args[0], nil, ov)

	case "open":
		p, err := r.panel(cmd.Args[0])
		if err != nil {
			return err
		}
		var payload any
		if len(cmd.Args) > 1 {
			payload = cmd.Args[1]
		}
		step.Refusal = refusal(p.TryOpen(payload, modal.EventData{}))

	case "close":
		var p *modal.Panel
		if len(cmd.Args) == 0 {
			p = r.coord.Instance()
			if p == nil {
				step.Refusal = "nothing open"
				return nil
			}
		} else {
			var err error
			if p, err = r.panel(cmd.Args[0]); err != nil {
				return err
			}
		}
		step.Refusal = refusal(p.TryClose(nil, modal.EventData{}))

	case "toggle":
		p, err := r.panel(cmd.Args[0])
		if err != nil {
			return err
		}
		p.Toggle(nil, modal.EventData{})

	case "set":
		p, err := r.panel(cmd.Args[0])
		if err != nil {
			return err
		}
		return p.SetOption(modal.OptionKey(cmd.Args[1]), parseValue(cmd.Args[2]))

	case "veto", "allow":
		return r.veto(cmd)

	case "key":
		r.coord.KeyUp(cmd.Args[0])

	case "click":
		kind, ok := clickKinds[cmd.Args[0]]
		if !ok {
			return fmt.Errorf("unknown click target %q", cmd.Args[0])
		}
		r.coord.Click(modal.Target{Kind: kind, PanelID: cmd.Args[1]})

	case "destroy":
		p, err := r.panel(cmd.Args[0])
		if err != nil {
			return err
		}
		step.Refusal = refusal(p.Destroy())

	case "flush":
		r.queue.Drain()

	case "idle":
		r.queue.RunUntilIdle()

	case "expect":
		step.Failure = r.expect(cmd.Args)
	}
	return nil
}

var clickKinds = map[string]modal.TargetKind{
	"wrapper": modal.TargetWrapper,
	"content": modal.TargetContent,
	"close":   modal.TargetCloseAction,
	"trigger": modal.TargetTrigger,
	"page":    modal.TargetPage,
}

func (r *Runner) veto(cmd Command) error {
	t, ok := modal.NormalizeEventType(cmd.Args[0])
	if !ok {
		return fmt.Errorf("unknown event %q", cmd.Args[0])
	}
	if !t.Cancellable() {
		return fmt.Errorf("event %s cannot be vetoed", t)
	}
	id := ""
	if len(cmd.Args) > 1 {
		id = cmd.Args[1]
	}
	key := string(t) + "/" + id

	if cmd.Name == "allow" {
		if sub, ok := r.vetoes[key]; ok {
			sub.Unsubscribe()
			delete(r.vetoes, key)
		}
		return nil
	}
	if _, ok := r.vetoes[key]; ok {
		return nil
	}

	deny := func(modal.Event) modal.Verdict { return modal.Cancelled }
	if id == "" {
		r.vetoes[key] = r.coord.On(t, deny)
		return nil
	}
	p, err := r.panel(id)
	if err != nil {
		return err
	}
	r.vetoes[key] = p.On(t, deny)
	return nil
}

func (r *Runner) expect(args []string) string {
	switch args[0] {
	case "active":
		got := "none"
		if p := r.coord.Instance(); p != nil {
			got = p.ID()
		}
		if got != args[1] {
			return fmt.Sprintf("active: got %s, want %s", got, args[1])
		}
	case "overlay":
		got := "off"
		if r.coord.Overlay().Visible() {
			got = "on"
		}
		if got != args[1] {
			return fmt.Sprintf("overlay: got %s, want %s", got, args[1])
		}
	case "padding":
		want, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Sprintf("padding: bad number %q", args[1])
		}
		if got := r.page.PaddingRight(); got != want {
			return fmt.Sprintf("padding: got %d, want %d", got, want)
		}
	case "class", "state":
		if len(args) != 3 {
			return fmt.Sprintf("%s takes a panel id and a value", args[0])
		}
		p, ok := r.coord.Lookup(args[1])
		if !ok {
			return fmt.Sprintf("%s: unknown panel %q", args[0], args[1])
		}
		if args[0] == "state" {
			if got := string(p.State()); got != args[2] {
				return fmt.Sprintf("state %s: got %s, want %s", args[1], got, args[2])
			}
		} else if !p.Wrapper().HasClass(args[2]) {
			return fmt.Sprintf("class %s: %v has no %s", args[1], p.Wrapper().Classes(), args[2])
		}
	default:
		return fmt.Sprintf("unknown expectation %q", args[0])
	}
	return ""
}

func refusal(err error) string {
	var te *modal.TransitionError
	if errors.As(err, &te) {
		if te.Related != "" {
			return fmt.Sprintf("%s (%s)", te.Reason, te.Related)
		}
		return string(te.Reason)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func overridesFrom(params map[string]string) (modal.Overrides, error) {
	keys := map[string]modal.OptionKey{
		"overlay":        modal.OptionOverlay,
		"position":       modal.OptionPosition,
		"closeOnEscape":  modal.OptionCloseOnEscape,
		"closeOnOverlay": modal.OptionCloseOnOverlay,
		"class":          modal.OptionContainerClass,
	}
	var out modal.Overrides
	for _, k := range sortedKeys(params) {
		key, ok := keys[k]
		if !ok {
			return out, fmt.Errorf("unknown option %q", k)
		}
		ov, err := modal.OverrideFor(key, parseValue(params[k]))
		if err != nil {
			return out, err
		}
		out = merge(out, ov)
	}
	return out, nil
}

func merge(a, b modal.Overrides) modal.Overrides {
	if b.Overlay != nil {
		a.Overlay = b.Overlay
	}
	if b.Position != nil {
		a.Position = b.Position
	}
	if b.CloseOnEscape != nil {
		a.CloseOnEscape = b.CloseOnEscape
	}
	if b.CloseOnOverlay != nil {
		a.CloseOnOverlay = b.CloseOnOverlay
	}
	if b.ContainerClass != nil {
		a.ContainerClass = b.ContainerClass
	}
	return a
}

// parseValue turns "true"/"false" into bools and leaves everything else a string
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
