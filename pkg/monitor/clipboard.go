package monitor

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/marcus/modalkit/pkg/modal"
)

// copyToClipboard copies text to the system clipboard
func copyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard tool found (install xclip, xsel or wl-clipboard)")
	}
	return clipboard.WriteAll(text)
}

// traceEntry is one lifecycle event seen by the monitor
type traceEntry struct {
	Panel   string
	Type    modal.EventType
	Related string
	Payload string
}

func (e traceEntry) String() string {
	s := e.Panel + ":" + string(e.Type)
	if e.Related != "" {
		s += " (" + e.Related + ")"
	}
	return s
}

// eventTrace keeps the most recent events
type eventTrace struct {
	limit   int
	entries []traceEntry
}

func newEventTrace(limit int) *eventTrace {
	return &eventTrace{limit: limit}
}

func (t *eventTrace) observe(ev modal.Event) {
	e := traceEntry{Panel: ev.Panel.ID(), Type: ev.Type}
	if ev.Data.RelatedModal != nil {
		e.Related = ev.Data.RelatedModal.ID()
	}
	if ev.Payload != nil {
		e.Payload = fmt.Sprint(ev.Payload)
	}
	t.entries = append(t.entries, e)
	if over := len(t.entries) - t.limit; over > 0 {
		t.entries = t.entries[over:]
	}
}

// last returns the newest entry
func (t *eventTrace) last() (traceEntry, bool) {
	if len(t.entries) == 0 {
		return traceEntry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// formatTraceAsMarkdown formats the trace as markdown for the clipboard
func formatTraceAsMarkdown(entries []traceEntry) string {
	var sb strings.Builder
	sb.WriteString("# Panel events\n\n")
	if len(entries) == 0 {
		sb.WriteString("_no events_\n")
		return sb.String()
	}
	sb.WriteString("| # | panel | event | related | payload |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("| %d | `%s` | %s | %s | %s |\n",
			i+1, e.Panel, e.Type, e.Related, e.Payload))
	}
	return sb.String()
}
