package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marcus/modalkit/pkg/modal"
)

// DefaultBuffer is the number of events the recorder holds before dropping
const DefaultBuffer = 256

// Recorder turns coordinator events into journal entries. Attach registers
// document-level listeners on the host loop; Run writes entries on its own
// goroutine so the loop never waits on the database.
type Recorder struct {
	journal   *Journal
	sessionID string
	logger    *slog.Logger

	ch      chan Entry
	seq     int
	dropped atomic.Int64
	written atomic.Int64

	mu   sync.Mutex
	subs []*modal.Subscription
	now  func() time.Time
}

// NewRecorder creates a recorder writing to j under sessionID
func NewRecorder(j *Journal, sessionID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		journal:   j,
		sessionID: sessionID,
		logger:    logger,
		ch:        make(chan Entry, DefaultBuffer),
		now:       time.Now,
	}
}

// Attach listens to every event type on c
func (r *Recorder) Attach(c *modal.Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range []modal.EventType{
		modal.EventInitialize,
		modal.EventBeforeOpen,
		modal.EventAfterOpen,
		modal.EventBeforeClose,
		modal.EventAfterClose,
	} {
		r.subs = append(r.subs, c.On(t, modal.Observe(r.observe)))
	}
}

// Detach removes the listeners added by Attach
func (r *Recorder) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		s.Unsubscribe()
	}
	r.subs = nil
}

func (r *Recorder) observe(ev modal.Event) {
	r.seq++
	e := Entry{
		SessionID: r.sessionID,
		Seq:       r.seq,
		PanelID:   ev.Panel.ID(),
		Type:      ev.Type,
		Timestamp: r.now(),
	}
	if ev.Data.RelatedModal != nil {
		e.RelatedID = ev.Data.RelatedModal.ID()
	}
	if ev.Payload != nil {
		e.Payload = fmt.Sprint(ev.Payload)
	}

	select {
	case r.ch <- e:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the buffer was full
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns how many events reached the database
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Run writes entries until ctx is cancelled, then flushes what is buffered.
// Entries arriving together are written in one transaction.
func (r *Recorder) Run(ctx context.Context) error {
	// writes already taken off the channel finish even after cancellation
	wctx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return r.flush(wctx)
		case e := <-r.ch:
			if err := r.write(wctx, r.collect([]Entry{e})); err != nil {
				return err
			}
		}
	}
}

// Flush writes everything buffered so far. Safe to call when Run is not running.
func (r *Recorder) Flush(ctx context.Context) error {
	return r.flush(ctx)
}

func (r *Recorder) flush(ctx context.Context) error {
	batch := r.collect(nil)
	return r.write(ctx, batch)
}

func (r *Recorder) collect(batch []Entry) []Entry {
	for {
		select {
		case e := <-r.ch:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

func (r *Recorder) write(ctx context.Context, batch []Entry) error {
	if len(batch) == 0 {
		return nil
	}
	if err := r.journal.Record(ctx, batch...); err != nil {
		r.logger.Error("journal write failed", "entries", len(batch), "err", err)
		return fmt.Errorf("record %d events: %w", len(batch), err)
	}
	r.written.Add(int64(len(batch)))
	r.logger.Debug("journal write", "entries", len(batch), "session", r.sessionID)
	return nil
}
