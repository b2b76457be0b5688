// Package modal provides a lifecycle controller for modal panels layered
// over a page.
//
// The controller guarantees that at most one panel is open at a time, hands
// off between panels when one opens while another is open, and keeps the
// shared backdrop and page scroll compensation consistent with whichever
// panel is active. It does not draw anything; a host implements Page and
// Scheduler and renders what the coordinator tells it.
//
// # Quick Start
//
//	queue := modal.NewQueue()
//	coord := modal.NewCoordinator(page, queue, modal.WithLogger(logger))
//
//	confirm := coord.Bind("confirm", content, modal.Overrides{
//	    Position: modal.At(modal.PositionCenter),
//	})
//	confirm.On(modal.EventBeforeClose, func(ev modal.Event) modal.Verdict {
//	    if unsaved {
//	        return modal.Cancelled
//	    }
//	    return modal.Proceed
//	})
//
//	coord.Open("confirm", nil, modal.EventData{})
//
//	// Once per turn of the host loop:
//	queue.Drain()
//
// # Lifecycle
//
// A panel moves closed -> opening -> open -> closing -> closed. Open and
// Close run synchronously up to the point the panel becomes active or
// inactive; the matching after-event is deferred through the Scheduler and
// the panel stays busy until it has run. Calls made while busy, or that
// would not change open-ness, are ignored.
//
// # Events
//
//   - initialize - when the panel is bound
//   - beforeOpen - cancellable, before any side effect of opening
//   - afterOpen - deferred, once the panel is active
//   - beforeClose - cancellable, before any side effect of closing
//   - afterClose - deferred, once the panel is inactive
//
// During a handoff, EventData.RelatedModal names the other panel on both
// sides. Vetoing the outgoing panel's beforeClose also vetoes the open.
//
// # Options
//
//   - Overlay (default true) - panel needs the shared backdrop
//   - Position (default none) - top, center or bottom alignment class
//   - CloseOnEscape (default true) - esc closes the panel while open
//   - CloseOnOverlay (default true) - a click on the wrapper itself closes it
//   - ContainerClass - extra wrapper class
//
// Options resolve as defaults, then element metadata (MetadataSource),
// then caller overrides.
package modal
