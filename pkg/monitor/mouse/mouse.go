// Package mouse maps terminal mouse events onto named screen regions.
//
// The monitor registers one region per layer it draws (page, backdrop,
// panel content, close action, triggers) on every render, then asks the
// handler which region a click landed on. Later regions win, so layers
// drawn on top are registered last.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickThreshold is the longest gap between two clicks on the same
// region that still counts as a double click
const DoubleClickThreshold = 400 * time.Millisecond

// Rect is a screen rectangle. X/Y are inclusive, W/H exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangle with optional payload
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions in registration order
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region. Regions added later take priority.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			r := m.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns the registered regions
func (m *HitMap) Regions() []Region {
	return m.regions
}

// Clear removes every region
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// ActionType classifies a mouse event after hit testing
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
)

var actionNames = map[ActionType]string{
	ActionNone:        "none",
	ActionClick:       "click",
	ActionDoubleClick: "double-click",
	ActionHover:       "hover",
	ActionScrollUp:    "scroll-up",
	ActionScrollDown:  "scroll-down",
}

func (a ActionType) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Action is the result of HandleMouse
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// ClickResult is the result of HandleClick
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler adds click timing on top of a HitMap
type Handler struct {
	HitMap *HitMap

	lastClickAt     time.Time
	lastClickRegion string

	now func() time.Time
}

// NewHandler creates a handler with an empty hit map
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// HandleClick hit-tests a click. Two clicks on the same region within
// DoubleClickThreshold make a double click.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickRegion = ""
		return ClickResult{}
	}

	now := h.now()
	double := h.lastClickRegion == region.ID && now.Sub(h.lastClickAt) <= DoubleClickThreshold
	if double {
		// a third click starts a new sequence
		h.lastClickRegion = ""
	} else {
		h.lastClickRegion = region.ID
		h.lastClickAt = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// HandleMouse classifies a Bubble Tea mouse message. Releases and
// horizontal wheels are ignored.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	act := Action{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			act.Type = ActionScrollUp
		case tea.MouseButtonWheelDown:
			act.Type = ActionScrollDown
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			act.Region = res.Region
			act.Type = ActionClick
			if res.IsDoubleClick {
				act.Type = ActionDoubleClick
			}
			return act
		default:
			return act
		}
		act.Region = h.HitMap.Test(msg.X, msg.Y)

	case tea.MouseActionMotion:
		act.Type = ActionHover
		act.Region = h.HitMap.Test(msg.X, msg.Y)
	}
	return act
}
