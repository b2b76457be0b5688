package mouse

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// screen registers the layers the monitor draws for an 80x24 terminal with
// the "settings" panel open: page, footer triggers, backdrop, panel content,
// its close action and two finder rows.
func screen() *HitMap {
	hm := NewHitMap()
	hm.AddRect("page", 0, 0, 80, 23, nil)
	hm.AddRect("trigger", 0, 23, 10, 1, "settings")
	hm.AddRect("trigger", 12, 23, 8, 1, "about")
	hm.AddRect("wrapper", 0, 0, 80, 23, "settings")
	hm.AddRect("content", 20, 5, 40, 10, "settings")
	hm.AddRect("close", 55, 5, 3, 1, "settings")
	hm.AddRect("item", 22, 8, 36, 1, "about")
	hm.AddRect("item", 22, 9, 36, 1, "help")
	return hm
}

func TestHitMapLayers(t *testing.T) {
	hm := screen()

	tests := []struct {
		name     string
		x, y     int
		wantID   string
		wantData any
	}{
		{"backdrop left of panel", 2, 2, "wrapper", "settings"},
		{"backdrop right of panel", 60, 8, "wrapper", "settings"},
		{"panel body", 30, 12, "content", "settings"},
		{"panel top-left corner", 20, 5, "content", "settings"},
		{"panel bottom edge is outside", 30, 15, "wrapper", "settings"},
		{"close action", 56, 5, "close", "settings"},
		{"first finder row", 30, 8, "item", "about"},
		{"second finder row", 57, 9, "item", "help"},
		{"finder row ends inside the frame", 58, 9, "content", "settings"},
		{"footer trigger", 3, 23, "trigger", "settings"},
		{"second footer trigger", 19, 23, "trigger", "about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := hm.Test(tt.x, tt.y)
			if r == nil {
				t.Fatalf("Test(%d, %d) = nil, want %s", tt.x, tt.y, tt.wantID)
			}
			if r.ID != tt.wantID || r.Data != tt.wantData {
				t.Errorf("Test(%d, %d) = %s/%v, want %s/%v", tt.x, tt.y, r.ID, r.Data, tt.wantID, tt.wantData)
			}
		})
	}
}

func TestHitMapGaps(t *testing.T) {
	hm := screen()

	// the gap between footer labels and the rest of the footer row
	for _, pt := range [][2]int{{10, 23}, {11, 23}, {40, 23}, {80, 0}, {-1, 5}} {
		if r := hm.Test(pt[0], pt[1]); r != nil {
			t.Errorf("Test(%d, %d) = %s, want no region", pt[0], pt[1], r.ID)
		}
	}
}

func TestHitMapPageWithoutPanel(t *testing.T) {
	hm := NewHitMap()
	hm.AddRect("page", 0, 0, 80, 23, nil)
	hm.AddRect("trigger", 0, 23, 10, 1, "settings")

	if r := hm.Test(40, 10); r == nil || r.ID != "page" || r.Data != nil {
		t.Errorf("Test(40, 10) = %v, want page", r)
	}

	hm.Clear()
	if len(hm.Regions()) != 0 || hm.Test(40, 10) != nil {
		t.Error("Clear should drop every region")
	}

	// regions registered after Clear are used as normal
	hm.AddRect("wrapper", 0, 0, 80, 23, "about")
	if r := hm.Test(40, 10); r == nil || r.ID != "wrapper" {
		t.Errorf("after re-render: got %v, want wrapper", r)
	}
}

func fixedClock(h *Handler) *time.Time {
	now := time.Unix(1000, 0)
	h.now = func() time.Time { return now }
	return &now
}

func TestHandleClickOnClose(t *testing.T) {
	h := NewHandler()
	h.HitMap = screen()
	now := fixedClock(h)

	res := h.HandleClick(56, 5)
	if res.Region == nil || res.Region.ID != "close" || res.IsDoubleClick {
		t.Fatalf("first click: %+v", res)
	}

	*now = now.Add(100 * time.Millisecond)
	if res := h.HandleClick(57, 5); !res.IsDoubleClick {
		t.Error("second click on the close action should be a double click")
	}

	*now = now.Add(100 * time.Millisecond)
	if res := h.HandleClick(57, 5); res.IsDoubleClick {
		t.Error("a third click should start a new sequence")
	}
}

func TestHandleClickSequences(t *testing.T) {
	tests := []struct {
		name       string
		second     [2]int
		gap        time.Duration
		wantDouble bool
	}{
		{"same row quickly", [2]int{40, 8}, 200 * time.Millisecond, true},
		{"same row at threshold", [2]int{40, 8}, DoubleClickThreshold, true},
		{"same row too slowly", [2]int{40, 8}, DoubleClickThreshold + time.Millisecond, false},
		{"finder row then backdrop", [2]int{2, 2}, 50 * time.Millisecond, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			h.HitMap = screen()
			now := fixedClock(h)

			h.HandleClick(30, 8)
			*now = now.Add(tt.gap)
			if got := h.HandleClick(tt.second[0], tt.second[1]).IsDoubleClick; got != tt.wantDouble {
				t.Errorf("IsDoubleClick = %v, want %v", got, tt.wantDouble)
			}
		})
	}
}

func TestHandleClickMissResetsSequence(t *testing.T) {
	h := NewHandler()
	h.HitMap = screen()
	now := fixedClock(h)

	h.HandleClick(3, 23)
	if res := h.HandleClick(40, 23); res.Region != nil {
		t.Fatalf("click in footer gap hit %s", res.Region.ID)
	}
	*now = now.Add(10 * time.Millisecond)
	if h.HandleClick(3, 23).IsDoubleClick {
		t.Error("a miss between clicks should break the double click")
	}
}

func TestHandleMouse(t *testing.T) {
	tests := []struct {
		name       string
		msg        tea.MouseMsg
		wantType   ActionType
		wantRegion string
	}{
		{
			name:       "left press on content",
			msg:        tea.MouseMsg{X: 30, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
			wantType:   ActionClick,
			wantRegion: "content",
		},
		{
			name:       "wheel down over the panel",
			msg:        tea.MouseMsg{X: 30, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown},
			wantType:   ActionScrollDown,
			wantRegion: "content",
		},
		{
			name:       "wheel up over the backdrop",
			msg:        tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp},
			wantType:   ActionScrollUp,
			wantRegion: "wrapper",
		},
		{
			name:       "hover on close",
			msg:        tea.MouseMsg{X: 55, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone},
			wantType:   ActionHover,
			wantRegion: "close",
		},
		{
			name:     "right press",
			msg:      tea.MouseMsg{X: 30, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonRight},
			wantType: ActionNone,
		},
		{
			name:     "horizontal wheel",
			msg:      tea.MouseMsg{X: 30, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelLeft},
			wantType: ActionNone,
		},
		{
			name:     "release",
			msg:      tea.MouseMsg{X: 30, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
			wantType: ActionNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			h.HitMap = screen()

			act := h.HandleMouse(tt.msg)
			if act.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", act.Type, tt.wantType)
			}
			if act.X != tt.msg.X || act.Y != tt.msg.Y {
				t.Errorf("position = (%d, %d), want (%d, %d)", act.X, act.Y, tt.msg.X, tt.msg.Y)
			}
			switch {
			case tt.wantRegion == "" && act.Region != nil:
				t.Errorf("Region = %s, want none", act.Region.ID)
			case tt.wantRegion != "" && (act.Region == nil || act.Region.ID != tt.wantRegion):
				t.Errorf("Region = %v, want %s", act.Region, tt.wantRegion)
			}
		})
	}
}

func TestHandleMouseDoubleClickOnItem(t *testing.T) {
	h := NewHandler()
	h.HitMap = screen()
	fixedClock(h)

	press := tea.MouseMsg{X: 30, Y: 9, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	h.HandleMouse(press)
	act := h.HandleMouse(press)
	if act.Type != ActionDoubleClick {
		t.Fatalf("Type = %s, want double-click", act.Type)
	}
	if act.Region == nil || act.Region.Data != "help" {
		t.Errorf("Region = %v, want the help row", act.Region)
	}
}

func TestActionTypeString(t *testing.T) {
	tests := map[ActionType]string{
		ActionNone:        "none",
		ActionDoubleClick: "double-click",
		ActionScrollDown:  "scroll-down",
		ActionType(99):    "unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(a), got, want)
		}
	}
}
