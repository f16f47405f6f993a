package window

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestResizeFloorsAtOne(t *testing.T) {
	tests := []struct {
		width, height int32
		want          Size
	}{
		{800, 600, Size{Width: 800, Height: 600}},
		{1, 1, Size{Width: 1, Height: 1}},
		{0, 0, Size{Width: 1, Height: 1}},
		{-20, 30, Size{Width: 1, Height: 30}},
	}

	for _, tt := range tests {
		h := newHarness(t, harnessOptions{})
		h.window.Resize(tt.width, tt.height)

		if got := h.window.Size(); got != tt.want {
			t.Fatalf("Resize(%d, %d): expected %v, got %v", tt.width, tt.height, tt.want, got)
		}
		if got := h.frame.resizes[len(h.frame.resizes)-1]; got != tt.want {
			t.Fatalf("Resize(%d, %d): expected frame resized to %v, got %v", tt.width, tt.height, tt.want, got)
		}
	}
}

func TestResizeSendsBorderInclusiveGeometry(t *testing.T) {
	h := newHarness(t, harnessOptions{border: 5})
	h.window.Resize(800, 600)

	want := [4]int32{-5, -5, 810, 610}
	if h.shell.geometry != want {
		t.Fatalf("expected geometry %v, got %v", want, h.shell.geometry)
	}
}

func TestConfigureEndToEnd(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	resizesBefore := len(h.frame.resizes)

	h.window.Dispatch(MsgConfigure{Size: sizePtr(800, 600)})

	if len(h.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(h.events))
	}
	ev, ok := h.events[0].(EventConfigure)
	if !ok {
		t.Fatalf("expected EventConfigure, got %T", h.events[0])
	}
	if ev.NewSize == nil || *ev.NewSize != (Size{Width: 800, Height: 600}) {
		t.Fatalf("expected new size 800x600, got %v", ev.NewSize)
	}
	if len(ev.States) != 0 {
		t.Fatalf("expected no states, got %v", ev.States)
	}

	h.window.Resize(ev.NewSize.Width, ev.NewSize.Height)
	h.window.Refresh()

	resizes := h.frame.resizes[resizesBefore:]
	if len(resizes) != 1 || resizes[0] != (Size{Width: 800, Height: 600}) {
		t.Fatalf("expected exactly one frame resize to 800x600, got %v", resizes)
	}
	if h.frame.redraws != 1 {
		t.Fatalf("expected exactly one redraw, got %d", h.frame.redraws)
	}
}

func TestConfigureHandlerCanResize(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.onEvent = func(h *harness, ev Event) {
		if ev, ok := ev.(EventConfigure); ok && ev.NewSize != nil {
			h.window.Resize(ev.NewSize.Width, ev.NewSize.Height)
			h.window.Refresh()
		}
	}

	h.window.Dispatch(MsgConfigure{Size: sizePtr(640, 480)})

	if got := h.window.Size(); got != (Size{Width: 640, Height: 480}) {
		t.Fatalf("expected 640x480, got %v", got)
	}
	if h.frame.redraws != 1 {
		t.Fatalf("expected one redraw, got %d", h.frame.redraws)
	}
}

func TestConfigureSubtractsBordersAndClamps(t *testing.T) {
	h := newHarness(t, harnessOptions{border: 5})
	lo, hi := Size{Width: 100, Height: 100}, Size{Width: 400, Height: 300}
	h.window.SetMinSize(&lo)
	h.window.SetMaxSize(&hi)

	tests := []struct {
		suggested Size
		want      Size
	}{
		{Size{Width: 220, Height: 220}, Size{Width: 210, Height: 210}},
		{Size{Width: 50, Height: 50}, Size{Width: 100, Height: 100}},
		{Size{Width: 1000, Height: 1000}, Size{Width: 400, Height: 300}},
		{Size{Width: 0, Height: 0}, Size{Width: 100, Height: 100}},
	}

	for _, tt := range tests {
		h.window.Dispatch(MsgConfigure{Size: &tt.suggested})
		got := h.lastConfigure().NewSize
		if got == nil || *got != tt.want {
			t.Fatalf("suggested %v: expected %v, got %v", tt.suggested, tt.want, got)
		}
	}
}

func TestConfigureStaysWithinBounds(t *testing.T) {
	h := newHarness(t, harnessOptions{border: 3})
	lo, hi := Size{Width: 50, Height: 40}, Size{Width: 500, Height: 400}
	h.window.SetMinSize(&lo)
	h.window.SetMaxSize(&hi)

	for width := int32(-10); width < 700; width += 37 {
		for height := int32(-10); height < 600; height += 41 {
			h.window.Dispatch(MsgConfigure{Size: sizePtr(width, height)})
			got := h.lastConfigure().NewSize
			if got.Width < lo.Width || got.Height < lo.Height || got.Width > hi.Width || got.Height > hi.Height {
				t.Fatalf("suggested %dx%d: %v outside [%v, %v]", width, height, got, lo, hi)
			}
		}
	}
}

func TestConfigureFloorsAtOneWithoutMinimum(t *testing.T) {
	h := newHarness(t, harnessOptions{border: 10})
	h.window.Dispatch(MsgConfigure{Size: sizePtr(5, 5)})

	got := h.lastConfigure().NewSize
	if *got != DefaultMinSize {
		t.Fatalf("expected %v, got %v", DefaultMinSize, got)
	}
}

func TestConfigureStashesOnceAndRestores(t *testing.T) {
	h := newHarness(t, harnessOptions{size: Size{Width: 800, Height: 600}})
	maximized := []State{StateMaximized}

	h.window.Dispatch(MsgConfigure{States: maximized, Size: sizePtr(1920, 1080)})
	ev := h.lastConfigure()
	if ev.NewSize == nil || *ev.NewSize != (Size{Width: 1920, Height: 1080}) {
		t.Fatalf("expected 1920x1080, got %v", ev.NewSize)
	}
	if !HasState(ev.States, StateMaximized) {
		t.Fatalf("expected maximized state, got %v", ev.States)
	}
	if got := h.window.Snapshot().StashedSize; got == nil || *got != (Size{Width: 800, Height: 600}) {
		t.Fatalf("expected 800x600 stashed, got %v", got)
	}

	h.window.Resize(1920, 1080)
	h.window.Dispatch(MsgConfigure{States: maximized, Size: sizePtr(1920, 1080)})
	if got := h.window.Snapshot().StashedSize; got == nil || *got != (Size{Width: 800, Height: 600}) {
		t.Fatalf("expected stash to survive a second maximized configure, got %v", got)
	}

	h.window.Dispatch(MsgConfigure{})
	ev = h.lastConfigure()
	if ev.NewSize == nil || *ev.NewSize != (Size{Width: 800, Height: 600}) {
		t.Fatalf("expected 800x600 restored, got %v", ev.NewSize)
	}
	if got := h.window.Snapshot().StashedSize; got != nil {
		t.Fatalf("expected stash to be cleared, got %v", got)
	}

	h.window.Dispatch(MsgConfigure{})
	if got := h.lastConfigure().NewSize; got != nil {
		t.Fatalf("expected no size once the stash is consumed, got %v", got)
	}
}

func TestConfigureConstrainedStates(t *testing.T) {
	for _, state := range []State{StateMaximized, StateFullscreen, StateTiledTop, StateTiledRight, StateTiledBottom, StateTiledLeft} {
		h := newHarness(t, harnessOptions{size: Size{Width: 300, Height: 200}})
		h.window.Dispatch(MsgConfigure{States: []State{StateActivated, state}})
		if h.window.Snapshot().StashedSize == nil {
			t.Fatalf("%s: expected size to be stashed", state)
		}
	}

	for _, state := range []State{StateActivated, StateResizing} {
		h := newHarness(t, harnessOptions{size: Size{Width: 300, Height: 200}})
		h.window.Dispatch(MsgConfigure{States: []State{state}})
		if h.window.Snapshot().StashedSize != nil {
			t.Fatalf("%s: expected no stash", state)
		}
	}
}

func TestConfigureWithSizeDropsStash(t *testing.T) {
	h := newHarness(t, harnessOptions{size: Size{Width: 800, Height: 600}})
	h.window.Dispatch(MsgConfigure{States: []State{StateFullscreen}, Size: sizePtr(1920, 1080)})
	h.window.Dispatch(MsgConfigure{Size: sizePtr(1024, 768)})

	if got := h.window.Snapshot().StashedSize; got != nil {
		t.Fatalf("expected stash to be dropped, got %v", got)
	}
	h.window.Dispatch(MsgConfigure{})
	if got := h.lastConfigure().NewSize; got != nil {
		t.Fatalf("expected nothing to restore, got %v", got)
	}
}

func TestConfigureRefreshComesFirst(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.frame.refresh = true

	h.window.Dispatch(MsgConfigure{States: []State{StateActivated}})

	if len(h.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(h.events))
	}
	if _, ok := h.events[0].(EventRefresh); !ok {
		t.Fatalf("expected EventRefresh first, got %T", h.events[0])
	}
	if _, ok := h.events[1].(EventConfigure); !ok {
		t.Fatalf("expected EventConfigure second, got %T", h.events[1])
	}
	if !HasState(h.frame.states, StateActivated) {
		t.Fatalf("expected frame states to be updated, got %v", h.frame.states)
	}
}

func TestCloseDeliversOneEvent(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.window.Dispatch(MsgClose{})
	h.window.Dispatch(MsgClose{})

	if len(h.events) != 2 {
		t.Fatalf("expected one close per notification, got %d events", len(h.events))
	}
	for _, ev := range h.events {
		if _, ok := ev.(EventClose); !ok {
			t.Fatalf("expected EventClose, got %T", ev)
		}
	}
	if h.shell.destroyed {
		t.Fatalf("close must not destroy the toplevel")
	}
}

func TestSetTitleTruncatesAtRuneBoundary(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	exact := strings.Repeat("a", MaxTitleBytes)
	h.window.SetTitle(exact)
	if h.shell.title != exact {
		t.Fatalf("expected a %d byte title to be kept", MaxTitleBytes)
	}

	long := strings.Repeat("a", MaxTitleBytes-1) + "é"
	h.window.SetTitle(long)
	if len(h.shell.title) != MaxTitleBytes-1 {
		t.Fatalf("expected %d bytes, got %d", MaxTitleBytes-1, len(h.shell.title))
	}
	if !utf8.ValidString(h.shell.title) {
		t.Fatalf("expected valid UTF-8 title")
	}
	if h.frame.title != h.shell.title {
		t.Fatalf("expected frame and shell titles to match")
	}
}

func TestSetTitleKeepsInvalidUTF8Prefix(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	h.window.SetTitle("a" + strings.Repeat("\x80", 2000))
	if len(h.shell.title) != MaxTitleBytes {
		t.Fatalf("expected %d bytes, got %d", MaxTitleBytes, len(h.shell.title))
	}
	if h.shell.title[0] != 'a' {
		t.Fatalf("expected the leading byte to survive")
	}

	h.window.SetTitle(strings.Repeat("\x80", MaxTitleBytes-2) + "世界")
	if len(h.shell.title) != MaxTitleBytes-2 {
		t.Fatalf("expected cut before the split rune, got %d bytes", len(h.shell.title))
	}
}

func TestSetAppID(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.window.SetAppID("org.example.viewer")
	if h.shell.appID != "org.example.viewer" {
		t.Fatalf("expected app id to be forwarded, got %q", h.shell.appID)
	}
}

func TestMinSizeDefaultsToFloor(t *testing.T) {
	h := newHarness(t, harnessOptions{border: 5})
	want := Size{Width: 12, Height: 11}
	if h.shell.minSize == nil || *h.shell.minSize != want {
		t.Fatalf("expected initial min size %v, got %v", want, h.shell.minSize)
	}

	h.window.SetMinSize(sizePtr(200, 100))
	if *h.shell.minSize != (Size{Width: 210, Height: 110}) {
		t.Fatalf("expected 210x110, got %v", h.shell.minSize)
	}

	h.window.SetMinSize(nil)
	if *h.shell.minSize != want {
		t.Fatalf("expected min size reset to %v, got %v", want, h.shell.minSize)
	}
}

func TestMaxSizeKeepsMinimumBelow(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.window.SetMinSize(sizePtr(300, 300))
	h.window.SetMaxSize(sizePtr(200, 400))

	snap := h.window.Snapshot()
	if snap.MaxSize == nil || *snap.MaxSize != (Size{Width: 300, Height: 400}) {
		t.Fatalf("expected max raised to 300x400, got %v", snap.MaxSize)
	}

	h.window.SetMaxSize(nil)
	if h.shell.maxSize != nil {
		t.Fatalf("expected max size cleared, got %v", h.shell.maxSize)
	}
}

func TestSetResizableLocksAndRestores(t *testing.T) {
	h := newHarness(t, harnessOptions{border: 5})
	h.window.SetMaxSize(sizePtr(1000, 1000))

	h.window.SetResizable(false)
	locked := Size{Width: 110, Height: 110}
	if *h.shell.minSize != locked || *h.shell.maxSize != locked {
		t.Fatalf("expected min and max locked to %v, got %v and %v", locked, h.shell.minSize, h.shell.maxSize)
	}
	if h.frame.resizable {
		t.Fatalf("expected frame to be told it is not resizable")
	}

	h.window.Resize(200, 150)
	locked = Size{Width: 210, Height: 160}
	if *h.shell.minSize != locked || *h.shell.maxSize != locked {
		t.Fatalf("expected lock to follow resize to %v, got %v and %v", locked, h.shell.minSize, h.shell.maxSize)
	}

	h.window.SetResizable(true)
	if *h.shell.minSize != (Size{Width: 12, Height: 11}) {
		t.Fatalf("expected min size restored, got %v", h.shell.minSize)
	}
	if *h.shell.maxSize != (Size{Width: 1010, Height: 1010}) {
		t.Fatalf("expected max size restored, got %v", h.shell.maxSize)
	}
	if !h.frame.resizable {
		t.Fatalf("expected frame to be resizable again")
	}
}

func TestForwardingRequests(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.window.SetMaximized()
	h.window.UnsetMaximized()
	h.window.SetMinimized()
	h.window.SetFullscreen(Output(2))
	h.window.UnsetFullscreen()
	h.window.StartInteractiveMove(Seat(1), 42)
	h.window.StartInteractiveResize(Seat(1), 43, EdgeBottomRight)
	h.window.ShowWindowMenu(Seat(1), 44, 10, 20)

	want := []string{
		"maximize",
		"unmaximize",
		"minimize",
		"fullscreen 2",
		"unfullscreen",
		"move 1 42",
		"resize 1 43 bottom-right",
		"menu 1 44 10,20",
	}
	if strings.Join(h.shell.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, h.shell.calls)
	}
}

func TestSetFrameConfig(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.window.SetFrameConfig(fakeConfig{Theme: "dark"})
	if h.frame.config.Theme != "dark" {
		t.Fatalf("expected config to reach the frame, got %+v", h.frame.config)
	}
}

func TestRelease(t *testing.T) {
	h := newHarness(t, harnessOptions{decoration: true})
	h.window.Release()

	if !h.shell.destroyed || !h.decoration.destroyed || !h.frame.destroyed {
		t.Fatalf("expected shell, decoration and frame destroyed: %v %v %v", h.shell.destroyed, h.decoration.destroyed, h.frame.destroyed)
	}

	h.window.Dispatch(MsgClose{})
	h.frame.sink(RequestRefresh{}, 1)
	if len(h.events) != 0 {
		t.Fatalf("expected no events after release, got %v", h.events)
	}
}

func TestReleaseFromHandlerStopsDelivery(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.frame.refresh = true
	h.onEvent = func(h *harness, ev Event) {
		if _, ok := ev.(EventRefresh); ok {
			h.window.Release()
		}
	}

	h.window.Dispatch(MsgConfigure{})

	if len(h.events) != 1 {
		t.Fatalf("expected delivery to stop after release, got %v", h.events)
	}
}
