package window

import (
	"testing"
)

func TestFrameRequestsAreForwarded(t *testing.T) {
	tests := []struct {
		request FrameRequest
		want    string
	}{
		{RequestMinimize{}, "minimize"},
		{RequestMaximize{}, "maximize"},
		{RequestUnMaximize{}, "unmaximize"},
		{RequestMove{Seat: 2}, "move 2 77"},
		{RequestResize{Seat: 2, Edge: EdgeLeft}, "resize 2 77 left"},
		{RequestShowMenu{Seat: 2, X: 5, Y: 6}, "menu 2 77 5,6"},
	}

	for _, tt := range tests {
		h := newHarness(t, harnessOptions{})
		h.frame.sink(tt.request, 77)

		if len(h.shell.calls) != 1 || h.shell.calls[0] != tt.want {
			t.Fatalf("%T: expected %q, got %v", tt.request, tt.want, h.shell.calls)
		}
		if len(h.events) != 0 {
			t.Fatalf("%T: expected no application events, got %v", tt.request, h.events)
		}
	}
}

func TestFrameRequestsReachApplication(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.frame.sink(RequestClose{}, 1)
	h.frame.sink(RequestRefresh{}, 2)

	if len(h.events) != 2 {
		t.Fatalf("expected 2 events, got %v", h.events)
	}
	if _, ok := h.events[0].(EventClose); !ok {
		t.Fatalf("expected EventClose, got %T", h.events[0])
	}
	if _, ok := h.events[1].(EventRefresh); !ok {
		t.Fatalf("expected EventRefresh, got %T", h.events[1])
	}
}

func TestFrameRequestsDuringConstructionAreDropped(t *testing.T) {
	shell := &fakeShell{}
	env := Env{
		Compositor:    struct{}{},
		Subcompositor: struct{}{},
		Shm:           struct{}{},
		Shell:         &fakeShellFactory{shell: shell},
		Seats:         fakeSeats{},
	}
	var events []Event

	_, err := New[*fakeFrame, fakeConfig](env, fakeSurface(1), Size{Width: 10, Height: 10},
		func(_ Surface, _ FrameEnv, requests RequestSink) (*fakeFrame, error) {
			requests(RequestMaximize{}, 1)
			requests(RequestClose{}, 2)
			return &fakeFrame{newSeat: map[Seat]int{}, removeSeat: map[Seat]int{}}, nil
		},
		func(ev Event) { events = append(events, ev) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shell.calls) != 0 || len(events) != 0 {
		t.Fatalf("expected requests to be dropped, got %v and %v", shell.calls, events)
	}
}

func TestFrameRequestFromPointerIsQueued(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.frame.onInput = func(f *fakeFrame, ev PointerEvent) {
		if ev.Kind == PointerPress {
			f.sink(RequestClose{}, ev.Serial)
			if len(h.events) != 0 {
				t.Fatalf("request must not be applied while the frame is handling input")
			}
		}
	}
	h.onEvent = func(h *harness, ev Event) {
		if _, ok := ev.(EventClose); ok {
			h.window.Resize(320, 200)
		}
	}

	h.window.Dispatch(MsgPointer{Event: PointerEvent{Seat: 1, Serial: 9, Kind: PointerPress, Button: ButtonLeft}})

	if len(h.events) != 1 {
		t.Fatalf("expected the close to be delivered after input handling, got %v", h.events)
	}
	if got := h.window.Size(); got != (Size{Width: 320, Height: 200}) {
		t.Fatalf("expected the handler's resize to apply, got %v", got)
	}
	if len(h.frame.pointer) != 1 {
		t.Fatalf("expected frame to see the pointer event")
	}
}

func TestHandlerDispatchWaitsForBatch(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.frame.refresh = true
	h.onEvent = func(h *harness, ev Event) {
		if _, ok := ev.(EventRefresh); ok {
			h.window.Dispatch(MsgClose{})
		}
	}

	h.window.Dispatch(MsgConfigure{States: []State{StateActivated}})

	if len(h.events) != 3 {
		t.Fatalf("expected 3 events, got %v", h.events)
	}
	if _, ok := h.events[1].(EventConfigure); !ok {
		t.Fatalf("expected configure before the handler's close, got %T", h.events[1])
	}
	if _, ok := h.events[2].(EventClose); !ok {
		t.Fatalf("expected close last, got %T", h.events[2])
	}
}
