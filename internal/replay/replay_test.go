package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ItsNotGoodName/x-frame/internal/app"
	"github.com/ItsNotGoodName/x-frame/internal/config"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

func run(t *testing.T, s Scenario) Result {
	t.Helper()
	r, err := Run(s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return r
}

func kinds(events []app.Event) []string {
	var out []string
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestLoadMaximize(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "maximize.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := run(t, s)

	if r.Snapshot.Size != (window.Size{Width: 300, Height: 200}) {
		t.Fatalf("size = %v, want the pre-maximize size restored", r.Snapshot.Size)
	}
	if r.Snapshot.StashedSize != nil {
		t.Fatalf("stash = %v, want cleared", r.Snapshot.StashedSize)
	}
	if r.Snapshot.Title != "renamed" || r.Snapshot.AppID != "org.example.demo" {
		t.Fatalf("snapshot = %+v", r.Snapshot)
	}
	if r.Snapshot.Decorations != window.ClientSideDecorated || r.Snapshot.FrameHidden {
		t.Fatalf("decorations = %s hidden=%v", r.Snapshot.Decorations, r.Snapshot.FrameHidden)
	}
	if !slices.Contains(r.Requests, "1: move seat=1 serial=7") {
		t.Fatalf("header click did not start a move:\n%s", strings.Join(r.Requests, "\n"))
	}

	var sizes []window.Size
	for _, ev := range r.Events {
		if ev.Kind == "configure" && ev.Size != nil {
			sizes = append(sizes, *ev.Size)
		}
	}
	want := []window.Size{{Width: 1000, Height: 776}, {Width: 300, Height: 200}}
	if !slices.Equal(sizes, want) {
		t.Fatalf("configured sizes = %v, want %v", sizes, want)
	}
}

func TestServerSideThenClientSide(t *testing.T) {
	mode := window.ModeClientSide
	r := run(t, Scenario{
		Compositor: Compositor{Decorations: true},
		Window:     config.Window{Title: "t", Size: window.Size{Width: 300, Height: 200}},
	})
	if r.Snapshot.Decorations != window.ServerSideDecorated || !r.Snapshot.FrameHidden {
		t.Fatalf("after negotiation: %s hidden=%v", r.Snapshot.Decorations, r.Snapshot.FrameHidden)
	}
	if !slices.Contains(r.Requests, "1: set_window_geometry 0,0 300x200") {
		t.Fatalf("hidden frame geometry not sent:\n%s", strings.Join(r.Requests, "\n"))
	}

	r = run(t, Scenario{
		Compositor: Compositor{Decorations: true},
		Window:     config.Window{Title: "t", Size: window.Size{Width: 300, Height: 200}},
		Steps:      []Step{{DecorationMode: &mode}},
	})
	if r.Snapshot.Decorations != window.ClientSideDecorated || r.Snapshot.FrameHidden {
		t.Fatalf("after client-side: %s hidden=%v", r.Snapshot.Decorations, r.Snapshot.FrameHidden)
	}
	if got := r.Requests[len(r.Requests)-1]; got != "1: set_window_geometry -4,-28 308x232" {
		t.Fatalf("last request = %q", got)
	}
	if !slices.Contains(kinds(r.Events), "refresh") {
		t.Fatalf("events = %v, want a refresh", kinds(r.Events))
	}
}

func TestForcedMode(t *testing.T) {
	r := run(t, Scenario{
		Compositor: Compositor{Decorations: true, Force: window.ModeClientSide},
		Window:     config.Window{Size: window.Size{Width: 100, Height: 100}, Decorations: window.ServerSide},
	})
	if r.Snapshot.Decorations != window.ClientSideDecorated || r.Snapshot.FrameHidden {
		t.Fatalf("decorations = %s hidden=%v", r.Snapshot.Decorations, r.Snapshot.FrameHidden)
	}
	if !slices.Contains(r.Requests, "1: set_mode server-side") {
		t.Fatalf("requests:\n%s", strings.Join(r.Requests, "\n"))
	}
}

func TestCloseButton(t *testing.T) {
	click := window.PointerEvent{Seat: 1, Serial: 9, X: 290, Y: 15, Button: window.ButtonLeft}
	title := "late"
	s := Scenario{
		Compositor: Compositor{Seats: []Seat{{Seat: 1, Pointer: true}}},
		Window:     config.Window{Size: window.Size{Width: 300, Height: 200}},
		Steps:      []Step{{Click: &click}},
	}

	r := run(t, s)
	if !r.Closed {
		t.Fatal("close button did not close the window")
	}
	got := kinds(r.Events)
	if !slices.Contains(got, "close") || got[len(got)-1] != "released" {
		t.Fatalf("events = %v", got)
	}
	if r.Requests[len(r.Requests)-1] != "1: destroy_toplevel" {
		t.Fatalf("last request = %q", r.Requests[len(r.Requests)-1])
	}

	s.Steps = append(s.Steps, Step{SetTitle: &title})
	if _, err := Run(s); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("err = %v, want ErrWindowClosed", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"two actions", "steps:\n  - {close: true, refresh: true}\n"},
		{"no action", "steps:\n  - {}\n"},
		{"unknown field", "steps:\n  - {explode: true}\n"},
		{"unset mode", "steps:\n  - {decoration_mode: unset}\n"},
		{"bad state", "steps:\n  - configure: {states: [floating]}\n"},
		{"min above max", "window: {min_size: {width: 50, height: 50}, max_size: {width: 10, height: 10}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.yaml)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestDumpAndPNG(t *testing.T) {
	r := run(t, Scenario{Window: config.Window{Title: "png", Size: window.Size{Width: 50, Height: 40}}})

	var buf bytes.Buffer
	if err := r.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "Requests") {
		t.Fatalf("dump = %s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := r.WritePNG(path); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if b := r.Canvas.Image.Bounds(); b.Dx() != 58 || b.Dy() != 72 {
		t.Fatalf("canvas = %v", b)
	}
}
