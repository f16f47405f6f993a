// Package replay drives a window through a scripted session against an
// in-memory server.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ItsNotGoodName/x-frame/internal/app"
	"github.com/ItsNotGoodName/x-frame/internal/config"
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/k0kubun/pp"
	"gopkg.in/yaml.v3"
)

type Scenario struct {
	Compositor Compositor    `yaml:"compositor"`
	Window     config.Window `yaml:"window"`
	Frame      *frame.Config `yaml:"frame"`
	Steps      []Step        `yaml:"steps"`
}

// Step is one server event or application call. Exactly one field is set.
// A zero size for set_min_size or set_max_size clears the bound.
type Step struct {
	Configure      *Configure             `yaml:"configure,omitempty"`
	Close          bool                   `yaml:"close,omitempty"`
	DecorationMode *window.DecorationMode `yaml:"decoration_mode,omitempty"`
	Seat           *SeatChange            `yaml:"seat,omitempty"`
	Pointer        *window.PointerEvent   `yaml:"pointer,omitempty"`
	Click          *window.PointerEvent   `yaml:"click,omitempty"`
	SetTitle       *string                `yaml:"set_title,omitempty"`
	SetAppID       *string                `yaml:"set_app_id,omitempty"`
	SetDecorate    *window.Decorations    `yaml:"set_decorate,omitempty"`
	SetResizable   *bool                  `yaml:"set_resizable,omitempty"`
	SetMinSize     *window.Size           `yaml:"set_min_size,omitempty"`
	SetMaxSize     *window.Size           `yaml:"set_max_size,omitempty"`
	Resize         *window.Size           `yaml:"resize,omitempty"`
	Maximize       bool                   `yaml:"maximize,omitempty"`
	Unmaximize     bool                   `yaml:"unmaximize,omitempty"`
	Minimize       bool                   `yaml:"minimize,omitempty"`
	Fullscreen     *window.Output         `yaml:"fullscreen,omitempty"`
	Unfullscreen   bool                   `yaml:"unfullscreen,omitempty"`
	Move           *Grab                  `yaml:"move,omitempty"`
	ResizeEdge     *Grab                  `yaml:"resize_edge,omitempty"`
	ShowMenu       *Menu                  `yaml:"show_menu,omitempty"`
	Refresh        bool                   `yaml:"refresh,omitempty"`
}

type Configure struct {
	Size   *window.Size   `yaml:"size"`
	States []window.State `yaml:"states"`
}

type SeatChange struct {
	Seat    window.Seat `yaml:"seat"`
	Pointer bool        `yaml:"pointer"`
	Defunct bool        `yaml:"defunct"`
}

type Grab struct {
	Seat   window.Seat       `yaml:"seat"`
	Serial uint32            `yaml:"serial"`
	Edge   window.ResizeEdge `yaml:"edge"`
}

type Menu struct {
	Seat   window.Seat `yaml:"seat"`
	Serial uint32      `yaml:"serial"`
	X      int32       `yaml:"x"`
	Y      int32       `yaml:"y"`
}

func Load(filePath string) (Scenario, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Scenario{}, err
	}
	defer file.Close()

	return Decode(file)
}

func Decode(r io.Reader) (Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, err
	}
	if err := s.Window.Validate(); err != nil {
		return Scenario{}, err
	}
	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return Scenario{}, fmt.Errorf("step %d: want exactly one action, got %d", i, n)
		}
		if step.DecorationMode != nil && *step.DecorationMode == window.ModeUnset {
			return Scenario{}, fmt.Errorf("step %d: a server never reports an unset decoration mode", i)
		}
	}
	return s, nil
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Configure != nil,
		s.Close,
		s.DecorationMode != nil,
		s.Seat != nil,
		s.Pointer != nil,
		s.Click != nil,
		s.SetTitle != nil,
		s.SetAppID != nil,
		s.SetDecorate != nil,
		s.SetResizable != nil,
		s.SetMinSize != nil,
		s.SetMaxSize != nil,
		s.Resize != nil,
		s.Maximize,
		s.Unmaximize,
		s.Minimize,
		s.Fullscreen != nil,
		s.Unfullscreen,
		s.Move != nil,
		s.ResizeEdge != nil,
		s.ShowMenu != nil,
		s.Refresh,
	} {
		if set {
			n++
		}
	}
	return n
}

type Result struct {
	Snapshot window.Snapshot
	Closed   bool
	Requests []string
	Events   []app.Event
	Canvas   *frame.ImageCanvas
}

// Run plays s and returns the final state of the window.
func Run(s Scenario) (Result, error) {
	backend := NewBackend(s.Compositor)
	registry := app.NewRegistry(func(window.Surface) {})

	theme := frame.DefaultConfig
	if s.Frame != nil {
		theme = *s.Frame
	}

	surface := backend.NewSurface()
	var events []app.Event
	client, err := app.NewClient("replay", backend.Env(), surface, s.Window, theme)
	if err != nil {
		return Result{}, err
	}
	client.OnEvent = func(ev app.Event) { events = append(events, ev) }
	registry.Add(client)
	drain(backend, registry)

	for i, step := range s.Steps {
		if registry.Len() == 0 {
			return Result{}, fmt.Errorf("step %d: %w", i, ErrWindowClosed)
		}
		step.apply(backend, client.Window, surface.ID())
		drain(backend, registry)
		registry.Reap()
	}

	return Result{
		Snapshot: client.Window.Snapshot(),
		Closed:   client.Closed,
		Requests: backend.Requests,
		Events:   events,
		Canvas:   backend.Canvases.Get(surface.ID()),
	}, nil
}

var ErrWindowClosed = errors.New("window already closed")

func drain(backend *Backend, registry *app.Registry) {
	for {
		updates := backend.Drain()
		if len(updates) == 0 {
			return
		}
		registry.Apply(updates)
	}
}

func (s Step) apply(b *Backend, w *app.Window, id uint32) {
	switch {
	case s.Configure != nil:
		b.Push(id, window.MsgConfigure{States: s.Configure.States, Size: s.Configure.Size})
	case s.Close:
		b.Push(id, window.MsgClose{})
	case s.DecorationMode != nil:
		b.Push(id, window.MsgDecorationMode{Mode: *s.DecorationMode})
	case s.Seat != nil:
		b.Push(id, window.MsgSeat{SeatInfo: window.SeatInfo{Seat: s.Seat.Seat, Pointer: s.Seat.Pointer, Defunct: s.Seat.Defunct}})
	case s.Pointer != nil:
		b.Push(id, window.MsgPointer{Event: *s.Pointer})
	case s.Click != nil:
		press, release := *s.Click, *s.Click
		press.Kind, release.Kind = window.PointerPress, window.PointerRelease
		b.Push(id, window.MsgPointer{Event: window.PointerEvent{Seat: press.Seat, Kind: window.PointerMotion, X: press.X, Y: press.Y}})
		b.Push(id, window.MsgPointer{Event: press})
		b.Push(id, window.MsgPointer{Event: release})
	case s.SetTitle != nil:
		w.SetTitle(*s.SetTitle)
	case s.SetAppID != nil:
		w.SetAppID(*s.SetAppID)
	case s.SetDecorate != nil:
		w.SetDecorate(*s.SetDecorate)
	case s.SetResizable != nil:
		w.SetResizable(*s.SetResizable)
	case s.SetMinSize != nil:
		w.SetMinSize(nonZero(s.SetMinSize))
	case s.SetMaxSize != nil:
		w.SetMaxSize(nonZero(s.SetMaxSize))
	case s.Resize != nil:
		w.Resize(s.Resize.Width, s.Resize.Height)
	case s.Maximize:
		w.SetMaximized()
	case s.Unmaximize:
		w.UnsetMaximized()
	case s.Minimize:
		w.SetMinimized()
	case s.Fullscreen != nil:
		w.SetFullscreen(*s.Fullscreen)
	case s.Unfullscreen:
		w.UnsetFullscreen()
	case s.Move != nil:
		w.StartInteractiveMove(s.Move.Seat, s.Move.Serial)
	case s.ResizeEdge != nil:
		w.StartInteractiveResize(s.ResizeEdge.Seat, s.ResizeEdge.Serial, s.ResizeEdge.Edge)
	case s.ShowMenu != nil:
		w.ShowWindowMenu(s.ShowMenu.Seat, s.ShowMenu.Serial, s.ShowMenu.X, s.ShowMenu.Y)
	case s.Refresh:
		w.Refresh()
	}
}

func nonZero(size *window.Size) *window.Size {
	if *size == (window.Size{}) {
		return nil
	}
	return size
}

// Dump pretty prints the result without the canvas.
func (r Result) Dump(w io.Writer) error {
	_, err := pp.Fprintln(w, struct {
		Snapshot window.Snapshot
		Closed   bool
		Requests []string
		Events   []app.Event
	}{r.Snapshot, r.Closed, r.Requests, r.Events})
	return err
}

func (r Result) WritePNG(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if err := r.Canvas.WritePNG(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
