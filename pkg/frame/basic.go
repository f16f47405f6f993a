// Package frame provides a basic client-side decoration frame.
package frame

import (
	"errors"
	"image"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

var ErrNoCanvas = errors.New("shm global does not provide canvases")

var (
	_ window.Frame[Config]  = (*Basic)(nil)
	_ window.PointerHandler = (*Basic)(nil)
	_ window.Destroyer      = (*Basic)(nil)
)

type partKind int

const (
	partNone partKind = iota
	partEdge
	partHeader
	partClose
	partMaximize
	partMinimize
)

type part struct {
	kind partKind
	edge window.ResizeEdge
}

func (p part) button() bool {
	return p.kind == partClose || p.kind == partMaximize || p.kind == partMinimize
}

type pointer struct {
	hover   part
	pressed part
}

// Basic draws a border, a title bar and close, maximize and minimize
// buttons.
type Basic struct {
	canvas    Canvas
	requests  window.RequestSink
	config    Config
	states    []window.State
	hidden    bool
	resizable bool
	size      window.Size
	title     string
	seats     map[window.Seat]*pointer
}

// NewBasic returns a FrameInit for Basic frames. The frame environment's shm
// global must be a CanvasProvider.
func NewBasic(config Config) window.FrameInit[*Basic] {
	return func(surface window.Surface, env window.FrameEnv, requests window.RequestSink) (*Basic, error) {
		provider, ok := env.Shm.(CanvasProvider)
		if !ok {
			return nil, ErrNoCanvas
		}
		canvas, err := provider.Canvas(surface)
		if err != nil {
			return nil, err
		}
		return &Basic{
			canvas:    canvas,
			requests:  requests,
			config:    config.normalize(),
			resizable: true,
			seats:     make(map[window.Seat]*pointer),
		}, nil
	}
}

func (f *Basic) Title() string {
	return f.title
}

func (f *Basic) Config() Config {
	return f.config
}

func (f *Basic) Hidden() bool {
	return f.hidden
}

func (f *Basic) SetStates(states []window.State) bool {
	next := slices.Clone(states)
	slices.Sort(next)
	next = slices.Compact(next)
	if slices.Equal(next, f.states) {
		return false
	}
	f.states = next
	f.canvas.Resize(f.fullSize())
	return true
}

func (f *Basic) SetHidden(hidden bool) {
	f.hidden = hidden
	f.canvas.Resize(f.fullSize())
}

func (f *Basic) SetResizable(resizable bool) {
	f.resizable = resizable
}

func (f *Basic) NewSeat(seat window.Seat) {
	if _, ok := f.seats[seat]; !ok {
		f.seats[seat] = &pointer{}
	}
}

func (f *Basic) RemoveSeat(seat window.Seat) {
	delete(f.seats, seat)
}

func (f *Basic) Resize(size window.Size) {
	f.size = size
	f.canvas.Resize(f.fullSize())
}

func (f *Basic) SubtractBorders(width, height int32) (int32, int32) {
	l, t, r, b := f.insets()
	return width - l - r, height - t - b
}

func (f *Basic) AddBorders(width, height int32) (int32, int32) {
	l, t, r, b := f.insets()
	return width + l + r, height + t + b
}

func (f *Basic) Location() (int32, int32) {
	l, t, _, _ := f.insets()
	return -l, -t
}

func (f *Basic) SetConfig(config Config) {
	f.config = config.normalize()
	f.canvas.Resize(f.fullSize())
}

func (f *Basic) SetTitle(title string) {
	f.title = title
}

func (f *Basic) Destroy() {
	if d, ok := f.canvas.(interface{ Destroy() }); ok {
		d.Destroy()
	}
	clear(f.seats)
}

func (f *Basic) Redraw() {
	if f.hidden {
		f.canvas.Flush()
		return
	}

	w, h := f.fullSize()
	l, t, r, b := f.insets()
	border := f.config.Border.RGBA()
	f.canvas.Fill(image.Rect(0, 0, int(w), int(t-f.config.HeaderHeight)), border)
	f.canvas.Fill(image.Rect(0, int(t), int(l), int(h)), border)
	f.canvas.Fill(image.Rect(int(w-r), int(t), int(w), int(h)), border)
	f.canvas.Fill(image.Rect(int(l), int(h-b), int(w-r), int(h)), border)

	header := f.config.InactiveHeader
	if window.HasState(f.states, window.StateActivated) {
		header = f.config.ActiveHeader
	}
	f.canvas.Fill(f.headerRect(), header.RGBA())

	for _, kind := range []partKind{partClose, partMaximize, partMinimize} {
		c := f.buttonColor(kind)
		if f.hovered(kind) {
			c = c.lighten()
		}
		f.canvas.Fill(f.buttonRect(kind), c.RGBA())
	}

	f.canvas.Flush()
}

func (f *Basic) PointerEvent(event window.PointerEvent) {
	p, ok := f.seats[event.Seat]
	if !ok {
		return
	}

	switch event.Kind {
	case window.PointerEnter, window.PointerMotion:
		f.hover(event, p, f.hit(event.X, event.Y))
	case window.PointerLeave:
		f.hover(event, p, part{})
		p.pressed = part{}
	case window.PointerPress:
		f.press(event, p)
	case window.PointerRelease:
		f.release(event, p)
	}
}

func (f *Basic) hover(event window.PointerEvent, p *pointer, next part) {
	if next == p.hover {
		return
	}
	prev := p.hover
	p.hover = next

	cursor := CursorDefault
	switch {
	case next.kind == partEdge:
		cursor = cursorForEdge(next.edge)
	case next.button():
		cursor = CursorPointer
	}
	f.canvas.SetCursor(event.Seat, cursor)

	if prev.button() || next.button() {
		f.request(window.RequestRefresh{}, event.Serial)
	}
}

func (f *Basic) press(event window.PointerEvent, p *pointer) {
	hit := f.hit(event.X, event.Y)
	switch event.Button {
	case window.ButtonLeft:
		switch {
		case hit.kind == partHeader:
			f.request(window.RequestMove{Seat: event.Seat}, event.Serial)
		case hit.kind == partEdge:
			f.request(window.RequestResize{Seat: event.Seat, Edge: hit.edge}, event.Serial)
		case hit.button():
			p.pressed = hit
		}
	case window.ButtonRight:
		if hit.kind == partHeader {
			l, t, _, _ := f.insets()
			f.request(window.RequestShowMenu{
				Seat: event.Seat,
				X:    int32(event.X) - l,
				Y:    int32(event.Y) - t,
			}, event.Serial)
		}
	}
}

func (f *Basic) release(event window.PointerEvent, p *pointer) {
	if event.Button != window.ButtonLeft {
		return
	}
	pressed := p.pressed
	p.pressed = part{}
	if !pressed.button() || pressed != f.hit(event.X, event.Y) {
		return
	}

	switch pressed.kind {
	case partClose:
		f.request(window.RequestClose{}, event.Serial)
	case partMaximize:
		if window.HasState(f.states, window.StateMaximized) {
			f.request(window.RequestUnMaximize{}, event.Serial)
		} else {
			f.request(window.RequestMaximize{}, event.Serial)
		}
	case partMinimize:
		f.request(window.RequestMinimize{}, event.Serial)
	}
}

func (f *Basic) request(request window.FrameRequest, serial uint32) {
	slog.Debug("frame.Basic: request", "request", request, "serial", serial)
	f.requests(request, serial)
}

func (f *Basic) hovered(kind partKind) bool {
	for _, p := range f.seats {
		if p.hover.kind == kind {
			return true
		}
	}
	return false
}

func (f *Basic) buttonColor(kind partKind) Color {
	switch kind {
	case partClose:
		return f.config.CloseButton
	case partMaximize:
		return f.config.MaximizeButton
	default:
		return f.config.MinimizeButton
	}
}

// insets returns the decoration thickness on each side of the content.
func (f *Basic) insets() (left, top, right, bottom int32) {
	switch {
	case f.hidden, window.HasState(f.states, window.StateFullscreen):
		return 0, 0, 0, 0
	case f.edgeless():
		return 0, f.config.HeaderHeight, 0, 0
	default:
		b := f.config.BorderSize
		return b, f.config.HeaderHeight + b, b, b
	}
}

// edgeless reports whether the compositor has pinned the window's edges.
func (f *Basic) edgeless() bool {
	for _, s := range f.states {
		switch s {
		case window.StateMaximized, window.StateTiledLeft, window.StateTiledRight, window.StateTiledTop, window.StateTiledBottom:
			return true
		}
	}
	return false
}

func (f *Basic) fullSize() (int32, int32) {
	return f.AddBorders(f.size.Width, f.size.Height)
}

func (f *Basic) headerRect() image.Rectangle {
	l, t, r, _ := f.insets()
	w, _ := f.fullSize()
	return image.Rect(int(l), int(t-f.config.HeaderHeight), int(w-r), int(t))
}

func (f *Basic) buttonRect(kind partKind) image.Rectangle {
	header := f.headerRect()
	side := header.Dy()
	var index int
	switch kind {
	case partClose:
		index = 1
	case partMaximize:
		index = 2
	case partMinimize:
		index = 3
	}
	x := header.Max.X - index*side
	if x < header.Min.X {
		return image.Rectangle{}
	}
	return image.Rect(x, header.Min.Y, x+side, header.Max.Y)
}

func (f *Basic) hit(x, y float64) part {
	if f.hidden || window.HasState(f.states, window.StateFullscreen) {
		return part{}
	}
	pt := image.Pt(int(x), int(y))
	w, h := f.fullSize()
	if !pt.In(image.Rect(0, 0, int(w), int(h))) {
		return part{}
	}

	if f.resizable && !f.edgeless() {
		l, t, r, b := f.insets()
		var edge window.ResizeEdge
		if pt.X < int(l) {
			edge |= window.EdgeLeft
		} else if pt.X >= int(w-r) {
			edge |= window.EdgeRight
		}
		if pt.Y < int(t-f.config.HeaderHeight) {
			edge |= window.EdgeTop
		} else if pt.Y >= int(h-b) {
			edge |= window.EdgeBottom
		}
		if edge != window.EdgeNone {
			return part{kind: partEdge, edge: edge}
		}
	}

	if !pt.In(f.headerRect()) {
		return part{}
	}
	for _, kind := range []partKind{partClose, partMaximize, partMinimize} {
		if pt.In(f.buttonRect(kind)) {
			return part{kind: kind}
		}
	}
	return part{kind: partHeader}
}
