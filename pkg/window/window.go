// Package window reconciles server configure events, decoration negotiation
// and a pluggable frame renderer for a single toplevel surface.
package window

import (
	"fmt"
	"log/slog"
	"slices"
	"unicode/utf8"
)

// MaxTitleBytes is the longest title sent to the server. Longer titles are
// cut at a rune boundary.
const MaxTitleBytes = 1024

// DefaultMinSize is the minimum content size when none is set. Some servers
// misbehave with zero-area surfaces.
var DefaultMinSize = Size{Width: 2, Height: 1}

// Window is a toplevel surface with a frame F configured by C.
//
// A Window is not safe for concurrent use. All calls, including Dispatch,
// must come from the goroutine running the event loop.
type Window[F Frame[C], C any] struct {
	log     *slog.Logger
	surface Surface
	frame   F
	shell   ShellSurface
	handler func(Event)

	decoration      Decoration
	decorationState DecorationState
	decorated       bool
	hidden          bool

	title       string
	appID       string
	states      []State
	minSize     Size
	maxSize     *Size
	currentSize Size
	oldSize     *Size
	resizable   bool
	seats       map[Seat]struct{}

	ready    bool
	draining bool
	released bool
	queue    []Msg
}

// New creates a window over surface. The frame is created first, so a frame
// failure leaves no role assigned to the surface.
func New[F Frame[C], C any](env Env, surface Surface, size Size, initFrame FrameInit[F], handler func(Event)) (*Window[F, C], error) {
	if err := env.validate(); err != nil {
		return nil, err
	}

	w := &Window[F, C]{
		log:         slog.With("package", "window", "surface", surface.ID()),
		surface:     surface,
		handler:     handler,
		decorated:   true,
		minSize:     DefaultMinSize,
		currentSize: floorSize(size),
		resizable:   true,
		seats:       make(map[Seat]struct{}),
	}

	frame, err := initFrame(surface, FrameEnv{
		Compositor:    env.Compositor,
		Subcompositor: env.Subcompositor,
		Shm:           env.Shm,
	}, w.frameRequest)
	if err != nil {
		return nil, fmt.Errorf("frame init: %w", err)
	}
	w.frame = frame
	w.frame.SetHidden(w.hidden)
	w.frame.Resize(w.currentSize)

	shell, err := env.Shell.CreateToplevel(surface)
	if err != nil {
		if d, ok := any(frame).(Destroyer); ok {
			d.Destroy()
		}
		return nil, fmt.Errorf("create toplevel: %w", err)
	}
	w.shell = shell
	w.shell.SetMinSize(w.withBorders(&w.minSize))
	w.sendGeometry()

	for _, info := range env.Seats.Seats() {
		w.updateSeat(info)
	}

	if env.Decorations != nil {
		decoration, err := env.Decorations.GetToplevelDecoration(shell)
		if err != nil {
			w.log.Debug("No server-side decorations for surface", "error", err)
		} else {
			w.decoration = decoration
			w.decorationState = Negotiating
		}
	}

	w.ready = true
	return w, nil
}

// Dispatch applies msg. Messages sent while another message is being applied
// or its events delivered, including from the handler, are queued and applied
// afterwards, in order. Application events are delivered once the message
// that caused them has been fully applied, and all events of one message are
// delivered before the next queued message is applied.
func (w *Window[F, C]) Dispatch(msg Msg) {
	if w.released {
		return
	}
	w.queue = append(w.queue, msg)
	if w.draining {
		return
	}
	w.draining = true
	defer func() { w.draining = false }()

	for len(w.queue) > 0 && !w.released {
		msg := w.queue[0]
		w.queue = w.queue[1:]

		events := w.update(msg)
		for _, event := range events {
			if w.released {
				break
			}
			w.handler(event)
		}
	}
}

// frameRequest is the RequestSink given to the frame.
func (w *Window[F, C]) frameRequest(request FrameRequest, serial uint32) {
	if !w.ready {
		return
	}
	w.Dispatch(MsgFrameRequest{Request: request, Serial: serial})
}

// Release destroys the decoration object and the toplevel role. Nothing is
// delivered to the handler afterwards.
func (w *Window[F, C]) Release() {
	if w.released {
		return
	}
	w.released = true
	w.queue = nil

	if w.decoration != nil {
		w.decoration.Destroy()
		w.decoration = nil
	}
	if d, ok := any(w.frame).(Destroyer); ok {
		d.Destroy()
	}
	w.shell.Destroy()
}

func (w *Window[F, C]) Surface() Surface {
	return w.surface
}

// Frame returns the frame. Mutating it directly bypasses the window's
// bookkeeping.
func (w *Window[F, C]) Frame() F {
	return w.frame
}

// Size returns the current content size.
func (w *Window[F, C]) Size() Size {
	return w.currentSize
}

func (w *Window[F, C]) Decorations() DecorationState {
	return w.decorationState
}

// SetTitle sets the title shown by the frame and the server. Call Refresh to
// repaint it.
func (w *Window[F, C]) SetTitle(title string) {
	w.Dispatch(msgSetTitle{title: title})
}

func (w *Window[F, C]) SetAppID(appID string) {
	w.Dispatch(msgSetAppID{appID: appID})
}

func (w *Window[F, C]) SetDecorate(decorations Decorations) {
	w.Dispatch(msgSetDecorate{decorations: decorations})
}

// SetResizable locks the window to its current size when false and restores
// the recorded bounds when true.
func (w *Window[F, C]) SetResizable(resizable bool) {
	w.Dispatch(msgSetResizable{resizable: resizable})
}

// Resize sets the content size, usually in response to EventConfigure.
func (w *Window[F, C]) Resize(width, height int32) {
	w.Dispatch(msgResize{width: width, height: height})
}

// SetMinSize sets the minimum content size. Nil restores DefaultMinSize.
func (w *Window[F, C]) SetMinSize(size *Size) {
	w.Dispatch(msgSetMinSize{size: size})
}

// SetMaxSize sets the maximum content size. Nil removes the bound.
func (w *Window[F, C]) SetMaxSize(size *Size) {
	w.Dispatch(msgSetMaxSize{size: size})
}

func (w *Window[F, C]) SetMaximized() {
	w.Dispatch(MsgFrameRequest{Request: RequestMaximize{}})
}

func (w *Window[F, C]) UnsetMaximized() {
	w.Dispatch(MsgFrameRequest{Request: RequestUnMaximize{}})
}

func (w *Window[F, C]) SetMinimized() {
	w.Dispatch(MsgFrameRequest{Request: RequestMinimize{}})
}

func (w *Window[F, C]) SetFullscreen(output Output) {
	w.Dispatch(msgFullscreen{fullscreen: true, output: output})
}

func (w *Window[F, C]) UnsetFullscreen() {
	w.Dispatch(msgFullscreen{fullscreen: false})
}

// StartInteractiveMove asks the server to move the window with the pointer
// of seat. Serial must be the serial of the triggering input event.
func (w *Window[F, C]) StartInteractiveMove(seat Seat, serial uint32) {
	w.Dispatch(MsgFrameRequest{Request: RequestMove{Seat: seat}, Serial: serial})
}

func (w *Window[F, C]) StartInteractiveResize(seat Seat, serial uint32, edge ResizeEdge) {
	w.Dispatch(MsgFrameRequest{Request: RequestResize{Seat: seat, Edge: edge}, Serial: serial})
}

func (w *Window[F, C]) ShowWindowMenu(seat Seat, serial uint32, x, y int32) {
	w.Dispatch(MsgFrameRequest{Request: RequestShowMenu{Seat: seat, X: x, Y: y}, Serial: serial})
}

// SetFrameConfig reconfigures the frame. Call Refresh to repaint.
func (w *Window[F, C]) SetFrameConfig(config C) {
	w.Dispatch(msgSetFrameConfig[C]{config: config})
}

// Refresh redraws the frame with the current geometry and states.
func (w *Window[F, C]) Refresh() {
	w.Dispatch(msgRefresh{})
}

// Snapshot is a read-only view of the negotiated state.
type Snapshot struct {
	Title       string          `json:"title"`
	AppID       string          `json:"app_id"`
	Size        Size            `json:"size"`
	MinSize     Size            `json:"min_size"`
	MaxSize     *Size           `json:"max_size,omitempty"`
	StashedSize *Size           `json:"stashed_size,omitempty"`
	States      []State         `json:"states"`
	Resizable   bool            `json:"resizable"`
	Decorated   bool            `json:"decorated"`
	FrameHidden bool            `json:"frame_hidden"`
	Decorations DecorationState `json:"decorations"`
	Seats       []Seat          `json:"seats"`
}

func (w *Window[F, C]) Snapshot() Snapshot {
	seats := make([]Seat, 0, len(w.seats))
	for seat := range w.seats {
		seats = append(seats, seat)
	}
	slices.Sort(seats)

	return Snapshot{
		Title:       w.title,
		AppID:       w.appID,
		Size:        w.currentSize,
		MinSize:     w.minSize,
		MaxSize:     cloneSize(w.maxSize),
		StashedSize: cloneSize(w.oldSize),
		States:      slices.Clone(w.states),
		Resizable:   w.resizable,
		Decorated:   w.decorated,
		FrameHidden: w.hidden,
		Decorations: w.decorationState,
		Seats:       seats,
	}
}

func truncateTitle(title string) string {
	if len(title) <= MaxTitleBytes {
		return title
	}
	// A rune is at most utf8.UTFMax bytes; further back the bytes are not
	// valid UTF-8 anyway.
	for n := MaxTitleBytes; n > MaxTitleBytes-utf8.UTFMax; n-- {
		if utf8.RuneStart(title[n]) {
			return title[:n]
		}
	}
	return title[:MaxTitleBytes]
}

func floorSize(s Size) Size {
	return Size{Width: max(s.Width, 1), Height: max(s.Height, 1)}
}

func cloneSize(s *Size) *Size {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
