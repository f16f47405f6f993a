package window

import "errors"

var ErrMissingGlobal = errors.New("missing global")

// Surface is the bare drawable a window is built on.
type Surface interface {
	ID() uint32
}

// ShellSurface is the toplevel role of a surface. Requests are fire and
// forget; the server answers with a later configure, or not at all.
type ShellSurface interface {
	// SetMinSize sets the border-inclusive minimum size. Nil clears it.
	SetMinSize(size *Size)
	// SetMaxSize sets the border-inclusive maximum size. Nil clears it.
	SetMaxSize(size *Size)
	SetGeometry(x, y, width, height int32)
	SetTitle(title string)
	SetAppID(appID string)
	SetMaximized()
	UnsetMaximized()
	SetMinimized()
	SetFullscreen(output Output)
	UnsetFullscreen()
	// Move starts an interactive move. Serial must come from the input event
	// that triggered it.
	Move(seat Seat, serial uint32)
	Resize(seat Seat, serial uint32, edge ResizeEdge)
	ShowWindowMenu(seat Seat, serial uint32, x, y int32)
	Destroy()
}

type ShellFactory interface {
	CreateToplevel(surface Surface) (ShellSurface, error)
}

// Decoration is a per-toplevel server-side decoration object.
type Decoration interface {
	SetMode(mode DecorationMode)
	UnsetMode()
	Destroy()
}

type DecorationManager interface {
	GetToplevelDecoration(shell ShellSurface) (Decoration, error)
}

type SeatInfo struct {
	Seat    Seat
	Pointer bool
	Defunct bool
}

type SeatLister interface {
	Seats() []SeatInfo
}

// Env holds the bound globals a window needs. Decorations is optional.
type Env struct {
	Compositor    any
	Subcompositor any
	Shm           any
	Shell         ShellFactory
	Seats         SeatLister
	Decorations   DecorationManager
}

func (e Env) validate() error {
	var missing []error
	if e.Compositor == nil {
		missing = append(missing, errors.New("compositor"))
	}
	if e.Subcompositor == nil {
		missing = append(missing, errors.New("subcompositor"))
	}
	if e.Shm == nil {
		missing = append(missing, errors.New("shm"))
	}
	if e.Shell == nil {
		missing = append(missing, errors.New("shell"))
	}
	if e.Seats == nil {
		missing = append(missing, errors.New("seats"))
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrMissingGlobal}, missing...)...)
}

// FrameEnv is the subset of Env handed to a frame renderer.
type FrameEnv struct {
	Compositor    any
	Subcompositor any
	Shm           any
}

// RequestSink receives frame requests along with the serial of the input
// event that caused them.
type RequestSink func(request FrameRequest, serial uint32)

// FrameInit creates a frame for surface. It is the only step of window
// creation that may fail.
type FrameInit[F any] func(surface Surface, env FrameEnv, requests RequestSink) (F, error)

// Frame draws decorations around a window's content.
type Frame[C any] interface {
	// SetStates updates the displayed states and reports whether the
	// decorations need a redraw.
	SetStates(states []State) bool
	SetHidden(hidden bool)
	SetResizable(resizable bool)
	NewSeat(seat Seat)
	RemoveSeat(seat Seat)
	// Resize sets the content size.
	Resize(size Size)
	Redraw()
	SubtractBorders(width, height int32) (int32, int32)
	AddBorders(width, height int32) (int32, int32)
	// Location is the offset of the frame's top-left corner relative to the
	// content.
	Location() (int32, int32)
	SetConfig(config C)
	SetTitle(title string)
}

// PointerHandler is implemented by frames that react to pointer input.
type PointerHandler interface {
	PointerEvent(event PointerEvent)
}

// Destroyer is implemented by frames that hold resources.
type Destroyer interface {
	Destroy()
}
