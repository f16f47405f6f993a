package window

import (
	"fmt"
	"slices"
)

type (
	msgSetTitle struct {
		title string
	}
	msgSetAppID struct {
		appID string
	}
	msgSetDecorate struct {
		decorations Decorations
	}
	msgSetResizable struct {
		resizable bool
	}
	msgResize struct {
		width  int32
		height int32
	}
	msgSetMinSize struct {
		size *Size
	}
	msgSetMaxSize struct {
		size *Size
	}
	msgFullscreen struct {
		fullscreen bool
		output     Output
	}
	msgSetFrameConfig[C any] struct {
		config C
	}
	msgRefresh struct{}
)

func (msgSetTitle) isMsg()          {}
func (msgSetAppID) isMsg()          {}
func (msgSetDecorate) isMsg()       {}
func (msgSetResizable) isMsg()      {}
func (msgResize) isMsg()            {}
func (msgSetMinSize) isMsg()        {}
func (msgSetMaxSize) isMsg()        {}
func (msgFullscreen) isMsg()        {}
func (msgSetFrameConfig[C]) isMsg() {}
func (msgRefresh) isMsg()           {}

// update applies msg with exclusive access to the window and returns the
// events to deliver to the application.
func (w *Window[F, C]) update(msg Msg) []Event {
	switch msg := msg.(type) {
	case MsgConfigure:
		return w.configure(msg.States, msg.Size)
	case MsgClose:
		w.log.Debug("Close requested")
		return []Event{EventClose{}}
	case MsgDecorationMode:
		return w.decorationMode(msg.Mode)
	case MsgSeat:
		w.updateSeat(msg.SeatInfo)
		return nil
	case MsgFrameRequest:
		return w.forwardRequest(msg.Request, msg.Serial)
	case MsgPointer:
		if h, ok := any(w.frame).(PointerHandler); ok {
			h.PointerEvent(msg.Event)
		}
		return nil
	case msgSetTitle:
		w.title = truncateTitle(msg.title)
		w.frame.SetTitle(w.title)
		w.shell.SetTitle(w.title)
		return nil
	case msgSetAppID:
		w.appID = msg.appID
		w.shell.SetAppID(msg.appID)
		return nil
	case msgSetDecorate:
		w.setDecorate(msg.decorations)
		return nil
	case msgSetResizable:
		w.resizable = msg.resizable
		w.frame.SetResizable(msg.resizable)
		w.sendBounds()
		return nil
	case msgResize:
		w.currentSize = floorSize(Size{Width: msg.width, Height: msg.height})
		w.frame.Resize(w.currentSize)
		w.sendGeometry()
		if !w.resizable {
			w.sendBounds()
		}
		return nil
	case msgSetMinSize:
		w.minSize = DefaultMinSize
		if msg.size != nil {
			w.minSize = floorSize(*msg.size)
		}
		if w.maxSize != nil {
			w.minSize.Width = min(w.minSize.Width, w.maxSize.Width)
			w.minSize.Height = min(w.minSize.Height, w.maxSize.Height)
		}
		if w.resizable {
			w.shell.SetMinSize(w.withBorders(&w.minSize))
		}
		return nil
	case msgSetMaxSize:
		w.maxSize = nil
		if msg.size != nil {
			size := Size{
				Width:  max(msg.size.Width, w.minSize.Width),
				Height: max(msg.size.Height, w.minSize.Height),
			}
			w.maxSize = &size
		}
		if w.resizable {
			w.shell.SetMaxSize(w.withBorders(w.maxSize))
		}
		return nil
	case msgFullscreen:
		if msg.fullscreen {
			w.shell.SetFullscreen(msg.output)
		} else {
			w.shell.UnsetFullscreen()
		}
		return nil
	case msgSetFrameConfig[C]:
		w.frame.SetConfig(msg.config)
		w.sendBounds()
		w.sendGeometry()
		return nil
	case msgRefresh:
		w.frame.Redraw()
		return nil
	default:
		panic(fmt.Sprintf("window: unexpected message %T", msg))
	}
}

// configure reconciles a server suggestion with the frame geometry and the
// size bounds. A size from before a maximized, fullscreen or tiled state is
// stashed on entry and restored when the server later leaves the size to us.
func (w *Window[F, C]) configure(states []State, suggested *Size) []Event {
	needRefresh := w.frame.SetStates(states)
	w.states = slices.Clone(states)

	var newSize *Size
	if suggested != nil {
		width, height := w.frame.SubtractBorders(suggested.Width, suggested.Height)
		size := w.clamp(Size{Width: width, Height: height})
		newSize = &size
	}

	if constrained(states) {
		if w.oldSize == nil {
			old := w.currentSize
			w.oldSize = &old
		}
	} else if newSize == nil {
		newSize, w.oldSize = w.oldSize, nil
	} else {
		w.oldSize = nil
	}

	w.log.Debug("Configure", "states", states, "suggested", suggested, "size", newSize)

	events := make([]Event, 0, 2)
	if needRefresh {
		events = append(events, EventRefresh{})
	}
	return append(events, EventConfigure{NewSize: newSize, States: slices.Clone(states)})
}

func (w *Window[F, C]) clamp(s Size) Size {
	s.Width = max(s.Width, w.minSize.Width)
	s.Height = max(s.Height, w.minSize.Height)
	if w.maxSize != nil {
		s.Width = min(s.Width, w.maxSize.Width)
		s.Height = min(s.Height, w.maxSize.Height)
	}
	return floorSize(s)
}

func (w *Window[F, C]) decorationMode(mode DecorationMode) []Event {
	if w.decoration == nil {
		// Raced with the decoration object being destroyed.
		return nil
	}

	var changed bool
	switch mode {
	case ModeServerSide:
		w.decorationState = ServerSideDecorated
		changed = w.setHidden(true)
	case ModeClientSide:
		w.decorationState = ClientSideDecorated
		changed = w.setHidden(!w.decorated)
	default:
		panic(fmt.Sprintf("window: unexpected decoration mode %s", mode))
	}

	w.log.Debug("Decoration mode", "mode", mode, "hidden", w.hidden)
	if changed {
		return []Event{EventRefresh{}}
	}
	return nil
}

func (w *Window[F, C]) setDecorate(decorations Decorations) {
	w.decorated = decorations != NoDecorations

	switch decorations {
	case NoDecorations:
		if w.decoration != nil {
			w.decoration.SetMode(ModeClientSide)
		}
		w.setHidden(true)
	case ClientSide:
		if w.decoration != nil {
			w.decoration.Destroy()
			w.decoration = nil
			w.decorationState = NoManager
		}
		w.setHidden(false)
	case ServerSide:
		if w.decoration != nil {
			w.decoration.SetMode(ModeServerSide)
		} else {
			w.setHidden(false)
		}
	case FollowServer:
		if w.decoration != nil {
			w.decoration.UnsetMode()
		} else {
			w.setHidden(false)
		}
	default:
		panic(fmt.Sprintf("window: unexpected decorations %s", decorations))
	}
}

// setHidden shows or hides the frame and reports whether that changed. The
// border-inclusive bounds and geometry follow the frame.
func (w *Window[F, C]) setHidden(hidden bool) bool {
	if w.hidden == hidden {
		return false
	}
	w.hidden = hidden
	w.frame.SetHidden(hidden)
	w.sendBounds()
	w.sendGeometry()
	return true
}

func (w *Window[F, C]) updateSeat(info SeatInfo) {
	qualifies := info.Pointer && !info.Defunct
	_, tracked := w.seats[info.Seat]

	switch {
	case qualifies && !tracked:
		w.seats[info.Seat] = struct{}{}
		w.frame.NewSeat(info.Seat)
		w.log.Debug("Seat added", "seat", info.Seat)
	case !qualifies && tracked:
		delete(w.seats, info.Seat)
		w.frame.RemoveSeat(info.Seat)
		w.log.Debug("Seat removed", "seat", info.Seat, "defunct", info.Defunct)
	}
}

func (w *Window[F, C]) forwardRequest(request FrameRequest, serial uint32) []Event {
	switch req := request.(type) {
	case RequestMinimize:
		w.shell.SetMinimized()
	case RequestMaximize:
		w.shell.SetMaximized()
	case RequestUnMaximize:
		w.shell.UnsetMaximized()
	case RequestMove:
		w.shell.Move(req.Seat, serial)
	case RequestResize:
		w.shell.Resize(req.Seat, serial, req.Edge)
	case RequestShowMenu:
		w.shell.ShowWindowMenu(req.Seat, serial, req.X, req.Y)
	case RequestClose:
		return []Event{EventClose{}}
	case RequestRefresh:
		return []Event{EventRefresh{}}
	default:
		panic(fmt.Sprintf("window: unexpected frame request %T", request))
	}
	return nil
}

// sendBounds forwards the border-inclusive min and max sizes, locked to the
// current size while the window is not resizable.
func (w *Window[F, C]) sendBounds() {
	if !w.resizable {
		locked := w.withBorders(&w.currentSize)
		w.shell.SetMinSize(locked)
		w.shell.SetMaxSize(cloneSize(locked))
		return
	}
	w.shell.SetMinSize(w.withBorders(&w.minSize))
	w.shell.SetMaxSize(w.withBorders(w.maxSize))
}

func (w *Window[F, C]) sendGeometry() {
	width, height := w.frame.AddBorders(w.currentSize.Width, w.currentSize.Height)
	x, y := w.frame.Location()
	w.shell.SetGeometry(x, y, width, height)
}

func (w *Window[F, C]) withBorders(s *Size) *Size {
	if s == nil {
		return nil
	}
	width, height := w.frame.AddBorders(s.Width, s.Height)
	return &Size{Width: width, Height: height}
}
