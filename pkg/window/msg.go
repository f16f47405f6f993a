package window

import "fmt"

// Event is delivered to the application callback.
type Event interface{ isEvent() }

type (
	// EventConfigure suggests a new content size and reports the window
	// states. NewSize is nil when the application may pick its own size.
	//
	// Configures can arrive in bursts; only the last one before a redraw
	// needs to be honored, by calling Resize then Refresh.
	EventConfigure struct {
		NewSize *Size
		States  []State
	}
	// EventClose asks the application to close the window.
	EventClose struct{}
	// EventRefresh asks the application to call Refresh.
	EventRefresh struct{}
)

func (EventConfigure) isEvent() {}
func (EventClose) isEvent()     {}
func (EventRefresh) isEvent()   {}

// FrameRequest is emitted by a Frame when the user interacts with the
// decorations.
type FrameRequest interface{ isFrameRequest() }

type (
	RequestMinimize   struct{}
	RequestMaximize   struct{}
	RequestUnMaximize struct{}
	RequestMove       struct {
		Seat Seat
	}
	RequestResize struct {
		Seat Seat
		Edge ResizeEdge
	}
	RequestShowMenu struct {
		Seat Seat
		X    int32
		Y    int32
	}
	RequestClose   struct{}
	RequestRefresh struct{}
)

func (RequestMinimize) isFrameRequest()   {}
func (RequestMaximize) isFrameRequest()   {}
func (RequestUnMaximize) isFrameRequest() {}
func (RequestMove) isFrameRequest()       {}
func (RequestResize) isFrameRequest()     {}
func (RequestShowMenu) isFrameRequest()   {}
func (RequestClose) isFrameRequest()      {}
func (RequestRefresh) isFrameRequest()    {}

type PointerKind int

const (
	PointerEnter PointerKind = iota
	PointerLeave
	PointerMotion
	PointerPress
	PointerRelease
)

var pointerKindNames = map[PointerKind]string{
	PointerEnter:   "enter",
	PointerLeave:   "leave",
	PointerMotion:  "motion",
	PointerPress:   "press",
	PointerRelease: "release",
}

func (k PointerKind) String() string {
	if name, ok := pointerKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("pointer-kind(%d)", int(k))
}

func (k PointerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PointerKind) UnmarshalText(text []byte) error {
	for kind, name := range pointerKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown pointer kind %q", text)
}

type Button int

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// PointerEvent is raw pointer input over the frame. X and Y are relative to
// the top-left corner of the frame, not of the content.
type PointerEvent struct {
	Seat   Seat
	Serial uint32
	Kind   PointerKind
	X      float64
	Y      float64
	Button Button
}

// Msg is an inbound message for Window.Dispatch. Backends translate protocol
// events into the exported variants.
type Msg interface{ isMsg() }

type (
	// MsgConfigure is the toplevel configure event.
	MsgConfigure struct {
		States []State
		Size   *Size
	}
	// MsgClose is the toplevel close event.
	MsgClose struct{}
	// MsgDecorationMode is the decoration object's configure event.
	MsgDecorationMode struct {
		Mode DecorationMode
	}
	// MsgSeat reports a seat's capabilities changing or the seat going away.
	MsgSeat struct {
		SeatInfo
	}
	MsgFrameRequest struct {
		Request FrameRequest
		Serial  uint32
	}
	// MsgPointer carries pointer input over the frame to the Frame, if it
	// implements PointerHandler.
	MsgPointer struct {
		Event PointerEvent
	}
)

func (MsgConfigure) isMsg()      {}
func (MsgClose) isMsg()          {}
func (MsgDecorationMode) isMsg() {}
func (MsgSeat) isMsg()           {}
func (MsgFrameRequest) isMsg()   {}
func (MsgPointer) isMsg()        {}
