package window

import (
	"fmt"
	"strings"
)

type Size struct {
	Width  int32 `json:"width" yaml:"width"`
	Height int32 `json:"height" yaml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Seat identifies a group of input devices.
type Seat uint32

// Output identifies a monitor. NoOutput lets the server pick one.
type Output uint32

const NoOutput Output = 0

type State int

const (
	StateMaximized State = iota + 1
	StateFullscreen
	StateResizing
	StateActivated
	StateTiledLeft
	StateTiledRight
	StateTiledTop
	StateTiledBottom
)

var stateNames = map[State]string{
	StateMaximized:   "maximized",
	StateFullscreen:  "fullscreen",
	StateResizing:    "resizing",
	StateActivated:   "activated",
	StateTiledLeft:   "tiled-left",
	StateTiledRight:  "tiled-right",
	StateTiledTop:    "tiled-top",
	StateTiledBottom: "tiled-bottom",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if strings.EqualFold(name, string(text)) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown window state %q", text)
}

// constrained reports whether the server is dictating the size, in which case
// the size from before the constraint is kept for later.
func constrained(states []State) bool {
	for _, s := range states {
		switch s {
		case StateMaximized, StateFullscreen, StateTiledTop, StateTiledRight, StateTiledBottom, StateTiledLeft:
			return true
		}
	}
	return false
}

// HasState reports whether state is in states.
func HasState(states []State, state State) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

type ResizeEdge uint32

const (
	EdgeNone        ResizeEdge = 0
	EdgeTop         ResizeEdge = 1
	EdgeBottom      ResizeEdge = 2
	EdgeLeft        ResizeEdge = 4
	EdgeTopLeft     ResizeEdge = 5
	EdgeBottomLeft  ResizeEdge = 6
	EdgeRight       ResizeEdge = 8
	EdgeTopRight    ResizeEdge = 9
	EdgeBottomRight ResizeEdge = 10
)

var edgeNames = map[ResizeEdge]string{
	EdgeNone:        "none",
	EdgeTop:         "top",
	EdgeBottom:      "bottom",
	EdgeLeft:        "left",
	EdgeTopLeft:     "top-left",
	EdgeBottomLeft:  "bottom-left",
	EdgeRight:       "right",
	EdgeTopRight:    "top-right",
	EdgeBottomRight: "bottom-right",
}

func (e ResizeEdge) String() string {
	if name, ok := edgeNames[e]; ok {
		return name
	}
	return fmt.Sprintf("edge(%d)", uint32(e))
}

func (e ResizeEdge) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *ResizeEdge) UnmarshalText(text []byte) error {
	for edge, name := range edgeNames {
		if strings.EqualFold(name, string(text)) {
			*e = edge
			return nil
		}
	}
	return fmt.Errorf("unknown resize edge %q", text)
}

// DecorationMode is the mode reported by, or requested from, a server-side
// decoration object.
type DecorationMode int

const (
	ModeUnset DecorationMode = iota
	ModeServerSide
	ModeClientSide
)

func (m DecorationMode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeServerSide:
		return "server-side"
	case ModeClientSide:
		return "client-side"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m DecorationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *DecorationMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "unset", "":
		*m = ModeUnset
	case "server-side", "server":
		*m = ModeServerSide
	case "client-side", "client":
		*m = ModeClientSide
	default:
		return fmt.Errorf("unknown decoration mode %q", text)
	}
	return nil
}

// Decorations is what the application wants drawn around its content.
type Decorations int

const (
	// FollowServer lets the server decide, falling back to client side.
	FollowServer Decorations = iota
	ClientSide
	ServerSide
	// NoDecorations asks for no borders at all. The server may ignore it.
	NoDecorations
)

func (d Decorations) String() string {
	switch d {
	case FollowServer:
		return "follow"
	case ClientSide:
		return "client"
	case ServerSide:
		return "server"
	case NoDecorations:
		return "none"
	default:
		return fmt.Sprintf("decorations(%d)", int(d))
	}
}

func (d Decorations) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decorations) UnmarshalText(text []byte) error {
	v, err := ParseDecorations(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func ParseDecorations(s string) (Decorations, error) {
	switch strings.ToLower(s) {
	case "", "follow", "follow-server":
		return FollowServer, nil
	case "client", "client-side":
		return ClientSide, nil
	case "server", "server-side":
		return ServerSide, nil
	case "none":
		return NoDecorations, nil
	}
	return FollowServer, fmt.Errorf("unknown decorations %q", s)
}

// DecorationState is the outcome of decoration negotiation so far.
type DecorationState int

const (
	// NoManager means the client always draws its own frame.
	NoManager DecorationState = iota
	// Negotiating means a decoration object exists but the server has not
	// reported a mode yet.
	Negotiating
	ServerSideDecorated
	ClientSideDecorated
)

func (d DecorationState) String() string {
	switch d {
	case NoManager:
		return "no-manager"
	case Negotiating:
		return "negotiating"
	case ServerSideDecorated:
		return "server-side"
	case ClientSideDecorated:
		return "client-side"
	default:
		return fmt.Sprintf("decoration-state(%d)", int(d))
	}
}

func (d DecorationState) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DecorationState) UnmarshalText(text []byte) error {
	for _, state := range []DecorationState{NoManager, Negotiating, ServerSideDecorated, ClientSideDecorated} {
		if strings.EqualFold(state.String(), string(text)) {
			*d = state
			return nil
		}
	}
	return fmt.Errorf("unknown decoration state %q", text)
}
