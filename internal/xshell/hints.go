package xshell

import (
	"slices"

	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// WM_SIZE_HINTS flags.
const (
	sizeHintsMin = 16
	sizeHintsMax = 32
)

const sizeHintsWords = 18

// sizeHints encodes WM_NORMAL_HINTS. A nil size leaves that bound unset.
func sizeHints(minSize, maxSize *window.Size) []byte {
	words := make([]uint32, sizeHintsWords)
	if minSize != nil {
		words[0] |= sizeHintsMin
		words[5], words[6] = uint32(minSize.Width), uint32(minSize.Height)
	}
	if maxSize != nil {
		words[0] |= sizeHintsMax
		words[7], words[8] = uint32(maxSize.Width), uint32(maxSize.Height)
	}
	return encode32(words)
}

const (
	motifHintsDecorations = 2
	motifHintsWords       = 5
)

// motifHints encodes _MOTIF_WM_HINTS asking the window manager to draw, or
// not draw, its own decorations.
func motifHints(decorated bool) []byte {
	words := make([]uint32, motifHintsWords)
	words[0] = motifHintsDecorations
	if decorated {
		words[2] = 1
	}
	return encode32(words)
}

// _NET_WM_MOVERESIZE directions.
const (
	moveResizeTopLeft     = 0
	moveResizeTop         = 1
	moveResizeTopRight    = 2
	moveResizeRight       = 3
	moveResizeBottomRight = 4
	moveResizeBottom      = 5
	moveResizeBottomLeft  = 6
	moveResizeLeft        = 7
	moveResizeMove        = 8
)

func moveResizeDirection(edge window.ResizeEdge) (uint32, bool) {
	switch edge {
	case window.EdgeTopLeft:
		return moveResizeTopLeft, true
	case window.EdgeTop:
		return moveResizeTop, true
	case window.EdgeTopRight:
		return moveResizeTopRight, true
	case window.EdgeRight:
		return moveResizeRight, true
	case window.EdgeBottomRight:
		return moveResizeBottomRight, true
	case window.EdgeBottom:
		return moveResizeBottom, true
	case window.EdgeBottomLeft:
		return moveResizeBottomLeft, true
	case window.EdgeLeft:
		return moveResizeLeft, true
	default:
		return 0, false
	}
}

// _NET_WM_STATE actions.
const (
	netWMStateRemove = 0
	netWMStateAdd    = 1
)

// ICCCM IconicState for WM_CHANGE_STATE.
const iconicState = 3

// states maps a _NET_WM_STATE atom list onto window states. Maximized needs
// both axes.
func (a atoms) states(list []xproto.Atom) []window.State {
	var states []window.State
	var vert, horz bool
	for _, atom := range list {
		switch atom {
		case a.netWMStateMaximizedVert:
			vert = true
		case a.netWMStateMaximizedHorz:
			horz = true
		case a.netWMStateFullscreen:
			states = append(states, window.StateFullscreen)
		case a.netWMStateFocused:
			states = append(states, window.StateActivated)
		}
	}
	if vert && horz {
		states = append(states, window.StateMaximized)
	}
	slices.Sort(states)
	return states
}

func encode32(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		xgb.Put32(buf[i*4:], w)
	}
	return buf
}

func decodeAtoms(value []byte) []xproto.Atom {
	list := make([]xproto.Atom, 0, len(value)/4)
	for i := 0; i+4 <= len(value); i += 4 {
		list = append(list, xproto.Atom(xgb.Get32(value[i:])))
	}
	return list
}
