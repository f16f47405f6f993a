package xshell

import (
	"slices"

	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Update is an X event translated for one toplevel.
type Update struct {
	Surface Surface
	// Msg is nil for updates that only ask for a redraw or report the
	// window gone.
	Msg window.Msg
	// Redraw is set once the window's exposures are complete.
	Redraw bool
	// Gone is set when the X window was destroyed behind our back.
	Gone bool
}

// Translate turns an X event into updates for the toplevels it concerns.
// Events for unknown windows are dropped.
func (b *Backend) Translate(ev xgb.Event) []Update {
	switch ev := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		t, ok := b.toplevels[ev.Window]
		if !ok {
			return nil
		}
		width, height := int32(ev.Width), int32(ev.Height)
		// Echo of our own geometry request, or a plain move.
		if width == t.width && height == t.height {
			return nil
		}
		t.width, t.height = width, height
		return t.update(window.MsgConfigure{
			States: t.states(),
			Size:   &window.Size{Width: width, Height: height},
		})
	case xproto.PropertyNotifyEvent:
		t, ok := b.toplevels[ev.Window]
		if !ok || ev.Atom != b.atoms.netWMState {
			return nil
		}
		reply, err := xproto.GetProperty(b.conn, false, t.wid, b.atoms.netWMState, xproto.AtomAtom, 0, 64).Reply()
		if err != nil {
			t.log.Error("Failed to read _NET_WM_STATE", "error", err)
			return nil
		}
		return t.setNetStates(b.atoms.states(decodeAtoms(reply.Value)))
	case xproto.FocusInEvent:
		return b.focus(ev.Event, ev.Detail, true)
	case xproto.FocusOutEvent:
		return b.focus(ev.Event, ev.Detail, false)
	case xproto.ClientMessageEvent:
		t, ok := b.toplevels[ev.Window]
		if !ok || ev.Type != b.atoms.wmProtocols {
			return nil
		}
		if xproto.Atom(ev.Data.Data32[0]) == b.atoms.wmDeleteWindow {
			return t.update(window.MsgClose{})
		}
		return nil
	case xproto.ExposeEvent:
		if _, ok := b.toplevels[ev.Window]; !ok || ev.Count != 0 {
			return nil
		}
		return []Update{{Surface: Surface(ev.Window), Redraw: true}}
	case xproto.DestroyNotifyEvent:
		if _, ok := b.toplevels[ev.Window]; !ok {
			return nil
		}
		delete(b.toplevels, ev.Window)
		return []Update{{Surface: Surface(ev.Window), Gone: true}}
	case xproto.EnterNotifyEvent:
		return b.pointer(ev.Event, uint32(ev.Time), window.PointerEnter, ev.EventX, ev.EventY, 0)
	case xproto.LeaveNotifyEvent:
		return b.pointer(ev.Event, uint32(ev.Time), window.PointerLeave, ev.EventX, ev.EventY, 0)
	case xproto.MotionNotifyEvent:
		return b.pointer(ev.Event, uint32(ev.Time), window.PointerMotion, ev.EventX, ev.EventY, 0)
	case xproto.ButtonPressEvent:
		button, ok := pointerButton(ev.Detail)
		if !ok {
			return nil
		}
		return b.pointer(ev.Event, uint32(ev.Time), window.PointerPress, ev.EventX, ev.EventY, button)
	case xproto.ButtonReleaseEvent:
		button, ok := pointerButton(ev.Detail)
		if !ok {
			return nil
		}
		return b.pointer(ev.Event, uint32(ev.Time), window.PointerRelease, ev.EventX, ev.EventY, button)
	default:
		return nil
	}
}

func (b *Backend) focus(wid xproto.Window, detail byte, focused bool) []Update {
	t, ok := b.toplevels[wid]
	// Pointer focus follows the pointer into the window and says nothing
	// about activation.
	if !ok || detail == xproto.NotifyDetailPointer || t.focused == focused {
		return nil
	}
	t.focused = focused
	return t.update(window.MsgConfigure{States: t.states()})
}

func (b *Backend) pointer(wid xproto.Window, time uint32, kind window.PointerKind, x, y int16, button window.Button) []Update {
	t, ok := b.toplevels[wid]
	if !ok {
		return nil
	}
	return t.update(window.MsgPointer{Event: window.PointerEvent{
		Seat:   CorePointer,
		Serial: time,
		Kind:   kind,
		X:      float64(x),
		Y:      float64(y),
		Button: button,
	}})
}

// pointerButton drops scroll and extra buttons, which frames do not use.
func pointerButton(detail xproto.Button) (window.Button, bool) {
	switch detail {
	case xproto.ButtonIndex1:
		return window.ButtonLeft, true
	case xproto.ButtonIndex2:
		return window.ButtonMiddle, true
	case xproto.ButtonIndex3:
		return window.ButtonRight, true
	default:
		return 0, false
	}
}

func (t *Toplevel) setNetStates(states []window.State) []Update {
	if slices.Equal(states, t.netStates) {
		return nil
	}
	t.netStates = states
	return t.update(window.MsgConfigure{States: t.states()})
}

func (t *Toplevel) update(msg window.Msg) []Update {
	return []Update{{Surface: Surface(t.wid), Msg: msg}}
}
