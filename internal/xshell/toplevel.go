package xshell

import (
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb/xproto"
)

var _ window.ShellSurface = (*Toplevel)(nil)

// Toplevel turns shell requests into window manager hints and messages.
type Toplevel struct {
	backend   *Backend
	wid       xproto.Window
	log       *slog.Logger
	minSize   *window.Size
	maxSize   *window.Size
	width     int32
	height    int32
	offsetX   int32
	offsetY   int32
	netStates []window.State
	focused   bool
	destroyed bool
}

func (t *Toplevel) SetMinSize(size *window.Size) {
	t.minSize = size
	t.writeNormalHints()
}

func (t *Toplevel) SetMaxSize(size *window.Size) {
	t.maxSize = size
	t.writeNormalHints()
}

func (t *Toplevel) writeNormalHints() {
	if t.destroyed {
		return
	}
	data := sizeHints(t.minSize, t.maxSize)
	xproto.ChangeProperty(t.backend.conn, xproto.PropModeReplace, t.wid,
		xproto.AtomWmNormalHints, xproto.AtomWmSizeHints, 32, uint32(len(data)/4), data)
}

// SetGeometry resizes the X window to the frame-inclusive size. The offset is
// where the content sits inside the frame.
func (t *Toplevel) SetGeometry(x, y, width, height int32) {
	if t.destroyed {
		return
	}
	t.offsetX, t.offsetY = x, y
	if width == t.width && height == t.height {
		return
	}
	t.width, t.height = width, height
	xproto.ConfigureWindow(t.backend.conn, t.wid,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(max(width, 1)), uint32(max(height, 1))})
}

func (t *Toplevel) SetTitle(title string) {
	if t.destroyed {
		return
	}
	xproto.ChangeProperty(t.backend.conn, xproto.PropModeReplace, t.wid,
		t.backend.atoms.netWMName, t.backend.atoms.utf8String, 8, uint32(len(title)), []byte(title))
	xproto.ChangeProperty(t.backend.conn, xproto.PropModeReplace, t.wid,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title))
}

// SetAppID sets WM_CLASS, using the app id as both instance and class.
func (t *Toplevel) SetAppID(appID string) {
	if t.destroyed {
		return
	}
	class := appID + "\x00" + appID + "\x00"
	xproto.ChangeProperty(t.backend.conn, xproto.PropModeReplace, t.wid,
		xproto.AtomWmClass, xproto.AtomString, 8, uint32(len(class)), []byte(class))
}

func (t *Toplevel) SetMaximized() {
	t.netState(netWMStateAdd, t.backend.atoms.netWMStateMaximizedVert, t.backend.atoms.netWMStateMaximizedHorz)
}

func (t *Toplevel) UnsetMaximized() {
	t.netState(netWMStateRemove, t.backend.atoms.netWMStateMaximizedVert, t.backend.atoms.netWMStateMaximizedHorz)
}

func (t *Toplevel) SetMinimized() {
	if t.destroyed {
		return
	}
	t.backend.sendRootMessage(t.wid, t.backend.atoms.wmChangeState, iconicState)
}

func (t *Toplevel) SetFullscreen(output window.Output) {
	if output != window.NoOutput {
		t.log.Debug("Fullscreen output ignored, window manager picks the monitor", "output", output)
	}
	t.netState(netWMStateAdd, t.backend.atoms.netWMStateFullscreen, 0)
}

func (t *Toplevel) UnsetFullscreen() {
	t.netState(netWMStateRemove, t.backend.atoms.netWMStateFullscreen, 0)
}

func (t *Toplevel) netState(action uint32, first, second xproto.Atom) {
	if t.destroyed {
		return
	}
	t.backend.sendRootMessage(t.wid, t.backend.atoms.netWMState, action, uint32(first), uint32(second), 1)
}

func (t *Toplevel) Move(seat window.Seat, serial uint32) {
	t.moveResize(moveResizeMove)
}

func (t *Toplevel) Resize(seat window.Seat, serial uint32, edge window.ResizeEdge) {
	direction, ok := moveResizeDirection(edge)
	if !ok {
		t.log.Debug("Ignoring resize without an edge", "edge", edge)
		return
	}
	t.moveResize(direction)
}

// moveResize hands the pointer to the window manager. The implicit grab from
// the button press has to be released first.
func (t *Toplevel) moveResize(direction uint32) {
	if t.destroyed {
		return
	}
	conn := t.backend.conn

	pointer, err := xproto.QueryPointer(conn, t.wid).Reply()
	if err != nil {
		t.log.Error("Failed to query pointer", "error", err)
		return
	}

	xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
	t.backend.sendRootMessage(t.wid, t.backend.atoms.netWMMoveResize,
		uint32(pointer.RootX), uint32(pointer.RootY), direction, uint32(xproto.ButtonIndex1), 1)
}

// ShowWindowMenu asks for the window menu at x, y relative to the content.
func (t *Toplevel) ShowWindowMenu(seat window.Seat, serial uint32, x, y int32) {
	if t.destroyed {
		return
	}
	conn := t.backend.conn

	pos, err := xproto.TranslateCoordinates(conn, t.wid, t.backend.screen.Root,
		int16(x-t.offsetX), int16(y-t.offsetY)).Reply()
	if err != nil {
		t.log.Error("Failed to translate coordinates", "error", err)
		return
	}

	xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
	t.backend.sendRootMessage(t.wid, t.backend.atoms.gtkShowWindowMenu,
		0, uint32(pos.DstX), uint32(pos.DstY))
}

// Destroy drops the toplevel role by unmapping the window.
func (t *Toplevel) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	delete(t.backend.toplevels, t.wid)
	xproto.UnmapWindow(t.backend.conn, t.wid)
}

func (t *Toplevel) states() []window.State {
	states := slices.Clone(t.netStates)
	if t.focused && !slices.Contains(states, window.StateActivated) {
		states = append(states, window.StateActivated)
		slices.Sort(states)
	}
	return states
}
