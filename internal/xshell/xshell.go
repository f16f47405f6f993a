// Package xshell runs windows on an X11 display. The X window manager plays
// the compositor: EWMH and ICCCM messages stand in for toplevel requests and
// _MOTIF_WM_HINTS for decoration negotiation.
package xshell

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-frame/internal/xcursor"
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// CorePointer is the only seat an X display has.
const CorePointer window.Seat = 1

var (
	_ window.ShellFactory      = (*Backend)(nil)
	_ window.DecorationManager = (*Backend)(nil)
	_ window.SeatLister        = (*Backend)(nil)
	_ frame.CanvasProvider     = (*Backend)(nil)
)

// Surface is an X window.
type Surface xproto.Window

func (s Surface) ID() uint32 {
	return uint32(s)
}

type atoms struct {
	wmProtocols             xproto.Atom
	wmDeleteWindow          xproto.Atom
	wmChangeState           xproto.Atom
	utf8String              xproto.Atom
	netWMName               xproto.Atom
	netWMState              xproto.Atom
	netWMStateMaximizedVert xproto.Atom
	netWMStateMaximizedHorz xproto.Atom
	netWMStateFullscreen    xproto.Atom
	netWMStateFocused       xproto.Atom
	netWMMoveResize         xproto.Atom
	gtkShowWindowMenu       xproto.Atom
	motifWMHints            xproto.Atom
}

func internAtoms(conn *xgb.Conn) (atoms, error) {
	var a atoms
	for name, atom := range map[string]*xproto.Atom{
		"WM_PROTOCOLS":                 &a.wmProtocols,
		"WM_DELETE_WINDOW":             &a.wmDeleteWindow,
		"WM_CHANGE_STATE":              &a.wmChangeState,
		"UTF8_STRING":                  &a.utf8String,
		"_NET_WM_NAME":                 &a.netWMName,
		"_NET_WM_STATE":                &a.netWMState,
		"_NET_WM_STATE_MAXIMIZED_VERT": &a.netWMStateMaximizedVert,
		"_NET_WM_STATE_MAXIMIZED_HORZ": &a.netWMStateMaximizedHorz,
		"_NET_WM_STATE_FULLSCREEN":     &a.netWMStateFullscreen,
		"_NET_WM_STATE_FOCUSED":        &a.netWMStateFocused,
		"_NET_WM_MOVERESIZE":           &a.netWMMoveResize,
		"_GTK_SHOW_WINDOW_MENU":        &a.gtkShowWindowMenu,
		"_MOTIF_WM_HINTS":              &a.motifWMHints,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("intern %s: %w", name, err)
		}
		*atom = reply.Atom
	}
	return a, nil
}

// Backend owns the X connection's windows. It is not safe for concurrent
// use; the event loop that owns the windows owns the backend.
type Backend struct {
	conn      *xgb.Conn
	screen    *xproto.ScreenInfo
	atoms     atoms
	cursors   *xcursor.Cache
	toplevels map[xproto.Window]*Toplevel
	pending   []Update

	// setProperty writes a 32-bit property and waits for the reply.
	setProperty func(wid xproto.Window, property, typ xproto.Atom, data []byte) error
}

func New(conn *xgb.Conn) (*Backend, error) {
	atoms, err := internAtoms(conn)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		conn:      conn,
		screen:    xproto.Setup(conn).DefaultScreen(conn),
		atoms:     atoms,
		cursors:   xcursor.NewCache(conn),
		toplevels: make(map[xproto.Window]*Toplevel),
	}
	b.setProperty = b.changeProperty32
	return b, nil
}

// Env returns the globals windows are created with. Without decorations the
// window manager is told to stay out of the way and frames are always drawn.
func (b *Backend) Env(decorations bool) window.Env {
	env := window.Env{
		Compositor:    b.conn,
		Subcompositor: b.screen,
		Shm:           b,
		Shell:         b,
		Seats:         b,
	}
	if decorations {
		env.Decorations = b
	}
	return env
}

// CreateSurface creates an unmapped X window.
func (b *Backend) CreateSurface(size window.Size) (Surface, error) {
	wid, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return 0, err
	}

	if err := xproto.CreateWindowChecked(b.conn, b.screen.RootDepth,
		wid, b.screen.Root,
		0, 0, uint16(max(size.Width, 1)), uint16(max(size.Height, 1)), 0,
		xproto.WindowClassInputOutput, b.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask, // 1, 2
		[]uint32{
			b.screen.BlackPixel, // 1
			xproto.EventMaskExposure |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskPropertyChange |
				xproto.EventMaskFocusChange |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskEnterWindow |
				xproto.EventMaskLeaveWindow, // 2
		}).Check(); err != nil {
		return 0, err
	}

	return Surface(wid), nil
}

func (b *Backend) Map(surface Surface) error {
	return xproto.MapWindowChecked(b.conn, xproto.Window(surface)).Check()
}

func (b *Backend) DestroySurface(surface Surface) {
	delete(b.toplevels, xproto.Window(surface))
	xproto.DestroyWindow(b.conn, xproto.Window(surface))
}

func (b *Backend) Close() {
	b.cursors.Free()
}

func (b *Backend) CreateToplevel(surface window.Surface) (window.ShellSurface, error) {
	wid := xproto.Window(surface.ID())
	if _, ok := b.toplevels[wid]; ok {
		return nil, fmt.Errorf("surface %d already has a toplevel", wid)
	}

	if err := b.setProperty(wid, b.atoms.wmProtocols, xproto.AtomAtom, encode32([]uint32{uint32(b.atoms.wmDeleteWindow)})); err != nil {
		return nil, err
	}
	if err := b.setProperty(wid, b.atoms.motifWMHints, b.atoms.motifWMHints, motifHints(false)); err != nil {
		return nil, err
	}

	t := &Toplevel{
		backend: b,
		wid:     wid,
		log:     slog.With("package", "xshell", "window", wid),
	}
	b.toplevels[wid] = t
	return t, nil
}

// GetToplevelDecoration hands decorations to the window manager, which is
// reported back as the server-side mode.
func (b *Backend) GetToplevelDecoration(shell window.ShellSurface) (window.Decoration, error) {
	t, ok := shell.(*Toplevel)
	if !ok || t.destroyed {
		return nil, fmt.Errorf("not an xshell toplevel: %T", shell)
	}

	d := &motifDecoration{toplevel: t}
	d.apply(window.ModeServerSide)
	return d, nil
}

func (b *Backend) Seats() []window.SeatInfo {
	return []window.SeatInfo{{Seat: CorePointer, Pointer: true}}
}

// Drain returns updates produced by requests rather than by X events.
func (b *Backend) Drain() []Update {
	pending := b.pending
	b.pending = nil
	return pending
}

func (b *Backend) post(wid xproto.Window, msg window.Msg) {
	b.pending = append(b.pending, Update{Surface: Surface(wid), Msg: msg})
}

func (b *Backend) changeProperty32(wid xproto.Window, property, typ xproto.Atom, data []byte) error {
	return xproto.ChangePropertyChecked(b.conn, xproto.PropModeReplace, wid, property, typ, 32, uint32(len(data)/4), data).Check()
}

func (b *Backend) sendRootMessage(wid xproto.Window, typ xproto.Atom, data ...uint32) {
	words := make([]uint32, 5)
	copy(words, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: wid,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(words),
	}
	xproto.SendEvent(b.conn, false, b.screen.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()))
}

// ReceiveEvents forwards X events until the connection closes or ctx is done.
func ReceiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	defer close(eventC)
	slog := slog.With("func", "xshell.ReceiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}

		if err != nil {
			// Errors from unchecked requests land here and are not fatal.
			slog.Warn("X error", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}
