package replay

import (
	"fmt"

	"github.com/ItsNotGoodName/x-frame/internal/xshell"
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

// Compositor describes how the in-memory server behaves.
type Compositor struct {
	// Decorations offers a decoration manager.
	Decorations bool `yaml:"decorations"`
	// Prefer is the mode picked when the client leaves the choice to the
	// server. Unset means server-side.
	Prefer window.DecorationMode `yaml:"prefer"`
	// Force, when set, overrides every mode the client asks for.
	Force window.DecorationMode `yaml:"force"`
	Seats []Seat                `yaml:"seats"`
}

type Seat struct {
	Seat    window.Seat `yaml:"seat"`
	Pointer bool        `yaml:"pointer"`
}

var (
	_ window.ShellFactory      = (*Backend)(nil)
	_ window.DecorationManager = (*Backend)(nil)
	_ window.SeatLister        = (*Backend)(nil)
)

// Backend is an in-memory server that records every request it receives
// and answers decoration requests on the next Drain.
type Backend struct {
	Requests []string
	Canvases *frame.ImageCanvases

	compositor Compositor
	seats      []window.SeatInfo
	nextID     uint32
	pending    []xshell.Update
}

func NewBackend(compositor Compositor) *Backend {
	b := &Backend{
		Canvases:   frame.NewImageCanvases(),
		compositor: compositor,
	}
	for _, s := range compositor.Seats {
		b.seats = append(b.seats, window.SeatInfo{Seat: s.Seat, Pointer: s.Pointer})
	}
	return b
}

func (b *Backend) Env() window.Env {
	env := window.Env{
		Compositor:    b,
		Subcompositor: b,
		Shm:           b.Canvases,
		Shell:         b,
		Seats:         b,
	}
	if b.compositor.Decorations {
		env.Decorations = b
	}
	return env
}

func (b *Backend) NewSurface() xshell.Surface {
	b.nextID++
	return xshell.Surface(b.nextID)
}

func (b *Backend) CreateToplevel(surface window.Surface) (window.ShellSurface, error) {
	b.record(surface.ID(), "get_toplevel")
	return &toplevel{backend: b, id: surface.ID()}, nil
}

func (b *Backend) GetToplevelDecoration(shell window.ShellSurface) (window.Decoration, error) {
	t, ok := shell.(*toplevel)
	if !ok {
		return nil, fmt.Errorf("not a replay toplevel: %T", shell)
	}
	b.record(t.id, "get_toplevel_decoration")
	return &decoration{backend: b, id: t.id}, nil
}

func (b *Backend) Seats() []window.SeatInfo {
	return b.seats
}

// Push queues a message as if the server had sent it.
func (b *Backend) Push(surface uint32, msg window.Msg) {
	b.pending = append(b.pending, xshell.Update{Surface: xshell.Surface(surface), Msg: msg})
}

func (b *Backend) Drain() []xshell.Update {
	pending := b.pending
	b.pending = nil
	return pending
}

func (b *Backend) record(id uint32, format string, args ...any) {
	b.Requests = append(b.Requests, fmt.Sprintf("%d: ", id)+fmt.Sprintf(format, args...))
}

func sizeString(size *window.Size) string {
	if size == nil {
		return "none"
	}
	return size.String()
}

type toplevel struct {
	backend *Backend
	id      uint32
}

func (t *toplevel) SetMinSize(size *window.Size) {
	t.backend.record(t.id, "set_min_size %s", sizeString(size))
}

func (t *toplevel) SetMaxSize(size *window.Size) {
	t.backend.record(t.id, "set_max_size %s", sizeString(size))
}

func (t *toplevel) SetGeometry(x, y, width, height int32) {
	t.backend.record(t.id, "set_window_geometry %d,%d %dx%d", x, y, width, height)
}

func (t *toplevel) SetTitle(title string) {
	t.backend.record(t.id, "set_title %q", title)
}

func (t *toplevel) SetAppID(appID string) {
	t.backend.record(t.id, "set_app_id %q", appID)
}

func (t *toplevel) SetMaximized() {
	t.backend.record(t.id, "set_maximized")
}

func (t *toplevel) UnsetMaximized() {
	t.backend.record(t.id, "unset_maximized")
}

func (t *toplevel) SetMinimized() {
	t.backend.record(t.id, "set_minimized")
}

func (t *toplevel) SetFullscreen(output window.Output) {
	t.backend.record(t.id, "set_fullscreen %d", output)
}

func (t *toplevel) UnsetFullscreen() {
	t.backend.record(t.id, "unset_fullscreen")
}

func (t *toplevel) Move(seat window.Seat, serial uint32) {
	t.backend.record(t.id, "move seat=%d serial=%d", seat, serial)
}

func (t *toplevel) Resize(seat window.Seat, serial uint32, edge window.ResizeEdge) {
	t.backend.record(t.id, "resize seat=%d serial=%d edge=%s", seat, serial, edge)
}

func (t *toplevel) ShowWindowMenu(seat window.Seat, serial uint32, x, y int32) {
	t.backend.record(t.id, "show_window_menu seat=%d serial=%d %d,%d", seat, serial, x, y)
}

func (t *toplevel) Destroy() {
	t.backend.record(t.id, "destroy_toplevel")
}

type decoration struct {
	backend   *Backend
	id        uint32
	destroyed bool
}

func (d *decoration) SetMode(mode window.DecorationMode) {
	d.backend.record(d.id, "set_mode %s", mode)
	d.reply(mode)
}

func (d *decoration) UnsetMode() {
	d.backend.record(d.id, "unset_mode")
	mode := d.backend.compositor.Prefer
	if mode == window.ModeUnset {
		mode = window.ModeServerSide
	}
	d.reply(mode)
}

func (d *decoration) Destroy() {
	d.destroyed = true
	d.backend.record(d.id, "destroy_decoration")
}

func (d *decoration) reply(mode window.DecorationMode) {
	if d.destroyed {
		return
	}
	if force := d.backend.compositor.Force; force != window.ModeUnset {
		mode = force
	}
	d.backend.Push(d.id, window.MsgDecorationMode{Mode: mode})
}
