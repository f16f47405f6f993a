package xshell

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb/xproto"
)

// Canvas creates a canvas that paints straight into the X window.
func (b *Backend) Canvas(surface window.Surface) (frame.Canvas, error) {
	wid := xproto.Window(surface.ID())

	gc, err := xproto.NewGcontextId(b.conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateGCChecked(b.conn, gc, xproto.Drawable(wid), xproto.GcForeground, []uint32{b.screen.BlackPixel}).Check(); err != nil {
		return nil, err
	}

	return &canvas{backend: b, wid: wid, gc: gc}, nil
}

type canvas struct {
	backend *Backend
	wid     xproto.Window
	gc      xproto.Gcontext
}

// Resize is a no-op, the window is sized by the toplevel's geometry.
func (c *canvas) Resize(width, height int32) {}

func (c *canvas) Fill(r image.Rectangle, col color.RGBA) {
	if r.Empty() {
		return
	}
	conn := c.backend.conn
	// Assumes a TrueColor visual.
	pixel := uint32(col.R)<<16 | uint32(col.G)<<8 | uint32(col.B)
	xproto.ChangeGC(conn, c.gc, xproto.GcForeground, []uint32{pixel})
	xproto.PolyFillRectangle(conn, xproto.Drawable(c.wid), c.gc, []xproto.Rectangle{{
		X:      int16(r.Min.X),
		Y:      int16(r.Min.Y),
		Width:  uint16(r.Dx()),
		Height: uint16(r.Dy()),
	}})
}

func (c *canvas) SetCursor(seat window.Seat, cursor frame.Cursor) {
	id, err := c.backend.cursors.Get(cursor)
	if err != nil {
		slog.Error("Failed to create cursor", "package", "xshell", "cursor", cursor, "error", err)
		return
	}
	xproto.ChangeWindowAttributes(c.backend.conn, c.wid, xproto.CwCursor, []uint32{uint32(id)})
}

// Flush is a no-op, xgb writes each request as it is issued.
func (c *canvas) Flush() {}

func (c *canvas) Destroy() {
	xproto.FreeGC(c.backend.conn, c.gc)
}
