package frame

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorTop
	CursorBottom
	CursorLeft
	CursorRight
	CursorTopLeft
	CursorTopRight
	CursorBottomLeft
	CursorBottomRight
)

func cursorForEdge(edge window.ResizeEdge) Cursor {
	switch edge {
	case window.EdgeTop:
		return CursorTop
	case window.EdgeBottom:
		return CursorBottom
	case window.EdgeLeft:
		return CursorLeft
	case window.EdgeRight:
		return CursorRight
	case window.EdgeTopLeft:
		return CursorTopLeft
	case window.EdgeTopRight:
		return CursorTopRight
	case window.EdgeBottomLeft:
		return CursorBottomLeft
	case window.EdgeBottomRight:
		return CursorBottomRight
	default:
		return CursorDefault
	}
}

// Canvas is where a frame paints. Coordinates are relative to the frame's
// top-left corner.
type Canvas interface {
	// Resize sets the frame-inclusive size of the drawing area.
	Resize(width, height int32)
	Fill(r image.Rectangle, c color.RGBA)
	SetCursor(seat window.Seat, cursor Cursor)
	Flush()
}

// CanvasProvider hands out a canvas per surface. It is passed to frames as
// the shm global.
type CanvasProvider interface {
	Canvas(surface window.Surface) (Canvas, error)
}

// ImageCanvas paints into memory.
type ImageCanvas struct {
	Image   *image.RGBA
	Cursors map[window.Seat]Cursor
	Flushes int
}

func NewImageCanvas() *ImageCanvas {
	return &ImageCanvas{
		Image:   image.NewRGBA(image.Rect(0, 0, 0, 0)),
		Cursors: make(map[window.Seat]Cursor),
	}
}

func (c *ImageCanvas) Resize(width, height int32) {
	r := image.Rect(0, 0, int(width), int(height))
	if c.Image.Bounds() != r {
		c.Image = image.NewRGBA(r)
	}
}

func (c *ImageCanvas) Fill(r image.Rectangle, col color.RGBA) {
	draw.Draw(c.Image, r, &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (c *ImageCanvas) SetCursor(seat window.Seat, cursor Cursor) {
	c.Cursors[seat] = cursor
}

func (c *ImageCanvas) Flush() {
	c.Flushes++
}

func (c *ImageCanvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.Image)
}

// ImageCanvases is a CanvasProvider backed by ImageCanvas.
type ImageCanvases struct {
	canvases map[uint32]*ImageCanvas
}

func NewImageCanvases() *ImageCanvases {
	return &ImageCanvases{canvases: make(map[uint32]*ImageCanvas)}
}

func (p *ImageCanvases) Canvas(surface window.Surface) (Canvas, error) {
	return p.Get(surface.ID()), nil
}

func (p *ImageCanvases) Get(id uint32) *ImageCanvas {
	c, ok := p.canvases[id]
	if !ok {
		c = NewImageCanvas()
		p.canvases[id] = c
	}
	return c
}
