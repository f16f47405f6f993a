// xcursor forked from https://github.com/BurntSushi/xgbutil/blob/master/xcursor/xcursor.go
package xcursor

import (
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Glyphs from the X cursor font.
const (
	BottomLeftCorner  = 12
	BottomRightCorner = 14
	BottomSide        = 16
	Fleur             = 52
	Hand2             = 60
	LeftPtr           = 68
	LeftSide          = 70
	RightSide         = 96
	TopLeftCorner     = 134
	TopRightCorner    = 136
	TopSide           = 138
)

// Glyph returns the cursor font glyph for a frame cursor hint.
func Glyph(cursor frame.Cursor) uint16 {
	switch cursor {
	case frame.CursorPointer:
		return Hand2
	case frame.CursorTop:
		return TopSide
	case frame.CursorBottom:
		return BottomSide
	case frame.CursorLeft:
		return LeftSide
	case frame.CursorRight:
		return RightSide
	case frame.CursorTopLeft:
		return TopLeftCorner
	case frame.CursorTopRight:
		return TopRightCorner
	case frame.CursorBottomLeft:
		return BottomLeftCorner
	case frame.CursorBottomRight:
		return BottomRightCorner
	default:
		return LeftPtr
	}
}

func CreateCursor(x *xgb.Conn, cursor uint16) (xproto.Cursor, error) {
	return CreateCursorExtra(x, cursor, 0xffff, 0xffff, 0xffff, 0, 0, 0)
}

func CreateCursorExtra(x *xgb.Conn, cursor, foreRed, foreGreen,
	foreBlue, backRed, backGreen, backBlue uint16) (xproto.Cursor, error) {

	fontId, err := xproto.NewFontId(x)
	if err != nil {
		return 0, err
	}

	cursorId, err := xproto.NewCursorId(x)
	if err != nil {
		return 0, err
	}

	err = xproto.OpenFontChecked(x, fontId,
		uint16(len("cursor")), "cursor").Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CreateGlyphCursorChecked(x, cursorId, fontId, fontId,
		cursor, cursor+1,
		foreRed, foreGreen, foreBlue,
		backRed, backGreen, backBlue).Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CloseFontChecked(x, fontId).Check()
	if err != nil {
		return 0, err
	}

	return cursorId, nil
}

// Cache creates each glyph cursor once per connection.
type Cache struct {
	conn    *xgb.Conn
	cursors map[uint16]xproto.Cursor
}

func NewCache(conn *xgb.Conn) *Cache {
	return &Cache{
		conn:    conn,
		cursors: make(map[uint16]xproto.Cursor),
	}
}

func (c *Cache) Get(cursor frame.Cursor) (xproto.Cursor, error) {
	glyph := Glyph(cursor)
	if id, ok := c.cursors[glyph]; ok {
		return id, nil
	}

	id, err := CreateCursor(c.conn, glyph)
	if err != nil {
		return 0, err
	}
	c.cursors[glyph] = id
	return id, nil
}

func (c *Cache) Free() {
	for glyph, id := range c.cursors {
		xproto.FreeCursor(c.conn, id)
		delete(c.cursors, glyph)
	}
}
