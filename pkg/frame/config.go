package frame

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a 0xRRGGBB colour written as "#rrggbb" in config files.
type Color uint32

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "#")
	if len(s) != 6 {
		return fmt.Errorf("color %q: expected #rrggbb", text)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("color %q: %w", text, err)
	}
	*c = Color(v)
	return nil
}

func (c Color) lighten() Color {
	r, g, b := (c>>16)&0xff, (c>>8)&0xff, c&0xff
	r += (0xff - r) / 4
	g += (0xff - g) / 4
	b += (0xff - b) / 4
	return r<<16 | g<<8 | b
}

type Config struct {
	BorderSize     int32 `json:"border_size" yaml:"border_size"`
	HeaderHeight   int32 `json:"header_height" yaml:"header_height"`
	ActiveHeader   Color `json:"active_header" yaml:"active_header"`
	InactiveHeader Color `json:"inactive_header" yaml:"inactive_header"`
	Border         Color `json:"border" yaml:"border"`
	CloseButton    Color `json:"close_button" yaml:"close_button"`
	MaximizeButton Color `json:"maximize_button" yaml:"maximize_button"`
	MinimizeButton Color `json:"minimize_button" yaml:"minimize_button"`
}

var DefaultConfig = Config{
	BorderSize:     4,
	HeaderHeight:   24,
	ActiveHeader:   0x2e3440,
	InactiveHeader: 0x4c566a,
	Border:         0x3b4252,
	CloseButton:    0xbf616a,
	MaximizeButton: 0xa3be8c,
	MinimizeButton: 0xebcb8b,
}

// normalize replaces unusable sizes with the defaults.
func (c Config) normalize() Config {
	if c.BorderSize < 0 {
		c.BorderSize = DefaultConfig.BorderSize
	}
	if c.HeaderHeight <= 0 {
		c.HeaderHeight = DefaultConfig.HeaderHeight
	}
	return c
}
