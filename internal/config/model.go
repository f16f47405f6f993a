package config

import (
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

var defaultWindowSize = window.Size{Width: 640, Height: 480}

var defaultConfig = Config{
	Decorations: true,
	Frame:       frame.DefaultConfig,
	Windows: []Window{
		{
			Title: "x-frame",
			AppID: "x-frame",
			Size:  defaultWindowSize,
		},
	},
}

type Config struct {
	// Decorations enables negotiation with the window manager. When false
	// every window draws its own frame.
	Decorations bool         `json:"decorations" yaml:"decorations"`
	Frame       frame.Config `json:"frame" yaml:"frame"`
	Windows     []Window     `json:"windows" yaml:"windows"`
}

type Window struct {
	UUID        string             `json:"uuid" yaml:"uuid"`
	Title       string             `json:"title" yaml:"title"`
	AppID       string             `json:"app_id" yaml:"app_id"`
	Size        window.Size        `json:"size" yaml:"size"`
	MinSize     *window.Size       `json:"min_size,omitempty" yaml:"min_size,omitempty"`
	MaxSize     *window.Size       `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	Decorations window.Decorations `json:"decorations" yaml:"decorations"`
	Resizable   *bool              `json:"resizable,omitempty" yaml:"resizable,omitempty"`
}
