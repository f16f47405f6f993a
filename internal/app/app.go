package app

import (
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

// Event is an application event of one window, as published on the bus.
type Event struct {
	Window string         `json:"window"`
	Kind   string         `json:"kind" enum:"configure,close,refresh,released"`
	Size   *window.Size   `json:"size,omitempty"`
	States []window.State `json:"states,omitempty"`
}

// WindowInfo describes a live window.
type WindowInfo struct {
	ID       string          `json:"id"`
	Surface  uint32          `json:"surface"`
	Closed   bool            `json:"closed"`
	Snapshot window.Snapshot `json:"snapshot"`
}
