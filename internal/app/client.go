package app

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-frame/internal/bus"
	"github.com/ItsNotGoodName/x-frame/internal/config"
	"github.com/ItsNotGoodName/x-frame/internal/core"
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

type Window = window.Window[*frame.Basic, frame.Config]

// Client is the application side of a window. It takes every suggested
// size, repaints when asked and marks itself closed on a close request.
type Client struct {
	ID     string
	Window *Window
	Closed bool
	// OnEvent, when set, sees every event after it is published.
	OnEvent func(Event)

	log *slog.Logger
}

func NewClient(id string, env window.Env, surface window.Surface, cfg config.Window, theme frame.Config) (*Client, error) {
	c := &Client{
		ID:  id,
		log: slog.With("package", "app", "window", id),
	}

	w, err := window.New[*frame.Basic, frame.Config](env, surface, cfg.Size, frame.NewBasic(theme), c.handle)
	if err != nil {
		return nil, err
	}
	c.Window = w

	w.SetTitle(cfg.Title)
	if cfg.AppID != "" {
		w.SetAppID(cfg.AppID)
	}
	w.SetMinSize(cfg.MinSize)
	w.SetMaxSize(cfg.MaxSize)
	w.SetResizable(core.Optional(cfg.Resizable, true))
	w.SetDecorate(cfg.Decorations)
	w.Refresh()

	return c, nil
}

func (c *Client) handle(ev window.Event) {
	var event Event
	switch ev := ev.(type) {
	case window.EventConfigure:
		c.log.Debug("Configure", "size", ev.NewSize, "states", ev.States)
		if ev.NewSize != nil {
			c.Window.Resize(ev.NewSize.Width, ev.NewSize.Height)
		}
		c.Window.Refresh()
		event = Event{Kind: "configure", Size: ev.NewSize, States: ev.States}
	case window.EventRefresh:
		c.Window.Refresh()
		event = Event{Kind: "refresh"}
	case window.EventClose:
		c.log.Debug("Close")
		c.Closed = true
		event = Event{Kind: "close"}
	default:
		return
	}
	c.publish(event)
}

// Release tears the window down.
func (c *Client) Release() {
	c.Window.Release()
	c.publish(Event{Kind: "released"})
}

func (c *Client) Info() WindowInfo {
	return WindowInfo{
		ID:       c.ID,
		Surface:  c.Window.Surface().ID(),
		Closed:   c.Closed,
		Snapshot: c.Window.Snapshot(),
	}
}

func (c *Client) publish(event Event) {
	event.Window = c.ID
	bus.Publish(event)
	if c.OnEvent != nil {
		c.OnEvent(event)
	}
}
