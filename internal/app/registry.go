package app

import (
	"errors"
	"slices"

	"github.com/ItsNotGoodName/x-frame/internal/xshell"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

var ErrWindowNotFound = errors.New("window not found")

// Registry routes backend updates to clients and reaps closed ones.
type Registry struct {
	clients []*Client
	destroy func(surface window.Surface)
}

// NewRegistry returns an empty registry. destroy is called with the surface
// of every reaped client whose surface still exists.
func NewRegistry(destroy func(surface window.Surface)) *Registry {
	return &Registry{destroy: destroy}
}

func (r *Registry) Add(c *Client) {
	r.clients = append(r.clients, c)
}

func (r *Registry) Len() int {
	return len(r.clients)
}

func (r *Registry) Get(id string) (*Client, error) {
	idx := slices.IndexFunc(r.clients, func(c *Client) bool { return c.ID == id })
	if idx == -1 {
		return nil, ErrWindowNotFound
	}
	return r.clients[idx], nil
}

func (r *Registry) Infos() []WindowInfo {
	infos := make([]WindowInfo, 0, len(r.clients))
	for _, c := range r.clients {
		infos = append(infos, c.Info())
	}
	return infos
}

// Apply dispatches updates to the clients owning their surfaces, then reaps
// closed clients.
func (r *Registry) Apply(updates []xshell.Update) {
	gone := make(map[uint32]bool)
	for _, u := range updates {
		idx := slices.IndexFunc(r.clients, func(c *Client) bool { return c.Window.Surface().ID() == u.Surface.ID() })
		if idx == -1 {
			continue
		}
		c := r.clients[idx]

		switch {
		case u.Gone:
			c.Closed = true
			gone[u.Surface.ID()] = true
		case u.Redraw:
			c.Window.Refresh()
		case u.Msg != nil:
			c.Window.Dispatch(u.Msg)
		}
	}
	r.reap(gone)
}

func (r *Registry) reap(gone map[uint32]bool) {
	r.clients = slices.DeleteFunc(r.clients, func(c *Client) bool {
		if !c.Closed {
			return false
		}
		surface := c.Window.Surface()
		c.Release()
		if !gone[surface.ID()] && r.destroy != nil {
			r.destroy(surface)
		}
		return true
	})
}

// Close releases every client.
func (r *Registry) Close() {
	for _, c := range r.clients {
		c.Closed = true
	}
	r.reap(nil)
}

// Reap releases clients that were closed outside of Apply.
func (r *Registry) Reap() {
	r.reap(nil)
}
