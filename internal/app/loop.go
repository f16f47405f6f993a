package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-frame/internal/config"
	"github.com/ItsNotGoodName/x-frame/internal/xshell"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb"
	"github.com/thejerf/suture/v4"
)

var ErrConnectionClosed = errors.New("X connection closed")

// Loop owns the X backend and every window. All window access happens on
// the goroutine running Serve; other goroutines go through Do.
type Loop struct {
	conn     *xgb.Conn
	backend  *xshell.Backend
	registry *Registry
	doC      chan func()
}

// NewLoop creates and maps one window per configured window.
func NewLoop(conn *xgb.Conn, cfg config.Config) (*Loop, error) {
	backend, err := xshell.New(conn)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		conn:    conn,
		backend: backend,
		registry: NewRegistry(func(surface window.Surface) {
			backend.DestroySurface(surface.(xshell.Surface))
		}),
		doC: make(chan func()),
	}

	env := backend.Env(cfg.Decorations)
	for _, wc := range cfg.Windows {
		surface, err := backend.CreateSurface(wc.Size)
		if err != nil {
			l.registry.Close()
			return nil, err
		}

		c, err := NewClient(wc.UUID, env, surface, wc, cfg.Frame)
		if err != nil {
			backend.DestroySurface(surface)
			l.registry.Close()
			return nil, fmt.Errorf("window %s: %w", wc.UUID, err)
		}
		l.registry.Add(c)

		if err := backend.Map(surface); err != nil {
			l.registry.Close()
			return nil, err
		}
	}
	l.drain()

	return l, nil
}

func (l *Loop) String() string {
	return "app.Loop"
}

// Serve runs until every window is closed, which terminates the supervisor
// tree.
func (l *Loop) Serve(ctx context.Context) error {
	eventC := make(chan xgb.Event)
	go xshell.ReceiveEvents(ctx, l.conn, eventC)

	for l.registry.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventC:
			if !ok {
				return errors.Join(ErrConnectionClosed, suture.ErrTerminateSupervisorTree)
			}
			l.registry.Apply(l.backend.Translate(ev))
		case fn := <-l.doC:
			fn()
			l.registry.Reap()
		}
		l.drain()
	}

	slog.Info("All windows closed")
	return suture.ErrTerminateSupervisorTree
}

// Close releases every window and the backend. It must not race Serve.
func (l *Loop) Close() {
	l.registry.Close()
	l.backend.Close()
}

func (l *Loop) drain() {
	for {
		updates := l.backend.Drain()
		if len(updates) == 0 {
			return
		}
		l.registry.Apply(updates)
	}
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(ctx context.Context, fn func(r *Registry) error) error {
	errC := make(chan error, 1)
	select {
	case l.doC <- func() { errC <- fn(l.registry) }:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) Windows(ctx context.Context) ([]WindowInfo, error) {
	var infos []WindowInfo
	err := l.Do(ctx, func(r *Registry) error {
		infos = r.Infos()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (l *Loop) Act(ctx context.Context, id string, fn func(c *Client)) (WindowInfo, error) {
	var info WindowInfo
	err := l.Do(ctx, func(r *Registry) error {
		c, err := r.Get(id)
		if err != nil {
			return err
		}
		fn(c)
		info = c.Info()
		return nil
	})
	if err != nil {
		return WindowInfo{}, err
	}
	return info, nil
}
