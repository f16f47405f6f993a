package app_test

import (
	"errors"
	"testing"

	"github.com/ItsNotGoodName/x-frame/internal/app"
	"github.com/ItsNotGoodName/x-frame/internal/config"
	"github.com/ItsNotGoodName/x-frame/internal/replay"
	"github.com/ItsNotGoodName/x-frame/internal/xshell"
	"github.com/ItsNotGoodName/x-frame/pkg/frame"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
)

type fixture struct {
	backend  *replay.Backend
	registry *app.Registry
	client   *app.Client
	events   []app.Event
	reaped   []uint32
}

func newFixture(t *testing.T, cfg config.Window) *fixture {
	t.Helper()
	f := &fixture{backend: replay.NewBackend(replay.Compositor{})}
	f.registry = app.NewRegistry(func(s window.Surface) { f.reaped = append(f.reaped, s.ID()) })

	c, err := app.NewClient("w1", f.backend.Env(), f.backend.NewSurface(), cfg, frame.DefaultConfig)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.OnEvent = func(ev app.Event) { f.events = append(f.events, ev) }
	f.client = c
	f.registry.Add(c)
	return f
}

func (f *fixture) push(msg window.Msg) {
	f.registry.Apply([]xshell.Update{{Surface: xshell.Surface(1), Msg: msg}})
}

func TestClientAppliesConfig(t *testing.T) {
	resizable := false
	f := newFixture(t, config.Window{
		Title:     "demo",
		AppID:     "demo.app",
		Size:      window.Size{Width: 320, Height: 240},
		MinSize:   &window.Size{Width: 100, Height: 100},
		Resizable: &resizable,
	})

	info := f.client.Info()
	if info.Surface != 1 || info.ID != "w1" {
		t.Fatalf("info = %+v", info)
	}
	s := info.Snapshot
	if s.Title != "demo" || s.AppID != "demo.app" || s.Resizable || s.MinSize != (window.Size{Width: 100, Height: 100}) {
		t.Fatalf("snapshot = %+v", s)
	}
}

func TestClientFollowsConfigure(t *testing.T) {
	f := newFixture(t, config.Window{Size: window.Size{Width: 320, Height: 240}})

	f.push(window.MsgConfigure{Size: &window.Size{Width: 508, Height: 432}})
	if got := f.client.Window.Size(); got != (window.Size{Width: 500, Height: 400}) {
		t.Fatalf("size = %v, want 500x400", got)
	}
	if len(f.events) != 1 || f.events[0].Kind != "configure" || f.events[0].Window != "w1" {
		t.Fatalf("events = %+v", f.events)
	}
}

func TestRegistryReapsClosed(t *testing.T) {
	f := newFixture(t, config.Window{Size: window.Size{Width: 10, Height: 10}})

	f.push(window.MsgClose{})
	if f.registry.Len() != 0 {
		t.Fatal("closed client not reaped")
	}
	if len(f.reaped) != 1 || f.reaped[0] != 1 {
		t.Fatalf("reaped = %v", f.reaped)
	}
	if last := f.events[len(f.events)-1]; last.Kind != "released" {
		t.Fatalf("last event = %+v", last)
	}
	if _, err := f.registry.Get("w1"); !errors.Is(err, app.ErrWindowNotFound) {
		t.Fatalf("Get = %v", err)
	}
}

func TestRegistryGoneSurfaceIsNotDestroyed(t *testing.T) {
	f := newFixture(t, config.Window{Size: window.Size{Width: 10, Height: 10}})

	f.registry.Apply([]xshell.Update{{Surface: xshell.Surface(1), Gone: true}})
	if f.registry.Len() != 0 {
		t.Fatal("gone client not reaped")
	}
	if len(f.reaped) != 0 {
		t.Fatalf("destroyed a surface that is already gone: %v", f.reaped)
	}
}

func TestRegistryIgnoresUnknownSurface(t *testing.T) {
	f := newFixture(t, config.Window{Size: window.Size{Width: 10, Height: 10}})
	f.registry.Apply([]xshell.Update{{Surface: xshell.Surface(99), Msg: window.MsgClose{}}})
	if f.registry.Len() != 1 {
		t.Fatal("update for another surface closed the client")
	}
	if len(f.registry.Infos()) != 1 {
		t.Fatal("Infos should list the client")
	}
}
