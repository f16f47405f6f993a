// Package inspect serves an HTTP API for looking at and poking running
// windows.
package inspect

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/ItsNotGoodName/x-frame/internal/app"
	"github.com/ItsNotGoodName/x-frame/internal/build"
	"github.com/ItsNotGoodName/x-frame/internal/bus"
	"github.com/ItsNotGoodName/x-frame/pkg/chiext"
	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed web
var webFS embed.FS

// Controller gives access to windows owned by another goroutine.
type Controller interface {
	Windows(ctx context.Context) ([]app.WindowInfo, error)
	Act(ctx context.Context, id string, fn func(c *app.Client)) (app.WindowInfo, error)
}

func NewRouter(controller Controller, hub *bus.Hub[app.Event]) (http.Handler, error) {
	static, err := chiext.StaticEmbedFS(chiext.StaticFSConfig{
		FileSystem: webFS,
		Root:       "web",
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)
	r.Use(static)

	api := humachi.New(r, huma.DefaultConfig("x-frame", build.Current.Version))
	Register(api, controller, hub)

	return r, nil
}

type WindowsOutput struct {
	Body []app.WindowInfo
}

type WindowInput struct {
	ID string `path:"id" doc:"Window UUID"`
}

type WindowOutput struct {
	Body app.WindowInfo
}

type ActionInput struct {
	ID   string `path:"id" doc:"Window UUID"`
	Body Action
}

type BuildOutput struct {
	Body build.Build
}

func Register(api huma.API, controller Controller, hub *bus.Hub[app.Event]) {
	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Build information",
	}, func(ctx context.Context, input *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: build.Current}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows",
		Summary:     "List windows",
	}, func(ctx context.Context, input *struct{}) (*WindowsOutput, error) {
		infos, err := controller.Windows(ctx)
		if err != nil {
			return nil, err
		}
		if infos == nil {
			infos = []app.WindowInfo{}
		}
		return &WindowsOutput{Body: infos}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-window",
		Method:      http.MethodGet,
		Path:        "/api/windows/{id}",
		Summary:     "Get a window",
	}, func(ctx context.Context, input *WindowInput) (*WindowOutput, error) {
		info, err := controller.Act(ctx, input.ID, func(*app.Client) {})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &WindowOutput{Body: info}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "act-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/actions",
		Summary:     "Call a window operation",
	}, func(ctx context.Context, input *ActionInput) (*WindowOutput, error) {
		fn, err := input.Body.compile()
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		info, err := controller.Act(ctx, input.ID, fn)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &WindowOutput{Body: info}, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Stream window events",
	}, map[string]any{
		"event": app.Event{},
	}, func(ctx context.Context, input *struct{}, send sse.Sender) {
		eventC, unsubscribe := hub.Subscribe(ctx)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventC:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}

func toHumaError(err error) error {
	if errors.Is(err, app.ErrWindowNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	return err
}

// Action is a window operation. Only the fields the op needs are read.
type Action struct {
	Op          string       `json:"op" enum:"set-title,set-app-id,set-decorate,set-resizable,resize,set-min-size,set-max-size,maximize,unmaximize,minimize,fullscreen,unfullscreen,close,refresh"`
	Title       string       `json:"title,omitempty"`
	AppID       string       `json:"app_id,omitempty"`
	Decorations string       `json:"decorations,omitempty" enum:"follow,client,server,none"`
	Resizable   bool         `json:"resizable,omitempty"`
	Size        *window.Size `json:"size,omitempty" doc:"Content size. Omit to clear a min or max size."`
}

func (a Action) compile() (func(c *app.Client), error) {
	switch a.Op {
	case "set-title":
		return func(c *app.Client) { c.Window.SetTitle(a.Title) }, nil
	case "set-app-id":
		return func(c *app.Client) { c.Window.SetAppID(a.AppID) }, nil
	case "set-decorate":
		decorations, err := window.ParseDecorations(a.Decorations)
		if err != nil {
			return nil, err
		}
		return func(c *app.Client) { c.Window.SetDecorate(decorations) }, nil
	case "set-resizable":
		return func(c *app.Client) { c.Window.SetResizable(a.Resizable) }, nil
	case "resize":
		if a.Size == nil {
			return nil, fmt.Errorf("%s needs a size", a.Op)
		}
		size := *a.Size
		return func(c *app.Client) {
			c.Window.Resize(size.Width, size.Height)
			c.Window.Refresh()
		}, nil
	case "set-min-size":
		return func(c *app.Client) { c.Window.SetMinSize(a.Size) }, nil
	case "set-max-size":
		return func(c *app.Client) { c.Window.SetMaxSize(a.Size) }, nil
	case "maximize":
		return func(c *app.Client) { c.Window.SetMaximized() }, nil
	case "unmaximize":
		return func(c *app.Client) { c.Window.UnsetMaximized() }, nil
	case "minimize":
		return func(c *app.Client) { c.Window.SetMinimized() }, nil
	case "fullscreen":
		return func(c *app.Client) { c.Window.SetFullscreen(window.NoOutput) }, nil
	case "unfullscreen":
		return func(c *app.Client) { c.Window.UnsetFullscreen() }, nil
	case "close":
		return func(c *app.Client) { c.Window.Dispatch(window.MsgClose{}) }, nil
	case "refresh":
		return func(c *app.Client) { c.Window.Refresh() }, nil
	default:
		return nil, fmt.Errorf("unknown op %q", a.Op)
	}
}
