package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-frame/internal/app"
	"github.com/ItsNotGoodName/x-frame/internal/build"
	"github.com/ItsNotGoodName/x-frame/internal/bus"
	"github.com/ItsNotGoodName/x-frame/internal/config"
	"github.com/ItsNotGoodName/x-frame/internal/core"
	"github.com/ItsNotGoodName/x-frame/internal/inspect"
	"github.com/ItsNotGoodName/x-frame/internal/replay"
	"github.com/ItsNotGoodName/x-frame/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jezek/xgb"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"github.com/thejerf/suture/v4"
)

type Options struct {
	Debug   bool   `doc:"enable debug"`
	Config  string `doc:"config file" default:".x-frame.yaml"`
	Replay  string `doc:"replay scenario file instead of opening windows"`
	PNG     string `doc:"write the replayed frame to this png file"`
	Dump    bool   `doc:"dump the replay result"`
	Inspect bool   `doc:"serve the inspector"`
	Host    string `doc:"inspector host to listen on"`
	Port    int    `doc:"inspector port to listen on" default:"8080"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		if options.Replay != "" {
			OnServe(hooks, func(ctx context.Context) error {
				return runReplay(options)
			})
			return
		}

		OnServe(hooks, func(ctx context.Context) error {
			return runLive(ctx, options)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func runReplay(options *Options) error {
	scenario, err := replay.Load(options.Replay)
	if err != nil {
		return err
	}

	result, err := replay.Run(scenario)
	if err != nil {
		return err
	}

	if options.Dump {
		if err := result.Dump(os.Stdout); err != nil {
			return err
		}
	}

	if options.PNG != "" {
		if err := result.WritePNG(options.PNG); err != nil {
			return err
		}
		slog.Info("Wrote frame", "path", options.PNG)
	}

	return nil
}

func runLive(ctx context.Context, options *Options) error {
	bus.SetContext(ctx)

	configFilePath, err := filepath.Abs(options.Config)
	if err != nil {
		return err
	}

	store, err := config.NewStore(config.NewDriver(configFilePath))
	if err != nil {
		return err
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return err
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	loop, err := app.NewLoop(conn, cfg)
	if err != nil {
		return err
	}
	defer loop.Close()

	super := sutureext.NewSimple("x-frame")
	sutureext.Add(super, loop)

	if options.Inspect {
		hub := bus.NewHub[app.Event]().Register()

		handler, err := inspect.NewRouter(loop, hub)
		if err != nil {
			return err
		}

		sutureext.Add(super, inspect.NewServer(core.Address(options.Host, options.Port), handler))
	}

	err = super.Serve(ctx)
	if errors.Is(err, suture.ErrTerminateSupervisorTree) && !errors.Is(err, app.ErrConnectionClosed) {
		return nil
	}
	return err
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
