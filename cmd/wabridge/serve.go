package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/chatwire/wabridge/internal/channel"
	"github.com/chatwire/wabridge/internal/channel/adapters/twilio"
	"github.com/chatwire/wabridge/internal/config"
	"github.com/chatwire/wabridge/internal/convo"
	"github.com/chatwire/wabridge/internal/handlers"
	"github.com/chatwire/wabridge/internal/logger"
	"github.com/chatwire/wabridge/internal/server"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideEngine,
			provideDispatcher,
			provideChannelRegistry,
			provideWebhookHandler,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewSendHandler),
			provideServer,
		),
		fx.Invoke(
			startDispatcher,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideEngine(log *slog.Logger) *convo.Registry {
	return convo.NewRegistry(log)
}

func provideDispatcher(log *slog.Logger, engine *convo.Registry) *convo.Dispatcher {
	return convo.NewDispatcher(log, engine)
}

func provideChannelRegistry(log *slog.Logger, cfg config.Config) *channel.Registry {
	registry := channel.NewRegistry()
	registry.MustRegister(twilio.NewTwilioAdapter(log, cfg.Twilio))
	return registry
}

func provideWebhookHandler(log *slog.Logger, cfg config.Config, dispatcher *convo.Dispatcher) *twilio.WebhookHandler {
	return twilio.NewWebhookHandler(log, cfg.Twilio, dispatcher)
}

type serverParams struct {
	fx.In
	Logger         *slog.Logger
	Config         config.Config
	WebhookHandler *twilio.WebhookHandler
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	allHandlers := make([]server.Handler, 0, len(params.ServerHandlers)+1)
	allHandlers = append(allHandlers, params.ServerHandlers...)
	allHandlers = append(allHandlers, params.WebhookHandler)
	return server.NewServer(
		params.Logger,
		params.Config.Server.Addr,
		params.Config.Auth.JWTSecret,
		params.WebhookHandler.Endpoint(),
		allHandlers...,
	)
}

func startDispatcher(lc fx.Lifecycle, dispatcher *convo.Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error { dispatcher.Start(ctx); return nil },
		OnStop:  func(stopCtx context.Context) error { cancel(); return dispatcher.Shutdown(stopCtx) },
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
