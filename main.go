package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cirno-club/clubsite/internal/xotel"
	"github.com/cirno-club/clubsite/internal/xslog"
	"github.com/cirno-club/clubsite/server"
	"github.com/cirno-club/clubsite/server/web"
)

const serviceName = "clubsite"

func main() {
	cfgPath := flag.String("config", "config.toml", "path to the config file")
	flag.Parse()

	cfgPathSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			cfgPathSet = true
		}
	})

	cfg, err := server.LoadConfig(*cfgPath, cfgPathSet)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	setupLogger(cfg.Log)
	slog.Info("Starting clubsite...", slog.String("config", *cfgPath))
	slog.Debug("Config loaded", slog.String("config", cfg.String()))

	shutdownTracing, err := xotel.Setup(context.Background(), cfg.Otel, serviceName)
	if err != nil {
		slog.Error("Failed to set up tracing", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("Failed to shut down tracing", slog.Any("err", err))
		}
	}()

	srv, err := server.New(cfg)
	if err != nil {
		slog.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srv.Start(web.Routes(srv))
	defer srv.Stop()

	slog.Info("Server started", slog.String("addr", cfg.Server.Addr), slog.Int("members", srv.Members.Len()))

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGTERM, syscall.SIGINT)
	<-s
}

func setupLogger(cfg server.LogConfig) {
	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case server.LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case server.LogFormatText:
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		slog.Error("Unknown log format", slog.String("format", string(cfg.Format)))
		os.Exit(1)
	}
	slog.SetDefault(slog.New(xslog.NewFilterHandler(handler, xslog.DropCanceled)))
}
