package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cirno-club/clubsite/server/beatleader"
	"github.com/cirno-club/clubsite/server/deezer"
	"github.com/cirno-club/clubsite/server/lanyard"
	"github.com/cirno-club/clubsite/server/members"
	"github.com/cirno-club/clubsite/server/osu"
	"github.com/cirno-club/clubsite/server/profile"
	"github.com/cirno-club/clubsite/server/quaver"
	"github.com/cirno-club/clubsite/server/radio"
	"github.com/cirno-club/clubsite/server/zeno"
)

var (
	//go:embed static
	static embed.FS

	//go:embed templates/*.gohtml
	templates embed.FS
)

func New(cfg Config) (*Server, error) {
	var (
		staticFS    http.FileSystem
		t           func() *template.Template
		reloader    *Reloader
		stopWatcher context.CancelFunc
	)
	if cfg.Dev {
		root, err := os.OpenRoot("server/")
		if err != nil {
			return nil, fmt.Errorf("failed to open server directory: %w", err)
		}
		staticFS = http.FS(root.FS())
		t = func() *template.Template {
			return template.Must(template.New("templates").
				Funcs(templateFuncs).
				ParseFS(root.FS(), "templates/*.gohtml"))
		}

		reloader = newReloader()
		stopWatcher = startDevWatcher("server", reloader)
	} else {
		staticFS = http.FS(static)

		st, err := template.New("templates").
			Funcs(templateFuncs).
			ParseFS(templates, "templates/*.gohtml")
		if err != nil {
			return nil, fmt.Errorf("failed to parse templates: %w", err)
		}

		t = func() *template.Template {
			return st
		}
	}

	directory, err := members.Load(cfg.Members.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	httpClient := &http.Client{}

	osuClient, err := osu.NewCached(osu.New(cfg.Osu, httpClient), cfg.Osu.CacheSize)
	if err != nil {
		return nil, err
	}

	zenoClient := zeno.New(cfg.Zeno, httpClient)

	return &Server{
		Cfg:        cfg,
		HTTPClient: httpClient,
		StaticFS:   staticFS,
		Members:    directory,
		Profiles: profile.NewResolver(profile.Clients{
			Osu:        osuClient,
			Quaver:     quaver.New(cfg.Quaver, httpClient),
			BeatLeader: beatleader.New(cfg.BeatLeader, httpClient),
			Lanyard:    lanyard.New(cfg.Lanyard, httpClient),
		}),
		Radio:       zenoClient,
		Station:     radio.NewStation(zenoClient, deezer.New(cfg.Deezer, httpClient), cfg.Zeno.RetryDelay.Std()),
		Reloader:    reloader,
		templates:   t,
		stopWatcher: stopWatcher,
	}, nil
}

type Server struct {
	Cfg        Config
	HTTPClient *http.Client
	StaticFS   http.FileSystem
	Members    *members.Directory
	Profiles   *profile.Resolver
	Radio      *zeno.Client
	Station    *radio.Station
	// Reloader is nil outside of dev mode.
	Reloader *Reloader

	server      *http.Server
	templates   func() *template.Template
	stopWatcher context.CancelFunc
}

func (s *Server) Templates() *template.Template {
	return s.templates()
}

func (s *Server) Start(handler http.Handler) {
	s.server = &http.Server{
		Addr:    s.Cfg.Server.Addr,
		Handler: handler,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()
}

// Stop ends the event streams first so their connections can drain, then
// shuts the HTTP server down.
func (s *Server) Stop() {
	s.Station.Close()
	if s.stopWatcher != nil {
		s.stopWatcher()
	}
	if s.Reloader != nil {
		s.Reloader.Close()
	}

	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", slog.Any("err", err))
		_ = s.server.Close()
	}
}
