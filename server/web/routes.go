package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cirno-club/clubsite/internal/middlewares"
	"github.com/cirno-club/clubsite/server"
)

type handler struct {
	*server.Server
}

func Routes(srv *server.Server) http.Handler {
	h := &handler{
		Server: srv,
	}

	var fs http.Handler = http.FileServer(h.StaticFS)
	if !srv.Cfg.Dev {
		fs = middlewares.Cache(time.Hour)(fs)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)

	mux.HandleFunc("GET /members", h.MembersPage)
	mux.HandleFunc("GET /members/{member_id}", h.MemberPage)

	mux.HandleFunc("GET /radio", h.RadioPage)
	mux.HandleFunc("GET /radio/events", h.RadioEvents)
	mux.HandleFunc("GET /radio/stream", h.RadioStream)

	mux.Handle("GET /discord/qr.png", middlewares.Cache(24*time.Hour)(http.HandlerFunc(h.DiscordQR)))

	mux.Handle("GET  /static/", fs)
	mux.Handle("HEAD /static/", fs)

	if srv.Reloader != nil {
		mux.HandleFunc(server.ReloadRoute, h.DevReload)
	}

	mux.HandleFunc("/", h.NotFound)

	return middlewares.Logger(mux)
}

func (h *handler) page(title string, active string) Page {
	return Page{
		Title:  title,
		Active: active,
		Dev:    h.Reloader != nil,
	}
}

// render executes the template into a buffer first so a failing template
// results in a 500 instead of half a page.
func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, name string, vars any) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := h.Templates().ExecuteTemplate(&buf, name, vars); err != nil {
		slog.ErrorContext(ctx, "Failed to render template", slog.String("template", name), slog.Any("err", err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.DebugContext(ctx, "Failed to write page", slog.String("template", name), slog.Any("err", err))
	}
}

type NotFoundVars struct {
	Page
	Message string
}

func (h *handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "This page does not exist.")
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	h.render(w, r, http.StatusNotFound, "not_found.gohtml", NotFoundVars{
		Page:    h.page("Not Found", ""),
		Message: message,
	})
}

// DevReload streams server-sent events that tell the browser to reload
// whenever the dev watcher sees a change. The connection stays open until
// the client leaves or the server shuts down.
func (h *handler) DevReload(w http.ResponseWriter, r *http.Request) {
	if h.Reloader == nil {
		http.NotFound(w, r)
		return
	}

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	cancel, ch := h.Reloader.Subscribe()
	defer cancel()

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprint(w, "data: reload\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
