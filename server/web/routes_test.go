package web

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cirno-club/clubsite/server"
)

const testManifest = `
[[members]]
id = "alpha"
username = "Alpha"
title = "Leader"

[members.games]
quaver = "alpha9"

[[members]]
id = "beta"
username = "Beta"
title = "Member"
`

// newTestServer builds the site against an upstream that serves the audio
// stream under /stream and 404s for everything else.
func newTestServer(t *testing.T, streamStatus int) http.Handler {
	t.Helper()
	return Routes(newTestSite(t, streamStatus))
}

func newTestSite(t *testing.T, streamStatus int) *server.Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stream" {
			w.Header().Set("Content-Type", "audio/aac")
			w.WriteHeader(streamStatus)
			_, _ = io.WriteString(w, "audio-bytes")
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(upstream.Close)

	manifest := filepath.Join(t.TempDir(), "members.toml")
	if err := os.WriteFile(manifest, []byte(testManifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := server.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), false)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Members.Path = manifest
	cfg.Osu.BaseURL = upstream.URL
	cfg.Quaver.BaseURL = upstream.URL
	cfg.BeatLeader.BaseURL = upstream.URL
	cfg.Lanyard.BaseURL = upstream.URL
	cfg.Deezer.BaseURL = upstream.URL
	cfg.Zeno.StreamURL = upstream.URL + "/stream"
	cfg.Zeno.MetadataURL = upstream.URL + "/metadata"

	srv, err := server.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(srv.Stop)

	return srv
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

	rs := rr.Result()
	body, err := io.ReadAll(rs.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return rs, string(body)
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	rs, body := get(t, h, "/")
	if rs.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
	if !strings.Contains(body, "Alpha") {
		t.Error("expected the leader on the home page")
	}
	if strings.Contains(body, "Beta") {
		t.Error("expected only leaders on the home page")
	}
}

func TestMembersFilter(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	tests := []struct {
		target string
		alpha  bool
		beta   bool
	}{
		{"/members", true, true},
		{"/members?game=all", true, true},
		{"/members?game=QUAVER", true, false},
		{"/members?game=osu", false, false},
		{"/members?game=pokemon", false, false},
		{"/members?title=member", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rs, body := get(t, h, tt.target)
			if rs.StatusCode != http.StatusOK {
				t.Fatalf("unexpected status %d", rs.StatusCode)
			}
			if got := strings.Contains(body, `alt="Alpha"`); got != tt.alpha {
				t.Errorf("alpha listed = %t, want %t", got, tt.alpha)
			}
			if got := strings.Contains(body, `alt="Beta"`); got != tt.beta {
				t.Errorf("beta listed = %t, want %t", got, tt.beta)
			}
		})
	}
}

func TestMember(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	rs, body := get(t, h, "/members/alpha")
	if rs.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
	if !strings.Contains(body, "No data found for Alpha") {
		t.Error("expected the no data notice for a member whose accounts returned nothing")
	}

	_, body = get(t, h, "/members/beta")
	if strings.Contains(body, "No data found") {
		t.Error("expected no notice for a member without linked accounts")
	}
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	for _, target := range []string{"/members/nobody", "/does-not-exist"} {
		rs, body := get(t, h, target)
		if rs.StatusCode != http.StatusNotFound {
			t.Errorf("%s: unexpected status %d", target, rs.StatusCode)
		}
		if !strings.Contains(body, "Not Found") {
			t.Errorf("%s: expected the not found page", target)
		}
	}
}

func TestDiscordQR(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	rs, body := get(t, h, "/discord/qr.png")
	if rs.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
	if ct := rs.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(body, "\x89PNG") {
		t.Error("expected a png body")
	}
	if cc := rs.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=86400") {
		t.Errorf("unexpected cache control %q", cc)
	}
}

func TestRadio(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	rs, body := get(t, h, "/radio")
	if rs.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
	if !strings.Contains(body, "<title>Radio</title>") {
		t.Error("expected the page title")
	}
	if !strings.Contains(body, `src="/static/placeholder.svg" alt="cover"`) {
		t.Error("expected the placeholder cover before the first track")
	}
}

func TestRadioPageRendersTrack(t *testing.T) {
	srv := newTestSite(t, http.StatusOK)

	var buf bytes.Buffer
	err := srv.Templates().ExecuteTemplate(&buf, "radio.gohtml", RadioVars{
		Page: Page{Title: "Radio", Active: "radio"},
		Track: NowPlaying{
			Title:    "Bad Apple!!",
			Artist:   "Alstroemeria Records",
			CoverURL: "https://cdn.deezer.test/cover.jpg",
		},
	})
	if err != nil {
		t.Fatalf("render radio page: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, "<title>Radio</title>") {
		t.Error("expected the page title")
	}
	if !strings.Contains(body, `class="song-title">Bad Apple!!</h2>`) {
		t.Error("expected the track title")
	}
	if !strings.Contains(body, `class="album is-hidden"`) {
		t.Error("expected the album line to be hidden without an album")
	}
}

func TestRadioStream(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	rs, body := get(t, h, "/radio/stream")
	if rs.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
	if ct := rs.Header.Get("Content-Type"); ct != "audio/aac" {
		t.Errorf("unexpected content type %q", ct)
	}
	if body != "audio-bytes" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestRadioStreamUnavailable(t *testing.T) {
	h := newTestServer(t, http.StatusServiceUnavailable)

	rs, _ := get(t, h, "/radio/stream")
	if rs.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
}

func TestStaticCache(t *testing.T) {
	h := newTestServer(t, http.StatusOK)

	rs, _ := get(t, h, "/static/style.css")
	if rs.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", rs.StatusCode)
	}
	if cc := rs.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=3600") {
		t.Errorf("unexpected cache control %q", cc)
	}
}
