package quaver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cirno-club/clubsite/server/platform"
)

func TestGetUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "cirno fan":
			_, _ = w.Write([]byte(`{"user": {
				"id": 9,
				"username": "cirno",
				"country": "JP",
				"avatar_url": "https://cdn.quavergame.com/avatar/9.png",
				"stats_keys4": {
					"overall_performance_rating": 321.5,
					"ranks": {"global": 100, "country": 7},
					"play_count": 42,
					"overall_accuracy": 97.5,
					"ranked_score": 1000,
					"total_score": 2000,
					"count_grade_x": 1,
					"count_grade_ss": 2,
					"count_grade_s": 3,
					"count_grade_a": 4,
					"count_grade_b": 5
				}
			}}`))
		case "ghost":
			_, _ = w.Write([]byte(`{"user": null}`))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL}, srv.Client())
	ctx := context.Background()

	profile, err := client.GetUser(ctx, "cirno fan")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if profile.ID != "9" || profile.Country != "JP" || profile.AvatarURL == "" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if len(profile.Modes) != 2 {
		t.Fatalf("expected both modes, got %d", len(profile.Modes))
	}

	keys4 := profile.Modes[0]
	if keys4.Mode != Mode4K || keys4.Rating != 321.5 || keys4.GlobalRank != 100 || keys4.CountryRank.Or(-1) != 7 {
		t.Fatalf("unexpected 4k stats %+v", keys4)
	}
	if len(keys4.Grades) != 5 || keys4.Grades[0].Name != "x" || keys4.Grades[4].Count != 5 {
		t.Fatalf("unexpected 4k grades %+v", keys4.Grades)
	}

	keys7 := profile.Modes[1]
	if keys7.Mode != Mode7K || keys7.Rating != 0 || keys7.CountryRank.OK || keys7.Grades != nil {
		t.Fatalf("expected zeroed 7k stats, got %+v", keys7)
	}

	if _, err = client.GetUser(ctx, "ghost"); !errors.Is(err, platform.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user payload, got %v", err)
	}
	if _, err = client.GetUser(ctx, "nobody"); !errors.Is(err, platform.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 404, got %v", err)
	}
}

func TestGetUserWithoutAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"id": 1, "username": "rumia", "country": "JP"}}`))
	}))
	defer srv.Close()

	profile, err := New(Config{BaseURL: srv.URL}, srv.Client()).GetUser(context.Background(), "1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if profile.AvatarURL != "" {
		t.Fatalf("expected no avatar, got %q", profile.AvatarURL)
	}
	if profile.ProfileURL() != "https://quavergame.com/user/1" {
		t.Fatalf("unexpected profile url %q", profile.ProfileURL())
	}
}
