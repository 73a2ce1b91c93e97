package directory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
)

func newTestGraph(t *testing.T, handler http.HandlerFunc) (*GraphDirectory, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGraphDirectory(config.DirectoryConfig{
		TenantID:     "tenant-123",
		ClientID:     "client-456",
		ClientSecret: "s3cret",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.graphURL = srv.URL + "/v1.0"
	g.loginURL = srv.URL + "/login"

	return g, srv
}

func TestGraphGetUser(t *testing.T) {
	tokenRequests := 0

	g, _ := newTestGraph(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/login/"):
			tokenRequests++
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse token form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
				t.Errorf("grant_type = %q, want client_credentials", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"expires_in":   3600,
			})
		case strings.HasPrefix(r.URL.Path, "/v1.0/users/"):
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %q, want Bearer tok-1", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id":             "u-1",
				"displayName":    "Max Mustermann",
				"mail":           "max.mustermann@guschlbauer.at",
				"jobTitle":       "Vertriebsleiter",
				"businessPhones": []string{"+43 7248 62222-10"},
			})
		default:
			t.Errorf("unexpected request path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	u, err := g.GetUser(context.Background(), "max.mustermann@guschlbauer.at")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.DisplayName != "Max Mustermann" {
		t.Errorf("DisplayName = %q, want Max Mustermann", u.DisplayName)
	}
	if len(u.BusinessPhones) != 1 || u.BusinessPhones[0] != "+43 7248 62222-10" {
		t.Errorf("BusinessPhones = %v", u.BusinessPhones)
	}

	// Second lookup reuses the cached token.
	if _, err := g.GetUser(context.Background(), "max.mustermann@guschlbauer.at"); err != nil {
		t.Fatalf("GetUser() second call error = %v", err)
	}
	if tokenRequests != 1 {
		t.Errorf("token requests = %d, want 1", tokenRequests)
	}
}

func TestGraphGetUserNotFound(t *testing.T) {
	g, _ := newTestGraph(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/login/") {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := g.GetUser(context.Background(), "nobody@guschlbauer.at")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
}

func TestGraphServerErrorIsUnavailable(t *testing.T) {
	g, _ := newTestGraph(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/login/") {
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.GetUser(context.Background(), "max.mustermann@guschlbauer.at")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("GetUser() error = %v, want ErrUnavailable", err)
	}
}

func TestGraphListUsersPaging(t *testing.T) {
	var srv *httptest.Server

	g, s := newTestGraph(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/login/"):
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
		case r.URL.Path == "/v1.0/users" && r.URL.Query().Get("page") == "":
			json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]any{
					{"id": "u-1", "displayName": "A", "mail": "a@guschlbauer.at"},
					{"id": "u-2", "displayName": "Shared Box"}, // no mail, skipped
				},
				"@odata.nextLink": srv.URL + "/v1.0/users?page=2",
			})
		case r.URL.Path == "/v1.0/users" && r.URL.Query().Get("page") == "2":
			json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]any{
					{"id": "u-3", "displayName": "B", "mail": "b@guschlbauer.at"},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv = s

	users, err := g.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers() returned %d users, want 2", len(users))
	}
	if users[0].Mail != "a@guschlbauer.at" || users[1].Mail != "b@guschlbauer.at" {
		t.Errorf("ListUsers() mails = %q, %q", users[0].Mail, users[1].Mail)
	}
}
