package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/embedding"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

func testSignature(html string) *models.RenderedSignature {
	return &models.RenderedSignature{
		HTML:        html,
		PlainText:   "plain",
		TemplateID:  "default",
		UserID:      "max@guschlbauer.at",
		GeneratedAt: time.Now(),
	}
}

func newAPIStub(t *testing.T, calls *atomic.Int64, fail *atomic.Bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		switch r.URL.Path {
		case "/health":
			json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Version: "test"})
		case "/api/signature":
			calls.Add(1)
			if fail != nil && fail.Load() {
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(map[string]string{"error": "directory unavailable"})
				return
			}
			json.NewEncoder(w).Encode(testSignature("<p>sig " + r.URL.Query().Get("type") + "</p>"))
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGetSignature(t *testing.T) {
	var calls atomic.Int64
	srv := newAPIStub(t, &calls, nil)
	c := NewClient(srv.URL, "key")

	sig, err := c.GetSignature(context.Background(), "max@guschlbauer.at", signature.VariantReply, embedding.ModeCID)
	if err != nil {
		t.Fatalf("GetSignature() error = %v", err)
	}
	if sig.HTML != "<p>sig reply</p>" {
		t.Errorf("HTML = %q", sig.HTML)
	}
}

func TestClientAuthError(t *testing.T) {
	srv := newAPIStub(t, &atomic.Int64{}, nil)
	c := NewClient(srv.URL, "wrong")

	if _, err := c.Health(context.Background()); err == nil {
		t.Fatal("expected error for bad api key")
	}
}

func TestBoltCacheRoundTrip(t *testing.T) {
	cache, err := NewBoltCache(filepath.Join(t.TempDir(), "sig.db"), time.Hour)
	if err != nil {
		t.Fatalf("NewBoltCache() error = %v", err)
	}
	defer cache.Close()

	if err := cache.Put("max@guschlbauer.at", signature.VariantFull, testSignature("<p>x</p>")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	sig, fresh, err := cache.Get("max@guschlbauer.at", signature.VariantFull)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sig == nil || sig.HTML != "<p>x</p>" {
		t.Fatalf("sig = %+v", sig)
	}
	if !fresh {
		t.Error("entry should be fresh")
	}

	// Different variant is a miss.
	sig, _, _ = cache.Get("max@guschlbauer.at", signature.VariantReply)
	if sig != nil {
		t.Error("reply variant should miss")
	}
}

func TestBoltCacheExpiry(t *testing.T) {
	cache, err := NewBoltCache(filepath.Join(t.TempDir(), "sig.db"), -time.Minute)
	if err != nil {
		t.Fatalf("NewBoltCache() error = %v", err)
	}
	defer cache.Close()

	cache.Put("max@guschlbauer.at", signature.VariantFull, testSignature("<p>x</p>"))

	sig, fresh, _ := cache.Get("max@guschlbauer.at", signature.VariantFull)
	if sig == nil {
		t.Fatal("expired entry should still be returned")
	}
	if fresh {
		t.Error("entry should be stale")
	}
}

func TestBoltCachePurge(t *testing.T) {
	cache, err := NewBoltCache(filepath.Join(t.TempDir(), "sig.db"), time.Hour)
	if err != nil {
		t.Fatalf("NewBoltCache() error = %v", err)
	}
	defer cache.Close()

	cache.Put("max@guschlbauer.at", signature.VariantFull, testSignature("<p>x</p>"))
	if err := cache.Purge(); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if sig, _, _ := cache.Get("max@guschlbauer.at", signature.VariantFull); sig != nil {
		t.Error("cache not empty after purge")
	}
}

func TestCachingFetcherUsesFreshEntry(t *testing.T) {
	var calls atomic.Int64
	srv := newAPIStub(t, &calls, nil)
	cache, _ := NewBoltCache(filepath.Join(t.TempDir(), "sig.db"), time.Hour)
	defer cache.Close()

	f := NewCachingFetcher(NewClient(srv.URL, "key"), cache)

	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), "max@guschlbauer.at", signature.VariantFull); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestCachingFetcherServesStaleOnError(t *testing.T) {
	var calls atomic.Int64
	var fail atomic.Bool
	srv := newAPIStub(t, &calls, &fail)
	cache, _ := NewBoltCache(filepath.Join(t.TempDir(), "sig.db"), -time.Minute)
	defer cache.Close()

	f := NewCachingFetcher(NewClient(srv.URL, "key"), cache)

	if _, err := f.Fetch(context.Background(), "max@guschlbauer.at", signature.VariantFull); err != nil {
		t.Fatalf("initial Fetch() error = %v", err)
	}

	fail.Store(true)
	sig, err := f.Fetch(context.Background(), "max@guschlbauer.at", signature.VariantFull)
	if err != nil {
		t.Fatalf("Fetch() with stale cache error = %v", err)
	}
	if sig == nil {
		t.Fatal("stale signature not served")
	}
}

func TestCachingFetcherErrorWithoutCache(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := newAPIStub(t, &atomic.Int64{}, &fail)
	cache, _ := NewBoltCache(filepath.Join(t.TempDir(), "sig.db"), time.Hour)
	defer cache.Close()

	f := NewCachingFetcher(NewClient(srv.URL, "key"), cache)
	if _, err := f.Fetch(context.Background(), "max@guschlbauer.at", signature.VariantFull); err == nil {
		t.Fatal("expected error when server fails and cache is empty")
	}
}
