package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cavv-dev/crocdb-db/internal/services"
	"github.com/cavv-dev/crocdb-db/internal/testsupport"
)

func TestGetSendsHeadersAndCachesBody(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<html>index</html>"))
	}))
	defer server.Close()

	cache := NewCache(filepath.Join(t.TempDir(), "responses"))
	client := New(Options{Cache: cache})

	body, err := client.Get(context.Background(), server.URL+"/files/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "<html>index</html>" {
		t.Fatalf("unexpected body %q", body)
	}
	if gotUA != "curl/8.13.0" || gotAccept != "*/*" {
		t.Fatalf("unexpected headers ua=%q accept=%q", gotUA, gotAccept)
	}
	cached, ok := cache.Get(server.URL + "/files/")
	if !ok || cached != body {
		t.Fatalf("expected body cached, got %q ok=%v", cached, ok)
	}
}

func TestGetUsesCacheWhenRequested(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	url := server.URL + "/list"
	if err := cache.Put(url, "cached"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	client := New(Options{Cache: cache})

	body, err := client.Get(context.Background(), url, true)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "cached" || hits != 0 {
		t.Fatalf("expected cached body without request, got %q hits=%d", body, hits)
	}

	body, err = client.Get(context.Background(), url, false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "fresh" || hits != 1 {
		t.Fatalf("expected fresh body, got %q hits=%d", body, hits)
	}
	if cached, _ := cache.Get(url); cached != "fresh" {
		t.Fatalf("expected cache refreshed, got %q", cached)
	}
}

func TestGetNonSuccessIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	client := New(Options{Cache: cache})
	_, err := client.Get(context.Background(), server.URL, false)
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if _, ok := cache.Get(server.URL); ok {
		t.Fatal("failed responses must not be cached")
	}
}

func TestHead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.URL.Path == "/found.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Options{})
	ok, err := client.Head(context.Background(), server.URL+"/found.png")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	ok, err = client.Head(context.Background(), server.URL+"/missing.png")
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestDownloadWritesFileWithoutCaching(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("PK archive bytes"))
	}))
	defer server.Close()

	cache := NewCache(t.TempDir())
	// The request timeout bounds Get and Head only.
	client := New(Options{Cache: cache, Timeout: time.Nanosecond})
	dst := filepath.Join(t.TempDir(), "nested", "wiitdb.zip")

	n, err := client.Download(context.Background(), server.URL+"/wiitdb.zip", dst)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "PK archive bytes" || n != int64(len(data)) {
		t.Fatalf("unexpected download %q (%d bytes)", data, n)
	}
	if count, _ := cache.Count(); count != 0 {
		t.Fatalf("downloads must not be cached, got %d entries", count)
	}

	_, err = client.Download(context.Background(), server.URL+"/missing.zip", filepath.Join(filepath.Dir(dst), "missing.zip"))
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("failed download left files behind: %v", entries)
	}
}

func TestLoginCarriesSessionCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.SetCookie(w, &http.Cookie{Name: "test-cookie", Value: "1", Path: "/"})
		case http.MethodPost:
			if r.FormValue("username") != "user" || r.FormValue("password") != "secret" {
				http.Error(w, "bad credentials", http.StatusUnauthorized)
				return
			}
			if _, err := r.Cookie("test-cookie"); err != nil {
				http.Error(w, "no session", http.StatusBadRequest)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "logged-in-user", Value: "user", Path: "/"})
		}
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("logged-in-user"); err != nil {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte("member"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(Options{})
	authed, err := client.Login(context.Background(), server.URL+"/login", Credentials{Username: "user", Password: "secret"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !authed.Authenticated() || client.Authenticated() {
		t.Fatal("only the login client should be authenticated")
	}

	body, err := authed.Get(context.Background(), server.URL+"/private", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "member" {
		t.Fatalf("expected authenticated response, got %q", body)
	}
	body, err = client.Get(context.Background(), server.URL+"/private", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "anonymous" {
		t.Fatalf("base client must stay anonymous, got %q", body)
	}

	if _, err := client.Login(context.Background(), server.URL+"/login", Credentials{Username: "user", Password: "wrong"}); !errors.Is(err, services.ErrCredential) {
		t.Fatalf("expected ErrCredential, got %v", err)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	client := New(Options{})
	if _, err := client.Login(context.Background(), "http://127.0.0.1:1/login", Credentials{Username: "user"}); !errors.Is(err, services.ErrCredential) {
		t.Fatalf("expected ErrCredential, got %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Fetch.TimeoutSeconds = 30

	client := NewFromConfig(cfg, nil)
	if client.Cache().Dir() != cfg.Paths.CacheDir {
		t.Fatalf("unexpected cache dir %q", client.Cache().Dir())
	}
	if client.http.Timeout.Seconds() != 30 {
		t.Fatalf("unexpected timeout %v", client.http.Timeout)
	}
	if client.userAgent != cfg.Fetch.UserAgent {
		t.Fatalf("unexpected user agent %q", client.userAgent)
	}
}

func TestLoginSessionCachesSeparately(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Method + " list"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cache := NewCache(t.TempDir())
	client := New(Options{Cache: cache})
	authed, err := client.Login(context.Background(), server.URL+"/login", Credentials{Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	url := server.URL + "/list"
	if err := cache.Put(url, "anonymous copy"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	body, err := authed.Get(context.Background(), url, true)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if body != "GET list" {
		t.Fatalf("session must not read anonymous cache entries, got %q", body)
	}
	if cached, ok := cache.Get(authed.CacheKey(url)); !ok || cached != "GET list" {
		t.Fatalf("session response not cached under its own key: %q", cached)
	}
	if cached, _ := cache.Get(url); cached != "anonymous copy" {
		t.Fatalf("anonymous cache entry overwritten: %q", cached)
	}
}
