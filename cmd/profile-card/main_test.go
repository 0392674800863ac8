package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/vilaca/profile-card/internal/config"
)

func newUpstreams(t *testing.T) (githubURL, platformURL string) {
	t.Helper()

	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login":"octocat","name":"The Octocat","html_url":"https://github.com/octocat","public_repos":8,"followers":10,"following":1,"created_at":"2011-01-25T18:44:36Z"}`))
	}))
	t.Cleanup(gh.Close)

	pl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "octocat" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"octocat","isModerator":true,"stats":{"view_count":1500}}`))
	}))
	t.Cleanup(pl.Close)

	return gh.URL, pl.URL
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	githubURL, platformURL := newUpstreams(t)

	cfg := config.Default()
	cfg.GitHub.URL = githubURL
	cfg.Platform.URL = platformURL
	cfg.Cache.Backend = config.CacheBackendNone
	return &cfg
}

// TestBuildServer_Found tests the fully wired stack against fake upstreams.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestBuildServer_Found(t *testing.T) {
	// Arrange
	handler, closer := buildServer(testConfig(t), zap.NewNop())
	defer closer.Close()
	req := httptest.NewRequest(http.MethodGet, "/api/profile/octocat", nil)
	w := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  string `json:"status"`
		Profile struct {
			ViewCount string `json:"view_count"`
			Badges    []struct {
				Kind string `json:"kind"`
			} `json:"badges"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if resp.Status != "found" {
		t.Errorf("expected status found, got %q", resp.Status)
	}
	if resp.Profile.ViewCount != "1.5k" {
		t.Errorf("expected view count 1.5k, got %q", resp.Profile.ViewCount)
	}

	var kinds []string
	for _, b := range resp.Profile.Badges {
		kinds = append(kinds, b.Kind)
	}
	expected := []string{"member", "moderator", "trending"}
	if len(kinds) != len(expected) {
		t.Fatalf("expected badges %v, got %v", expected, kinds)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("expected badge %d to be %s, got %s", i, expected[i], kinds[i])
		}
	}
}

// TestBuildServer_NotFound tests that an unknown handle renders the not-found page.
func TestBuildServer_NotFound(t *testing.T) {
	// Arrange
	handler, closer := buildServer(testConfig(t), zap.NewNop())
	defer closer.Close()
	req := httptest.NewRequest(http.MethodGet, "/user/ghost", nil)
	w := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

// TestBuildServer_WithoutPlatform tests that profiles still render without the platform service.
func TestBuildServer_WithoutPlatform(t *testing.T) {
	// Arrange
	cfg := testConfig(t)
	cfg.Platform.URL = ""
	cfg.Cache.Backend = config.CacheBackendMemory
	handler, closer := buildServer(cfg, zap.NewNop())
	defer closer.Close()
	req := httptest.NewRequest(http.MethodGet, "/user/octocat", nil)
	w := httptest.NewRecorder()

	// Act
	handler.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
