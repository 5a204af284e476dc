package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/recipescope/pkg/config"
	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/server/mocks"
)

func testConfig(listen string) *mocks.ConfigProviderMock {
	cfg := &config.Config{}
	cfg.Server.Listen, cfg.Server.Timeout, cfg.Server.MaxBatch = listen, 30*time.Second, 3
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return cfg.Server.Listen, cfg.Server.Timeout },
		GetFullConfigFunc:   func() *config.Config { return cfg },
	}
}

func TestServer_New(t *testing.T) {
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, &mocks.RecipesMock{}, "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	err = listener.Close()
	require.NoError(t, err)

	srv := New(testConfig(fmt.Sprintf("127.0.0.1:%d", port)), &mocks.ParserMock{}, &mocks.RecipesMock{}, "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for server to start
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 2*time.Second, 20*time.Millisecond)

	// shutdown server
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestServer_statusHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		recipes := &mocks.RecipesMock{StatusFunc: func(context.Context) (domain.StoreStats, error) {
			return domain.StoreStats{Recipes: 5, Forks: 1, Embedded: 4, HotCache: true, CacheHits: 7}, nil
		}}
		srv := New(testConfig(":8080"), &mocks.ParserMock{}, recipes, "1.2.3", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "recipescope", w.Header().Get("App-Name"))

		var resp struct {
			Status  string            `json:"status"`
			Version string            `json:"version"`
			Store   domain.StoreStats `json:"store"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, 5, resp.Store.Recipes)
		assert.Equal(t, int64(7), resp.Store.CacheHits)
	})

	t.Run("degraded", func(t *testing.T) {
		recipes := &mocks.RecipesMock{StatusFunc: func(context.Context) (domain.StoreStats, error) {
			return domain.StoreStats{}, errors.New("database is closed")
		}}
		srv := New(testConfig(":8080"), &mocks.ParserMock{}, recipes, "1.2.3", false)

		w := httptest.NewRecorder()
		srv.statusHandler(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.NotContains(t, w.Body.String(), "store")
	})
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	renderError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), nil, http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}
