package preview

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/notepipe/core/markdown"
)

func newTestServer(t *testing.T, content string) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	s := New(path, markdown.Notes(),
		WithDebounce(10*time.Millisecond),
		WithLogger(log.New(io.Discard, "", 0)),
	)
	return s, path
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouter(t *testing.T) {
	s, _ := newTestServer(t, "# Hello\n\nworld")
	require.NoError(t, s.Refresh())
	h := s.Router()

	rec := get(t, h, "/fragment")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>Hello</h1>\n<p>world</p>", rec.Body.String())

	rec = get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Hello</title>")
	assert.Contains(t, rec.Body.String(), "var rev = 1;")

	rec = get(t, h, "/version")
	assert.Equal(t, "1", rec.Body.String())

	rec = get(t, h, "/healthz")
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, h, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterBeforeFirstRender(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.md"), markdown.Notes(), WithLogger(log.New(io.Discard, "", 0)))
	require.Error(t, s.Refresh())

	rec := get(t, s.Router(), "/fragment")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "absent.md")
}

func TestRefreshRevision(t *testing.T) {
	s, path := newTestServer(t, "one")
	require.NoError(t, s.Refresh())
	assert.Equal(t, int64(1), s.Revision())

	// Unchanged content keeps the revision.
	require.NoError(t, s.Refresh())
	assert.Equal(t, int64(1), s.Revision())

	require.NoError(t, os.WriteFile(path, []byte("two"), 0644))
	require.NoError(t, s.Refresh())
	assert.Equal(t, int64(2), s.Revision())

	// A failed refresh keeps the last good rendering.
	require.NoError(t, os.Remove(path))
	require.Error(t, s.Refresh())
	rec := get(t, s.Router(), "/fragment")
	assert.Equal(t, "<p>two</p>", rec.Body.String())
}

func TestRefreshRecoveryKeepsRevision(t *testing.T) {
	s, path := newTestServer(t, "same")
	require.NoError(t, s.Refresh())

	moved := path + ".bak"
	require.NoError(t, os.Rename(path, moved))
	require.Error(t, s.Refresh())

	require.NoError(t, os.Rename(moved, path))
	require.NoError(t, s.Refresh())
	assert.Equal(t, int64(1), s.Revision())

	// The recovered read clears the error for the page endpoints.
	snap, _ := s.current()
	assert.NoError(t, snap.err)
}

func TestRefreshConcurrent(t *testing.T) {
	s, path := newTestServer(t, "first")
	require.NoError(t, s.Refresh())
	require.NoError(t, os.WriteFile(path, []byte("second"), 0644))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Refresh()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2), s.Revision())
	assert.Equal(t, "<p>second</p>", get(t, s.Router(), "/fragment").Body.String())
}

func TestWatchRefreshesOnWrite(t *testing.T) {
	s, path := newTestServer(t, "before")
	require.NoError(t, s.Refresh())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("after"), 0644))

	require.Eventually(t, func() bool {
		return get(t, s.Router(), "/fragment").Body.String() == "<p>after</p>"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestServe(t *testing.T) {
	s, _ := newTestServer(t, "served")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/fragment"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) == "<p>served</p>"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeMissingNote(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.md"), markdown.Notes(), WithLogger(log.New(io.Discard, "", 0)))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Error(t, s.Serve(context.Background(), ln))
}
