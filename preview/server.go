// Package preview serves a live HTML preview of one note. The note is
// re-rendered whenever its file changes and the page reloads itself when
// the revision moves on.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/note"
	"github.com/gaurav-prasanna/notepipe/core/render"
)

// DefaultDebounce is the delay between a file event and the refresh.
const DefaultDebounce = 200 * time.Millisecond

const reloadScript = `<script>
(function () {
  var rev = %d;
  setInterval(function () {
    fetch("/version").then(function (r) { return r.text(); }).then(function (v) {
      if (parseInt(v, 10) !== rev) { location.reload(); }
    }).catch(function () {});
  }, 1000);
})();
</script>
`

// Server renders a note file and serves the result over HTTP.
type Server struct {
	path     string
	page     *render.DocumentRenderer
	fragment *render.HTMLRenderer
	debounce time.Duration
	logger   *log.Logger

	refreshMu sync.Mutex

	mu       sync.RWMutex
	snap     snapshot
	revision int64
}

type snapshot struct {
	page     []byte
	fragment []byte
	err      error
}

// Option configures a Server.
type Option func(*Server)

// WithDebounce sets the refresh delay after a file event.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounce = d }
}

// WithLogger sets the logger for refresh and watcher messages.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server for the note at path, rendered with conv.
func New(path string, conv core.Converter, opts ...Option) *Server {
	s := &Server{
		path:     filepath.Clean(path),
		page:     render.NewDocumentRenderer(conv),
		fragment: render.NewHTMLRenderer(conv),
		debounce: DefaultDebounce,
		logger:   log.New(os.Stderr, "[notepipe] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh re-reads and re-renders the note. On failure the last good
// rendering is kept and the error is reported by the page endpoints.
func (s *Server) Refresh() error {
	// Refreshes run one at a time so an older read is never stored last.
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	err := s.refresh()
	if err != nil {
		s.mu.Lock()
		s.snap.err = err
		s.mu.Unlock()
		s.logger.Printf("Preview: refresh %s: %v", s.path, err)
	}
	return err
}

func (s *Server) refresh() error {
	body, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	n := note.Parse(s.path, string(body))

	fragment, err := s.fragment.Render(n)
	if err != nil {
		return err
	}
	page, err := s.page.Render(n)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision > 0 && bytes.Equal(fragment, s.snap.fragment) && bytes.Equal(page, s.snap.page) {
		s.snap.err = nil
		return nil
	}
	s.revision++
	s.snap = snapshot{page: page, fragment: fragment}
	return nil
}

// Revision returns the number of distinct renderings produced so far.
func (s *Server) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Router returns the HTTP handler of the preview.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /fragment", s.handleFragment)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) current() (snapshot, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.revision
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap, rev := s.current()
	if snap.page == nil {
		http.Error(w, errorText(snap.err), http.StatusServiceUnavailable)
		return
	}
	page := bytes.Replace(snap.page, []byte("</body>"), []byte(fmt.Sprintf(reloadScript, rev)+"</body>"), 1)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.current()
	if snap.fragment == nil {
		http.Error(w, errorText(snap.err), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(snap.fragment)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(strconv.FormatInt(s.Revision(), 10)))
}

func errorText(err error) string {
	if err == nil {
		return "note not rendered yet"
	}
	return err.Error()
}

// Watch refreshes the preview whenever the note file changes, until ctx is
// done. The parent directory is watched so editors that replace the file on
// save are still seen.
func (s *Server) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(s.debounce, func() { s.Refresh() })
			} else {
				timer.Reset(s.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Printf("Preview: watcher error: %v", err)
		}
	}
}

// Run renders the note, watches it and serves the preview on addr until ctx
// is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.Refresh(); err != nil {
		ln.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Watch(ctx) }()

	httpServer := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.Serve(ln) }()

	s.logger.Printf("Preview: serving %s on http://%s", s.path, ln.Addr())

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case err := <-watchErr:
		runErr = err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Printf("Preview: shutdown error: %v", err)
	}
	return runErr
}
