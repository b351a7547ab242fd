package livereload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestInjectScript(t *testing.T) {
	w := serve(t, InjectScript("/_livereload", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html", []byte("<html><head><title>x</title></head><body>hi</body></html>"))
	}))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	head := body[:strings.Index(body, "</head>")]
	assert.Contains(t, head, "<script>")
	assert.Contains(t, head, `_livereload`)
	assert.Contains(t, body, "<body>hi</body>")
}

func TestInjectScriptSkipsErrors(t *testing.T) {
	w := serve(t, InjectScript("/_livereload", func(c *gin.Context) {
		c.String(http.StatusNotFound, "gone")
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "gone", w.Body.String())
}

func dial(t *testing.T, r *Reloader) *websocket.Conn {
	t.Helper()
	e := gin.New()
	e.GET("/_livereload", r.Handler)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/_livereload", nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.Eventually(t, func() bool { return r.Clients() == 1 }, time.Second, time.Millisecond)
	return c
}

func TestReloadClosesSockets(t *testing.T) {
	r := NewReloader()
	c := dial(t, r)

	r.Reload()
	_ = c.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseServiceRestart), "got %v", err)
	assert.Eventually(t, func() bool { return r.Clients() == 0 }, time.Second, time.Millisecond)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))

	r := NewReloader()
	c := dial(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx, dir) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// the watcher may not be registered yet, keep touching the file
	closed := make(chan error, 1)
	go func() {
		_, _, err := c.ReadMessage()
		closed <- err
	}()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case err := <-closed:
			assert.True(t, websocket.IsCloseError(err, websocket.CloseServiceRestart), "got %v", err)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "index.js"), []byte("//"), 0o644))
		case <-timeout:
			t.Fatal("no reload")
		}
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := NewReloader().Watch(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
