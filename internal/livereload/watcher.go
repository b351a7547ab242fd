package livereload

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/websocket"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Reloader tracks the open reload sockets. Reload closes all of them; the
// client script reloads the page once it can reconnect.
type Reloader struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewReloader() *Reloader {
	return &Reloader{subs: make(map[chan struct{}]struct{})}
}

func (r *Reloader) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

func (r *Reloader) unsubscribe(ch chan struct{}) {
	r.mu.Lock()
	delete(r.subs, ch)
	r.mu.Unlock()
}

// Reload signals every connected client.
func (r *Reloader) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Clients returns the number of connected reload sockets.
func (r *Reloader) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *Reloader) Handler(c *gin.Context) {
	w := c.Writer
	socket, err := websocket.Accept(w, c.Request, nil)
	if err != nil {
		logrus.Errorf("could not open livereload websocket: %s", err)
		return
	}
	defer socket.CloseNow()

	reload := r.subscribe()
	defer r.unsubscribe(reload)

	ctx := socket.CloseRead(c.Request.Context())
	select {
	case <-ctx.Done():
	case <-reload:
		socket.Close(websocket.StatusServiceRestart, "assets changed")
	}
}

// Watch calls Reload whenever a file below dir is written, created, removed
// or renamed. It returns when ctx is done.
func (r *Reloader) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			logrus.Debugf("asset changed: %s", ev.Name)
			r.Reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("asset watcher: %s", err)
		}
	}
}
