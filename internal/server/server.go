package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/JackWithOneEye/flowcanvas/cmd/web"
	"github.com/JackWithOneEye/flowcanvas/internal/autoscroll"
	"github.com/JackWithOneEye/flowcanvas/internal/background"
	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/JackWithOneEye/flowcanvas/internal/engine"
	"github.com/JackWithOneEye/flowcanvas/internal/livereload"
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ServerConfig interface {
	Port() uint
	DevMode() bool
	AssetsDir() string
	AutoScroll() autoscroll.Config
	ZoomPanel() controls.Panel
}

const (
	sessionPath    = "/session"
	livereloadPath = "/_livereload"
	requestTimeout = 5 * time.Second
)

type server struct {
	cfg      ServerConfig
	engine   engine.Engine
	reloader *livereload.Reloader

	sessionsMtx sync.RWMutex
	sessions    map[string]engine.Engine
}

// NewServer starts the engine loop of the shared canvas that REST callers
// drive by default. Every websocket session gets a canvas of its own. All of
// them stop when ctx is done.
func NewServer(cfg ServerConfig, engine engine.Engine, ctx context.Context) *http.Server {
	s := &server{
		cfg:      cfg,
		engine:   engine,
		sessions: make(map[string]engine.Engine),
	}
	if cfg.DevMode() {
		s.reloader = livereload.NewReloader()
		go func() {
			if err := s.reloader.Watch(ctx, cfg.AssetsDir()); err != nil {
				logrus.Warnf("asset watcher stopped: %s", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port()),
		Handler:           s.registerRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go engine.Start()
	// nobody streams the shared canvas, its frames are read through State
	go func() {
		for range engine.Output() {
		}
	}()

	return srv
}

func (s *server) addSession(id string, e engine.Engine) {
	s.sessionsMtx.Lock()
	defer s.sessionsMtx.Unlock()
	s.sessions[id] = e
}

func (s *server) removeSession(id string) {
	s.sessionsMtx.Lock()
	defer s.sessionsMtx.Unlock()
	delete(s.sessions, id)
}

// engineFor resolves the canvas a REST request addresses: the session named
// by the session query parameter, or the shared canvas.
func (s *server) engineFor(c *gin.Context) (engine.Engine, bool) {
	id := c.Query("session")
	if id == "" {
		return s.engine, true
	}
	s.sessionsMtx.RLock()
	defer s.sessionsMtx.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *server) globals() *web.Globals {
	return &web.Globals{
		AutoScroll:  s.cfg.AutoScroll(),
		Zoom:        s.cfg.ZoomPanel(),
		Background:  background.DefaultPattern(),
		SessionPath: sessionPath,
	}
}

func (s *server) registerRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.Static("/assets", s.cfg.AssetsDir())

	index := func(c *gin.Context) {
		templ.Handler(web.Index(s.globals())).ServeHTTP(c.Writer, c.Request)
	}
	if s.reloader != nil {
		r.GET(livereloadPath, s.reloader.Handler)
		r.GET("/", livereload.InjectScript(livereloadPath, index))
	} else {
		r.GET("/", index)
	}

	r.GET("/globals", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.globals())
	})
	r.GET("/state", s.stateHandler)
	r.POST("/scale", s.scaleHandler)
	r.POST("/scroll", s.scrollHandler)
	r.POST("/reset", s.commandHandler(fitView))
	r.POST("/zoom/in", s.commandHandler(zoomIn))
	r.POST("/zoom/out", s.commandHandler(zoomOut))
	r.GET(sessionPath, s.sessionHandler)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("request")
	}
}
