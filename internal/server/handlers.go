package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/JackWithOneEye/flowcanvas/internal/controls"
	"github.com/JackWithOneEye/flowcanvas/internal/geom"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	"github.com/JackWithOneEye/flowcanvas/internal/viewport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	zoomIn  = &protocol.Command{Cmd: protocol.ZoomIn}
	zoomOut = &protocol.Command{Cmd: protocol.ZoomOut}
	fitView = &protocol.Command{Cmd: protocol.FitView}
)

type stateResponse struct {
	viewport.State
	Phase          string `json:"phase"`
	Transform      string `json:"transform"`
	ZoomLabel      string `json:"zoomLabel"`
	MinZoomReached bool   `json:"minZoomReached"`
	MaxZoomReached bool   `json:"maxZoomReached"`
}

func (s *server) newStateResponse(o protocol.Output) stateResponse {
	p := s.cfg.ZoomPanel()
	return stateResponse{
		State:          o.State,
		Phase:          o.Phase.String(),
		Transform:      o.Transform(),
		ZoomLabel:      controls.Percent(o.Scale),
		MinZoomReached: p.MinReached(o.Scale),
		MaxZoomReached: p.MaxReached(o.Scale),
	}
}

type scaleRequest struct {
	Scale float64 `json:"scale" binding:"required,gt=0"`
}

type scrollRequest struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

func (s *server) stateHandler(c *gin.Context) {
	e, ok := s.engineFor(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	c.JSON(http.StatusOK, s.newStateResponse(e.State()))
}

func (s *server) submit(c *gin.Context, msg protocol.ClientMessage) {
	e, ok := s.engineFor(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	out, err := e.Submit(ctx, msg)
	if err != nil {
		logrus.Errorf("could not apply request: %s", err)
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.newStateResponse(out))
}

func (s *server) scaleHandler(c *gin.Context) {
	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.submit(c, &protocol.SetScale{Scale: req.Scale})
}

func (s *server) scrollHandler(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.submit(c, &protocol.ScrollBy{Delta: geom.Delta{Left: req.Left, Top: req.Top}})
}

func (s *server) commandHandler(cmd *protocol.Command) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.submit(c, cmd)
	}
}
