package server

import (
	"context"
	"net/http"

	"github.com/JackWithOneEye/flowcanvas/internal/engine"
	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// sessionHeader carries the session id in the upgrade response so REST
// callers can address the session's canvas with ?session=<id>.
const sessionHeader = "X-Session-Id"

// sessionHandler gives one websocket its own canvas: binary client messages
// go into a private engine and its output frames stream back. The engine
// stops when the socket closes.
func (s *server) sessionHandler(c *gin.Context) {
	id := uuid.NewString()
	log := logrus.WithField("session", id)

	c.Writer.Header().Set(sessionHeader, id)
	socket, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("could not open websocket: %s", err)
		return
	}
	defer socket.CloseNow()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	eng := engine.NewEngine(s.cfg, ctx)
	go eng.Start()
	s.addSession(id, eng)
	defer s.removeSession(id)
	log.Info("session opened")

	initial := eng.State()
	if err := socket.Write(ctx, websocket.MessageBinary, initial.Bytes()); err != nil {
		log.Errorf("could not write to websocket: %s", err)
		return
	}

	readerMsgChan := make(chan []byte)
	readerErrChan := make(chan error, 1)
	go func() {
		for {
			_, data, err := socket.Read(ctx)
			if err != nil {
				readerErrChan <- err
				return
			}
			select {
			case readerMsgChan <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	output := eng.Output()
	for {
		select {
		case <-ctx.Done():
			log.Info("session closed")
			return
		case payload, ok := <-output:
			if !ok {
				log.Info("session closed")
				return
			}
			err := socket.Write(ctx, websocket.MessageBinary, payload)
			if closedNormally(err) {
				log.Info("session closed")
				return
			}
			if err != nil {
				log.Errorf("could not write to websocket: %s", err)
				return
			}
		case msg := <-readerMsgChan:
			if err := eng.SubmitMessage(msg); err != nil {
				log.Warnf("client message rejected: %s", err)
			}
		case err := <-readerErrChan:
			if closedNormally(err) {
				log.Info("session closed")
				return
			}
			log.Errorf("could not read from websocket: %s", err)
			socket.Close(websocket.StatusInternalError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}
}

func closedNormally(err error) bool {
	status := websocket.CloseStatus(err)
	return status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway
}
