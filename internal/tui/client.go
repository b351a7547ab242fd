package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JackWithOneEye/flowcanvas/cmd/web"
	"github.com/JackWithOneEye/flowcanvas/internal/protocol"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

type wsMessage struct {
	Data []byte
	Err  error
}

type connectionResult struct {
	Conn      *websocket.Conn
	Connected bool
	Err       error
	Globals   web.Globals
}

func connectToAPI(host string) tea.Cmd {
	return func() tea.Msg {
		globals, err := getGlobals(host)
		if err != nil {
			return connectionResult{Err: fmt.Errorf("could not get globals: %w", err)}
		}

		u := url.URL{Scheme: "ws", Host: host, Path: globals.SessionPath}
		conn, _, err := websocket.Dial(context.Background(), u.String(), nil)
		if err != nil {
			return connectionResult{Err: fmt.Errorf("websocket connection failed: %w", err)}
		}

		return connectionResult{Conn: conn, Connected: true, Globals: *globals}
	}
}

func listenForMessages(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			return wsMessage{Err: err}
		}
		return wsMessage{Data: data}
	}
}

// send writes msgs in order. A nil conn drops them, so callers can build
// commands before the connection exists.
func send(conn *websocket.Conn, msgs ...protocol.ClientMessage) tea.Cmd {
	if conn == nil || len(msgs) == 0 {
		return nil
	}
	return func() tea.Msg {
		for _, msg := range msgs {
			if err := conn.Write(context.Background(), websocket.MessageBinary, msg.Encode()); err != nil {
				logrus.Debugf("error sending message: %v", err)
				return nil
			}
		}
		return nil
	}
}

func processServerMessage(data []byte) (protocol.Output, error) {
	var output protocol.Output
	if err := output.Decode(data); err != nil {
		return output, fmt.Errorf("failed to decode server message: %w", err)
	}
	return output, nil
}

func getGlobals(host string) (*web.Globals, error) {
	u := url.URL{Scheme: "http", Host: host, Path: "/globals"}
	resp, err := http.DefaultClient.Get(u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	g := &web.Globals{}
	if err := json.NewDecoder(resp.Body).Decode(g); err != nil {
		return nil, err
	}
	return g, nil
}
