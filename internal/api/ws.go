package api

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erazemk/gripcheck/internal/assistant"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// audioConn adapts a websocket to assistant.AudioConn. Writes are
// serialized because gorilla connections allow one concurrent writer.
type audioConn struct {
	conn *websocket.Conn

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newAudioConn(conn *websocket.Conn) *audioConn {
	c := &audioConn{conn: conn, done: make(chan struct{})}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.ping()
	return c
}

func (c *audioConn) ping() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// ReadAudio returns the next binary frame. Text frames are ignored. A
// close from the client reads as io.EOF.
func (c *audioConn) ReadAudio() ([]byte, error) {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("voice client closed unexpectedly", "error", err)
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return nil, io.EOF
			}
			return nil, err
		}
		if typ == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (c *audioConn) WriteAudio(pcm []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.BinaryMessage, pcm)
}

func (c *audioConn) WriteEvent(ev assistant.VoiceEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(ev)
}

func (c *audioConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}
