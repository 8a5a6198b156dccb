/*
Package ws adapts a WebSocket connection to the typed-message channel the
chat core consumes.

This file defines the Conn wrapper around a gorilla WebSocket connection.
*/
package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/seabass189/tcp-chat-app/internal/app/chat"
)

const (
	// writeWait is the timeout for writing a frame to the WebSocket connection.
	writeWait = 10 * time.Second

	// maxFrameBytes is the maximum allowed size of a frame sent by the client.
	maxFrameBytes = 8192
)

// Conn implements chat.Conn over a WebSocket connection. WebSocket frames
// preserve order per direction, which is all the ordering the core expects.
// A gorilla connection supports one concurrent reader and one concurrent
// writer, which matches the Handler's two loops exactly.
type Conn struct {
	ws *websocket.Conn
}

// NewConn wraps an upgraded (or dialed) WebSocket connection.
func NewConn(wsConn *websocket.Conn) *Conn {
	wsConn.SetReadLimit(maxFrameBytes)
	return &Conn{ws: wsConn}
}

// Receive blocks until the next frame arrives and decodes it. Any transport
// or decode failure is returned as an error; the caller treats both as a
// broken stream.
func (c *Conn) Receive() (chat.Message, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return chat.Message{}, err
	}
	return Decode(data)
}

// Send encodes the message and writes it as a single text frame, bounded by
// the write deadline so a dead peer cannot stall the sender forever.
func (c *Conn) Send(m chat.Message) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close closes the underlying WebSocket connection. Safe to call more than once.
func (c *Conn) Close() error {
	return c.ws.Close()
}
