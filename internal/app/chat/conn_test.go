package chat

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

// scriptConn is an in-memory Conn for tests. Inbound messages are scripted
// through a channel, and everything the handler transmits is captured on the
// sent channel.
type scriptConn struct {
	inbound chan Message
	sent    chan Message

	closeOnce sync.Once
	closed    chan struct{}
}

func newScriptConn() *scriptConn {
	return &scriptConn{
		inbound: make(chan Message, 16),
		sent:    make(chan Message, 64),
		closed:  make(chan struct{}),
	}
}

func (c *scriptConn) Receive() (Message, error) {
	select {
	case msg, ok := <-c.inbound:
		if !ok {
			return Message{}, io.EOF
		}
		return msg, nil
	case <-c.closed:
		return Message{}, net.ErrClosed
	}
}

func (c *scriptConn) Send(m Message) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	c.sent <- m
	return nil
}

func (c *scriptConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// breakTransport simulates the peer dropping without any disconnect request.
func (c *scriptConn) breakTransport() {
	c.Close()
}

// waitSent returns the next transmitted message, failing the test after a
// generous timeout.
func waitSent(t *testing.T, c *scriptConn) Message {
	t.Helper()
	select {
	case m := <-c.sent:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a transmitted message")
		return Message{}
	}
}

// assertNothingSent asserts that no further message is transmitted within a
// short window.
func assertNothingSent(t *testing.T, c *scriptConn) {
	t.Helper()
	select {
	case m := <-c.sent:
		t.Fatalf("unexpected transmitted message: kind=%s text=%q", m.Kind, m.Text)
	case <-time.After(50 * time.Millisecond):
	}
}
