/*
Package chat contains the core logic of the chat room.

This file defines the Handler, the per-connection actor. A Handler owns one
connection's inbound and outbound flow: an inbound loop that classifies
messages from the client, and an outbound loop that drains the handler's
queue in FIFO order. Its lifecycle runs Connecting, Active, Disconnecting,
Closed.
*/
package chat

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/seabass189/tcp-chat-app/internal/app/user"
	"github.com/seabass189/tcp-chat-app/internal/pkg/errs"
	"github.com/seabass189/tcp-chat-app/internal/pkg/logx"
)

// outgoingQueueSize bounds each handler's outgoing queue. A full queue means
// the client has stopped consuming; further messages to it are dropped.
const outgoingQueueSize = 256

type handlerState int32

const (
	stateConnecting handlerState = iota
	stateActive
	stateDisconnecting
	stateClosed
)

// Handler is the server-side actor managing one client connection. It is
// created per accepted transport connection and discarded after Close.
type Handler struct {
	room *Room
	conn Conn

	// user is the identity minted for this connection. Set once during the
	// handshake, before the handler is registered, and never changed.
	user user.User

	// outgoing is the FIFO queue of messages awaiting transmission. It is
	// written by broadcast callers and by the handler itself, and consumed
	// by the single writeLoop goroutine.
	outgoing chan Message

	state     atomic.Int32
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewHandler creates a Handler for a freshly accepted connection. The
// handler stays in the Connecting state until Run performs the handshake.
func NewHandler(room *Room, conn Conn) *Handler {
	return &Handler{
		room:     room,
		conn:     conn,
		outgoing: make(chan Message, outgoingQueueSize),
		logger:   logx.Logger().With().Str("component", "handler").Logger(),
	}
}

// User returns the identity minted for this connection. It is the zero User
// until the handshake has completed.
func (h *Handler) User() user.User {
	return h.user
}

// Active reports whether the handler is registered and relaying messages.
func (h *Handler) Active() bool {
	return h.currentState() == stateActive
}

func (h *Handler) currentState() handlerState {
	return handlerState(h.state.Load())
}

// Run drives the connection through its whole lifecycle and returns once the
// transport is closed. A handshake failure returns the protocol or transport
// error; in that case the handler was never registered and the rest of the
// room never learns the connection existed.
func (h *Handler) Run() error {
	if err := h.handshake(); err != nil {
		h.closeTransport()
		h.state.Store(int32(stateClosed))
		return err
	}

	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		h.writeLoop()
	}()

	h.readLoop()

	// Disconnecting: the handler is deregistered and the inbound loop has
	// returned, so no producer can reach the queue anymore. Closing it lets
	// the write loop flush the tail (disconnect ack, trailing broadcasts)
	// and exit.
	close(h.outgoing)
	writer.Wait()

	h.closeTransport()
	h.state.Store(int32(stateClosed))
	h.logger.Info().Msg("Handler closed.")
	return nil
}

// handshake reads exactly one message, which must be a connection request.
// On success it mints the user, queues the connection ack carrying the prior
// membership, registers with the room, and announces the join to everyone
// else, in that order: registration happens before the ack is considered
// sent, and the join announcement happens before any chat is relayed.
func (h *Handler) handshake() error {
	first, err := h.conn.Receive()
	if err != nil {
		return fmt.Errorf("reading connection request: %w", err)
	}

	if first.Kind != KindConnectionRequest {
		h.logger.Warn().
			Str("kind", first.Kind.String()).
			Msg("First message was not a connection request. Rejecting connection.")
		return errs.NewError(errs.ErrUnexpectedMessageKind, first.Kind)
	}

	username := strings.TrimSpace(first.Text)
	if username == "" || len(username) > h.room.limits.MaxUsernameBytes {
		h.logger.Warn().Int("bytes", len(username)).Msg("Rejecting connection request with invalid username.")
		return errs.NewError(errs.ErrUsernameInvalid)
	}

	h.user = h.room.ids.Mint(username)
	h.logger = h.logger.With().
		Int("user_id", h.user.ID).
		Str("username", h.user.Username).
		Logger()

	// Snapshot before registering, so the ack lists only prior members and
	// the client never sees itself in the list.
	ack, err := NewConnectionAck(h.room.Members(), h.user)
	if err != nil {
		return err
	}
	joined, err := NewUserStatus(h.user, true)
	if err != nil {
		return err
	}

	h.room.Register(h)
	h.state.Store(int32(stateActive))

	h.enqueue(ack)
	h.room.Broadcast(joined, h)

	h.logger.Info().Msg("Handshake complete. Handler active.")
	return nil
}

// readLoop receives and classifies inbound messages until the session ends.
// Every exit path runs the departure sequence, except that a protocol
// violation forfeits the disconnect ack.
func (h *Handler) readLoop() {
	for {
		msg, err := h.conn.Receive()
		if err != nil {
			// A broken transport is an implicit disconnect request; the
			// rest of the room observes an ordinary departure.
			h.logger.Info().Err(err).Msg("Inbound read failed. Treating as disconnect.")
			h.beginDisconnect(true)
			return
		}

		switch msg.Kind {
		case KindChat:
			if len(msg.Text) > h.room.limits.MaxTextBytes {
				h.logger.Warn().
					Int("bytes", len(msg.Text)).
					Int("code", errs.ErrMessageTooLong).
					Msg("Chat message over length limit. Dropping.")
				continue
			}
			h.room.Broadcast(msg, h)

		case KindDisconnectRequest:
			h.logger.Info().Msg("Client requested disconnect.")
			h.beginDisconnect(true)
			return

		default:
			// Server-only kinds, or a second connection request, coming
			// from a client: fatal to this connection only.
			h.logger.Warn().
				Str("kind", msg.Kind.String()).
				Int("code", errs.ErrUnexpectedMessageKind).
				Msg("Protocol violation from client. Disconnecting without ack.")
			h.beginDisconnect(false)
			return
		}
	}
}

// beginDisconnect runs the departure sequence: optional disconnect ack to
// this client, departure announcement to every other member, removal from
// the directory. It runs at most once per handler because only the inbound
// loop calls it, and each calling branch returns. Other members observe
// exactly one departure regardless of whether it was voluntary.
func (h *Handler) beginDisconnect(sendAck bool) {
	h.state.Store(int32(stateDisconnecting))

	if sendAck {
		if ack, err := NewDisconnectAck(); err == nil {
			h.enqueue(ack)
		}
	}

	if departed, err := NewUserStatus(h.user, false); err == nil {
		h.room.Broadcast(departed, h)
	}

	h.room.Deregister(h)
}

// writeLoop transmits queued messages in FIFO order, blocking while the
// queue is empty and exiting once it is closed and drained. A send failure
// is swallowed: the client is gone or going, and closing the transport here
// wakes the inbound loop, which owns the departure sequence.
func (h *Handler) writeLoop() {
	for msg := range h.outgoing {
		if err := h.conn.Send(msg); err != nil {
			h.logger.Warn().
				Err(err).
				Str("kind", msg.Kind.String()).
				Msg("Outbound send failed.")
			h.closeTransport()
		}
	}
}

// enqueue appends a message to the outgoing queue without blocking: broadcast
// callers hold the room lock, so waiting on a slow consumer here would stall
// the whole room. On a full queue the message is dropped.
func (h *Handler) enqueue(msg Message) {
	select {
	case h.outgoing <- msg:
	default:
		h.logger.Warn().
			Str("kind", msg.Kind.String()).
			Int("queue_len", len(h.outgoing)).
			Msg("Outgoing queue full. Dropping message.")
	}
}

func (h *Handler) closeTransport() {
	h.closeOnce.Do(func() {
		if err := h.conn.Close(); err != nil {
			h.logger.Debug().Err(err).Msg("Transport close error.")
		}
	})
}
