/*
Package chat contains the core logic of the chat room.

This file defines the Room, the authoritative directory of active Handlers.
It mediates membership changes and broadcast fan-out, and owns the id
allocator so that independent rooms never share identity state.
*/
package chat

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/seabass189/tcp-chat-app/internal/app/user"
	"github.com/seabass189/tcp-chat-app/internal/pkg/logx"
)

// Limits bounds the client-supplied payloads a Room accepts.
type Limits struct {
	// MaxUsernameBytes bounds the username carried by a connection request.
	MaxUsernameBytes int

	// MaxTextBytes bounds the body of a chat message.
	MaxTextBytes int
}

// DefaultLimits are the limits used when the composition root supplies none.
var DefaultLimits = Limits{
	MaxUsernameBytes: 32,
	MaxTextBytes:     5000,
}

// Room is the shared directory of all active Handlers. The member set is the
// only room-wide shared mutable state; it is guarded by a single mutex and
// every broadcast enqueues to its recipients in one pass under that mutex,
// so a message's fan-out is atomic with respect to membership changes.
type Room struct {
	limits Limits

	// ids mints participant identities for this room.
	ids *user.Allocator

	// mu guards members.
	mu sync.RWMutex

	// members maps participant id to its active Handler. A Handler is
	// present here exactly while it is eligible to receive broadcasts.
	members map[int]*Handler

	logger zerolog.Logger
}

// NewRoom creates an empty Room with its own id allocator. Zero-valued
// limits fall back to DefaultLimits.
func NewRoom(limits Limits) *Room {
	if limits.MaxUsernameBytes <= 0 {
		limits.MaxUsernameBytes = DefaultLimits.MaxUsernameBytes
	}
	if limits.MaxTextBytes <= 0 {
		limits.MaxTextBytes = DefaultLimits.MaxTextBytes
	}

	return &Room{
		limits:  limits,
		ids:     user.NewAllocator(),
		members: make(map[int]*Handler),
		logger:  logx.Logger().With().Str("component", "room").Logger(),
	}
}

// Register adds the handler to the member set. It must be called before the
// handler's join announcement is broadcast, so that the new member is visible
// to every concurrent broadcaster from that point on.
func (r *Room) Register(h *Handler) {
	r.mu.Lock()
	r.members[h.user.ID] = h
	total := len(r.members)
	r.mu.Unlock()

	r.logger.Info().
		Int("user_id", h.user.ID).
		Str("username", h.user.Username).
		Int("total_members", total).
		Msg("Handler registered.")
}

// Deregister removes the handler from the member set. Deregistering a
// handler that is absent is a no-op: a client-initiated disconnect and a
// transport failure may race to trigger it.
func (r *Room) Deregister(h *Handler) {
	r.mu.Lock()
	current, ok := r.members[h.user.ID]
	removed := ok && current == h
	if removed {
		delete(r.members, h.user.ID)
	}
	total := len(r.members)
	r.mu.Unlock()

	if removed {
		r.logger.Info().
			Int("user_id", h.user.ID).
			Str("username", h.user.Username).
			Int("total_members", total).
			Msg("Handler deregistered.")
	}
}

// Broadcast enqueues the message onto every currently-registered handler's
// outgoing queue except excluding. Recipients are whatever is registered at
// the instant of the call; the enqueue pass happens under the membership
// lock, so no handler can register or deregister halfway through a fan-out.
func (r *Room) Broadcast(msg Message, excluding *Handler) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.members {
		if h == excluding {
			continue
		}
		h.enqueue(msg)
	}
}

// Members returns a snapshot of the current membership, ordered by id.
func (r *Room) Members() []user.User {
	r.mu.RLock()
	snapshot := make([]user.User, 0, len(r.members))
	for _, h := range r.members {
		snapshot = append(snapshot, h.user)
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return snapshot
}

// Size returns the number of registered handlers.
func (r *Room) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
