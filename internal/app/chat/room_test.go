package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabass189/tcp-chat-app/internal/app/user"
)

// newMember builds a handler that is wired to a room but skips the handshake,
// so directory behavior can be tested in isolation.
func newMember(room *Room, username string) *Handler {
	h := NewHandler(room, newScriptConn())
	h.user = room.ids.Mint(username)
	return h
}

func drainQueue(h *Handler) []Message {
	var out []Message
	for {
		select {
		case m := <-h.outgoing:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestDeregisterIsIdempotent(t *testing.T) {
	room := NewRoom(Limits{})
	h := newMember(room, "alice")

	room.Register(h)
	require.Equal(t, 1, room.Size())

	room.Deregister(h)
	assert.Equal(t, 0, room.Size())

	// Deregistering twice leaves the directory exactly as deregistering once.
	room.Deregister(h)
	assert.Equal(t, 0, room.Size())
}

func TestDeregisterIgnoresReplacedHandler(t *testing.T) {
	room := NewRoom(Limits{})
	h := newMember(room, "alice")
	room.Register(h)

	// A different handler that happens to carry the same user id must not be
	// able to knock the registered one out of the directory.
	impostor := NewHandler(room, newScriptConn())
	impostor.user = h.user

	room.Deregister(impostor)
	assert.Equal(t, 1, room.Size())
}

func TestBroadcastExcludesExactlyOneHandler(t *testing.T) {
	room := NewRoom(Limits{})
	hA := newMember(room, "alice")
	hB := newMember(room, "bob")
	hC := newMember(room, "carol")
	for _, h := range []*Handler{hA, hB, hC} {
		room.Register(h)
	}

	msg, err := NewChat(hA.user, "hi all")
	require.NoError(t, err)
	room.Broadcast(msg, hA)

	assert.Empty(t, drainQueue(hA))

	for _, h := range []*Handler{hB, hC} {
		queued := drainQueue(h)
		require.Len(t, queued, 1, "%s should receive the message exactly once", h.user.Username)
		assert.Equal(t, msg.ID, queued[0].ID)
	}
}

func TestOutgoingQueueIsFIFO(t *testing.T) {
	room := NewRoom(Limits{})
	h := newMember(room, "alice")

	conn := h.conn.(*scriptConn)

	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		h.writeLoop()
	}()

	const n = 20
	for i := 0; i < n; i++ {
		msg, err := NewChat(room.ids.Mint(fmt.Sprintf("peer%d", i)), fmt.Sprintf("message %d", i))
		require.NoError(t, err)
		h.enqueue(msg)
	}
	close(h.outgoing)
	writer.Wait()

	for i := 0; i < n; i++ {
		sent := waitSent(t, conn)
		assert.Equal(t, fmt.Sprintf("message %d", i), sent.Text)
	}
}

func TestMembersSnapshotIsOrderedAndDetached(t *testing.T) {
	room := NewRoom(Limits{})
	names := []string{"alice", "bob", "carol"}
	for _, name := range names {
		room.Register(newMember(room, name))
	}

	snapshot := room.Members()
	require.Len(t, snapshot, 3)
	for i, member := range snapshot {
		assert.Equal(t, i, member.ID)
		assert.Equal(t, names[i], member.Username)
	}

	// Mutating the snapshot must not reach the directory.
	snapshot[0] = user.User{ID: 99, Username: "mallory"}
	assert.Equal(t, "alice", room.Members()[0].Username)
}

func TestConcurrentRegistrationAndBroadcast(t *testing.T) {
	room := NewRoom(Limits{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := newMember(room, fmt.Sprintf("user%d", i))
			room.Register(h)

			msg, err := NewChat(h.user, "ping")
			if err != nil {
				t.Error(err)
				return
			}
			room.Broadcast(msg, h)
			room.Deregister(h)
			room.Deregister(h)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, room.Size())
}
