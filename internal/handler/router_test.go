package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabass189/tcp-chat-app/internal/app/chat"
	"github.com/seabass189/tcp-chat-app/internal/app/user"
	"github.com/seabass189/tcp-chat-app/internal/configs"
	"github.com/seabass189/tcp-chat-app/internal/transport/ws"
)

func testConfig() *configs.AppConfig {
	return &configs.AppConfig{
		Environment:      "development",
		Port:             8080,
		ConnectRate:      100,
		ConnectBurst:     100,
		MaxUsernameBytes: 32,
		MaxTextBytes:     5000,
	}
}

func startTestServer(t *testing.T) (*httptest.Server, *chat.Room) {
	t.Helper()

	room := chat.NewRoom(chat.Limits{})
	server := httptest.NewServer(Router(room, testConfig()))
	t.Cleanup(server.Close)

	return server, room
}

// dialChat opens a websocket connection and completes the chat handshake.
func dialChat(t *testing.T, server *httptest.Server, username string) (*ws.Conn, chat.MembershipPayload) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	wsConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn := ws.NewConn(wsConn)
	t.Cleanup(func() { conn.Close() })

	request, err := chat.NewConnectionRequest(user.User{Username: username}, username)
	require.NoError(t, err)
	require.NoError(t, conn.Send(request))

	ack := receive(t, conn)
	require.Equal(t, chat.KindConnectionAck, ack.Kind)
	membership, ok := ack.Payload.(chat.MembershipPayload)
	require.True(t, ok)

	return conn, membership
}

func receive(t *testing.T, conn *ws.Conn) chat.Message {
	t.Helper()

	type result struct {
		msg chat.Message
		err error
	}
	resultChan := make(chan result, 1)
	go func() {
		msg, err := conn.Receive()
		resultChan <- result{msg, err}
	}()

	select {
	case r := <-resultChan:
		require.NoError(t, r.err)
		return r.msg
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a message")
		return chat.Message{}
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := startTestServer(t)

	res, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Status  string `json:"status"`
			Members int    `json:"members"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, 0, body.Data.Members)
}

func TestChatSessionOverWebSocket(t *testing.T) {
	server, room := startTestServer(t)

	connA, membershipA := dialChat(t, server, "alice")
	assert.Empty(t, membershipA.Members)
	assert.Equal(t, 0, membershipA.Assigned.ID)

	connB, membershipB := dialChat(t, server, "bob")
	require.Len(t, membershipB.Members, 1)
	assert.Equal(t, "alice", membershipB.Members[0].Username)

	// Alice learns that bob joined.
	joined := receive(t, connA)
	require.Equal(t, chat.KindUserStatusChange, joined.Kind)
	joinStatus, ok := joined.Payload.(chat.StatusPayload)
	require.True(t, ok)
	assert.Equal(t, "bob", joinStatus.User.Username)
	assert.True(t, joinStatus.Joined)

	// A chat line from alice reaches bob, and only bob.
	msg, err := chat.NewChat(membershipA.Assigned, "hi bob")
	require.NoError(t, err)
	require.NoError(t, connA.Send(msg))

	received := receive(t, connB)
	assert.Equal(t, chat.KindChat, received.Kind)
	assert.Equal(t, "hi bob", received.Text)
	assert.Equal(t, membershipA.Assigned, received.Origin)

	// Alice leaves cleanly; she gets the ack, bob gets the departure.
	leave, err := chat.NewDisconnectRequest(membershipA.Assigned)
	require.NoError(t, err)
	require.NoError(t, connA.Send(leave))

	ack := receive(t, connA)
	assert.Equal(t, chat.KindDisconnectAck, ack.Kind)

	departed := receive(t, connB)
	require.Equal(t, chat.KindUserStatusChange, departed.Kind)
	leaveStatus, ok := departed.Payload.(chat.StatusPayload)
	require.True(t, ok)
	assert.Equal(t, "alice", leaveStatus.User.Username)
	assert.False(t, leaveStatus.Joined)

	require.Eventually(t, func() bool { return room.Size() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestAbruptCloseBecomesDeparture(t *testing.T) {
	server, room := startTestServer(t)

	connA, _ := dialChat(t, server, "alice")
	connB, _ := dialChat(t, server, "bob")
	receive(t, connA) // bob's join notice

	// Bob's transport drops without any disconnect request.
	connB.Close()

	departed := receive(t, connA)
	require.Equal(t, chat.KindUserStatusChange, departed.Kind)
	status, ok := departed.Payload.(chat.StatusPayload)
	require.True(t, ok)
	assert.Equal(t, "bob", status.User.Username)
	assert.False(t, status.Joined)

	require.Eventually(t, func() bool { return room.Size() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestRejectedHandshakeNeverRegisters(t *testing.T) {
	server, room := startTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	wsConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn := ws.NewConn(wsConn)
	defer conn.Close()

	// First message is a chat, not a connection request.
	msg, err := chat.NewChat(user.User{Username: "mallory"}, "let me in")
	require.NoError(t, err)
	require.NoError(t, conn.Send(msg))

	// The server closes the connection without ever sending anything.
	_, recvErr := conn.Receive()
	assert.Error(t, recvErr)
	assert.Equal(t, 0, room.Size())
}
