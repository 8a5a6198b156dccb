/*
Package handler provides the HTTP surface of the chat server.

This file contains the WebSocket endpoint: rate limiting, upgrading the HTTP
connection, and handing the upgraded connection to a chat Handler, which owns
it from the handshake onward.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/seabass189/tcp-chat-app/internal/app/chat"
	"github.com/seabass189/tcp-chat-app/internal/pkg/errs"
	"github.com/seabass189/tcp-chat-app/internal/pkg/limiter"
	"github.com/seabass189/tcp-chat-app/internal/pkg/logx"
	"github.com/seabass189/tcp-chat-app/internal/pkg/resp"
	"github.com/seabass189/tcp-chat-app/internal/transport/ws"
)

// HandleWebSocket creates the HandlerFunc serving chat connections. The chat
// handshake itself (the connection-request message) happens on the upgraded
// connection, inside chat.Handler.Run.
func HandleWebSocket(room *chat.Room, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.Allow(ip) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		handler := chat.NewHandler(room, ws.NewConn(wsConn))

		// Run blocks for the lifetime of the connection; the HTTP handler
		// goroutine is the connection's goroutine.
		if err := handler.Run(); err != nil {
			logx.Warn("Chat session ended with error.", "ip", ip, "error", err.Error())
		}
	}
}
