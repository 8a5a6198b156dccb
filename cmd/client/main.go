/*
Package main is the interactive console client for the chat server.

It prompts for host, port, and username, performs the connection handshake,
then relays stdin lines as chat messages while printing everything the room
sends back. Type /quit to leave cleanly.
*/
package main

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/seabass189/tcp-chat-app/internal/app/chat"
	"github.com/seabass189/tcp-chat-app/internal/app/user"
	"github.com/seabass189/tcp-chat-app/internal/transport/ws"
)

func main() {
	stdin := bufio.NewReader(os.Stdin)

	host := prompt(stdin, "Enter host to connect to: ")
	if host == "" {
		host = "localhost"
	}
	port := prompt(stdin, "Enter port to connect to: ")
	if port == "" {
		port = "8080"
	}
	username := prompt(stdin, "Enter username: ")
	if username == "" {
		fmt.Fprintln(os.Stderr, "A username is required.")
		os.Exit(1)
	}

	serverURL := url.URL{Scheme: "ws", Host: host + ":" + port, Path: "/ws"}
	wsConn, _, err := websocket.DefaultDialer.Dial(serverURL.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", serverURL.String(), err)
		os.Exit(1)
	}
	conn := ws.NewConn(wsConn)
	defer conn.Close()

	self, err := connect(conn, username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Handshake failed: %v\n", err)
		os.Exit(1)
	}

	// The receive goroutine owns the exit: it returns when the server
	// acknowledges the disconnect or the connection drops.
	done := make(chan struct{})
	go func() {
		defer close(done)
		receiveLoop(conn)
	}()

	inputLoop(stdin, conn, self, done)
	<-done
}

func prompt(stdin *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// connect performs the handshake: one connection request out, one connection
// acknowledgement back. It prints who is already in the room and returns the
// identity the server assigned.
func connect(conn chat.Conn, username string) (user.User, error) {
	provisional := user.User{Username: username}
	request, err := chat.NewConnectionRequest(provisional, username)
	if err != nil {
		return user.User{}, err
	}
	if err := conn.Send(request); err != nil {
		return user.User{}, err
	}

	ack, err := conn.Receive()
	if err != nil {
		return user.User{}, err
	}
	if ack.Kind != chat.KindConnectionAck {
		return user.User{}, fmt.Errorf("expected connection acknowledgement, got %s", ack.Kind)
	}

	membership, ok := ack.Payload.(chat.MembershipPayload)
	if !ok {
		return user.User{}, fmt.Errorf("connection acknowledgement carried no membership payload")
	}

	for _, member := range membership.Members {
		fmt.Printf("%s is in the room\n", member.Username)
	}
	fmt.Printf("Connected as %s (id %d). Type /quit to leave.\n",
		membership.Assigned.Username, membership.Assigned.ID)

	return membership.Assigned, nil
}

// receiveLoop prints everything the server relays until the session ends.
func receiveLoop(conn chat.Conn) {
	for {
		msg, err := conn.Receive()
		if err != nil {
			fmt.Println("Connection closed.")
			return
		}

		switch msg.Kind {
		case chat.KindChat:
			fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Local().Format("15:04"), msg.Origin.Username, msg.Text)

		case chat.KindUserStatusChange:
			status, ok := msg.Payload.(chat.StatusPayload)
			if !ok {
				continue
			}
			if status.Joined {
				fmt.Printf("%s joined the room\n", status.User.Username)
			} else {
				fmt.Printf("%s left the room\n", status.User.Username)
			}

		case chat.KindDisconnectAck:
			fmt.Println("Disconnected.")
			return
		}
	}
}

// inputLoop turns stdin lines into chat messages until the user quits or the
// session ends underneath them.
func inputLoop(stdin *bufio.Reader, conn chat.Conn, self user.User, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		line, err := stdin.ReadString('\n')
		if err != nil {
			// stdin is gone (EOF); leave cleanly.
			line = "/quit"
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "/quit" {
			request, buildErr := chat.NewDisconnectRequest(self)
			if buildErr == nil {
				conn.Send(request)
			}
			return
		}

		msg, buildErr := chat.NewChat(self, line)
		if buildErr != nil {
			fmt.Fprintf(os.Stderr, "Cannot send message: %v\n", buildErr)
			continue
		}
		if sendErr := conn.Send(msg); sendErr != nil {
			fmt.Fprintf(os.Stderr, "Send failed: %v\n", sendErr)
			return
		}
	}
}
