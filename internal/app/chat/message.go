/*
Package chat contains the core logic of the chat room.

This file defines the Message envelope and its construction-time validation.
Validation happens at construction, not at the receiving end: every Message
that crosses the wire has passed it, so a spoofed originator or a malformed
payload can never be built in the first place.
*/
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/seabass189/tcp-chat-app/internal/app/user"
	"github.com/seabass189/tcp-chat-app/internal/pkg/errs"
)

// Payload is the structured payload of a Message. Each variant carries its
// own strongly-typed fields; the rule table declares which variant a kind
// requires.
type Payload interface {
	shape() PayloadShape
}

// MembershipPayload is the structured payload of a ConnectionAck: the room
// membership at the instant the connection was accepted, plus the identity
// assigned to the new participant.
type MembershipPayload struct {
	Members  []user.User `json:"members"`
	Assigned user.User   `json:"assigned"`
}

func (MembershipPayload) shape() PayloadShape { return ShapeMembership }

// StatusPayload is the structured payload of a UserStatusChange.
type StatusPayload struct {
	User   user.User `json:"user"`
	Joined bool      `json:"joined"`
}

func (StatusPayload) shape() PayloadShape { return ShapeStatus }

// Message is the immutable, typed envelope exchanged between server and
// client. A Message is constructed once per logical event and may be handed
// to any number of recipients without aliasing risk.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`

	// Kind is the message kind; it determines the legal originator roles
	// and payload shape via the rule table.
	Kind MessageKind `json:"kind"`

	// Origin is the participant (or server sentinel) that created the message.
	Origin user.User `json:"origin"`

	// Timestamp is the creation instant, in UTC.
	Timestamp time.Time `json:"ts"`

	// Text is the free-text payload, present only for kinds that require it.
	Text string `json:"text,omitempty"`

	// Payload is the structured payload, nil for kinds with ShapeNone.
	Payload Payload `json:"payload,omitempty"`
}

// Validate checks a candidate (kind, origin, text, payload) tuple against the
// rule table without building a Message. It returns nil when the tuple is
// legal, or a coded error naming the first rule violated.
func Validate(kind MessageKind, origin user.User, text string, payload Payload) error {
	rule, ok := RuleFor(kind)
	if !ok {
		return errs.NewError(errs.ErrUnknownMessageKind)
	}

	if origin.IsServer && !rule.ServerMaySend {
		return errs.NewError(errs.ErrInvalidOriginator, kind)
	}
	if !origin.IsServer && !rule.ClientMaySend {
		return errs.NewError(errs.ErrInvalidOriginator, kind)
	}

	if rule.TextRequired && text == "" {
		return errs.NewError(errs.ErrInvalidTextPayload, kind)
	}
	if !rule.TextRequired && text != "" {
		return errs.NewError(errs.ErrInvalidTextPayload, kind)
	}

	have := ShapeNone
	if payload != nil {
		have = payload.shape()
	}
	if have != rule.Payload {
		return errs.NewError(errs.ErrInvalidStructuredPayload, kind)
	}

	return nil
}

// NewMessage validates the tuple against the rule table and, on success,
// returns an immutable Message stamped with a fresh id and the current UTC
// instant. Construction is the only way a Message enters the broadcast path.
func NewMessage(kind MessageKind, origin user.User, text string, payload Payload) (Message, error) {
	if err := Validate(kind, origin, text, payload); err != nil {
		return Message{}, err
	}

	return Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		Origin:    origin,
		Timestamp: time.Now().UTC(),
		Text:      text,
		Payload:   payload,
	}, nil
}

// NewConnectionRequest builds the first message a client sends: a join
// request carrying the desired username. The origin is the client's
// provisional identity; the server assigns the authoritative one.
func NewConnectionRequest(origin user.User, username string) (Message, error) {
	return NewMessage(KindConnectionRequest, origin, username, nil)
}

// NewConnectionAck builds the server's acceptance of a join, carrying the
// membership snapshot taken before the new participant registered and the
// identity assigned to it. The members slice is copied so the Message stays
// immutable even if the caller reuses its slice.
func NewConnectionAck(members []user.User, assigned user.User) (Message, error) {
	snapshot := make([]user.User, len(members))
	copy(snapshot, members)

	return NewMessage(KindConnectionAck, user.Sentinel, "", MembershipPayload{
		Members:  snapshot,
		Assigned: assigned,
	})
}

// NewUserStatus builds the server's announcement that a participant joined
// or left the room.
func NewUserStatus(u user.User, joined bool) (Message, error) {
	return NewMessage(KindUserStatusChange, user.Sentinel, "", StatusPayload{
		User:   u,
		Joined: joined,
	})
}

// NewChat builds one line of chat from a client.
func NewChat(origin user.User, body string) (Message, error) {
	return NewMessage(KindChat, origin, body, nil)
}

// NewDisconnectRequest builds a client's request to leave the room.
func NewDisconnectRequest(origin user.User) (Message, error) {
	return NewMessage(KindDisconnectRequest, origin, "", nil)
}

// NewDisconnectAck builds the server's confirmation of a disconnect.
func NewDisconnectAck() (Message, error) {
	return NewMessage(KindDisconnectAck, user.Sentinel, "", nil)
}
