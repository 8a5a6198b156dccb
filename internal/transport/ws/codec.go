/*
Package ws adapts a WebSocket connection to the typed-message channel the
chat core consumes.

This file defines the JSON wire codec. Decoding funnels every inbound frame
through the chat package's construction-time validation, so nothing that
violates the message rule table ever reaches a Handler.
*/
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seabass189/tcp-chat-app/internal/app/chat"
	"github.com/seabass189/tcp-chat-app/internal/app/user"
	"github.com/seabass189/tcp-chat-app/internal/pkg/errs"
)

// frame is the JSON representation of a chat.Message on the wire.
type frame struct {
	ID      string          `json:"id,omitempty"`
	Kind    string          `json:"kind"`
	Origin  user.User       `json:"origin"`
	TS      time.Time       `json:"ts,omitzero"`
	Text    string          `json:"text,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode serializes a message into a JSON frame.
func Encode(m chat.Message) ([]byte, error) {
	f := frame{
		ID:     m.ID,
		Kind:   m.Kind.String(),
		Origin: m.Origin,
		TS:     m.Timestamp,
		Text:   m.Text,
	}

	if m.Payload != nil {
		raw, err := json.Marshal(m.Payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", m.Kind, err)
		}
		f.Payload = raw
	}

	return json.Marshal(f)
}

// Decode parses a JSON frame and rebuilds the message, enforcing the rule
// table before anything escapes the transport boundary. Sender-supplied id
// and timestamp are preserved when present so relays keep the originating
// client's creation instant.
func Decode(data []byte) (chat.Message, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return chat.Message{}, fmt.Errorf("decoding frame: %w", err)
	}

	kind, ok := chat.KindFromString(f.Kind)
	if !ok {
		return chat.Message{}, errs.NewError(errs.ErrUnknownMessageKind)
	}

	payload, err := decodePayload(kind, f.Payload)
	if err != nil {
		return chat.Message{}, err
	}

	if err := chat.Validate(kind, f.Origin, f.Text, payload); err != nil {
		return chat.Message{}, err
	}

	msg := chat.Message{
		ID:        f.ID,
		Kind:      kind,
		Origin:    f.Origin,
		Timestamp: f.TS.UTC(),
		Text:      f.Text,
		Payload:   payload,
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if f.TS.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	return msg, nil
}

// decodePayload unmarshals the structured payload variant the kind's rule
// declares. A payload on a kind that takes none, or a missing or malformed
// required payload, is rejected here rather than deeper in the core.
func decodePayload(kind chat.MessageKind, raw json.RawMessage) (chat.Payload, error) {
	rule, ok := chat.RuleFor(kind)
	if !ok {
		return nil, errs.NewError(errs.ErrUnknownMessageKind)
	}

	switch rule.Payload {
	case chat.ShapeMembership:
		var p chat.MembershipPayload
		if err := unmarshalRequired(kind, raw, &p); err != nil {
			return nil, err
		}
		return p, nil

	case chat.ShapeStatus:
		var p chat.StatusPayload
		if err := unmarshalRequired(kind, raw, &p); err != nil {
			return nil, err
		}
		return p, nil

	default:
		if len(raw) != 0 && string(raw) != "null" {
			return nil, errs.NewError(errs.ErrInvalidStructuredPayload, kind)
		}
		return nil, nil
	}
}

func unmarshalRequired(kind chat.MessageKind, raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return errs.NewError(errs.ErrInvalidStructuredPayload, kind)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errs.NewError(errs.ErrInvalidStructuredPayload, kind)
	}
	return nil
}
