/*
Package chat contains the core logic of the chat room: the typed message
protocol, the per-connection Handler, and the Room directory that mediates
broadcast and membership.

This file defines the MessageKind enumeration and its static rule table. The
rule table is the single source of truth for which kinds are legal, who may
originate them, and what payload shape they require.
*/
package chat

// MessageKind identifies one of the six message kinds of the chat protocol.
type MessageKind int

const (
	// KindConnectionRequest is sent by a client to join the room.
	// Its text carries the requested username.
	KindConnectionRequest MessageKind = iota

	// KindConnectionAck is the server's acceptance of a connection request.
	// Its payload carries the current membership list and the assigned User.
	KindConnectionAck

	// KindUserStatusChange announces a participant joining or leaving.
	// Its payload carries the affected User and the joined flag.
	KindUserStatusChange

	// KindChat carries one line of chat text from a client.
	KindChat

	// KindDisconnectRequest is sent by a client that wants to leave.
	KindDisconnectRequest

	// KindDisconnectAck is the server's confirmation of a disconnect.
	KindDisconnectAck
)

// kindNames are the wire names for each MessageKind.
var kindNames = [...]string{
	KindConnectionRequest: "CONNECTION_REQUEST",
	KindConnectionAck:     "CONNECTION_ACK",
	KindUserStatusChange:  "USER_STATUS_CHANGE",
	KindChat:              "CHAT",
	KindDisconnectRequest: "DISCONNECT_REQUEST",
	KindDisconnectAck:     "DISCONNECT_ACK",
}

// String returns the wire name of the kind, or "UNKNOWN" for values outside
// the protocol vocabulary.
func (k MessageKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// KindFromString maps a wire name back to its MessageKind. The second return
// value is false for names outside the protocol vocabulary.
func KindFromString(name string) (MessageKind, bool) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return MessageKind(kind), true
		}
	}
	return 0, false
}

// PayloadShape identifies the structured payload variant a kind requires.
type PayloadShape int

const (
	// ShapeNone means the kind carries no structured payload.
	ShapeNone PayloadShape = iota

	// ShapeMembership means the kind carries a MembershipPayload.
	ShapeMembership

	// ShapeStatus means the kind carries a StatusPayload.
	ShapeStatus
)

// Rule is the compile-time contract of one MessageKind: who may originate it,
// whether it carries free text, and which structured payload it requires.
type Rule struct {
	// ClientMaySend is true when a client may originate the kind.
	ClientMaySend bool

	// ServerMaySend is true when the server sentinel may originate the kind.
	ServerMaySend bool

	// TextRequired is true when the kind must carry non-empty text.
	// Kinds without TextRequired must carry no text at all.
	TextRequired bool

	// Payload is the structured payload shape the kind requires.
	Payload PayloadShape
}

// rules is the static rule table for the whole protocol. It has no mutable
// state and is consulted by message construction and by the Handler's
// classification switch.
var rules = map[MessageKind]Rule{
	KindConnectionRequest: {ClientMaySend: true, TextRequired: true, Payload: ShapeNone},
	KindConnectionAck:     {ServerMaySend: true, Payload: ShapeMembership},
	KindUserStatusChange:  {ServerMaySend: true, Payload: ShapeStatus},
	KindChat:              {ClientMaySend: true, TextRequired: true, Payload: ShapeNone},
	KindDisconnectRequest: {ClientMaySend: true, Payload: ShapeNone},
	KindDisconnectAck:     {ServerMaySend: true, Payload: ShapeNone},
}

// RuleFor returns the rule triple for the given kind. The second return value
// is false for kinds outside the protocol vocabulary.
func RuleFor(kind MessageKind) (Rule, bool) {
	rule, ok := rules[kind]
	return rule, ok
}
