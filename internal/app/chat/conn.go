package chat

// Conn is the bidirectional typed-message channel the core speaks over, one
// per connection. Implementations own byte-level framing and must preserve
// message order per direction. Receive blocks until the next message arrives
// or the transport fails; a transport-level error from either method is
// treated by the Handler as an implicit disconnect.
type Conn interface {
	Receive() (Message, error)
	Send(Message) error
	Close() error
}
