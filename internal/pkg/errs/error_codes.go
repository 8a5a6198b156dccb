/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific protocol or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the connection rate has exceeded the set limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Chat Protocol Errors
const (
	// ErrInvalidOriginator indicates that a message was constructed with an
	// originator role (client vs. server) that its kind does not permit.
	ErrInvalidOriginator = 2101

	// ErrInvalidTextPayload indicates that a message carried text its kind
	// disallows, or was missing text its kind requires.
	ErrInvalidTextPayload = 2102

	// ErrInvalidStructuredPayload indicates that a message's structured
	// payload did not match the shape declared for its kind.
	ErrInvalidStructuredPayload = 2103

	// ErrUnknownMessageKind indicates a message kind outside the protocol vocabulary.
	ErrUnknownMessageKind = 2104

	// ErrUnexpectedMessageKind indicates that a connected client sent a
	// message kind it may not originate at that point of the session.
	ErrUnexpectedMessageKind = 2105

	// ErrMessageTooLong indicates that a chat message body exceeded the maximum length limit.
	ErrMessageTooLong = 2201

	// ErrUsernameInvalid indicates that a connection request carried an empty
	// or over-long username.
	ErrUsernameInvalid = 2202
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
