/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application
// error code. The key is the error code (int), and the value contains the user
// message and, where relevant, an HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many connection attempts. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Chat Protocol Errors
	ErrInvalidOriginator:        {Code: ErrInvalidOriginator, Message: "Message kind %s may not be originated by this sender."},
	ErrInvalidTextPayload:       {Code: ErrInvalidTextPayload, Message: "Message kind %s has an invalid text payload."},
	ErrInvalidStructuredPayload: {Code: ErrInvalidStructuredPayload, Message: "Message kind %s has an invalid structured payload."},
	ErrUnknownMessageKind:       {Code: ErrUnknownMessageKind, Message: "Unknown message kind."},
	ErrUnexpectedMessageKind:    {Code: ErrUnexpectedMessageKind, Message: "Unexpected message kind %s from client."},
	ErrMessageTooLong:           {Code: ErrMessageTooLong, Message: "Message is too long."},
	ErrUsernameInvalid:          {Code: ErrUsernameInvalid, Message: "Invalid username."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
