/*
Package user contains core data structures for participant identity.

It defines the immutable User record shared between server and clients, the
sentinel identity the server speaks as, and the Allocator that hands out
unique participant ids.
*/
package user

import "sync/atomic"

// User represents the identity of a chat participant. A User is a value and
// is never mutated after creation; copies are safe to share across goroutines
// and to serialize into wire messages.
type User struct {
	// ID uniquely identifies the participant within its room. Ids are
	// assigned monotonically starting at 0; the server sentinel uses -1.
	ID int `json:"id"`

	// Username is the display name of the participant. It is not required
	// to be unique.
	Username string `json:"username"`

	// IsServer is true only for the server sentinel identity.
	IsServer bool `json:"server,omitempty"`
}

// Sentinel is the singleton identity used when the server itself originates
// a message (acknowledgements and status changes). There is exactly one per
// process and it never appears in a room's membership list.
var Sentinel = User{ID: -1, Username: "server", IsServer: true}

// Allocator hands out monotonically increasing participant ids. Each room
// owns its own Allocator, so independent rooms (and tests) never share id
// state through a package-level counter.
type Allocator struct {
	next atomic.Int64
}

// NewAllocator returns an Allocator whose first id is 0.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Mint creates a User with the given display name and the next unique id.
// Safe for concurrent use.
func (a *Allocator) Mint(username string) User {
	id := a.next.Add(1) - 1
	return User{ID: int(id), Username: username}
}
