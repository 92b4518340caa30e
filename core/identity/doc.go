// Package identity provides the node identity used to attribute and
// sign processed work: a stable name and an ed25519 key pair with
// BLAKE2b-256 payload hashing.
//
// The signing and encryption protocol itself is out of scope here; this
// package only supplies the key material and the sign/verify primitives
// the processing layer consumes.
package identity
