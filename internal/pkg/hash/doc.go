// Package hash hashes and verifies secrets.
//
// Passwords use Bcrypt or Argon2id (salted, slow). One-time codes use
// HMACSHA256, which is deterministic so a stored digest can be compared in a
// conditional update.
package hash
