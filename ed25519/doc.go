// Package ed25519 implements [group.Group] over the prime-order subgroup
// of edwards25519, backed by the kyber curve implementation.
//
// Scalars and points use the 32-byte little-endian encodings of RFC 8032.
// Decoding a point outside the prime-order subgroup fails.
package ed25519
