// Package group defines abstract interfaces for the prime-order groups
// used by the FROST threshold signature scheme.
//
// This package provides three core interfaces:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern. Operations like Add, Mul,
// and ScalarMult set the receiver to the result and return it:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// Decoding is lenient at the interface level ([Scalar.SetBytes] reduces
// wide inputs, which hashers rely on). Anything read from the outside
// world goes through [DecodeScalar] and [DecodePoint], which reject
// non-canonical encodings.
//
// # Implementations
//
// Three groups ship with this module: bjj (Baby Jubjub over gnark-crypto),
// secp256k1 (decred) and ed25519 (drand/kyber).
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Random scalars are generated from cryptographically secure sources
//   - Invalid curve points are rejected in SetBytes
package group
