// Package secp256k1 implements [group.Group] over the secp256k1 curve
// using the decred curve arithmetic.
//
// Scalars are 32-byte big-endian integers modulo the curve order. Wide
// inputs to [Scalar.SetBytes] are reduced with constant-time modular
// arithmetic. Points use the 33-byte SEC1 compressed form; the identity,
// which has no SEC1 encoding, is written as 33 zero bytes.
package secp256k1
