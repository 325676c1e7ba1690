// Package ciphersuite provides [session.Engine] implementations built on
// the frost package.
//
// A [Suite] selects the group and hasher:
//
//	engine := ciphersuite.New(ciphersuite.Secp256k1Blake3)
//	dealer, _ := session.NewTrustedDealer(engine, cfg)
//
// Engines re-randomize every signing session by default: the group key Y
// is blinded to Y + alpha*G, with alpha derived deterministically from Y
// and the signing package. Pass [WithoutRerandomization] for signatures
// that verify under Y directly.
//
// All payloads crossing the session boundary are canonical CBOR with
// array-encoded structs. Identifiers are the canonical scalar encoding of
// the group, signatures are R || z.
package ciphersuite
