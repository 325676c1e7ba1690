// Package frost implements the FROST (Flexible Round-Optimized Schnorr Threshold)
// signature scheme over an arbitrary elliptic curve group, with optional
// re-randomization of the group key per signing session.
//
// FROST is a threshold signature scheme that allows t-of-n participants to
// collaboratively generate a Schnorr signature without any single participant
// knowing the full private key. The scheme consists of two main phases:
//
// # Trusted Dealer Key Generation
//
// A dealer samples (or is given) the group secret, splits it with a
// degree t-1 polynomial and publishes a Feldman commitment to the
// coefficients:
//
//  1. The dealer calls [FROST.Deal] and hands each [SecretShare] to its owner.
//  2. Each participant checks its share with [FROST.VerifySecretShare] and
//     obtains a [KeyShare].
//
// # Threshold Signing
//
// Once key shares are established, any t participants can collaboratively
// sign a message:
//
//  1. Each signer generates nonces and commitments using [FROST.SignRound1].
//  2. The coordinator builds a [SigningPackage] with [FROST.NewSigningPackage]
//     and, for re-randomized signing, derives alpha with [FROST.DeriveRandomizer].
//  3. Each signer computes their signature share using [FROST.SignRound2].
//  4. Signature shares are aggregated into a final signature using [FROST.Aggregate].
//  5. Anyone can verify the signature using [FROST.Verify].
//
// With a randomizer alpha the signature verifies under Y + alpha*G rather
// than the group key Y, so signatures from different sessions cannot be
// linked to the same key without knowing alpha.
//
// # Example
//
// Basic usage with 2-of-3 threshold:
//
//	f := frost.New(g)
//	ids := []group.Scalar{id1, id2, id3}
//	out, _ := f.Deal(rand.Reader, nil, 2, ids)
//	ks1, _ := f.VerifySecretShare(out.Shares[0])
//	ks2, _ := f.VerifySecretShare(out.Shares[1])
//
//	nonce1, commit1, _ := f.SignRound1(rand.Reader, ks1)
//	nonce2, commit2, _ := f.SignRound1(rand.Reader, ks2)
//	pkg, _ := f.NewSigningPackage([]byte("hello"), []*frost.SigningCommitment{commit1, commit2})
//	alpha, _ := f.DeriveRandomizer(out.GroupKey, pkg)
//
//	share1, _ := f.SignRound2(ks1, nonce1, pkg, alpha)
//	share2, _ := f.SignRound2(ks2, nonce2, pkg, alpha)
//
//	pub := &frost.PublicKey{GroupKey: out.GroupKey, VerifyingShares: out.VerifyingShares}
//	sig, _ := f.Aggregate(pkg, []*frost.SignatureShare{share1, share2}, pub, alpha)
//	valid := f.Verify([]byte("hello"), sig, out.GroupKey, alpha)
//
// # Security Considerations
//
// The dealer learns the group secret and must be trusted. The scheme
// provides security against a passive adversary controlling up to t-1
// participants during signing.
//
// Nonces generated in [FROST.SignRound1] must never be reused. Each signing
// session requires fresh nonces.
package frost
