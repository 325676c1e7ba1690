package session

import (
	"context"
)

// Engine is the cryptographic engine the coordination layer drives. The
// session package never inspects the payloads it passes around; the
// engine is the only authority on their structure and validity.
//
// Implementations must be safe for concurrent use. Methods taking a
// context may block, e.g. when backed by a remote HSM.
type Engine interface {
	// IdentifierFromUint builds an identifier from a small non-zero integer.
	IdentifierFromUint(n uint16) (Identifier, error)
	// DeriveIdentifier hashes an arbitrary non-empty label to an identifier.
	DeriveIdentifier(label string) (Identifier, error)
	// ParseIdentifier decodes a canonical identifier encoding.
	ParseIdentifier(canonical []byte) (Identifier, error)

	// GenerateGroupKeys runs trusted-dealer key generation for ids.
	GenerateGroupKeys(ctx context.Context, cfg Configuration, ids []Identifier) (KeyGeneration, error)
	// DeriveKeyPackage verifies a secret share and turns it into a key package.
	DeriveKeyPackage(ctx context.Context, share SecretShare) (KeyPackage, error)

	// GenerateCommitment produces fresh round-1 nonces and their commitment.
	GenerateCommitment(ctx context.Context, kp KeyPackage) (SigningCommitments, SigningNonces, error)
	// BuildSigningPackage freezes the message and commitment set.
	BuildSigningPackage(ctx context.Context, msg Message, commitments []SigningCommitments) (SigningPackage, error)
	// DeriveRandomizedParams derives re-randomization material from the
	// group key and the signing package.
	DeriveRandomizedParams(ctx context.Context, pkp PublicKeyPackage, pkg SigningPackage) (RandomizedParams, error)
	// DeriveRandomizer extracts the randomizer from randomized params.
	DeriveRandomizer(ctx context.Context, params RandomizedParams) (Randomizer, error)
	// ComputeSignatureShare signs in round 2. randomizer is nil for
	// non-randomized schemes.
	ComputeSignatureShare(ctx context.Context, kp KeyPackage, nonces SigningNonces, pkg SigningPackage, randomizer *Randomizer) (SignatureShare, error)
	// AggregateShares combines signature shares into a signature.
	AggregateShares(ctx context.Context, pkg SigningPackage, shares []SignatureShare, pkp PublicKeyPackage, randomizer *Randomizer) (Signature, error)
	// VerifySignature returns nil iff sig is valid for msg under the
	// (randomized) group key.
	VerifySignature(ctx context.Context, pkp PublicKeyPackage, msg Message, sig Signature, randomizer *Randomizer) error

	// Randomized reports whether the scheme requires a randomizer.
	Randomized() bool
}

// checkContext fails with the context's error, classified as kind, when
// ctx is already done.
func checkContext(ctx context.Context, kind EngineErrorKind) error {
	if err := ctx.Err(); err != nil {
		return engineFailure(kind, err)
	}
	return nil
}
