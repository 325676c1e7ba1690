package session

import (
	"context"
	"fmt"
)

// TrustedDealer generates key material for a whole group in one place.
// The dealer learns the group secret; use it only where that is acceptable.
type TrustedDealer struct {
	engine Engine
	config Configuration
}

// NewTrustedDealer creates a dealer for cfg.
func NewTrustedDealer(engine Engine, cfg Configuration) (*TrustedDealer, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrInvalidConfiguration)
	}
	if !cfg.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, cfg)
	}
	return &TrustedDealer{engine: engine, config: cfg}, nil
}

// GenerateKeys deals shares to the identifiers 1..maxSigners.
func (d *TrustedDealer) GenerateKeys(ctx context.Context) (KeyGeneration, error) {
	ids := make([]Identifier, d.config.MaxSigners())
	for i := range ids {
		id, err := d.engine.IdentifierFromUint(uint16(i + 1))
		if err != nil {
			return KeyGeneration{}, engineFailure(KindIdentifier, err)
		}
		ids[i] = id
	}
	return d.GenerateKeysWithIdentifiers(ctx, ids)
}

// GenerateKeysWithIdentifiers deals shares to ids, which must hold exactly
// maxSigners distinct identifiers.
func (d *TrustedDealer) GenerateKeysWithIdentifiers(ctx context.Context, ids []Identifier) (KeyGeneration, error) {
	if len(ids) != int(d.config.MaxSigners()) {
		return KeyGeneration{}, fmt.Errorf("%w: got %d identifiers for maxSigners %d",
			ErrInvalidConfiguration, len(ids), d.config.MaxSigners())
	}
	seen := make(map[Identifier]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			return KeyGeneration{}, fmt.Errorf("%w: empty identifier", ErrInvalidIdentifier)
		}
		if _, dup := seen[id]; dup {
			return KeyGeneration{}, fmt.Errorf("%w: duplicate identifier %s", ErrInvalidIdentifier, id)
		}
		seen[id] = struct{}{}
	}

	if err := checkContext(ctx, KindKeyGeneration); err != nil {
		return KeyGeneration{}, err
	}
	kg, err := d.engine.GenerateGroupKeys(ctx, d.config, ids)
	if err != nil {
		return KeyGeneration{}, engineFailure(KindKeyGeneration, err)
	}
	return kg, nil
}

// VerifyAndGetKeyPackage checks a dealt share and converts it into a key
// package. Malformed or tampered shares fail with an [*EngineError] of
// kind [KindKeyVerification].
func VerifyAndGetKeyPackage(ctx context.Context, engine Engine, share SecretShare) (KeyPackage, error) {
	if err := checkContext(ctx, KindKeyVerification); err != nil {
		return KeyPackage{}, err
	}
	kp, err := engine.DeriveKeyPackage(ctx, share)
	if err != nil {
		return KeyPackage{}, engineFailure(KindKeyVerification, err)
	}
	return kp, nil
}
