package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SignLocally performs a complete signing session when all key packages
// are local.
//
// This is useful for testing or single-machine threshold setups where all
// participants are in the same process. Each key package gets its own
// [Participant]; they commit and sign concurrently against a fresh
// [NonSigningCoordinator]. The resulting signature is verified before it
// is returned.
func SignLocally(
	ctx context.Context,
	engine Engine,
	cfg Configuration,
	pkp PublicKeyPackage,
	keyPackages []KeyPackage,
	msg Message,
	opts ...CoordinatorOption,
) (Signature, Round2Configuration, error) {
	if len(keyPackages) == 0 {
		return Signature{}, Round2Configuration{}, errors.New("session: no key packages provided")
	}

	coord, err := NewNonSigningCoordinator(engine, cfg, pkp, msg, opts...)
	if err != nil {
		return Signature{}, Round2Configuration{}, err
	}
	participants := make([]*Participant, len(keyPackages))
	for i, kp := range keyPackages {
		p, err := NewParticipant(engine, kp, pkp)
		if err != nil {
			return Signature{}, Round2Configuration{}, err
		}
		participants[i] = p
	}

	// Round 1: commit and submit
	eg, egCtx := errgroup.WithContext(ctx)
	for _, p := range participants {
		p := p
		eg.Go(func() error {
			c, err := p.Commit(egCtx)
			if err != nil {
				return fmt.Errorf("participant %s: %w", p.Identifier(), err)
			}
			return coord.ReceiveCommitment(egCtx, c)
		})
	}
	if err := eg.Wait(); err != nil {
		return Signature{}, Round2Configuration{}, err
	}

	round2, err := coord.CreateSigningPackage(ctx)
	if err != nil {
		return Signature{}, Round2Configuration{}, err
	}

	// Round 2: sign and submit
	eg, egCtx = errgroup.WithContext(ctx)
	for _, p := range participants {
		p := p
		eg.Go(func() error {
			if err := p.Receive(round2); err != nil {
				return err
			}
			share, err := p.Sign(egCtx)
			if err != nil {
				return fmt.Errorf("participant %s: %w", p.Identifier(), err)
			}
			return coord.ReceiveSignatureShare(egCtx, share)
		})
	}
	if err := eg.Wait(); err != nil {
		return Signature{}, round2, err
	}

	sig, err := coord.Aggregate(ctx)
	if err != nil {
		return Signature{}, round2, err
	}
	if err := coord.Verify(ctx, sig); err != nil {
		return Signature{}, round2, err
	}
	return sig, round2, nil
}
