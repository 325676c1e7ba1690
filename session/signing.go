package session

import (
	"context"
	"fmt"
)

// SigningCoordinator is a coordinator that also takes part in the signing
// as one of the participants. Its own commitment and signature share are
// produced internally; foreign contributions that claim its identifier
// are rejected with [ErrRoleMismatch].
type SigningCoordinator struct {
	inner *NonSigningCoordinator
	self  *Participant
}

var _ Coordinator = (*SigningCoordinator)(nil)

// NewSigningCoordinator creates a coordinator that signs with kp.
func NewSigningCoordinator(
	engine Engine,
	cfg Configuration,
	pkp PublicKeyPackage,
	kp KeyPackage,
	msg Message,
	opts ...CoordinatorOption,
) (*SigningCoordinator, error) {
	inner, err := NewNonSigningCoordinator(engine, cfg, pkp, msg, opts...)
	if err != nil {
		return nil, err
	}
	self, err := NewParticipant(engine, kp, pkp)
	if err != nil {
		return nil, err
	}
	return &SigningCoordinator{inner: inner, self: self}, nil
}

// Identifier returns the coordinator's own participant identifier.
func (s *SigningCoordinator) Identifier() Identifier {
	return s.self.Identifier()
}

// Configuration returns the session's threshold parameters.
func (s *SigningCoordinator) Configuration() Configuration { return s.inner.Configuration() }

// PublicKeyPackage returns the group's public key material.
func (s *SigningCoordinator) PublicKeyPackage() PublicKeyPackage { return s.inner.PublicKeyPackage() }

// Message returns the message being signed.
func (s *SigningCoordinator) Message() Message { return s.inner.Message() }

// Phase returns the current lifecycle phase.
func (s *SigningCoordinator) Phase() Phase { return s.inner.Phase() }

// Round2Config returns the round-2 configuration once created.
func (s *SigningCoordinator) Round2Config() (Round2Configuration, bool) { return s.inner.Round2Config() }

// Commitments returns a copy of the accepted commitments, its own included.
func (s *SigningCoordinator) Commitments() map[Identifier]SigningCommitments {
	return s.inner.Commitments()
}

// SignatureShares returns a copy of the accepted signature shares, its own
// included.
func (s *SigningCoordinator) SignatureShares() map[Identifier]SignatureShare {
	return s.inner.SignatureShares()
}

// Commit generates the coordinator's own commitment and records it.
func (s *SigningCoordinator) Commit(ctx context.Context) (SigningCommitments, error) {
	c := s.inner
	c.mu.Lock()
	defer c.mu.Unlock()

	id := s.self.Identifier()
	if c.round2 != nil {
		return SigningCommitments{}, ErrPackageAlreadyCreated
	}
	if _, exists := c.commitments[id]; exists {
		return SigningCommitments{}, &DuplicateContributionError{Round: RoundCommitment, Identifier: id}
	}
	sc, err := s.self.Commit(ctx)
	if err != nil {
		return SigningCommitments{}, err
	}
	if err := c.receiveCommitmentLocked(sc); err != nil {
		return SigningCommitments{}, err
	}
	return sc, nil
}

// ReceiveCommitment records a foreign commitment.
func (s *SigningCoordinator) ReceiveCommitment(ctx context.Context, sc SigningCommitments) error {
	c := s.inner
	c.mu.Lock()
	defer c.mu.Unlock()

	if sc.Identifier() == s.self.Identifier() {
		return c.reject(RoundCommitment, sc.Identifier(), ReasonRoleMismatch, ErrRoleMismatch)
	}
	return c.receiveCommitmentLocked(sc)
}

// ReceiveSignatureShare records a foreign signature share.
func (s *SigningCoordinator) ReceiveSignatureShare(ctx context.Context, share SignatureShare) error {
	c := s.inner
	c.mu.Lock()
	defer c.mu.Unlock()

	if share.Identifier() == s.self.Identifier() {
		return c.reject(RoundSignatureShare, share.Identifier(), ReasonRoleMismatch, ErrRoleMismatch)
	}
	return c.receiveSignatureShareLocked(share)
}

// CreateSigningPackage creates the signing package like
// [NonSigningCoordinator.CreateSigningPackage] and signs it with the
// coordinator's own key. The coordinator must have committed first.
//
// The package is stored only once the coordinator's own share exists. If
// signing fails, no package is stored and the coordinator's commitment is
// dropped, since its nonces are spent; call Commit again and retry.
func (s *SigningCoordinator) CreateSigningPackage(ctx context.Context) (Round2Configuration, error) {
	c := s.inner
	c.mu.Lock()
	defer c.mu.Unlock()

	id := s.self.Identifier()
	if c.round2 != nil {
		return Round2Configuration{}, ErrPackageAlreadyCreated
	}
	if _, committed := c.commitments[id]; !committed {
		return Round2Configuration{}, fmt.Errorf("%w: coordinator has not committed", ErrRoleMismatch)
	}
	cfg, err := c.buildRound2Locked(ctx)
	if err != nil {
		return Round2Configuration{}, err
	}

	share, err := s.signLocked(ctx, cfg)
	if err != nil {
		delete(c.commitments, id)
		return Round2Configuration{}, err
	}
	c.storeRound2Locked(cfg)
	if err := c.receiveSignatureShareLocked(share); err != nil {
		return Round2Configuration{}, err
	}
	return cfg, nil
}

func (s *SigningCoordinator) signLocked(ctx context.Context, cfg Round2Configuration) (SignatureShare, error) {
	if err := s.self.Receive(cfg); err != nil {
		return SignatureShare{}, err
	}
	return s.self.Sign(ctx)
}

// Aggregate combines the collected shares; see [NonSigningCoordinator.Aggregate].
func (s *SigningCoordinator) Aggregate(ctx context.Context) (Signature, error) {
	return s.inner.Aggregate(ctx)
}

// Verify checks sig; see [NonSigningCoordinator.Verify].
func (s *SigningCoordinator) Verify(ctx context.Context, sig Signature) error {
	return s.inner.Verify(ctx, sig)
}
