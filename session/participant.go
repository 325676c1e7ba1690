package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Participant is one signer holding a key package. It produces a
// commitment in round 1 and a signature share in round 2, and refuses to
// use the nonces behind a commitment more than once.
//
// Create instances using [NewParticipant].
type Participant struct {
	engine     Engine
	keyPackage KeyPackage
	publicKey  PublicKeyPackage

	mu        sync.Mutex
	committed bool
	nonces    *SigningNonces
	round2    *Round2Configuration
}

// NewParticipant creates a participant for kp. The key package's owner
// must belong to pkp.
func NewParticipant(engine Engine, kp KeyPackage, pkp PublicKeyPackage) (*Participant, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrInvalidConfiguration)
	}
	if !pkp.Contains(kp.Identifier()) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, kp.Identifier())
	}
	return &Participant{engine: engine, keyPackage: kp, publicKey: pkp}, nil
}

// Identifier returns this participant's identifier.
func (p *Participant) Identifier() Identifier {
	return p.keyPackage.Identifier()
}

// PublicKeyPackage returns the group's public key material.
func (p *Participant) PublicKeyPackage() PublicKeyPackage {
	return p.publicKey
}

// Commit generates fresh nonces and returns their commitment. Committing
// starts a new signing session for this participant: any previous nonces
// and round-2 configuration are discarded.
func (p *Participant) Commit(ctx context.Context) (SigningCommitments, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := checkContext(ctx, KindCommitment); err != nil {
		return SigningCommitments{}, err
	}
	c, n, err := p.engine.GenerateCommitment(ctx, p.keyPackage)
	if err != nil {
		return SigningCommitments{}, engineFailure(KindCommitment, err)
	}
	p.committed = true
	p.nonces = &n
	p.round2 = nil
	glog.V(2).Infof("session: participant %s committed", p.Identifier())
	return c, nil
}

// Receive stores the round-2 configuration for the current commitment.
func (p *Participant) Receive(cfg Round2Configuration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.committed {
		return ErrNotCommitted
	}
	if p.round2 != nil {
		return ErrRound2ConfigAlreadyReceived
	}
	p.round2 = &cfg
	return nil
}

// Sign produces this participant's signature share.
//
// The nonces are consumed before the engine is called, so a failed Sign
// still requires a fresh Commit. Calling Sign a second time returns
// [ErrNonceConsumed] to prevent nonce reuse.
func (p *Participant) Sign(ctx context.Context) (SignatureShare, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.committed {
		return SignatureShare{}, ErrNotCommitted
	}
	if p.round2 == nil {
		return SignatureShare{}, ErrRound2ConfigMissing
	}
	if p.nonces == nil {
		return SignatureShare{}, ErrNonceConsumed
	}

	// Mark as consumed immediately, before any operations that might fail
	nonces := *p.nonces
	p.nonces = nil

	if err := checkContext(ctx, KindSignatureShare); err != nil {
		return SignatureShare{}, err
	}
	share, err := p.engine.ComputeSignatureShare(ctx, p.keyPackage, nonces,
		p.round2.signingPackage, p.round2.randomizer)
	if err != nil {
		return SignatureShare{}, engineFailure(KindSignatureShare, err)
	}
	glog.V(2).Infof("session: participant %s signed", p.Identifier())
	return share, nil
}

// IsConsumed reports whether the current nonces have been used.
func (p *Participant) IsConsumed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed && p.nonces == nil
}
