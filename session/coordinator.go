package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// Phase is the lifecycle position of a signing session.
type Phase int

const (
	PhaseCollectingCommitments Phase = iota
	PhasePackageCreated
	PhaseCollectingShares
	PhaseAggregated
	PhaseVerified
)

func (p Phase) String() string {
	switch p {
	case PhaseCollectingCommitments:
		return "collecting_commitments"
	case PhasePackageCreated:
		return "package_created"
	case PhaseCollectingShares:
		return "collecting_shares"
	case PhaseAggregated:
		return "aggregated"
	case PhaseVerified:
		return "verified"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Coordinator drives one signing session. Implementations serialize all
// operations, so they may be called from many goroutines.
type Coordinator interface {
	ReceiveCommitment(ctx context.Context, c SigningCommitments) error
	CreateSigningPackage(ctx context.Context) (Round2Configuration, error)
	ReceiveSignatureShare(ctx context.Context, s SignatureShare) error
	Aggregate(ctx context.Context) (Signature, error)
	Verify(ctx context.Context, sig Signature) error
	Phase() Phase

	Configuration() Configuration
	PublicKeyPackage() PublicKeyPackage
	Message() Message
}

// Observer is notified of session events. Callbacks run while the
// coordinator holds its lock and must not call back into it.
type Observer interface {
	PhaseChanged(from, to Phase)
	ContributionAccepted(round Round)
	ContributionRejected(round Round, reason string)
}

type nopObserver struct{}

func (nopObserver) PhaseChanged(Phase, Phase)          {}
func (nopObserver) ContributionAccepted(Round)         {}
func (nopObserver) ContributionRejected(Round, string) {}

// CoordinatorOption configures a coordinator.
type CoordinatorOption func(*coordinatorOptions)

type coordinatorOptions struct {
	membershipCheck bool
	observer        Observer
}

// WithMembershipCheck rejects commitments from identifiers outside the
// public key package and signature shares from identifiers that did not
// commit, with [ErrUnknownParticipant].
func WithMembershipCheck() CoordinatorOption {
	return func(o *coordinatorOptions) { o.membershipCheck = true }
}

// WithObserver registers an observer for phase changes and contributions.
func WithObserver(obs Observer) CoordinatorOption {
	return func(o *coordinatorOptions) { o.observer = obs }
}

// Rejection reasons reported to observers.
const (
	ReasonDuplicate          = "duplicate"
	ReasonUnknownParticipant = "unknown_participant"
	ReasonRoleMismatch       = "role_mismatch"
	ReasonPackageCreated     = "package_created"
)

// NonSigningCoordinator collects contributions from participants and
// produces the aggregate signature without contributing key material
// itself.
type NonSigningCoordinator struct {
	engine    Engine
	config    Configuration
	publicKey PublicKeyPackage
	message   Message
	opts      coordinatorOptions

	mu              sync.Mutex
	phase           Phase
	commitments     map[Identifier]SigningCommitments
	signatureShares map[Identifier]SignatureShare
	round2          *Round2Configuration
	signature       *Signature
}

var _ Coordinator = (*NonSigningCoordinator)(nil)

// NewNonSigningCoordinator creates a coordinator for one session over msg.
func NewNonSigningCoordinator(
	engine Engine,
	cfg Configuration,
	pkp PublicKeyPackage,
	msg Message,
	opts ...CoordinatorOption,
) (*NonSigningCoordinator, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", ErrInvalidConfiguration)
	}
	if !cfg.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, cfg)
	}
	o := coordinatorOptions{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &NonSigningCoordinator{
		engine:          engine,
		config:          cfg,
		publicKey:       pkp,
		message:         msg,
		opts:            o,
		commitments:     make(map[Identifier]SigningCommitments),
		signatureShares: make(map[Identifier]SignatureShare),
	}, nil
}

// Configuration returns the session's threshold parameters.
func (c *NonSigningCoordinator) Configuration() Configuration { return c.config }

// PublicKeyPackage returns the group's public key material.
func (c *NonSigningCoordinator) PublicKeyPackage() PublicKeyPackage { return c.publicKey }

// Message returns the message being signed.
func (c *NonSigningCoordinator) Message() Message { return c.message }

// Phase returns the current lifecycle phase.
func (c *NonSigningCoordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Round2Config returns the round-2 configuration once created.
func (c *NonSigningCoordinator) Round2Config() (Round2Configuration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.round2 == nil {
		return Round2Configuration{}, false
	}
	return *c.round2, true
}

// Commitments returns a copy of the accepted commitments.
func (c *NonSigningCoordinator) Commitments() map[Identifier]SigningCommitments {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Identifier]SigningCommitments, len(c.commitments))
	for id, v := range c.commitments {
		out[id] = v
	}
	return out
}

// SignatureShares returns a copy of the accepted signature shares.
func (c *NonSigningCoordinator) SignatureShares() map[Identifier]SignatureShare {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Identifier]SignatureShare, len(c.signatureShares))
	for id, v := range c.signatureShares {
		out[id] = v
	}
	return out
}

// ReceiveCommitment records a round-1 commitment. A second commitment from
// the same identifier is rejected and the first one kept. Once the signing
// package exists the commitment set is frozen and further commitments fail
// with [ErrPackageAlreadyCreated].
func (c *NonSigningCoordinator) ReceiveCommitment(ctx context.Context, sc SigningCommitments) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiveCommitmentLocked(sc)
}

func (c *NonSigningCoordinator) receiveCommitmentLocked(sc SigningCommitments) error {
	id := sc.Identifier()
	if c.round2 != nil {
		return c.reject(RoundCommitment, id, ReasonPackageCreated, ErrPackageAlreadyCreated)
	}
	if c.opts.membershipCheck && !c.publicKey.Contains(id) {
		return c.reject(RoundCommitment, id, ReasonUnknownParticipant, ErrUnknownParticipant)
	}
	if _, exists := c.commitments[id]; exists {
		return c.reject(RoundCommitment, id, ReasonDuplicate,
			&DuplicateContributionError{Round: RoundCommitment, Identifier: id})
	}
	c.commitments[id] = sc
	c.opts.observer.ContributionAccepted(RoundCommitment)
	if glog.V(2) {
		glog.Infof("session: accepted commitment from %s (%d collected)", id, len(c.commitments))
	}
	return nil
}

// CreateSigningPackage freezes the collected commitments into a signing
// package and, for randomized engines, derives the session randomizer.
// It succeeds at most once per session.
func (c *NonSigningCoordinator) CreateSigningPackage(ctx context.Context) (Round2Configuration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createSigningPackageLocked(ctx)
}

func (c *NonSigningCoordinator) createSigningPackageLocked(ctx context.Context) (Round2Configuration, error) {
	cfg, err := c.buildRound2Locked(ctx)
	if err != nil {
		return Round2Configuration{}, err
	}
	c.storeRound2Locked(cfg)
	return cfg, nil
}

// buildRound2Locked runs the engine calls for package creation without
// touching session state.
func (c *NonSigningCoordinator) buildRound2Locked(ctx context.Context) (Round2Configuration, error) {
	if c.round2 != nil {
		return Round2Configuration{}, ErrPackageAlreadyCreated
	}
	if err := c.checkQuorumLocked(); err != nil {
		return Round2Configuration{}, err
	}

	if err := checkContext(ctx, KindSigningPackage); err != nil {
		return Round2Configuration{}, err
	}
	pkg, err := c.engine.BuildSigningPackage(ctx, c.message, c.sortedCommitmentsLocked())
	if err != nil {
		return Round2Configuration{}, engineFailure(KindSigningPackage, err)
	}

	var randomizer *Randomizer
	if c.engine.Randomized() {
		params, err := c.engine.DeriveRandomizedParams(ctx, c.publicKey, pkg)
		if err != nil {
			return Round2Configuration{}, engineFailure(KindRandomizer, err)
		}
		r, err := c.engine.DeriveRandomizer(ctx, params)
		if err != nil {
			return Round2Configuration{}, engineFailure(KindRandomizer, err)
		}
		randomizer = &r
	}
	return NewRound2Configuration(pkg, randomizer), nil
}

func (c *NonSigningCoordinator) storeRound2Locked(cfg Round2Configuration) {
	c.round2 = &cfg
	c.setPhaseLocked(PhasePackageCreated)
}

// ReceiveSignatureShare records a round-2 signature share. A second share
// from the same identifier is rejected and the first one kept.
func (c *NonSigningCoordinator) ReceiveSignatureShare(ctx context.Context, s SignatureShare) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiveSignatureShareLocked(s)
}

func (c *NonSigningCoordinator) receiveSignatureShareLocked(s SignatureShare) error {
	id := s.Identifier()
	if c.opts.membershipCheck {
		if _, committed := c.commitments[id]; !committed {
			return c.reject(RoundSignatureShare, id, ReasonUnknownParticipant, ErrUnknownParticipant)
		}
	}
	if _, exists := c.signatureShares[id]; exists {
		return c.reject(RoundSignatureShare, id, ReasonDuplicate,
			&DuplicateContributionError{Round: RoundSignatureShare, Identifier: id})
	}
	c.signatureShares[id] = s
	c.opts.observer.ContributionAccepted(RoundSignatureShare)
	if glog.V(2) {
		glog.Infof("session: accepted signature share from %s (%d collected)", id, len(c.signatureShares))
	}
	if c.phase == PhasePackageCreated {
		c.setPhaseLocked(PhaseCollectingShares)
	}
	return nil
}

// Aggregate combines the collected signature shares. The engine decides
// whether enough shares are present. Once a signature has been produced,
// later calls return it unchanged. A failed aggregation leaves the session
// as it was, so the caller may collect more shares and retry.
func (c *NonSigningCoordinator) Aggregate(ctx context.Context) (Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.round2 == nil {
		return Signature{}, ErrPackageMissing
	}
	if c.signature != nil {
		return *c.signature, nil
	}
	if err := c.checkQuorumLocked(); err != nil {
		return Signature{}, err
	}
	randomizer := c.round2.randomizer
	if c.engine.Randomized() && randomizer == nil {
		return Signature{}, ErrInvalidRandomizer
	}

	if err := checkContext(ctx, KindAggregation); err != nil {
		return Signature{}, err
	}
	sig, err := c.engine.AggregateShares(ctx, c.round2.signingPackage, c.sortedSharesLocked(), c.publicKey, randomizer)
	if err != nil {
		err = engineFailure(KindAggregation, err)
		glog.V(1).Infof("session: aggregation over %d shares failed: %v", len(c.signatureShares), err)
		return Signature{}, err
	}
	c.signature = &sig
	c.setPhaseLocked(PhaseAggregated)
	return sig, nil
}

// Verify checks sig against the session's public key, message and
// randomizer. Engine-reported failures are returned, never swallowed.
func (c *NonSigningCoordinator) Verify(ctx context.Context, sig Signature) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var randomizer *Randomizer
	if c.round2 != nil {
		randomizer = c.round2.randomizer
	}
	if c.engine.Randomized() && randomizer == nil {
		return ErrPackageMissing
	}

	if err := checkContext(ctx, KindVerification); err != nil {
		return err
	}
	if err := c.engine.VerifySignature(ctx, c.publicKey, c.message, sig, randomizer); err != nil {
		return engineFailure(KindVerification, err)
	}
	if c.signature != nil && c.signature.Equal(sig) {
		c.setPhaseLocked(PhaseVerified)
	}
	return nil
}

func (c *NonSigningCoordinator) checkQuorumLocked() error {
	if !c.config.inQuorum(len(c.commitments)) {
		return &QuorumError{
			Min:   int(c.config.MinSigners()),
			Max:   int(c.config.MaxSigners()),
			Found: len(c.commitments),
		}
	}
	return nil
}

func (c *NonSigningCoordinator) sortedCommitmentsLocked() []SigningCommitments {
	ids := make([]Identifier, 0, len(c.commitments))
	for id := range c.commitments {
		ids = append(ids, id)
	}
	sortIdentifiers(ids)
	out := make([]SigningCommitments, len(ids))
	for i, id := range ids {
		out[i] = c.commitments[id]
	}
	return out
}

func (c *NonSigningCoordinator) sortedSharesLocked() []SignatureShare {
	ids := make([]Identifier, 0, len(c.signatureShares))
	for id := range c.signatureShares {
		ids = append(ids, id)
	}
	sortIdentifiers(ids)
	out := make([]SignatureShare, len(ids))
	for i, id := range ids {
		out[i] = c.signatureShares[id]
	}
	return out
}

// setPhaseLocked moves the session forward; phases never go back.
func (c *NonSigningCoordinator) setPhaseLocked(to Phase) {
	if to <= c.phase {
		return
	}
	from := c.phase
	c.phase = to
	glog.V(1).Infof("session: phase %s -> %s", from, to)
	c.opts.observer.PhaseChanged(from, to)
}

func (c *NonSigningCoordinator) reject(round Round, id Identifier, reason string, err error) error {
	glog.V(1).Infof("session: rejected %s from %s: %s", round, id, reason)
	c.opts.observer.ContributionRejected(round, reason)
	return err
}
