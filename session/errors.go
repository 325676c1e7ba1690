package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPackageAlreadyCreated is returned by a second CreateSigningPackage.
	ErrPackageAlreadyCreated = errors.New("session: signing package already created")
	// ErrPackageMissing is returned when aggregating before a signing
	// package exists.
	ErrPackageMissing = errors.New("session: signing package missing")
	// ErrInvalidRandomizer is returned when a randomized scheme has no
	// randomizer.
	ErrInvalidRandomizer = errors.New("session: randomizer required but absent")
	// ErrRoleMismatch is returned when an operation does not fit the
	// caller's role, e.g. a foreign contribution claiming a signing
	// coordinator's own identifier.
	ErrRoleMismatch = errors.New("session: role mismatch")
	// ErrNonceConsumed is returned by a second Sign on the same commitment.
	ErrNonceConsumed = errors.New("session: nonce already consumed")
	// ErrNotCommitted is returned when signing without a prior Commit.
	ErrNotCommitted = errors.New("session: participant has not committed")
	// ErrRound2ConfigMissing is returned when signing before Receive.
	ErrRound2ConfigMissing = errors.New("session: round 2 configuration not received")
	// ErrRound2ConfigAlreadyReceived is returned by a second Receive on the
	// same commitment.
	ErrRound2ConfigAlreadyReceived = errors.New("session: round 2 configuration already received")
	// ErrInvalidConfiguration is returned for bad threshold parameters.
	ErrInvalidConfiguration = errors.New("session: invalid configuration")
	// ErrInvalidIdentifier is returned for identifiers that cannot belong
	// to the group.
	ErrInvalidIdentifier = errors.New("session: invalid identifier")
	// ErrUnknownParticipant is returned when membership checks reject a
	// contribution.
	ErrUnknownParticipant = errors.New("session: unknown participant")
)

// Round identifies a contribution round.
type Round int

const (
	RoundCommitment Round = iota + 1
	RoundSignatureShare
)

func (r Round) String() string {
	switch r {
	case RoundCommitment:
		return "commitment"
	case RoundSignatureShare:
		return "signature_share"
	default:
		return fmt.Sprintf("round(%d)", int(r))
	}
}

// DuplicateContributionError reports a second contribution from the same
// identifier in one round. The first contribution is kept.
type DuplicateContributionError struct {
	Round      Round
	Identifier Identifier
}

func (e *DuplicateContributionError) Error() string {
	return fmt.Sprintf("session: duplicate %s from %s", e.Round, e.Identifier)
}

// QuorumError reports a commitment count outside [Min, Max].
type QuorumError struct {
	Min   int
	Max   int
	Found int
}

func (e *QuorumError) Error() string {
	return fmt.Sprintf("session: quorum out of range: found %d, need %d..%d", e.Found, e.Min, e.Max)
}

// EngineErrorKind classifies engine failures.
type EngineErrorKind int

const (
	KindIdentifier EngineErrorKind = iota + 1
	KindKeyGeneration
	KindKeyVerification
	KindCommitment
	KindSigningPackage
	KindRandomizer
	KindSignatureShare
	KindAggregation
	KindVerification
	KindDeserialization
)

var kindNames = map[EngineErrorKind]string{
	KindIdentifier:      "identifier",
	KindKeyGeneration:   "key generation",
	KindKeyVerification: "key verification",
	KindCommitment:      "commitment",
	KindSigningPackage:  "signing package construction",
	KindRandomizer:      "randomizer",
	KindSignatureShare:  "signature share",
	KindAggregation:     "aggregation",
	KindVerification:    "verification",
	KindDeserialization: "deserialization",
}

func (k EngineErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// EngineError wraps a failure reported by the cryptographic engine.
// Culprits lists participants whose contributions the engine identified
// as invalid, if any.
type EngineError struct {
	Kind     EngineErrorKind
	Detail   string
	Culprits []Identifier
	Err      error
}

func (e *EngineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session: %s failed", e.Kind)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Culprits) > 0 {
		ids := make([]string, len(e.Culprits))
		for i, id := range e.Culprits {
			ids[i] = id.String()
		}
		fmt.Fprintf(&b, " (culprits: %s)", strings.Join(ids, ", "))
	}
	return b.String()
}

func (e *EngineError) Unwrap() error { return e.Err }

// engineFailure maps any error returned by an engine into an
// [*EngineError] of the given kind. An *EngineError built by the engine
// itself is returned as is.
func engineFailure(kind EngineErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}
	return &EngineError{Kind: kind, Detail: err.Error(), Err: err}
}
