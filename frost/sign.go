package frost

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/f3rmion/frostcoord/group"
)

// SigningNonce holds a participant's nonce pair for signing.
type SigningNonce struct {
	ID group.Scalar
	D  group.Scalar // hiding nonce
	E  group.Scalar // binding nonce
}

// SigningCommitment is broadcast in round 1 of signing.
type SigningCommitment struct {
	ID           group.Scalar
	HidingPoint  group.Point // D * G
	BindingPoint group.Point // E * G
}

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	ID group.Scalar
	Z  group.Scalar
}

// SigningPackage is the message together with the round-1 commitments of
// the chosen signers, sorted by identifier encoding.
type SigningPackage struct {
	Message     []byte
	Commitments []*SigningCommitment
}

// PublicKey is the public half of a key generation: the group key and
// every participant's verifying share.
type PublicKey struct {
	GroupKey        group.Point
	VerifyingShares map[string]group.Point // keyed by identifier bytes
}

// VerifyingShare returns the verifying share of id.
func (p *PublicKey) VerifyingShare(id group.Scalar) (group.Point, bool) {
	y, ok := p.VerifyingShares[idKey(id)]
	return y, ok
}

// AggregationError reports why shares could not be combined. Culprits
// lists the signers whose shares failed verification, if any.
type AggregationError struct {
	Reason   string
	Culprits []group.Scalar
}

func (e *AggregationError) Error() string {
	if len(e.Culprits) == 0 {
		return "frost: aggregation failed: " + e.Reason
	}
	return fmt.Sprintf("frost: aggregation failed: %s (%d culprits)", e.Reason, len(e.Culprits))
}

// ErrInvalidSignatureShare is returned by [FROST.VerifySignatureShare].
var ErrInvalidSignatureShare = errors.New("frost: invalid signature share")

// NewSigningPackage sorts commitments by identifier and rejects duplicates.
func (f *FROST) NewSigningPackage(message []byte, commitments []*SigningCommitment) (*SigningPackage, error) {
	if len(commitments) == 0 {
		return nil, errors.New("frost: no commitments")
	}
	sorted := make([]*SigningCommitment, len(commitments))
	copy(sorted, commitments)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].ID.Bytes(), sorted[j].ID.Bytes()) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID.Equal(sorted[i-1].ID) {
			return nil, errors.New("frost: duplicate commitment identifier")
		}
	}
	for _, c := range sorted {
		if c.HidingPoint.IsIdentity() || c.BindingPoint.IsIdentity() {
			return nil, errors.New("frost: identity commitment")
		}
	}
	msg := make([]byte, len(message))
	copy(msg, message)
	return &SigningPackage{Message: msg, Commitments: sorted}, nil
}

// commitment returns the commitment of id, or nil.
func (p *SigningPackage) commitment(id group.Scalar) *SigningCommitment {
	for _, c := range p.Commitments {
		if c.ID.Equal(id) {
			return c
		}
	}
	return nil
}

// SignRound1 generates nonces and commitment for signing. Nonces are
// hedged: each one hashes fresh randomness from r with the secret share,
// so a weak r alone does not expose the share.
func (f *FROST) SignRound1(r io.Reader, share *KeyShare) (*SigningNonce, *SigningCommitment, error) {
	d, err := f.nonceGenerate(r, share.SecretKey)
	if err != nil {
		return nil, nil, err
	}
	e, err := f.nonceGenerate(r, share.SecretKey)
	if err != nil {
		return nil, nil, err
	}

	nonce := &SigningNonce{
		ID: share.ID,
		D:  d,
		E:  e,
	}

	commitment := &SigningCommitment{
		ID:           share.ID,
		HidingPoint:  group.BaseMult(f.group, d),
		BindingPoint: group.BaseMult(f.group, e),
	}

	return nonce, commitment, nil
}

func (f *FROST) nonceGenerate(r io.Reader, secret group.Scalar) (group.Scalar, error) {
	var seed [32]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return nil, fmt.Errorf("frost: read nonce seed: %w", err)
	}
	k := f.hasher.H3(f.group, seed[:], secret.Bytes(), nil)
	if k.IsZero() {
		return nil, errors.New("frost: zero nonce")
	}
	return k, nil
}

// signingContext holds the values every signer and the aggregator derive
// identically from a signing package.
type signingContext struct {
	key            group.Point // verifying key, randomized when a randomizer is set
	bindingFactors map[string]group.Scalar
	R              group.Point
	c              group.Scalar
}

func (f *FROST) newSigningContext(groupKey group.Point, pkg *SigningPackage, randomizer group.Scalar) *signingContext {
	key := f.RandomizedKey(groupKey, randomizer)
	bindingFactors := f.computeBindingFactors(key, pkg)

	// Compute group commitment R = sum(D_i + rho_i * E_i)
	R := f.group.NewPoint()
	for _, comm := range pkg.Commitments {
		R = f.group.NewPoint().Add(R, f.commitmentShare(comm, bindingFactors))
	}

	// Compute challenge c = H(R, Y', message)
	c := f.hasher.H2(f.group, R.Bytes(), key.Bytes(), pkg.Message)

	return &signingContext{key: key, bindingFactors: bindingFactors, R: R, c: c}
}

// commitmentShare returns D_i + rho_i * E_i.
func (f *FROST) commitmentShare(comm *SigningCommitment, bindingFactors map[string]group.Scalar) group.Point {
	rho := bindingFactors[idKey(comm.ID)]
	rhoE := f.group.NewPoint().ScalarMult(rho, comm.BindingPoint)
	return f.group.NewPoint().Add(comm.HidingPoint, rhoE)
}

// SignRound2 generates a signature share. randomizer may be nil for plain
// FROST.
func (f *FROST) SignRound2(
	share *KeyShare,
	nonce *SigningNonce,
	pkg *SigningPackage,
	randomizer group.Scalar,
) (*SignatureShare, error) {
	own := pkg.commitment(share.ID)
	if own == nil {
		return nil, errors.New("frost: signer not in signing package")
	}
	if !group.BaseMult(f.group, nonce.D).Equal(own.HidingPoint) ||
		!group.BaseMult(f.group, nonce.E).Equal(own.BindingPoint) {
		return nil, errors.New("frost: nonces do not match commitment")
	}
	if len(pkg.Commitments) < share.MinSigners {
		return nil, fmt.Errorf("frost: %d signers below threshold %d", len(pkg.Commitments), share.MinSigners)
	}

	sc := f.newSigningContext(share.GroupKey, pkg, randomizer)

	// Compute Lagrange coefficient for this signer
	lambda, err := f.lagrangeCoefficient(share.ID, pkg.Commitments)
	if err != nil {
		return nil, err
	}

	// Compute signature share: z_i = d + rho * e + lambda * s * c
	myRho := sc.bindingFactors[idKey(share.ID)]

	z := f.group.NewScalar().Mul(myRho, nonce.E)                // rho * e
	z = f.group.NewScalar().Add(nonce.D, z)                     // d + rho * e
	lambdaS := f.group.NewScalar().Mul(lambda, share.SecretKey) // lambda * s
	lambdaSC := f.group.NewScalar().Mul(lambdaS, sc.c)          // lambda * s * c
	z = f.group.NewScalar().Add(z, lambdaSC)                    // d + rho*e + lambda*s*c

	return &SignatureShare{
		ID: share.ID,
		Z:  z,
	}, nil
}

// VerifySignatureShare checks z_i * G == (D_i + rho_i * E_i) + c * lambda_i * Y_i.
func (f *FROST) VerifySignatureShare(
	share *SignatureShare,
	verifyingShare group.Point,
	pkg *SigningPackage,
	groupKey group.Point,
	randomizer group.Scalar,
) error {
	sc := f.newSigningContext(groupKey, pkg, randomizer)
	return f.verifyShare(sc, share, verifyingShare, pkg)
}

func (f *FROST) verifyShare(sc *signingContext, share *SignatureShare, verifyingShare group.Point, pkg *SigningPackage) error {
	comm := pkg.commitment(share.ID)
	if comm == nil {
		return errors.New("frost: share from signer outside signing package")
	}
	lambda, err := f.lagrangeCoefficient(share.ID, pkg.Commitments)
	if err != nil {
		return err
	}

	lhs := group.BaseMult(f.group, share.Z)

	cLambda := f.group.NewScalar().Mul(sc.c, lambda)
	rhs := f.group.NewPoint().ScalarMult(cLambda, verifyingShare)
	rhs = f.group.NewPoint().Add(f.commitmentShare(comm, sc.bindingFactors), rhs)

	if !lhs.Equal(rhs) {
		return ErrInvalidSignatureShare
	}
	return nil
}

// Aggregate combines signature shares into a final signature. There must
// be exactly one share per commitment. If the result does not verify,
// each share is checked against its verifying share and the offenders
// are reported in an [*AggregationError].
func (f *FROST) Aggregate(
	pkg *SigningPackage,
	shares []*SignatureShare,
	pub *PublicKey,
	randomizer group.Scalar,
) (*Signature, error) {
	byID := make(map[string]*SignatureShare, len(shares))
	for _, s := range shares {
		if _, dup := byID[idKey(s.ID)]; dup {
			return nil, &AggregationError{Reason: "duplicate signature share"}
		}
		if pkg.commitment(s.ID) == nil {
			return nil, &AggregationError{Reason: "share from signer outside signing package"}
		}
		byID[idKey(s.ID)] = s
	}
	for _, comm := range pkg.Commitments {
		if _, ok := byID[idKey(comm.ID)]; !ok {
			return nil, &AggregationError{Reason: "missing signature share"}
		}
	}

	sc := f.newSigningContext(pub.GroupKey, pkg, randomizer)

	// Sum all z shares
	z := f.group.NewScalar()
	for _, s := range shares {
		z = f.group.NewScalar().Add(z, s.Z)
	}
	// z += c * alpha
	if randomizer != nil {
		cAlpha := f.group.NewScalar().Mul(sc.c, randomizer)
		z = f.group.NewScalar().Add(z, cAlpha)
	}

	sig := &Signature{R: sc.R, Z: z}
	if f.verifyWithChallenge(sig, sc.key, sc.c) {
		return sig, nil
	}

	var culprits []group.Scalar
	for _, comm := range pkg.Commitments {
		y, ok := pub.VerifyingShare(comm.ID)
		if !ok {
			return nil, &AggregationError{Reason: "unknown verifying share"}
		}
		if err := f.verifyShare(sc, byID[idKey(comm.ID)], y, pkg); err != nil {
			culprits = append(culprits, comm.ID)
		}
	}
	return nil, &AggregationError{Reason: "invalid signature share", Culprits: culprits}
}

// Verify checks a FROST signature. randomizer may be nil for plain FROST;
// otherwise the signature is checked against the randomized key.
func (f *FROST) Verify(message []byte, sig *Signature, groupKey group.Point, randomizer group.Scalar) bool {
	key := f.RandomizedKey(groupKey, randomizer)

	// c = H(R, Y', message)
	c := f.hasher.H2(f.group, sig.R.Bytes(), key.Bytes(), message)
	return f.verifyWithChallenge(sig, key, c)
}

func (f *FROST) verifyWithChallenge(sig *Signature, key group.Point, c group.Scalar) bool {
	// Check: z*G == R + c*Y
	lhs := group.BaseMult(f.group, sig.Z)

	cY := f.group.NewPoint().ScalarMult(c, key)
	rhs := f.group.NewPoint().Add(sig.R, cY)

	return lhs.Equal(rhs)
}

func (f *FROST) encodeCommitments(commitments []*SigningCommitment) []byte {
	var commBytes []byte
	for _, c := range commitments {
		commBytes = append(commBytes, c.ID.Bytes()...)
		commBytes = append(commBytes, c.HidingPoint.Bytes()...)
		commBytes = append(commBytes, c.BindingPoint.Bytes()...)
	}
	return commBytes
}

func (f *FROST) computeBindingFactors(key group.Point, pkg *SigningPackage) map[string]group.Scalar {
	factors := make(map[string]group.Scalar, len(pkg.Commitments))

	// Prefix binds the verifying key and the message digest
	prefix := append([]byte{}, key.Bytes()...)
	prefix = append(prefix, f.hasher.H4(f.group, pkg.Message)...)
	commHash := f.hasher.H5(f.group, f.encodeCommitments(pkg.Commitments))

	for _, c := range pkg.Commitments {
		factors[idKey(c.ID)] = f.hasher.H1(f.group, prefix, commHash, c.ID.Bytes())
	}

	return factors
}

func (f *FROST) lagrangeCoefficient(id group.Scalar, commitments []*SigningCommitment) (group.Scalar, error) {
	num := f.scalarFromInt(1)
	den := f.scalarFromInt(1)

	for _, c := range commitments {
		if c.ID.Equal(id) {
			continue
		}
		// num *= c.ID
		num = f.group.NewScalar().Mul(num, c.ID)
		// den *= (c.ID - id)
		diff := f.group.NewScalar().Sub(c.ID, id)
		den = f.group.NewScalar().Mul(den, diff)
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, errors.New("frost: duplicate signer identifiers")
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
