package ciphersuite

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/frostcoord/bjj"
	"github.com/f3rmion/frostcoord/ed25519"
	"github.com/f3rmion/frostcoord/frost"
	"github.com/f3rmion/frostcoord/group"
	"github.com/f3rmion/frostcoord/secp256k1"
	"github.com/f3rmion/frostcoord/session"
)

// Suite pairs a group with the hash functions used over it.
type Suite struct {
	Name   string
	Group  group.Group
	Hasher frost.Hasher
}

var (
	// BabyJubjubBlake2b is compatible with Ledger/iden3 FROST implementations.
	BabyJubjubBlake2b = Suite{Name: "FROST-BABYJUBJUB-BLAKE2B-512", Group: &bjj.BJJ{}, Hasher: frost.NewBlake2bHasher()}
	// BabyJubjubSHA256 uses Baby Jubjub with the default SHA-256 hasher.
	BabyJubjubSHA256 = Suite{Name: "FROST-BABYJUBJUB-SHA256", Group: &bjj.BJJ{}, Hasher: &frost.SHA256Hasher{}}
	// Secp256k1Blake3 uses secp256k1 with BLAKE3.
	Secp256k1Blake3 = Suite{Name: "FROST-SECP256K1-BLAKE3", Group: &secp256k1.Secp256k1{}, Hasher: frost.NewBlake3Hasher()}
	// Ed25519SHA256 uses the edwards25519 prime-order subgroup with SHA-256.
	Ed25519SHA256 = Suite{Name: "FROST-ED25519-SHA256", Group: &ed25519.Ed25519{}, Hasher: &frost.SHA256Hasher{}}
)

// Suites returns all predefined suites.
func Suites() []Suite {
	return []Suite{BabyJubjubBlake2b, BabyJubjubSHA256, Secp256k1Blake3, Ed25519SHA256}
}

// Option configures an [Engine].
type Option func(*Engine)

// WithoutRerandomization produces plain FROST signatures that verify under
// the group key itself.
func WithoutRerandomization() Option {
	return func(e *Engine) { e.randomized = false }
}

// WithRandomness sets the entropy source for key generation and nonces.
// Defaults to crypto/rand.
func WithRandomness(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// Engine implements [session.Engine] over a [Suite]. Payloads are CBOR
// encoded; signatures use the compact R || z encoding. Engine is safe for
// concurrent use as long as its randomness source is.
type Engine struct {
	suite      Suite
	frost      *frost.FROST
	randomized bool
	rand       io.Reader
}

var _ session.Engine = (*Engine)(nil)

// New creates an engine for suite. Signing is re-randomized unless
// [WithoutRerandomization] is given.
func New(suite Suite, opts ...Option) *Engine {
	e := &Engine{
		suite:      suite,
		frost:      frost.NewWithHasher(suite.Group, suite.Hasher),
		randomized: true,
		rand:       rand.Reader,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Suite returns the engine's suite.
func (e *Engine) Suite() Suite { return e.suite }

func (e *Engine) group() group.Group { return e.suite.Group }

// Randomized implements [session.Engine].
func (e *Engine) Randomized() bool { return e.randomized }

func identifierError(err error) error {
	return &session.EngineError{
		Kind:   session.KindIdentifier,
		Detail: err.Error(),
		Err:    fmt.Errorf("%w: %v", session.ErrInvalidIdentifier, err),
	}
}

// IdentifierFromUint implements [session.Engine].
func (e *Engine) IdentifierFromUint(n uint16) (session.Identifier, error) {
	s, err := e.frost.IdentifierFromInt(int(n))
	if err != nil {
		return session.Identifier{}, identifierError(err)
	}
	return session.NewIdentifier(s.Bytes()), nil
}

// DeriveIdentifier implements [session.Engine].
func (e *Engine) DeriveIdentifier(label string) (session.Identifier, error) {
	s, err := e.frost.DeriveIdentifier([]byte(label))
	if err != nil {
		return session.Identifier{}, identifierError(err)
	}
	return session.NewIdentifier(s.Bytes()), nil
}

// ParseIdentifier implements [session.Engine].
func (e *Engine) ParseIdentifier(canonical []byte) (session.Identifier, error) {
	id := session.NewIdentifier(canonical)
	if _, err := e.decodeID(id); err != nil {
		return session.Identifier{}, identifierError(err)
	}
	return id, nil
}

// GenerateGroupKeys implements [session.Engine] with a trusted dealer.
func (e *Engine) GenerateGroupKeys(ctx context.Context, cfg session.Configuration, ids []session.Identifier) (session.KeyGeneration, error) {
	scalars := make([]group.Scalar, len(ids))
	for i, id := range ids {
		s, err := e.decodeID(id)
		if err != nil {
			return session.KeyGeneration{}, identifierError(err)
		}
		scalars[i] = s
	}

	var secret group.Scalar
	if raw, ok := cfg.Secret(); ok {
		s, err := group.DecodeScalar(e.group(), raw)
		if err != nil {
			return session.KeyGeneration{}, fmt.Errorf("ciphersuite: dealer secret: %w", err)
		}
		secret = s
	}

	out, err := e.frost.Deal(e.rand, secret, int(cfg.MinSigners()), scalars)
	if err != nil {
		return session.KeyGeneration{}, err
	}

	verifyingShares := make(map[session.Identifier]session.VerifyingShare, len(ids))
	secretShares := make(map[session.Identifier]session.SecretShare, len(ids))
	for _, s := range out.Shares {
		id := session.NewIdentifier(s.ID.Bytes())
		verifyingShares[id] = session.NewVerifyingShare(out.VerifyingShares[string(s.ID.Bytes())].Bytes())
		secretShares[id] = session.NewSecretShare(id, e.encodeSecretShare(s))
	}
	return session.KeyGeneration{
		PublicKeyPackage: session.NewPublicKeyPackage(out.GroupKey.Bytes(), verifyingShares),
		SecretShares:     secretShares,
	}, nil
}

// DeriveKeyPackage implements [session.Engine]. The share is checked
// against the dealer's commitment.
func (e *Engine) DeriveKeyPackage(ctx context.Context, share session.SecretShare) (session.KeyPackage, error) {
	s, err := e.decodeSecretShare(share)
	if err != nil {
		return session.KeyPackage{}, err
	}
	ks, err := e.frost.VerifySecretShare(s)
	if err != nil {
		return session.KeyPackage{}, err
	}
	return session.NewKeyPackage(share.Identifier(), e.encodeKeyShare(ks)), nil
}

// GenerateCommitment implements [session.Engine].
func (e *Engine) GenerateCommitment(ctx context.Context, kp session.KeyPackage) (session.SigningCommitments, session.SigningNonces, error) {
	ks, err := e.decodeKeyPackage(kp)
	if err != nil {
		return session.SigningCommitments{}, session.SigningNonces{}, err
	}
	nonce, commitment, err := e.frost.SignRound1(e.rand, ks)
	if err != nil {
		return session.SigningCommitments{}, session.SigningNonces{}, err
	}
	id := kp.Identifier()
	nonces := marshal(&noncesWire{D: nonce.D.Bytes(), E: nonce.E.Bytes()})
	return session.NewSigningCommitments(id, e.encodeCommitment(commitment)),
		session.NewSigningNonces(id, nonces), nil
}

// BuildSigningPackage implements [session.Engine].
func (e *Engine) BuildSigningPackage(ctx context.Context, msg session.Message, commitments []session.SigningCommitments) (session.SigningPackage, error) {
	comms := make([]*frost.SigningCommitment, len(commitments))
	for i, c := range commitments {
		fc, err := e.decodeCommitment(c)
		if err != nil {
			return session.SigningPackage{}, fmt.Errorf("ciphersuite: commitment from %s: %w", c.Identifier(), err)
		}
		comms[i] = fc
	}
	pkg, err := e.frost.NewSigningPackage(msg.Bytes(), comms)
	if err != nil {
		return session.SigningPackage{}, err
	}
	return session.NewSigningPackage(e.encodePackage(pkg)), nil
}

// DeriveRandomizedParams implements [session.Engine].
func (e *Engine) DeriveRandomizedParams(ctx context.Context, pkp session.PublicKeyPackage, pkg session.SigningPackage) (session.RandomizedParams, error) {
	key, err := group.DecodePoint(e.group(), pkp.VerifyingKey())
	if err != nil {
		return session.RandomizedParams{}, fmt.Errorf("ciphersuite: verifying key: %w", err)
	}
	fp, err := e.decodePackage(pkg)
	if err != nil {
		return session.RandomizedParams{}, err
	}
	alpha, err := e.frost.DeriveRandomizer(key, fp)
	if err != nil {
		return session.RandomizedParams{}, err
	}
	return session.NewRandomizedParams(marshal(&randomizedParamsWire{
		Randomizer:    alpha.Bytes(),
		RandomizedKey: e.frost.RandomizedKey(key, alpha).Bytes(),
	})), nil
}

// DeriveRandomizer implements [session.Engine].
func (e *Engine) DeriveRandomizer(ctx context.Context, params session.RandomizedParams) (session.Randomizer, error) {
	var w randomizedParamsWire
	if err := unmarshal(params.Bytes(), &w); err != nil {
		return session.Randomizer{}, err
	}
	r := session.NewRandomizer(w.Randomizer)
	if _, err := e.decodeRandomizer(&r); err != nil {
		return session.Randomizer{}, err
	}
	return r, nil
}

// ComputeSignatureShare implements [session.Engine].
func (e *Engine) ComputeSignatureShare(
	ctx context.Context,
	kp session.KeyPackage,
	nonces session.SigningNonces,
	pkg session.SigningPackage,
	randomizer *session.Randomizer,
) (session.SignatureShare, error) {
	if nonces.Identifier() != kp.Identifier() {
		return session.SignatureShare{}, errIdentifierMismatch
	}
	ks, err := e.decodeKeyPackage(kp)
	if err != nil {
		return session.SignatureShare{}, err
	}
	nonce, err := e.decodeNonces(nonces, ks.ID)
	if err != nil {
		return session.SignatureShare{}, err
	}
	fp, err := e.decodePackage(pkg)
	if err != nil {
		return session.SignatureShare{}, err
	}
	alpha, err := e.decodeRandomizer(randomizer)
	if err != nil {
		return session.SignatureShare{}, err
	}
	share, err := e.frost.SignRound2(ks, nonce, fp, alpha)
	if err != nil {
		return session.SignatureShare{}, err
	}
	return session.NewSignatureShare(kp.Identifier(), share.Z.Bytes()), nil
}

// AggregateShares implements [session.Engine]. When the aggregate does not
// verify, the failing signers are reported as culprits.
func (e *Engine) AggregateShares(
	ctx context.Context,
	pkg session.SigningPackage,
	shares []session.SignatureShare,
	pkp session.PublicKeyPackage,
	randomizer *session.Randomizer,
) (session.Signature, error) {
	fp, err := e.decodePackage(pkg)
	if err != nil {
		return session.Signature{}, err
	}
	pub, err := e.decodePublicKey(pkp)
	if err != nil {
		return session.Signature{}, err
	}
	alpha, err := e.decodeRandomizer(randomizer)
	if err != nil {
		return session.Signature{}, err
	}
	fs := make([]*frost.SignatureShare, len(shares))
	for i, s := range shares {
		id, err := e.decodeID(s.Identifier())
		if err != nil {
			return session.Signature{}, err
		}
		z, err := group.DecodeScalar(e.group(), s.Bytes())
		if err != nil {
			return session.Signature{}, fmt.Errorf("ciphersuite: share from %s: %w", s.Identifier(), err)
		}
		fs[i] = &frost.SignatureShare{ID: id, Z: z}
	}

	sig, err := e.frost.Aggregate(fp, fs, pub, alpha)
	if err != nil {
		var aggErr *frost.AggregationError
		if errors.As(err, &aggErr) && len(aggErr.Culprits) > 0 {
			culprits := make([]session.Identifier, len(aggErr.Culprits))
			for i, c := range aggErr.Culprits {
				culprits[i] = session.NewIdentifier(c.Bytes())
			}
			return session.Signature{}, &session.EngineError{
				Kind:     session.KindAggregation,
				Detail:   aggErr.Reason,
				Culprits: culprits,
				Err:      err,
			}
		}
		return session.Signature{}, err
	}
	return session.NewSignature(sig.Bytes()), nil
}

// VerifySignature implements [session.Engine].
func (e *Engine) VerifySignature(
	ctx context.Context,
	pkp session.PublicKeyPackage,
	msg session.Message,
	sig session.Signature,
	randomizer *session.Randomizer,
) error {
	key, err := group.DecodePoint(e.group(), pkp.VerifyingKey())
	if err != nil {
		return fmt.Errorf("ciphersuite: verifying key: %w", err)
	}
	fsig, err := frost.DecodeSignature(e.group(), sig.Bytes())
	if err != nil {
		return err
	}
	alpha, err := e.decodeRandomizer(randomizer)
	if err != nil {
		return err
	}
	if !e.frost.Verify(msg.Bytes(), fsig, key, alpha) {
		return ErrInvalidSignature
	}
	return nil
}

// ErrInvalidSignature is returned by VerifySignature for a well-formed
// signature that does not verify.
var ErrInvalidSignature = errors.New("ciphersuite: invalid signature")
