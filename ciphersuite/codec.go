package ciphersuite

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/f3rmion/frostcoord/frost"
	"github.com/f3rmion/frostcoord/group"
	"github.com/f3rmion/frostcoord/session"
)

var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func marshal(v interface{}) []byte {
	data, err := encMode.Marshal(v)
	if err != nil {
		// Wire structs only hold byte slices and integers.
		panic(fmt.Sprintf("ciphersuite: marshal %T: %v", v, err))
	}
	return data
}

func unmarshal(data []byte, v interface{}) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("ciphersuite: decode %T: %w", v, err)
	}
	return nil
}

var errIdentifierMismatch = errors.New("ciphersuite: payload identifier does not match its owner")

type commitmentWire struct {
	_       struct{} `cbor:",toarray"`
	ID      []byte
	Hiding  []byte
	Binding []byte
}

type noncesWire struct {
	_ struct{} `cbor:",toarray"`
	D []byte
	E []byte
}

type packageWire struct {
	_           struct{} `cbor:",toarray"`
	Message     []byte
	Commitments []commitmentWire
}

type keyPackageWire struct {
	_              struct{} `cbor:",toarray"`
	ID             []byte
	Secret         []byte
	VerifyingShare []byte
	VerifyingKey   []byte
	MinSigners     uint16
}

type secretShareWire struct {
	_          struct{} `cbor:",toarray"`
	ID         []byte
	Secret     []byte
	Commitment [][]byte
}

type randomizedParamsWire struct {
	_             struct{} `cbor:",toarray"`
	Randomizer    []byte
	RandomizedKey []byte
}

func (e *Engine) decodeID(id session.Identifier) (group.Scalar, error) {
	s, err := group.DecodeScalar(e.group(), id.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ciphersuite: identifier %s: %w", id, err)
	}
	if s.IsZero() {
		return nil, fmt.Errorf("ciphersuite: identifier %s is zero", id)
	}
	return s, nil
}

func (e *Engine) encodeCommitment(c *frost.SigningCommitment) []byte {
	return marshal(&commitmentWire{
		ID:      c.ID.Bytes(),
		Hiding:  c.HidingPoint.Bytes(),
		Binding: c.BindingPoint.Bytes(),
	})
}

func (e *Engine) decodeCommitmentWire(w *commitmentWire) (*frost.SigningCommitment, error) {
	g := e.group()
	id, err := group.DecodeScalar(g, w.ID)
	if err != nil {
		return nil, err
	}
	hiding, err := group.DecodePoint(g, w.Hiding)
	if err != nil {
		return nil, err
	}
	binding, err := group.DecodePoint(g, w.Binding)
	if err != nil {
		return nil, err
	}
	return &frost.SigningCommitment{ID: id, HidingPoint: hiding, BindingPoint: binding}, nil
}

func (e *Engine) decodeCommitment(c session.SigningCommitments) (*frost.SigningCommitment, error) {
	var w commitmentWire
	if err := unmarshal(c.Bytes(), &w); err != nil {
		return nil, err
	}
	if !bytes.Equal(w.ID, c.Identifier().Bytes()) {
		return nil, errIdentifierMismatch
	}
	return e.decodeCommitmentWire(&w)
}

func (e *Engine) encodePackage(pkg *frost.SigningPackage) []byte {
	w := packageWire{
		Message:     pkg.Message,
		Commitments: make([]commitmentWire, len(pkg.Commitments)),
	}
	for i, c := range pkg.Commitments {
		w.Commitments[i] = commitmentWire{
			ID:      c.ID.Bytes(),
			Hiding:  c.HidingPoint.Bytes(),
			Binding: c.BindingPoint.Bytes(),
		}
	}
	return marshal(&w)
}

func (e *Engine) decodePackage(pkg session.SigningPackage) (*frost.SigningPackage, error) {
	var w packageWire
	if err := unmarshal(pkg.Bytes(), &w); err != nil {
		return nil, err
	}
	comms := make([]*frost.SigningCommitment, len(w.Commitments))
	for i := range w.Commitments {
		c, err := e.decodeCommitmentWire(&w.Commitments[i])
		if err != nil {
			return nil, fmt.Errorf("ciphersuite: signing package commitment %d: %w", i, err)
		}
		comms[i] = c
	}
	return e.frost.NewSigningPackage(w.Message, comms)
}

func (e *Engine) encodeKeyShare(ks *frost.KeyShare) []byte {
	return marshal(&keyPackageWire{
		ID:             ks.ID.Bytes(),
		Secret:         ks.SecretKey.Bytes(),
		VerifyingShare: ks.PublicKey.Bytes(),
		VerifyingKey:   ks.GroupKey.Bytes(),
		MinSigners:     uint16(ks.MinSigners),
	})
}

func (e *Engine) decodeKeyPackage(kp session.KeyPackage) (*frost.KeyShare, error) {
	var w keyPackageWire
	if err := unmarshal(kp.Bytes(), &w); err != nil {
		return nil, err
	}
	if !bytes.Equal(w.ID, kp.Identifier().Bytes()) {
		return nil, errIdentifierMismatch
	}
	g := e.group()
	id, err := e.decodeID(kp.Identifier())
	if err != nil {
		return nil, err
	}
	secret, err := group.DecodeScalar(g, w.Secret)
	if err != nil {
		return nil, err
	}
	share, err := group.DecodePoint(g, w.VerifyingShare)
	if err != nil {
		return nil, err
	}
	key, err := group.DecodePoint(g, w.VerifyingKey)
	if err != nil {
		return nil, err
	}
	return &frost.KeyShare{
		ID:         id,
		SecretKey:  secret,
		PublicKey:  share,
		GroupKey:   key,
		MinSigners: int(w.MinSigners),
	}, nil
}

func (e *Engine) encodeSecretShare(s *frost.SecretShare) []byte {
	w := secretShareWire{
		ID:         s.ID.Bytes(),
		Secret:     s.Value.Bytes(),
		Commitment: make([][]byte, len(s.Commitment)),
	}
	for i, c := range s.Commitment {
		w.Commitment[i] = c.Bytes()
	}
	return marshal(&w)
}

func (e *Engine) decodeSecretShare(s session.SecretShare) (*frost.SecretShare, error) {
	var w secretShareWire
	if err := unmarshal(s.Bytes(), &w); err != nil {
		return nil, err
	}
	if !bytes.Equal(w.ID, s.Identifier().Bytes()) {
		return nil, errIdentifierMismatch
	}
	g := e.group()
	id, err := e.decodeID(s.Identifier())
	if err != nil {
		return nil, err
	}
	value, err := group.DecodeScalar(g, w.Secret)
	if err != nil {
		return nil, err
	}
	commitment := make([]group.Point, len(w.Commitment))
	for i, c := range w.Commitment {
		p, err := group.DecodePoint(g, c)
		if err != nil {
			return nil, fmt.Errorf("ciphersuite: share commitment %d: %w", i, err)
		}
		commitment[i] = p
	}
	return &frost.SecretShare{ID: id, Value: value, Commitment: commitment}, nil
}

func (e *Engine) decodeNonces(n session.SigningNonces, id group.Scalar) (*frost.SigningNonce, error) {
	var w noncesWire
	if err := unmarshal(n.Bytes(), &w); err != nil {
		return nil, err
	}
	g := e.group()
	d, err := group.DecodeScalar(g, w.D)
	if err != nil {
		return nil, err
	}
	en, err := group.DecodeScalar(g, w.E)
	if err != nil {
		return nil, err
	}
	return &frost.SigningNonce{ID: id, D: d, E: en}, nil
}

// decodeRandomizer returns nil for a nil randomizer.
func (e *Engine) decodeRandomizer(r *session.Randomizer) (group.Scalar, error) {
	if r == nil {
		if e.randomized {
			return nil, errors.New("ciphersuite: randomizer required")
		}
		return nil, nil
	}
	alpha, err := group.DecodeScalar(e.group(), r.Bytes())
	if err != nil {
		return nil, fmt.Errorf("ciphersuite: randomizer: %w", err)
	}
	if alpha.IsZero() {
		return nil, errors.New("ciphersuite: zero randomizer")
	}
	return alpha, nil
}

func (e *Engine) decodePublicKey(pkp session.PublicKeyPackage) (*frost.PublicKey, error) {
	g := e.group()
	key, err := group.DecodePoint(g, pkp.VerifyingKey())
	if err != nil {
		return nil, fmt.Errorf("ciphersuite: verifying key: %w", err)
	}
	shares := make(map[string]group.Point, pkp.Len())
	for _, id := range pkp.Participants() {
		vs, _ := pkp.VerifyingShare(id)
		p, err := group.DecodePoint(g, vs.Bytes())
		if err != nil {
			return nil, fmt.Errorf("ciphersuite: verifying share of %s: %w", id, err)
		}
		shares[string(id.Bytes())] = p
	}
	return &frost.PublicKey{GroupKey: key, VerifyingShares: shares}, nil
}
