package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeEngine is a deterministic stand-in for a cryptographic engine. It
// performs no cryptography; payloads are tagged byte strings.
type fakeEngine struct {
	randomized    bool
	failBuild     error
	failRandomize error
	failAggregate error
	failShare     error
	onRandomizer  func()
	minShares     int

	mu         sync.Mutex
	counter    int
	signatures [][]byte
	calls      map[string]int
}

func newFakeEngine(randomized bool) *fakeEngine {
	return &fakeEngine{randomized: randomized, minShares: 2, calls: make(map[string]int)}
}

func (f *fakeEngine) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeEngine) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeEngine) IdentifierFromUint(n uint16) (Identifier, error) {
	if n == 0 {
		return Identifier{}, &EngineError{Kind: KindIdentifier, Detail: "zero", Err: ErrInvalidIdentifier}
	}
	return NewIdentifier([]byte{byte(n >> 8), byte(n)}), nil
}

func (f *fakeEngine) DeriveIdentifier(label string) (Identifier, error) {
	if label == "" {
		return Identifier{}, &EngineError{Kind: KindIdentifier, Detail: "empty label", Err: ErrInvalidIdentifier}
	}
	return NewIdentifier([]byte("L" + label)), nil
}

func (f *fakeEngine) ParseIdentifier(b []byte) (Identifier, error) {
	if len(b) != 2 || (b[0] == 0 && b[1] == 0) {
		return Identifier{}, &EngineError{Kind: KindIdentifier, Detail: "bad encoding", Err: ErrInvalidIdentifier}
	}
	return NewIdentifier(b), nil
}

func (f *fakeEngine) GenerateGroupKeys(ctx context.Context, cfg Configuration, ids []Identifier) (KeyGeneration, error) {
	f.record("GenerateGroupKeys")
	vs := make(map[Identifier]VerifyingShare, len(ids))
	ss := make(map[Identifier]SecretShare, len(ids))
	for _, id := range ids {
		vs[id] = NewVerifyingShare(append([]byte("vs:"), id.Bytes()...))
		ss[id] = NewSecretShare(id, append([]byte("share:"), id.Bytes()...))
	}
	return KeyGeneration{PublicKeyPackage: NewPublicKeyPackage([]byte("group-key"), vs), SecretShares: ss}, nil
}

func (f *fakeEngine) DeriveKeyPackage(ctx context.Context, share SecretShare) (KeyPackage, error) {
	f.record("DeriveKeyPackage")
	want := append([]byte("share:"), share.Identifier().Bytes()...)
	if !bytes.Equal(share.Bytes(), want) {
		return KeyPackage{}, errors.New("share does not verify")
	}
	return NewKeyPackage(share.Identifier(), append([]byte("kp:"), share.Identifier().Bytes()...)), nil
}

func (f *fakeEngine) GenerateCommitment(ctx context.Context, kp KeyPackage) (SigningCommitments, SigningNonces, error) {
	f.record("GenerateCommitment")
	f.mu.Lock()
	f.counter++
	n := f.counter
	f.mu.Unlock()
	id := kp.Identifier()
	return NewSigningCommitments(id, []byte(fmt.Sprintf("commit:%s:%d", id, n))),
		NewSigningNonces(id, []byte(fmt.Sprintf("nonce:%s:%d", id, n))), nil
}

func (f *fakeEngine) BuildSigningPackage(ctx context.Context, msg Message, commitments []SigningCommitments) (SigningPackage, error) {
	f.record("BuildSigningPackage")
	if f.failBuild != nil {
		return SigningPackage{}, f.failBuild
	}
	data := append([]byte("pkg:"), msg.Bytes()...)
	for _, c := range commitments {
		data = append(data, '|')
		data = append(data, c.Bytes()...)
	}
	return NewSigningPackage(data), nil
}

func (f *fakeEngine) DeriveRandomizedParams(ctx context.Context, pkp PublicKeyPackage, pkg SigningPackage) (RandomizedParams, error) {
	f.record("DeriveRandomizedParams")
	if f.failRandomize != nil {
		return RandomizedParams{}, f.failRandomize
	}
	return NewRandomizedParams(append([]byte("params:"), pkg.Bytes()...)), nil
}

func (f *fakeEngine) DeriveRandomizer(ctx context.Context, params RandomizedParams) (Randomizer, error) {
	f.record("DeriveRandomizer")
	if f.onRandomizer != nil {
		f.onRandomizer()
	}
	return NewRandomizer(append([]byte("alpha:"), params.Bytes()...)), nil
}

func (f *fakeEngine) ComputeSignatureShare(ctx context.Context, kp KeyPackage, nonces SigningNonces, pkg SigningPackage, randomizer *Randomizer) (SignatureShare, error) {
	f.record("ComputeSignatureShare")
	if f.failShare != nil {
		return SignatureShare{}, f.failShare
	}
	if f.randomized && randomizer == nil {
		return SignatureShare{}, errors.New("randomizer required")
	}
	return NewSignatureShare(kp.Identifier(), append([]byte("z:"), nonces.Bytes()...)), nil
}

func (f *fakeEngine) AggregateShares(ctx context.Context, pkg SigningPackage, shares []SignatureShare, pkp PublicKeyPackage, randomizer *Randomizer) (Signature, error) {
	f.record("AggregateShares")
	if f.failAggregate != nil {
		return Signature{}, f.failAggregate
	}
	if len(shares) < f.minShares {
		return Signature{}, fmt.Errorf("need %d shares, got %d", f.minShares, len(shares))
	}
	data := append([]byte("sig:"), pkg.Bytes()...)
	for _, s := range shares {
		data = append(data, s.Bytes()...)
	}
	f.mu.Lock()
	f.signatures = append(f.signatures, data)
	f.mu.Unlock()
	return NewSignature(data), nil
}

func (f *fakeEngine) VerifySignature(ctx context.Context, pkp PublicKeyPackage, msg Message, sig Signature, randomizer *Randomizer) error {
	f.record("VerifySignature")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.signatures {
		if bytes.Equal(s, sig.Bytes()) {
			return nil
		}
	}
	return errors.New("signature does not verify")
}

func (f *fakeEngine) Randomized() bool { return f.randomized }

var _ Engine = (*fakeEngine)(nil)
