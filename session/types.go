package session

import (
	"bytes"
	"encoding/hex"
	"sort"
)

// Identifier is an opaque participant handle. Two identifiers are equal iff
// their canonical encodings are equal, so Identifier can be used directly as
// a map key. Use the constructors on [Engine] to build validated identifiers.
type Identifier struct {
	enc string
}

// NewIdentifier wraps an already-canonical encoding. It performs no
// validation and is meant for [Engine] implementations.
func NewIdentifier(canonical []byte) Identifier {
	return Identifier{enc: string(canonical)}
}

// Bytes returns the canonical encoding.
func (id Identifier) Bytes() []byte {
	return []byte(id.enc)
}

// IsZero reports whether id is the zero value (not a constructed identifier).
func (id Identifier) IsZero() bool {
	return id.enc == ""
}

// Less orders identifiers by their canonical encoding.
func (id Identifier) Less(other Identifier) bool {
	return id.enc < other.enc
}

func (id Identifier) String() string {
	return hex.EncodeToString([]byte(id.enc))
}

func sortIdentifiers(ids []Identifier) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

const redacted = "[REDACTED]"

// VerifyingShare is a participant's public key share.
type VerifyingShare struct {
	data []byte
}

// NewVerifyingShare wraps an engine-encoded verifying share.
func NewVerifyingShare(data []byte) VerifyingShare {
	return VerifyingShare{data: clone(data)}
}

// Bytes returns a copy of the encoding.
func (v VerifyingShare) Bytes() []byte { return clone(v.data) }

// PublicKeyPackage is the public key material of a signing group: the
// group verifying key and one verifying share per participant. It is
// read-only and safe to share between goroutines.
type PublicKeyPackage struct {
	verifyingKey []byte
	shares       map[Identifier]VerifyingShare
}

// NewPublicKeyPackage builds a package from engine-encoded values.
func NewPublicKeyPackage(verifyingKey []byte, shares map[Identifier]VerifyingShare) PublicKeyPackage {
	m := make(map[Identifier]VerifyingShare, len(shares))
	for id, s := range shares {
		m[id] = s
	}
	return PublicKeyPackage{verifyingKey: clone(verifyingKey), shares: m}
}

// VerifyingKey returns the group verifying key encoding.
func (p PublicKeyPackage) VerifyingKey() []byte { return clone(p.verifyingKey) }

// VerifyingShare returns the verifying share of id.
func (p PublicKeyPackage) VerifyingShare(id Identifier) (VerifyingShare, bool) {
	s, ok := p.shares[id]
	return s, ok
}

// Contains reports whether id belongs to the group.
func (p PublicKeyPackage) Contains(id Identifier) bool {
	_, ok := p.shares[id]
	return ok
}

// Participants returns the group's identifiers in canonical order.
func (p PublicKeyPackage) Participants() []Identifier {
	ids := make([]Identifier, 0, len(p.shares))
	for id := range p.shares {
		ids = append(ids, id)
	}
	sortIdentifiers(ids)
	return ids
}

// Len returns the number of participants.
func (p PublicKeyPackage) Len() int { return len(p.shares) }

// SecretShare is the share a trusted dealer hands to one participant.
// It must never be logged or sent anywhere but to its owner.
type SecretShare struct {
	id   Identifier
	data []byte
}

// NewSecretShare wraps an engine-encoded secret share.
func NewSecretShare(id Identifier, data []byte) SecretShare {
	return SecretShare{id: id, data: clone(data)}
}

// Identifier returns the owner of the share.
func (s SecretShare) Identifier() Identifier { return s.id }

// Bytes returns a copy of the encoding.
func (s SecretShare) Bytes() []byte { return clone(s.data) }

func (s SecretShare) String() string   { return "SecretShare{" + s.id.String() + ", " + redacted + "}" }
func (s SecretShare) GoString() string { return s.String() }

// KeyPackage is a participant's verified signing key.
type KeyPackage struct {
	id   Identifier
	data []byte
}

// NewKeyPackage wraps an engine-encoded key package.
func NewKeyPackage(id Identifier, data []byte) KeyPackage {
	return KeyPackage{id: id, data: clone(data)}
}

// Identifier returns the owner of the key package.
func (k KeyPackage) Identifier() Identifier { return k.id }

// Bytes returns a copy of the encoding.
func (k KeyPackage) Bytes() []byte { return clone(k.data) }

func (k KeyPackage) String() string   { return "KeyPackage{" + k.id.String() + ", " + redacted + "}" }
func (k KeyPackage) GoString() string { return k.String() }

// KeyGeneration is the output of trusted-dealer key generation.
type KeyGeneration struct {
	PublicKeyPackage PublicKeyPackage
	SecretShares     map[Identifier]SecretShare
}

// Message is the payload being signed.
type Message struct {
	data []byte
}

// NewMessage copies b into a Message.
func NewMessage(b []byte) Message { return Message{data: clone(b)} }

// Bytes returns a copy of the message.
func (m Message) Bytes() []byte { return clone(m.data) }

// SigningCommitments is a participant's round-1 contribution.
type SigningCommitments struct {
	id   Identifier
	data []byte
}

// NewSigningCommitments wraps an engine-encoded commitment.
func NewSigningCommitments(id Identifier, data []byte) SigningCommitments {
	return SigningCommitments{id: id, data: clone(data)}
}

// Identifier returns the committing participant.
func (c SigningCommitments) Identifier() Identifier { return c.id }

// Bytes returns a copy of the encoding.
func (c SigningCommitments) Bytes() []byte { return clone(c.data) }

// Equal compares identifier and encoding.
func (c SigningCommitments) Equal(other SigningCommitments) bool {
	return c.id == other.id && bytes.Equal(c.data, other.data)
}

// SigningNonces are the secret nonces behind a [SigningCommitments]. They
// are used for exactly one signature share.
type SigningNonces struct {
	id   Identifier
	data []byte
}

// NewSigningNonces wraps engine-encoded nonces.
func NewSigningNonces(id Identifier, data []byte) SigningNonces {
	return SigningNonces{id: id, data: clone(data)}
}

// Identifier returns the owning participant.
func (n SigningNonces) Identifier() Identifier { return n.id }

// Bytes returns a copy of the encoding.
func (n SigningNonces) Bytes() []byte { return clone(n.data) }

func (n SigningNonces) String() string   { return "SigningNonces{" + n.id.String() + ", " + redacted + "}" }
func (n SigningNonces) GoString() string { return n.String() }

// SigningPackage is the message together with the frozen commitment set.
type SigningPackage struct {
	data []byte
}

// NewSigningPackage wraps an engine-encoded signing package.
func NewSigningPackage(data []byte) SigningPackage { return SigningPackage{data: clone(data)} }

// Bytes returns a copy of the encoding.
func (p SigningPackage) Bytes() []byte { return clone(p.data) }

// Equal compares canonical encodings.
func (p SigningPackage) Equal(other SigningPackage) bool { return bytes.Equal(p.data, other.data) }

// RandomizedParams is the re-randomization material derived from a group
// key and a signing package.
type RandomizedParams struct {
	data []byte
}

// NewRandomizedParams wraps engine-encoded randomized parameters.
func NewRandomizedParams(data []byte) RandomizedParams { return RandomizedParams{data: clone(data)} }

// Bytes returns a copy of the encoding.
func (p RandomizedParams) Bytes() []byte { return clone(p.data) }

// Randomizer blinds the group key for one session.
type Randomizer struct {
	data []byte
}

// NewRandomizer wraps an engine-encoded randomizer.
func NewRandomizer(data []byte) Randomizer { return Randomizer{data: clone(data)} }

// Bytes returns a copy of the encoding.
func (r Randomizer) Bytes() []byte { return clone(r.data) }

// Equal compares canonical encodings.
func (r Randomizer) Equal(other Randomizer) bool { return bytes.Equal(r.data, other.data) }

// Round2Configuration is what participants need for round 2: the signing
// package and, for randomized schemes, the randomizer.
type Round2Configuration struct {
	signingPackage SigningPackage
	randomizer     *Randomizer
}

// NewRound2Configuration bundles a package with an optional randomizer.
func NewRound2Configuration(pkg SigningPackage, randomizer *Randomizer) Round2Configuration {
	cfg := Round2Configuration{signingPackage: pkg}
	if randomizer != nil {
		r := *randomizer
		cfg.randomizer = &r
	}
	return cfg
}

// SigningPackage returns the signing package.
func (c Round2Configuration) SigningPackage() SigningPackage { return c.signingPackage }

// Randomizer returns the randomizer, if the scheme is randomized.
func (c Round2Configuration) Randomizer() (Randomizer, bool) {
	if c.randomizer == nil {
		return Randomizer{}, false
	}
	return *c.randomizer, true
}

// Equal compares package and randomizer.
func (c Round2Configuration) Equal(other Round2Configuration) bool {
	if !c.signingPackage.Equal(other.signingPackage) {
		return false
	}
	if (c.randomizer == nil) != (other.randomizer == nil) {
		return false
	}
	return c.randomizer == nil || c.randomizer.Equal(*other.randomizer)
}

// SignatureShare is a participant's round-2 contribution.
type SignatureShare struct {
	id   Identifier
	data []byte
}

// NewSignatureShare wraps an engine-encoded signature share.
func NewSignatureShare(id Identifier, data []byte) SignatureShare {
	return SignatureShare{id: id, data: clone(data)}
}

// Identifier returns the signing participant.
func (s SignatureShare) Identifier() Identifier { return s.id }

// Bytes returns a copy of the encoding.
func (s SignatureShare) Bytes() []byte { return clone(s.data) }

// Equal compares identifier and encoding.
func (s SignatureShare) Equal(other SignatureShare) bool {
	return s.id == other.id && bytes.Equal(s.data, other.data)
}

// Signature is the final aggregated signature.
type Signature struct {
	data []byte
}

// NewSignature wraps an engine-encoded signature.
func NewSignature(data []byte) Signature { return Signature{data: clone(data)} }

// Bytes returns a copy of the encoding.
func (s Signature) Bytes() []byte { return clone(s.data) }

// IsZero reports whether s is the zero value.
func (s Signature) IsZero() bool { return len(s.data) == 0 }

// Equal compares canonical encodings.
func (s Signature) Equal(other Signature) bool { return bytes.Equal(s.data, other.data) }
