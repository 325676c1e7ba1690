package frost

import (
	"errors"
	"fmt"

	"github.com/f3rmion/frostcoord/group"
)

// FROST binds a group to the hash functions used for binding factors,
// challenges, nonces and randomizers.
type FROST struct {
	group  group.Group
	hasher Hasher
}

// KeyShare represents a participant's share of the secret key.
type KeyShare struct {
	ID         group.Scalar // participant identifier
	SecretKey  group.Scalar // secret key share
	PublicKey  group.Point  // public key share (verifying share)
	GroupKey   group.Point  // combined group public key
	MinSigners int          // threshold the share was dealt for
}

// Signature is a Schnorr signature.
type Signature struct {
	R group.Point
	Z group.Scalar
}

// Bytes returns the compact R || z encoding.
func (s *Signature) Bytes() []byte {
	out := append([]byte{}, s.R.Bytes()...)
	return append(out, s.Z.Bytes()...)
}

// DecodeSignature parses the R || z encoding produced by [Signature.Bytes].
func DecodeSignature(g group.Group, data []byte) (*Signature, error) {
	scalarLen := len(g.NewScalar().Bytes())
	if len(data) <= scalarLen {
		return nil, fmt.Errorf("frost: signature too short: %d bytes", len(data))
	}
	split := len(data) - scalarLen
	R, err := group.DecodePoint(g, data[:split])
	if err != nil {
		return nil, fmt.Errorf("frost: signature R: %w", err)
	}
	z, err := group.DecodeScalar(g, data[split:])
	if err != nil {
		return nil, fmt.Errorf("frost: signature z: %w", err)
	}
	return &Signature{R: R, Z: z}, nil
}

// New creates a FROST instance over g using the SHA-256 hasher.
func New(g group.Group) *FROST {
	return NewWithHasher(g, &SHA256Hasher{})
}

// NewWithHasher creates a FROST instance with a custom hash function.
// Use [NewBlake2bHasher] for Ledger/iden3 compatibility.
func NewWithHasher(g group.Group, h Hasher) *FROST {
	return &FROST{group: g, hasher: h}
}

// Group returns the group this instance operates over.
func (f *FROST) Group() group.Group {
	return f.group
}

// ValidateThreshold checks t-of-n parameters.
// threshold is the minimum number of signers required (t).
// total is the total number of participants (n).
func ValidateThreshold(threshold, total int) error {
	if threshold < 2 {
		return errors.New("frost: threshold must be at least 2")
	}
	if total < threshold {
		return errors.New("frost: total must be >= threshold")
	}
	return nil
}

// IdentifierFromInt returns the scalar identifier for a small positive integer.
func (f *FROST) IdentifierFromInt(n int) (group.Scalar, error) {
	if n < 1 {
		return nil, fmt.Errorf("frost: identifier must be positive, got %d", n)
	}
	return f.scalarFromInt(n), nil
}

// DeriveIdentifier hashes an arbitrary label to a non-zero identifier.
func (f *FROST) DeriveIdentifier(label []byte) (group.Scalar, error) {
	if len(label) == 0 {
		return nil, errors.New("frost: empty identifier label")
	}
	id := f.hasher.HID(f.group, label)
	if id.IsZero() {
		return nil, errors.New("frost: identifier derived to zero")
	}
	return id, nil
}

func (f *FROST) scalarFromInt(n int) group.Scalar {
	return f.group.NewScalar().SetUint64(uint64(n))
}

func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

func idKey(id group.Scalar) string {
	return string(id.Bytes())
}
