package frost

import (
	"errors"

	"github.com/f3rmion/frostcoord/group"
)

// DeriveRandomizer deterministically derives the re-randomization scalar
// alpha for a signing package. Every party holding the same group key and
// package derives the same alpha.
func (f *FROST) DeriveRandomizer(groupKey group.Point, pkg *SigningPackage) (group.Scalar, error) {
	alpha := f.hasher.H6(f.group, groupKey.Bytes(), f.EncodeSigningPackage(pkg))
	if alpha.IsZero() {
		return nil, errors.New("frost: randomizer derived to zero")
	}
	return alpha, nil
}

// RandomizedKey returns Y + alpha*G, or Y itself when alpha is nil.
func (f *FROST) RandomizedKey(groupKey group.Point, alpha group.Scalar) group.Point {
	if alpha == nil {
		return groupKey
	}
	return f.group.NewPoint().Add(groupKey, group.BaseMult(f.group, alpha))
}

// EncodeSigningPackage is the byte string the randomizer is bound to: the
// message digest followed by the sorted commitment list.
func (f *FROST) EncodeSigningPackage(pkg *SigningPackage) []byte {
	out := append([]byte{}, f.hasher.H4(f.group, pkg.Message)...)
	return append(out, f.encodeCommitments(pkg.Commitments)...)
}
