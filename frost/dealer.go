package frost

import (
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/frostcoord/group"
)

// SecretShare is what a trusted dealer hands to one participant: the
// polynomial evaluation at the participant's identifier together with the
// Feldman commitment to the whole polynomial, so the share can be checked.
type SecretShare struct {
	ID         group.Scalar
	Value      group.Scalar
	Commitment []group.Point // commitments to polynomial coefficients
}

// DealerOutput is the result of trusted-dealer key generation.
type DealerOutput struct {
	GroupKey        group.Point
	Commitment      []group.Point
	Shares          []*SecretShare
	VerifyingShares map[string]group.Point // keyed by identifier bytes
}

// ErrInvalidShare is returned when a secret share does not match its
// commitment.
var ErrInvalidShare = errors.New("frost: secret share does not match commitment")

// Deal splits secret into shares for ids with a degree threshold-1
// polynomial. A nil secret is sampled from r.
func (f *FROST) Deal(r io.Reader, secret group.Scalar, threshold int, ids []group.Scalar) (*DealerOutput, error) {
	if err := ValidateThreshold(threshold, len(ids)); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			return nil, errors.New("frost: zero identifier")
		}
		if _, dup := seen[idKey(id)]; dup {
			return nil, errors.New("frost: duplicate identifier")
		}
		seen[idKey(id)] = struct{}{}
	}

	coeffs := make([]group.Scalar, threshold)
	if secret != nil {
		if secret.IsZero() {
			return nil, errors.New("frost: dealer secret is zero")
		}
		coeffs[0] = f.group.NewScalar().Set(secret)
	} else {
		s, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, fmt.Errorf("frost: sample secret: %w", err)
		}
		coeffs[0] = s
	}
	for i := 1; i < threshold; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, fmt.Errorf("frost: sample coefficient: %w", err)
		}
		coeffs[i] = c
	}

	// C_i = coeffs[i] * G
	commitment := make([]group.Point, threshold)
	for i, c := range coeffs {
		commitment[i] = group.BaseMult(f.group, c)
	}

	out := &DealerOutput{
		GroupKey:        commitment[0],
		Commitment:      commitment,
		Shares:          make([]*SecretShare, len(ids)),
		VerifyingShares: make(map[string]group.Point, len(ids)),
	}
	for i, id := range ids {
		value := f.evalPolynomial(coeffs, id)
		out.Shares[i] = &SecretShare{ID: id, Value: value, Commitment: commitment}
		out.VerifyingShares[idKey(id)] = group.BaseMult(f.group, value)
	}
	return out, nil
}

// VerifySecretShare checks a dealt share against its commitment and turns
// it into a [KeyShare].
func (f *FROST) VerifySecretShare(share *SecretShare) (*KeyShare, error) {
	if len(share.Commitment) < 2 {
		return nil, errors.New("frost: commitment shorter than minimum threshold")
	}
	if share.ID.IsZero() {
		return nil, errors.New("frost: zero identifier")
	}

	// Verify: share * G == sum(commitment[i] * id^i)
	lhs := group.BaseMult(f.group, share.Value)

	rhs := f.group.NewPoint()
	xPower := f.scalarFromInt(1)
	for _, commit := range share.Commitment {
		term := f.group.NewPoint().ScalarMult(xPower, commit)
		rhs = f.group.NewPoint().Add(rhs, term)
		xPower = f.group.NewScalar().Mul(xPower, share.ID)
	}

	if !lhs.Equal(rhs) {
		return nil, ErrInvalidShare
	}

	return &KeyShare{
		ID:         share.ID,
		SecretKey:  share.Value,
		PublicKey:  lhs,
		GroupKey:   share.Commitment[0],
		MinSigners: len(share.Commitment),
	}, nil
}
