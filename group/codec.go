package group

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrNonCanonical is returned when an encoding decodes to a value whose
// canonical encoding differs from the input.
var ErrNonCanonical = errors.New("group: non-canonical encoding")

// DecodeScalar strictly decodes a scalar produced by [Scalar.Bytes].
// Encodings of the wrong length or values not reduced modulo the group
// order are rejected.
func DecodeScalar(g Group, data []byte) (Scalar, error) {
	s, err := g.NewScalar().SetBytes(data)
	if err != nil {
		return nil, fmt.Errorf("group: decode scalar: %w", err)
	}
	if !bytes.Equal(s.Bytes(), data) {
		return nil, ErrNonCanonical
	}
	return s, nil
}

// DecodePoint strictly decodes a point produced by [Point.Bytes].
func DecodePoint(g Group, data []byte) (Point, error) {
	p, err := g.NewPoint().SetBytes(data)
	if err != nil {
		return nil, fmt.Errorf("group: decode point: %w", err)
	}
	if !bytes.Equal(p.Bytes(), data) {
		return nil, ErrNonCanonical
	}
	return p, nil
}

// BaseMult returns s*G for the group generator G.
func BaseMult(g Group, s Scalar) Point {
	return g.NewPoint().ScalarMult(s, g.Generator())
}
