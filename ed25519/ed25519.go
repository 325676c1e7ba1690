package ed25519

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/drand/kyber"
	"github.com/drand/kyber/group/edwards25519"
	"github.com/f3rmion/frostcoord/group"
)

// Name is the group name reported by [Ed25519.Name].
const Name = "edwards25519"

var suite = edwards25519.NewBlakeSHA256Ed25519()

// primeOrder is l = 2^252 + 27742317777372353535851937790883648493.
var primeOrder, _ = new(big.Int).SetString(
	"7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// Scalar wraps a kyber edwards25519 scalar. Encodings are 32-byte
// little-endian, as in RFC 8032.
type Scalar struct {
	inner kyber.Scalar
}

func newScalar() *Scalar {
	return &Scalar{inner: suite.Scalar().Zero()}
}

func castScalar(generic group.Scalar) *Scalar {
	out, ok := generic.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("ed25519: unexpected scalar type %T", generic))
	}
	return out
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(castScalar(a).inner, castScalar(b).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(castScalar(a).inner, castScalar(b).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(castScalar(a).inner, castScalar(b).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(castScalar(a).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := castScalar(a)
	if aScalar.IsZero() {
		return nil, errors.New("ed25519: cannot invert zero scalar")
	}
	s.inner.Inv(aScalar.inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(castScalar(a).inner)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	le := make([]byte, 8)
	for i := 0; i < 8; i++ {
		le[i] = byte(v >> (8 * i))
	}
	s.inner.SetBytes(le)
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b, err := s.inner.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("ed25519: marshal scalar: %v", err))
	}
	return b
}

// SetBytes sets s to data read as a little-endian integer of any length,
// reduced modulo the group order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	s.inner.SetBytes(data)
	return s, nil
}

// Equal reports whether s equals b.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(castScalar(b).inner)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(suite.Scalar().Zero())
}

// Point wraps a kyber edwards25519 point.
type Point struct {
	inner kyber.Point
}

func castPoint(generic group.Point) *Point {
	out, ok := generic.(*Point)
	if !ok {
		panic(fmt.Sprintf("ed25519: unexpected point type %T", generic))
	}
	return out
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(castPoint(a).inner, castPoint(b).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Sub(castPoint(a).inner, castPoint(b).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(castPoint(a).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.Mul(castScalar(s).inner, castPoint(q).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(castPoint(a).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	b, err := p.inner.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("ed25519: marshal point: %v", err))
	}
	return b
}

// SetBytes decodes a compressed point and rejects points outside the
// prime-order subgroup.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	q := suite.Point()
	if err := q.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("ed25519: %w", err)
	}
	// l*q is the identity iff q lies in the subgroup; l itself reduces to
	// zero, so compute (l-1)*q + q.
	lMinusOne := suite.Scalar().SetInt64(-1)
	check := suite.Point().Mul(lMinusOne, q)
	check.Add(check, q)
	if !check.Equal(suite.Point().Null()) {
		return nil, errors.New("ed25519: point not in prime-order subgroup")
	}
	p.inner = q
	return p, nil
}

// Equal reports whether p equals b.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(castPoint(b).inner)
}

// IsIdentity reports whether p is the neutral element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(suite.Point().Null())
}

// Ed25519 implements [group.Group] for the prime-order subgroup of
// edwards25519.
type Ed25519 struct{}

var _ group.Group = (*Ed25519)(nil)

// Name implements [group.Group].
func (g *Ed25519) Name() string {
	return Name
}

// NewScalar returns a zero scalar.
func (g *Ed25519) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns the neutral element.
func (g *Ed25519) NewPoint() group.Point {
	return &Point{inner: suite.Point().Null()}
}

// Generator returns the standard base point.
func (g *Ed25519) Generator() group.Point {
	return &Point{inner: suite.Point().Base()}
}

// RandomScalar reads 64 bytes from r and reduces them modulo the order.
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return newScalar().SetBytes(buf[:])
}

// HashToScalar hashes data with SHA-256 and reduces the digest.
func (g *Ed25519) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return newScalar().SetBytes(h.Sum(nil))
}

// Order returns the group order as big-endian bytes.
func (g *Ed25519) Order() []byte {
	return primeOrder.Bytes()
}
