package secp256k1

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/f3rmion/frostcoord/group"
)

// Name is the group name reported by [Secp256k1.Name].
const Name = "secp256k1"

// pointLen is the length of a compressed point encoding.
const pointLen = 33

var orderModulus = saferith.ModulusFromBytes(secp256k1.Params().N.Bytes())

// Scalar is an element of the secp256k1 scalar field.
type Scalar struct {
	value secp256k1.ModNScalar
}

func castScalar(generic group.Scalar) *Scalar {
	out, ok := generic.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("secp256k1: unexpected scalar type %T", generic))
	}
	return out
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.value.Add2(&castScalar(a).value, &castScalar(b).value)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB secp256k1.ModNScalar
	negB.NegateVal(&castScalar(b).value)
	s.value.Add2(&castScalar(a).value, &negB)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.value.Mul2(&castScalar(a).value, &castScalar(b).value)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.value.NegateVal(&castScalar(a).value)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := castScalar(a)
	if aScalar.value.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.value.InverseValNonConst(&aScalar.value)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.value.Set(&castScalar(a).value)
	return s
}

// SetUint64 sets s to v and returns s.
func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[31-i] = byte(v >> (8 * i))
	}
	s.value.SetBytes(&buf)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.value.Bytes()
	return b[:]
}

// SetBytes sets s to data interpreted as a big-endian integer of any
// length, reduced modulo the group order in constant time.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	n := new(saferith.Nat).SetBytes(data)
	n.Mod(n, orderModulus)
	var buf [32]byte
	n.FillBytes(buf[:])
	s.value.SetBytes(&buf)
	return s, nil
}

// Equal reports whether s equals b.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.value.Equals(&castScalar(b).value)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.value.IsZero()
}

// Point is a secp256k1 curve point in Jacobian coordinates.
type Point struct {
	value secp256k1.JacobianPoint
}

func castPoint(generic group.Point) *Point {
	out, ok := generic.(*Point)
	if !ok {
		panic(fmt.Sprintf("secp256k1: unexpected point type %T", generic))
	}
	return out
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var out secp256k1.JacobianPoint
	secp256k1.AddNonConst(&castPoint(a).value, &castPoint(b).value, &out)
	p.value.Set(&out)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, &negB)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	var out secp256k1.JacobianPoint
	out.Set(&castPoint(a).value)
	if !isIdentity(&out) {
		out.ToAffine()
		out.Y.Negate(1)
		out.Y.Normalize()
	}
	p.value.Set(&out)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var out secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&castScalar(s).value, &castPoint(q).value, &out)
	p.value.Set(&out)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.value.Set(&castPoint(a).value)
	return p
}

// Bytes returns the 33-byte compressed encoding of p. The identity is
// encoded as 33 zero bytes.
func (p *Point) Bytes() []byte {
	out := make([]byte, pointLen)
	if p.IsIdentity() {
		return out
	}
	var affine secp256k1.JacobianPoint
	affine.Set(&p.value)
	affine.ToAffine()
	return secp256k1.NewPublicKey(&affine.X, &affine.Y).SerializeCompressed()
}

// SetBytes decodes a compressed point.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, fmt.Errorf("secp256k1: invalid point length %d", len(data))
	}
	if isZeroBytes(data) {
		p.value = secp256k1.JacobianPoint{}
		return p, nil
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: %w", err)
	}
	pub.AsJacobian(&p.value)
	return p, nil
}

// Equal reports whether p equals b.
func (p *Point) Equal(b group.Point) bool {
	other := castPoint(b)
	pid, oid := p.IsIdentity(), other.IsIdentity()
	if pid || oid {
		return pid == oid
	}
	var x, y secp256k1.JacobianPoint
	x.Set(&p.value)
	y.Set(&other.value)
	x.ToAffine()
	y.ToAffine()
	return x.X.Equals(&y.X) && x.Y.Equals(&y.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return isIdentity(&p.value)
}

func isIdentity(p *secp256k1.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

func isZeroBytes(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Secp256k1 implements [group.Group] for the secp256k1 curve.
type Secp256k1 struct{}

var _ group.Group = (*Secp256k1)(nil)

// Name implements [group.Group].
func (g *Secp256k1) Name() string {
	return Name
}

// NewScalar returns a zero scalar.
func (g *Secp256k1) NewScalar() group.Scalar {
	return new(Scalar)
}

// NewPoint returns the identity point.
func (g *Secp256k1) NewPoint() group.Point {
	return new(Point)
}

// Generator returns the standard base point.
func (g *Secp256k1) Generator() group.Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	p := new(Point)
	secp256k1.ScalarBaseMultNonConst(&one, &p.value)
	return p
}

// RandomScalar reads 64 bytes from r and reduces them modulo the order.
func (g *Secp256k1) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return new(Scalar).SetBytes(buf[:])
}

// HashToScalar hashes data with SHA-256 and reduces the digest.
func (g *Secp256k1) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return new(Scalar).SetBytes(h.Sum(nil))
}

// Order returns the group order as big-endian bytes.
func (g *Secp256k1) Order() []byte {
	return secp256k1.Params().N.Bytes()
}
