package session

import (
	"fmt"
)

// Configuration holds the threshold parameters of one signing group. It is
// immutable once created; use [NewConfiguration].
type Configuration struct {
	minSigners uint16
	maxSigners uint16
	secret     []byte
}

// NewConfiguration validates t-of-n parameters.
//
// Parameters:
//   - minSigners: Minimum number of signers required (t), at least 2
//   - maxSigners: Total number of participants (n), at least minSigners
//   - secret: Optional group secret for a trusted dealer; nil lets the
//     dealer sample one
func NewConfiguration(minSigners, maxSigners uint16, secret []byte) (Configuration, error) {
	if minSigners < 2 {
		return Configuration{}, fmt.Errorf("%w: minSigners must be at least 2, got %d", ErrInvalidConfiguration, minSigners)
	}
	if maxSigners < 2 {
		return Configuration{}, fmt.Errorf("%w: maxSigners must be at least 2, got %d", ErrInvalidConfiguration, maxSigners)
	}
	if minSigners > maxSigners {
		return Configuration{}, fmt.Errorf("%w: minSigners %d exceeds maxSigners %d", ErrInvalidConfiguration, minSigners, maxSigners)
	}
	return Configuration{
		minSigners: minSigners,
		maxSigners: maxSigners,
		secret:     clone(secret),
	}, nil
}

// MinSigners returns t.
func (c Configuration) MinSigners() uint16 { return c.minSigners }

// MaxSigners returns n.
func (c Configuration) MaxSigners() uint16 { return c.maxSigners }

// Secret returns a copy of the dealer secret, if one was supplied.
func (c Configuration) Secret() ([]byte, bool) {
	if c.secret == nil {
		return nil, false
	}
	return clone(c.secret), true
}

func (c Configuration) valid() bool {
	return c.minSigners >= 2 && c.minSigners <= c.maxSigners
}

// inQuorum reports whether n contributions lie in [minSigners, maxSigners].
func (c Configuration) inQuorum(n int) bool {
	return n >= int(c.minSigners) && n <= int(c.maxSigners)
}

func (c Configuration) String() string {
	s := fmt.Sprintf("Configuration{min: %d, max: %d", c.minSigners, c.maxSigners)
	if c.secret != nil {
		s += ", secret: " + redacted
	}
	return s + "}"
}

func (c Configuration) GoString() string { return c.String() }
