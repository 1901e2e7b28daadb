package crypto

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

var ErrInvalidBound = errors.New("random bound must be positive")

// Source yields uniformly distributed integers for the generator.
// Implementations must be safe for concurrent use.
type Source interface {
	// IntN returns a uniform random integer in [0, n).
	IntN(n int) (int, error)
}

// SecureSource draws integers from a cryptographically secure byte stream.
// crypto/rand.Int rejects out-of-range draws instead of reducing them
// modulo n, so results carry no modulo bias.
type SecureSource struct {
	Reader io.Reader
}

// NewSecureSource returns a SecureSource backed by crypto/rand.Reader.
func NewSecureSource() *SecureSource {
	return &SecureSource{Reader: rand.Reader}
}

// IntN returns a uniform random integer in [0, n).
func (s *SecureSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	r := s.Reader
	if r == nil {
		r = rand.Reader
	}
	v, err := rand.Int(r, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
