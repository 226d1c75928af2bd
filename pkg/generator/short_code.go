package generator

import (
	crand "crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength gives 62^7 ≈ 3.5e12 combinations, enough that the
	// resolver's small retry cap never triggers in practice.
	DefaultLength = 7

	MinLength = 6
	MaxLength = 8
)

// Generator produces candidate short codes from the base62 alphabet.
// It is stateless and does not guarantee uniqueness; the store's unique
// constraint is the authority and the resolver handles collisions.
type Generator struct {
	length int
	rand   io.Reader
}

// New returns a Generator drawing from crypto/rand. Codes must not be
// predictable or links become enumerable.
func New(length int) (*Generator, error) {
	return NewWithSource(length, crand.Reader)
}

// NewWithSource lets tests substitute a deterministic random source.
func NewWithSource(length int, src io.Reader) (*Generator, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("code length %d outside [%d, %d]", length, MinLength, MaxLength)
	}
	return &Generator{length: length, rand: src}, nil
}

func (g *Generator) Length() int {
	return g.length
}

func (g *Generator) Generate() (string, error) {
	b := make([]byte, g.length)
	max := big.NewInt(int64(len(base62Chars)))

	for i := range b {
		n, err := crand.Int(g.rand, max)
		if err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		b[i] = base62Chars[n.Int64()]
	}

	return string(b), nil
}
