// Package gameid generates room identifiers and validates client-chosen ones.
package gameid

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	// alphabet for generated ids: lowercase base36
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// GeneratedLength is the length of server generated ids
	GeneratedLength = 8

	// MinCustomLength and MaxCustomLength bound client supplied ids
	MinCustomLength = 3
	MaxCustomLength = 20
)

var (
	ErrLength  = errors.New("Game ID must be between 3 and 20 characters.")
	ErrCharset = errors.New("Game ID can only contain letters, numbers, hyphens, and underscores.")
)

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// Generator handles game ID generation with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator with optional RandSource. A nil source
// draws from crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new game ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new GeneratedLength character id
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(GeneratedLength)
	for i := 0; i < GeneratedLength; i++ {
		b.WriteByte(alphabet[g.intn(len(alphabet))])
	}
	return b.String()
}

func (g *Generator) intn(n int) int {
	if g.randSource != nil {
		return g.randSource.IntN(n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("failed to generate random id: " + err.Error())
	}
	return int(v.Int64())
}

// CheckLength validates the length of an already trimmed custom id.
func CheckLength(id string) error {
	if len(id) < MinCustomLength || len(id) > MaxCustomLength {
		return ErrLength
	}
	return nil
}

// CheckCharset validates that a custom id only uses [a-zA-Z0-9_-].
func CheckCharset(id string) error {
	if id == "" {
		return ErrCharset
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return ErrCharset
		}
	}
	return nil
}

// ValidateCustom runs both checks. Callers that also need to test for
// collisions between the two do so themselves, see server.Registry.
func ValidateCustom(id string) error {
	if err := CheckLength(id); err != nil {
		return err
	}
	return CheckCharset(id)
}
