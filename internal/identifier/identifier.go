// Package identifier generates and validates the public identifiers of
// records. Public identifiers are random, never derived from storage keys.
package identifier

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/bornholm/clubhouse/internal/core/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DefaultAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	DefaultLength   = 16

	MinLength = 8

	// Identifier spaces below 2^64 make collisions probable at realistic
	// record volumes.
	minEntropyBits = 64
)

var (
	ErrInvalidAlphabet = errors.New("invalid alphabet")
	ErrInvalidLength   = errors.New("invalid length")
	ErrMalformed       = errors.New("malformed identifier")
)

type Generator interface {
	Generate() (model.PublicID, error)
	Validate(id model.PublicID) error
}

// AlphabetGenerator draws fixed-length identifiers uniformly over a fixed
// alphabet using a cryptographically secure source.
type AlphabetGenerator struct {
	alphabet []rune
	length   int
	index    map[rune]struct{}
}

func NewAlphabetGenerator(alphabet string, length int) (*AlphabetGenerator, error) {
	runes := []rune(alphabet)
	if len(runes) < 2 {
		return nil, errors.Wrap(ErrInvalidAlphabet, "alphabet must contain at least two symbols")
	}

	index := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if _, exists := index[r]; exists {
			return nil, errors.Wrapf(ErrInvalidAlphabet, "duplicate symbol '%c'", r)
		}
		index[r] = struct{}{}
	}

	if length < MinLength {
		return nil, errors.Wrapf(ErrInvalidLength, "length must be at least %d", MinLength)
	}

	if EntropyBits(len(runes), length) < minEntropyBits {
		return nil, errors.Wrapf(ErrInvalidLength, "alphabet of %d symbols and length %d yield less than %d bits", len(runes), length, minEntropyBits)
	}

	return &AlphabetGenerator{
		alphabet: runes,
		length:   length,
		index:    index,
	}, nil
}

// Generate implements Generator.
func (g *AlphabetGenerator) Generate() (model.PublicID, error) {
	var sb strings.Builder
	size := big.NewInt(int64(len(g.alphabet)))

	for range g.length {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", errors.WithStack(err)
		}
		sb.WriteRune(g.alphabet[n.Int64()])
	}

	return model.PublicID(sb.String()), nil
}

// Validate implements Generator.
func (g *AlphabetGenerator) Validate(id model.PublicID) error {
	runes := []rune(string(id))
	if len(runes) != g.length {
		return errors.Wrapf(ErrMalformed, "expected %d symbols, got %d", g.length, len(runes))
	}

	for _, r := range runes {
		if _, exists := g.index[r]; !exists {
			return errors.Wrapf(ErrMalformed, "unexpected symbol '%c'", r)
		}
	}

	return nil
}

var _ Generator = &AlphabetGenerator{}

// UUIDGenerator generates random (version 4) UUIDs in their canonical form.
type UUIDGenerator struct{}

// Generate implements Generator.
func (UUIDGenerator) Generate() (model.PublicID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return model.PublicID(id.String()), nil
}

// Validate implements Generator.
func (UUIDGenerator) Validate(id model.PublicID) error {
	parsed, err := uuid.Parse(string(id))
	if err != nil {
		return errors.Wrap(ErrMalformed, err.Error())
	}
	if parsed.String() != string(id) {
		return errors.Wrap(ErrMalformed, "not in canonical form")
	}
	return nil
}

var _ Generator = UUIDGenerator{}
