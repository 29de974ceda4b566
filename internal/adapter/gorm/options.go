package gorm

import (
	"time"

	"github.com/bornholm/clubhouse/internal/identifier"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
)

type Options struct {
	Clock       clockwork.Clock
	Identifiers identifier.Generator

	// MaxIdentifierAttempts bounds the number of fresh public ids drawn
	// when creating a record collides with an existing one.
	MaxIdentifierAttempts int

	MaxRetries  int
	BaseBackoff time.Duration
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) (*Options, error) {
	opts := &Options{
		Clock:                 clockwork.NewRealClock(),
		MaxIdentifierAttempts: 3,
		MaxRetries:            5,
		BaseBackoff:           50 * time.Millisecond,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	if opts.Identifiers == nil {
		generator, err := identifier.NewAlphabetGenerator(identifier.DefaultAlphabet, identifier.DefaultLength)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		opts.Identifiers = generator
	}

	if opts.MaxIdentifierAttempts < 1 {
		opts.MaxIdentifierAttempts = 1
	}

	return opts, nil
}

func WithClock(clock clockwork.Clock) OptionFunc {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

func WithIdentifierGenerator(generator identifier.Generator) OptionFunc {
	return func(opts *Options) {
		opts.Identifiers = generator
	}
}

func WithMaxIdentifierAttempts(attempts int) OptionFunc {
	return func(opts *Options) {
		opts.MaxIdentifierAttempts = attempts
	}
}

func WithRetry(maxRetries int, baseBackoff time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.MaxRetries = maxRetries
		opts.BaseBackoff = baseBackoff
	}
}
