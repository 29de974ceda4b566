package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/clubhouse/internal/config"
	"github.com/bornholm/clubhouse/internal/identifier"
	"github.com/pkg/errors"
)

// Record count used to report the collision risk of the configured scheme.
const expectedRecords = 1e6

var getIdentifierGeneratorFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (identifier.Generator, error) {
	generator, err := identifier.New(identifier.Scheme(conf.Identifier.Scheme), conf.Identifier.Alphabet, conf.Identifier.Length)
	if err != nil {
		return nil, errors.Wrap(err, "could not create identifier generator from config")
	}

	if _, ok := generator.(*identifier.AlphabetGenerator); ok {
		alphabetSize := len([]rune(conf.Identifier.Alphabet))

		slog.DebugContext(
			ctx, "identifier scheme",
			slog.Float64("entropyBits", identifier.EntropyBits(alphabetSize, conf.Identifier.Length)),
			slog.Float64("collisionProbability", identifier.CollisionProbability(alphabetSize, conf.Identifier.Length, expectedRecords)),
		)
	}

	return generator, nil
})
