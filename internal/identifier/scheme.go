package identifier

import "github.com/pkg/errors"

type Scheme string

const (
	SchemeAlphabet Scheme = "alphabet"
	SchemeUUID     Scheme = "uuid"
)

var ErrUnknownScheme = errors.New("unknown identifier scheme")

func New(scheme Scheme, alphabet string, length int) (Generator, error) {
	switch scheme {
	case SchemeAlphabet, "":
		generator, err := NewAlphabetGenerator(alphabet, length)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return generator, nil
	case SchemeUUID:
		return UUIDGenerator{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "'%s'", scheme)
	}
}
