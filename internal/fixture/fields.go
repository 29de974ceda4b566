package fixture

import (
	"encoding/json"
	"math"
	"time"

	"github.com/pkg/errors"
)

const TimeLayout = time.RFC3339Nano

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

// Fields holds the values of a record. Times are stored as RFC 3339
// strings in UTC, absent optional values as nil.
type Fields map[string]any

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func FormatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

func OptionalValue[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func (f Fields) lookup(name string) (any, bool, error) {
	value, exists := f[name]
	if !exists {
		return nil, false, errors.Wrapf(ErrMissingField, "'%s'", name)
	}
	return value, value != nil, nil
}

func (f Fields) String(name string) (string, error) {
	value, exists := f[name]
	if !exists || value == nil {
		return "", nil
	}

	str, ok := value.(string)
	if !ok {
		return "", errors.Wrapf(ErrInvalidField, "'%s': expected string, got %T", name, value)
	}

	return str, nil
}

func (f Fields) Time(name string) (time.Time, error) {
	value, present, err := f.lookup(name)
	if err != nil {
		return time.Time{}, err
	}
	if !present {
		return time.Time{}, errors.Wrapf(ErrMissingField, "'%s'", name)
	}
	return parseTime(name, value)
}

func (f Fields) OptionalTime(name string) (*time.Time, error) {
	value, present, err := f.lookup(name)
	if err != nil || !present {
		return nil, err
	}

	t, err := parseTime(name, value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func parseTime(name string, value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		t, err := time.Parse(TimeLayout, v)
		if err != nil {
			return time.Time{}, errors.Wrapf(ErrInvalidField, "'%s': %s", name, err.Error())
		}
		return t.UTC(), nil
	default:
		return time.Time{}, errors.Wrapf(ErrInvalidField, "'%s': expected time, got %T", name, value)
	}
}

func (f Fields) Key(name string) (uint, error) {
	key, err := f.OptionalKey(name)
	if err != nil {
		return 0, err
	}
	if key == nil {
		return 0, errors.Wrapf(ErrMissingField, "'%s'", name)
	}
	return *key, nil
}

func (f Fields) OptionalKey(name string) (*uint, error) {
	value, exists := f[name]
	if !exists || value == nil {
		return nil, nil
	}

	i, err := toInt64(name, value)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, errors.Wrapf(ErrInvalidField, "'%s': negative key", name)
	}

	key := uint(i)
	return &key, nil
}

func (f Fields) Keys(name string) ([]uint, error) {
	value, exists := f[name]
	if !exists || value == nil {
		return nil, nil
	}

	var list []any
	switch v := value.(type) {
	case []any:
		list = v
	case []uint:
		return append([]uint{}, v...), nil
	default:
		return nil, errors.Wrapf(ErrInvalidField, "'%s': expected list, got %T", name, value)
	}

	keys := make([]uint, 0, len(list))
	for _, item := range list {
		i, err := toInt64(name, item)
		if err != nil {
			return nil, err
		}
		keys = append(keys, uint(i))
	}

	return keys, nil
}

func (f Fields) OptionalInt(name string) (*int, error) {
	value, exists := f[name]
	if !exists || value == nil {
		return nil, nil
	}

	i, err := toInt64(name, value)
	if err != nil {
		return nil, err
	}

	v := int(i)
	return &v, nil
}

func (f Fields) OptionalFloat(name string) (*float64, error) {
	value, exists := f[name]
	if !exists || value == nil {
		return nil, nil
	}

	var v float64
	switch n := value.(type) {
	case float64:
		v = n
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidField, "'%s': %s", name, err.Error())
		}
		v = parsed
	default:
		return nil, errors.Wrapf(ErrInvalidField, "'%s': expected number, got %T", name, value)
	}

	return &v, nil
}

func toInt64(name string, value any) (int64, error) {
	switch n := value.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, errors.Wrapf(ErrInvalidField, "'%s': expected integer, got %v", name, n)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, errors.Wrapf(ErrInvalidField, "'%s': %s", name, err.Error())
		}
		return i, nil
	default:
		return 0, errors.Wrapf(ErrInvalidField, "'%s': expected integer, got %T", name, value)
	}
}
