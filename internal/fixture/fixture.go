// Package fixture implements the persisted import/export format of the
// club records: a sequence of records, each one tagged with its model and
// carrying its storage key and a map of field values.
package fixture

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Record struct {
	Model  string `json:"model" yaml:"model"`
	Key    uint   `json:"pk" yaml:"pk"`
	Fields Fields `json:"fields" yaml:"fields"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown fixture format")

func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(raw) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "'%s'", raw)
	}
}

// FormatFromPath guesses the format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func Encode(w io.Writer, format Format, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return errors.WithStack(err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(records); err != nil {
			return errors.WithStack(err)
		}
		if err := encoder.Close(); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errors.Wrapf(ErrUnknownFormat, "'%s'", format)
	}

	return nil
}

func Decode(r io.Reader, format Format) ([]Record, error) {
	var records []Record

	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.UseNumber()
		if err := decoder.Decode(&records); err != nil {
			return nil, errors.WithStack(err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "'%s'", format)
	}

	return records, nil
}
