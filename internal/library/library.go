// Package library loads library snapshots (games plus play sessions) from JSON or YAML files.
package library

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/internal/logging"
	"github.com/huangsam/questlog/schema"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot file encoding.
type Format string

// Supported snapshot formats.
const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

var (
	// ErrEmptyInput is returned when a snapshot file has no content.
	ErrEmptyInput = errors.New("snapshot is empty")

	// ErrUnsupportedFormat is returned for file extensions other than .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("finite", isFinite)
	})
	return validate
}

// isFinite rejects NaN and infinite numbers.
func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	default:
		return true
	}
}

// FormatFromPath picks the decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFormat, nil
	case ".yaml", ".yml":
		return YAMLFormat, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads, decodes and screens a snapshot file.
// Records that are malformed or fail validation are dropped and counted rather than failing the load.
func LoadFile(path string) (schema.Snapshot, schema.DataQuality, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return schema.Snapshot{}, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return schema.Snapshot{}, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	snap, malformed, err := Decode(f, format)
	if err != nil {
		return schema.Snapshot{}, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	snap, dq := Screen(snap)
	for reason, n := range malformed {
		dq[reason] += n
	}
	logging.Info().
		Str("path", path).
		Int("games", len(snap.Games)).
		Int("sessions", len(snap.Sessions)).
		Int("dropped", dq.Total()).
		Msg("Snapshot loaded")
	return snap, dq, nil
}

// rawJSONSnapshot and rawYAMLSnapshot defer record decoding so one malformed record
// only costs that record.
type rawJSONSnapshot struct {
	Games    []json.RawMessage `json:"games"`
	Sessions []json.RawMessage `json:"sessions"`
}

type rawYAMLSnapshot struct {
	Games    []yaml.Node `yaml:"games"`
	Sessions []yaml.Node `yaml:"sessions"`
}

// Decode parses a snapshot in the given format. The document shape must be valid;
// individual records that cannot be decoded are dropped and counted as invalid.
func Decode(r io.Reader, format Format) (schema.Snapshot, schema.DataQuality, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return schema.Snapshot{}, nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return schema.Snapshot{}, nil, ErrEmptyInput
	}

	dq := schema.DataQuality{}
	var snap schema.Snapshot
	switch format {
	case JSONFormat:
		var raw rawJSONSnapshot
		if err := json.Unmarshal(data, &raw); err != nil {
			return schema.Snapshot{}, nil, err
		}
		snap.Games = decodeRecords[schema.Game](raw.Games, unmarshalJSON, dq, "game")
		snap.Sessions = decodeRecords[schema.Session](raw.Sessions, unmarshalJSON, dq, "session")
	case YAMLFormat:
		var raw rawYAMLSnapshot
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return schema.Snapshot{}, nil, err
		}
		snap.Games = decodeRecords[schema.Game](raw.Games, decodeYAMLNode, dq, "game")
		snap.Sessions = decodeRecords[schema.Session](raw.Sessions, decodeYAMLNode, dq, "session")
	default:
		return schema.Snapshot{}, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return snap, dq, nil
}

func unmarshalJSON(msg json.RawMessage, out any) error {
	return json.Unmarshal(msg, out)
}

func decodeYAMLNode(node yaml.Node, out any) error {
	return node.Decode(out)
}

// decodeRecords decodes each raw record on its own, skipping the ones that fail.
func decodeRecords[T, R any](items []R, decode func(R, any) error, dq schema.DataQuality, kind string) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		var rec T
		if err := decode(item, &rec); err != nil {
			dq.Add(schema.SkipInvalidRecord)
			logging.Debug().Int("index", i).Err(err).Msgf("Dropping malformed %s", kind)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Screen drops games and sessions that fail struct validation.
// The returned snapshot never aliases the input slices.
func Screen(snap schema.Snapshot) (schema.Snapshot, schema.DataQuality) {
	v := getValidator()
	dq := schema.DataQuality{}
	out := schema.Snapshot{
		Games:    make([]schema.Game, 0, len(snap.Games)),
		Sessions: make([]schema.Session, 0, len(snap.Sessions)),
	}
	for i, g := range snap.Games {
		if err := v.Struct(g); err != nil {
			dq.Add(schema.SkipInvalidRecord)
			logging.Debug().Int("index", i).Err(describe(err)).Msg("Dropping invalid game")
			continue
		}
		out.Games = append(out.Games, g)
	}
	for i, s := range snap.Sessions {
		if err := v.Struct(s); err != nil {
			dq.Add(schema.SkipInvalidRecord)
			logging.Debug().Int("index", i).Err(describe(err)).Msg("Dropping invalid session")
			continue
		}
		out.Sessions = append(out.Sessions, s)
	}
	return out, dq
}

// describe flattens validator field errors into one readable error.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Encode writes a snapshot as indented JSON or YAML.
func Encode(w io.Writer, snap schema.Snapshot, format Format) error {
	switch format {
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case YAMLFormat:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(snap)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
