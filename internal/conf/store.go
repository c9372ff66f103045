package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redhatinsights/confkit/internal/l10n"
)

// Logger is the minimal logging capability the Store reports recovery
// actions through.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Reason classifies why a load did not fully succeed.
type Reason string

const (
	MissingFile         Reason = "MissingFile"
	EmptyOrNullDocument Reason = "EmptyOrNullDocument"
	ParseFailure        Reason = "ParseFailure"
	PartialMatch        Reason = "PartialMatch"
	ZeroMatch           Reason = "ZeroMatch"
	NoDefaultsProvider  Reason = "NoDefaultsProvider"
)

// Outcome is the result of Load or Regenerate.
type Outcome int

const (
	// Loaded means every loadable member was found.
	Loaded Outcome = iota
	// Partial means some members were missing and kept their prior values.
	Partial
	// Regenerated means defaults were applied and saved.
	Regenerated
	// Unrecoverable means regeneration was needed but impossible; the schema
	// keeps whatever values it had.
	Unrecoverable
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Partial:
		return "partial"
	case Regenerated:
		return "regenerated"
	case Unrecoverable:
		return "unrecoverable"
	default:
		return "unknown"
	}
}

// Store loads and saves schemas. A Store is safe for concurrent use across
// different schemas; a single schema must not be loaded concurrently.
type Store struct {
	converters *Converters

	mu  sync.RWMutex
	log Logger
}

// NewStore returns a Store sharing converters across all schemas.
func NewStore(converters *Converters, log Logger) *Store {
	if converters == nil {
		converters = NewConverters()
	}
	return &Store{converters: converters, log: log}
}

// SetLogger replaces the logger recovery actions are reported through.
func (s *Store) SetLogger(log Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

func (s *Store) logger() Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.log == nil {
		return discard{}
	}
	return s.log
}

func (s *Store) converterFor(m Member) (Converter, error) {
	if m.Converter == "" {
		return nil, nil
	}
	return s.converters.Lookup(m.Converter)
}

// Load populates schema from the document at path. It never fails: missing,
// empty, null, malformed or unrecognized documents cause a Regenerate, and a
// document lacking some members keeps the prior values of those members.
func (s *Store) Load(schema *Schema, path string) Outcome {
	log := s.logger()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof(l10n.T("%s: %s does not exist"), MissingFile, path)
		} else {
			log.Errorf(l10n.T("%s: cannot read %s: %v"), MissingFile, path, err)
		}
		return s.Regenerate(schema, path)
	}
	if len(data) == 0 {
		log.Warnf(l10n.T("%s: %s is empty"), EmptyOrNullDocument, path)
		return s.Regenerate(schema, path)
	}

	props, err := parseDocument(data)
	switch {
	case errors.Is(err, errEmptyDocument), errors.Is(err, errNullDocument):
		log.Warnf(l10n.T("%s: %s: %v"), EmptyOrNullDocument, path, err)
		return s.Regenerate(schema, path)
	case err != nil:
		log.Errorf(l10n.T("%s: %s: %v"), ParseFailure, path, err)
		return s.Regenerate(schema, path)
	}

	relevant := 0
	appliers := make([]func(), 0, len(schema.members))
	for _, m := range schema.members {
		if !m.Loadable() {
			continue
		}
		relevant++

		prop, ok := props[m.WireName]
		if !ok {
			continue
		}
		conv, err := s.converterFor(m)
		if err != nil {
			log.Errorf(l10n.T("%s: %s: member %s: %v"), ParseFailure, path, m.Name, err)
			return s.Regenerate(schema, path)
		}
		apply, err := decodeMember(m, []byte(prop.Raw), conv)
		if err != nil {
			log.Errorf(l10n.T("%s: %s: cannot decode %q into %s (%s): %v"), ParseFailure, path, m.WireName, m.Name, m.Kind, err)
			return s.Regenerate(schema, path)
		}
		appliers = append(appliers, apply)
	}

	if relevant == 0 {
		return Loaded
	}
	if len(appliers) == 0 {
		log.Warnf(l10n.T("%s: %s contains none of the %d settings of %s, assuming corruption"),
			ZeroMatch, path, relevant, schema.name)
		return s.Regenerate(schema, path)
	}

	if err := applyAll(appliers); err != nil {
		log.Errorf(l10n.T("%s: %s: cannot assign settings of %s: %v"), ParseFailure, path, schema.name, err)
		return s.Regenerate(schema, path)
	}
	if len(appliers) < relevant {
		missing := relevant - len(appliers)
		log.Warnf("%s: %s", PartialMatch, l10n.TN(
			"%d setting of %s was not found and keeps its default value, consider investigating %s",
			"%d settings of %s were not found and keep their default value, consider investigating %s",
			uint32(missing), missing, schema.name, path))
		return Partial
	}
	return Loaded
}

// decodeMember decodes raw for m, turning a panic in a converter into an
// error.
func decodeMember(m Member, raw []byte, conv Converter) (apply func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			apply, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return m.decode(raw, conv)
}

// applyAll runs every setter, turning a panic into an error. Setters that ran
// before the panic keep their effect.
func applyAll(appliers []func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	for _, apply := range appliers {
		apply()
	}
	return nil
}

// Regenerate resets schema to its defaults and saves it to path. Without a
// defaults provider the schema is left untouched.
func (s *Store) Regenerate(schema *Schema, path string) Outcome {
	log := s.logger()

	if schema.defaults == nil {
		log.Errorf(l10n.T("%s: schema %s has no defaults, cannot regenerate %s"),
			NoDefaultsProvider, schema.name, path)
		return Unrecoverable
	}

	log.Infof(l10n.T("applying defaults for %s, regenerating %s"), schema.name, path)
	schema.defaults()
	if err := s.Save(schema, path); err != nil {
		log.Errorf(l10n.T("cannot save regenerated %s: %v"), path, err)
	}
	return Regenerated
}

// Save writes every saveable member of schema to path, replacing the file.
func (s *Store) Save(schema *Schema, path string) error {
	b := newDocumentBuilder()
	for _, m := range schema.members {
		if !m.Saveable() {
			continue
		}
		raw, err := s.encode(m)
		if err != nil {
			return fmt.Errorf("failed to encode %s.%s (%s): %w", schema.name, m.Name, m.Kind, err)
		}
		if err := b.set(m.WireName, raw); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, b.bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Store) encode(m Member) ([]byte, error) {
	conv, err := s.converterFor(m)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv.Encode(m.get())
	}
	return json.Marshal(m.get())
}

type discard struct{}

func (discard) Infof(string, ...interface{})  {}
func (discard) Warnf(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}
