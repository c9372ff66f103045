package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrUnknownConverter is returned when no factory is registered for a tag.
	ErrUnknownConverter = errors.New("unknown converter")
	// ErrConverterExists is returned when a tag is registered twice.
	ErrConverterExists = errors.New("converter already registered")
)

// Converter encodes and decodes a member value to and from a raw JSON value.
type Converter interface {
	Encode(v any) ([]byte, error)
	Decode(raw []byte) (any, error)
}

// ConverterFactory creates a Converter. It is called at most once per tag.
type ConverterFactory func() Converter

// Converters is the process-wide converter cache shared by every schema.
type Converters struct {
	mu        sync.Mutex
	factories map[string]ConverterFactory
	instances map[string]Converter
}

// NewConverters returns a registry with the built-in "duration" and "octal"
// converters registered.
func NewConverters() *Converters {
	c := &Converters{
		factories: make(map[string]ConverterFactory),
		instances: make(map[string]Converter),
	}
	c.factories["duration"] = func() Converter { return durationConverter{} }
	c.factories["octal"] = func() Converter { return octalConverter{} }
	return c
}

// Register adds a factory for tag.
func (c *Converters) Register(tag string, factory ConverterFactory) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.factories[tag]; ok {
		return fmt.Errorf("%w: %s", ErrConverterExists, tag)
	}
	c.factories[tag] = factory
	return nil
}

// Lookup returns the converter for tag, instantiating it on first use.
func (c *Converters) Lookup(tag string) (Converter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conv, ok := c.instances[tag]; ok {
		return conv, nil
	}
	factory, ok := c.factories[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConverter, tag)
	}
	conv := factory()
	c.instances[tag] = conv
	return conv, nil
}

// durationConverter stores a time.Duration as "1h30m0s".
type durationConverter struct{}

func (durationConverter) Encode(v any) ([]byte, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return nil, fmt.Errorf("duration converter: unsupported type %T", v)
	}
	return json.Marshal(d.String())
}

func (durationConverter) Decode(raw []byte) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return time.ParseDuration(s)
}

// octalConverter stores an os.FileMode as "0644".
type octalConverter struct{}

func (octalConverter) Encode(v any) ([]byte, error) {
	m, ok := v.(os.FileMode)
	if !ok {
		return nil, fmt.Errorf("octal converter: unsupported type %T", v)
	}
	return json.Marshal(fmt.Sprintf("%04o", uint32(m.Perm())))
}

func (octalConverter) Decode(raw []byte) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return nil, err
	}
	return os.FileMode(n).Perm(), nil
}
