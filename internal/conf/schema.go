package conf

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDuplicateWireName is returned by NewSchema when two members map to the
	// same on-disk key.
	ErrDuplicateWireName = errors.New("duplicate wire name")
	// ErrInvalidMember is returned by NewSchema for a member without a name.
	ErrInvalidMember = errors.New("invalid member")
)

// Kind is the semantic type of a member.
type Kind int

const (
	KindPrimitive Kind = iota
	KindComposite
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindComposite:
		return "composite"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Member describes one named, typed setting. Members are built with Field or
// Property and are immutable once passed to NewSchema.
type Member struct {
	Name      string
	WireName  string
	Kind      Kind
	Converter string

	get    func() any
	decode func(raw []byte, conv Converter) (func(), error)
}

// Loadable reports whether the member can be assigned from a document.
func (m Member) Loadable() bool { return m.decode != nil }

// Saveable reports whether the member provides a value to persist.
func (m Member) Saveable() bool { return m.get != nil }

// MemberOption customizes a Member.
type MemberOption func(*Member)

// WireName overrides the key derived by the naming policy.
func WireName(name string) MemberOption {
	return func(m *Member) { m.WireName = name }
}

// Convert declares a custom converter registered under tag.
func Convert(tag string) MemberOption {
	return func(m *Member) {
		m.Converter = tag
		m.Kind = KindCustom
	}
}

// Field describes a setting stored in *ptr. It is both loadable and saveable.
func Field[T any](name string, ptr *T, opts ...MemberOption) Member {
	return Property(name,
		func() T { return *ptr },
		func(v T) { *ptr = v },
		opts...)
}

// Property describes a setting accessed through get and set. A nil get makes
// the member load-only, a nil set makes it save-only.
func Property[T any](name string, get func() T, set func(T), opts ...MemberOption) Member {
	var zero T
	m := Member{Name: name, Kind: kindOf(any(zero))}
	if get != nil {
		m.get = func() any { return get() }
	}
	if set != nil {
		m.decode = func(raw []byte, conv Converter) (func(), error) {
			var v T
			if conv == nil {
				if err := json.Unmarshal(raw, &v); err != nil {
					return nil, err
				}
			} else {
				decoded, err := conv.Decode(raw)
				if err != nil {
					return nil, err
				}
				typed, ok := decoded.(T)
				if !ok {
					return nil, fmt.Errorf("converter produced %T, want %T", decoded, zero)
				}
				v = typed
			}
			return func() { set(v) }, nil
		}
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// kindOf classifies v. Values stored as a JSON string through
// encoding.TextMarshaler count as primitive.
func kindOf(v any) Kind {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		encoding.TextMarshaler:
		return KindPrimitive
	default:
		return KindComposite
	}
}

// Schema is a frozen table of members plus an optional reset-to-defaults
// capability.
type Schema struct {
	name     string
	defaults func()
	members  []Member
}

// NewSchema derives wire names for members and freezes the table. A nil
// defaults means the schema cannot be regenerated.
func NewSchema(name string, defaults func(), members ...Member) (*Schema, error) {
	s := &Schema{
		name:     name,
		defaults: defaults,
		members:  make([]Member, 0, len(members)),
	}
	seen := make(map[string]string, len(members))
	for _, m := range members {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: schema %s has a member without a name", ErrInvalidMember, name)
		}
		if m.WireName == "" {
			m.WireName = DefaultNaming.ConvertName(m.Name)
		}
		if other, ok := seen[m.WireName]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %q in schema %s",
				ErrDuplicateWireName, other, m.Name, m.WireName, name)
		}
		seen[m.WireName] = m.Name
		s.members = append(s.members, m)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(name string, defaults func(), members ...Member) *Schema {
	s, err := NewSchema(name, defaults, members...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name used in log messages.
func (s *Schema) Name() string { return s.name }

// Members returns a copy of the member table.
func (s *Schema) Members() []Member {
	out := make([]Member, len(s.members))
	copy(out, s.members)
	return out
}

// CanRegenerate reports whether the schema has a defaults provider.
func (s *Schema) CanRegenerate() bool { return s.defaults != nil }
