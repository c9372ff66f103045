package conf

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSchema_WireNames(t *testing.T) {
	var (
		name  string
		level int
		tags  []string
	)
	s, err := NewSchema("sample", nil,
		Field("Name", &name),
		Field("LogLevel", &level),
		Field("Tags", &tags, WireName("labels")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, m := range s.Members() {
		got = append(got, m.WireName)
	}
	if diff := cmp.Diff([]string{"name", "log_level", "labels"}, got); diff != "" {
		t.Errorf("wire names mismatch (-want +got):\n%s", diff)
	}
	if s.CanRegenerate() {
		t.Error("schema without defaults reports it can regenerate")
	}
}

func TestNewSchema_Errors(t *testing.T) {
	var a, b string
	tests := []struct {
		name    string
		members []Member
		want    error
	}{
		{
			name:    "duplicate derived names",
			members: []Member{Field("LogLevel", &a), Field("Other", &b, WireName("log_level"))},
			want:    ErrDuplicateWireName,
		},
		{
			name:    "missing name",
			members: []Member{Field("", &a)},
			want:    ErrInvalidMember,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema("broken", nil, tt.members...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewSchema() error = %v, want %v", err, tt.want)
			}
		})
	}
}

type shade int

func (s shade) MarshalText() ([]byte, error) { return []byte("dark"), nil }

func TestMember_Capabilities(t *testing.T) {
	var n int
	var textual shade
	tests := []struct {
		name         string
		member       Member
		wantLoadable bool
		wantSaveable bool
		wantKind     Kind
	}{
		{name: "field", member: Field("N", &n), wantLoadable: true, wantSaveable: true, wantKind: KindPrimitive},
		{name: "save only", member: Property[int]("N", func() int { return n }, nil), wantSaveable: true, wantKind: KindPrimitive},
		{name: "load only", member: Property[[]int]("N", nil, func([]int) {}), wantLoadable: true, wantKind: KindComposite},
		{name: "text marshaler", member: Field("N", &textual), wantLoadable: true, wantSaveable: true, wantKind: KindPrimitive},
		{name: "custom", member: Field("N", &n, Convert("octal")), wantLoadable: true, wantSaveable: true, wantKind: KindCustom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.member.Loadable(); got != tt.wantLoadable {
				t.Errorf("Loadable() = %v, want %v", got, tt.wantLoadable)
			}
			if got := tt.member.Saveable(); got != tt.wantSaveable {
				t.Errorf("Saveable() = %v, want %v", got, tt.wantSaveable)
			}
			if tt.member.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", tt.member.Kind, tt.wantKind)
			}
		})
	}
}

func TestMustSchema_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var a string
	MustSchema("broken", nil, Field("A", &a), Field("A", &a))
}
