package conf

import (
	"sync"
	"unicode"
	"unicode/utf8"
)

// NamingPolicy converts a Go-style identifier into the key used on disk.
type NamingPolicy interface {
	ConvertName(name string) string
}

// SnakeCase lowercases the first rune and replaces every later upper-case rune
// with an underscore followed by its lower-case form. Acronyms are not treated
// specially: "ID" becomes "i_d".
type SnakeCase struct {
	mu  sync.Mutex
	buf []byte
}

// ConvertName implements NamingPolicy.
func (p *SnakeCase) ConvertName(name string) string {
	if name == "" {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf = p.buf[:0]
	for i, r := range name {
		switch {
		case i == 0:
			p.buf = utf8.AppendRune(p.buf, unicode.ToLower(r))
		case unicode.IsUpper(r):
			p.buf = append(p.buf, '_')
			p.buf = utf8.AppendRune(p.buf, unicode.ToLower(r))
		default:
			p.buf = utf8.AppendRune(p.buf, r)
		}
	}
	return string(p.buf)
}

// DefaultNaming is the policy used by NewSchema.
var DefaultNaming NamingPolicy = &SnakeCase{}
