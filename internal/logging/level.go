package logging

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry.
type Level int

const (
	LevelVerbose Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelVerbose: "VERBOSE",
	LevelInfo:    "INFO",
	LevelWarn:    "WARN",
	LevelError:   "ERROR",
}

// levelWidth is the length of the longest level name.
var levelWidth = func() int {
	w := 0
	for _, n := range levelNames {
		if len(n) > w {
			w = len(n)
		}
	}
	return w
}()

// String returns the upper-case level name.
func (l Level) String() string {
	if l < LevelVerbose || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == upper {
			return Level(l), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if l < LevelVerbose || l > LevelError {
		return nil, fmt.Errorf("invalid log level %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
