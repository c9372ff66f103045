package conf

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

type countingConverter struct{ durationConverter }

func TestConverters_LookupIsLazyAndShared(t *testing.T) {
	c := NewConverters()
	created := 0
	if err := c.Register("counting", func() Converter {
		created++
		return countingConverter{}
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 0 {
		t.Fatalf("factory called at registration")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Lookup("counting"); err != nil {
				t.Errorf("Lookup() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}
}

func TestConverters_Errors(t *testing.T) {
	c := NewConverters()
	if _, err := c.Lookup("missing"); !errors.Is(err, ErrUnknownConverter) {
		t.Errorf("Lookup() error = %v, want %v", err, ErrUnknownConverter)
	}
	if err := c.Register("duration", nil); !errors.Is(err, ErrConverterExists) {
		t.Errorf("Register() error = %v, want %v", err, ErrConverterExists)
	}
}

func TestBuiltinConverters(t *testing.T) {
	tests := []struct {
		name    string
		conv    Converter
		value   any
		encoded string
	}{
		{name: "duration", conv: durationConverter{}, value: 90 * time.Minute, encoded: `"1h30m0s"`},
		{name: "octal", conv: octalConverter{}, value: os.FileMode(0640), encoded: `"0640"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.conv.Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(raw) != tt.encoded {
				t.Errorf("Encode() = %s, want %s", raw, tt.encoded)
			}
			got, err := tt.conv.Decode(raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("Decode() = %v, want %v", got, tt.value)
			}
		})
	}

	if _, err := (durationConverter{}).Encode("soon"); err == nil {
		t.Error("expected error encoding a string as a duration")
	}
	if _, err := (octalConverter{}).Decode([]byte(`"9"`)); err == nil {
		t.Error("expected error decoding a non-octal mode")
	}
}
