package conf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	errEmptyDocument = errors.New("document is empty")
	errNullDocument  = errors.New("document has a null root")
	errNotAnObject   = errors.New("document root is not an object")
	errMalformed     = errors.New("document is not valid JSON")
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "  "}

var utf8BOM = []byte("\xEF\xBB\xBF")

// parseDocument validates data and returns its top-level properties. A
// leading byte order mark, comments and trailing commas are ignored. A key
// that appears more than once keeps its last value.
func parseDocument(data []byte) (map[string]gjson.Result, error) {
	data = jsonc.ToJSON(bytes.TrimPrefix(data, utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyDocument
	}
	if !gjson.ValidBytes(data) {
		return nil, errMalformed
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.Type == gjson.Null:
		return nil, errNullDocument
	case !root.IsObject():
		return nil, fmt.Errorf("%w: got %s", errNotAnObject, root.Type)
	}

	props := make(map[string]gjson.Result)
	root.ForEach(func(key, value gjson.Result) bool {
		props[key.String()] = value
		return true
	})
	return props, nil
}

// documentBuilder accumulates raw values in insertion order.
type documentBuilder struct {
	doc []byte
}

func newDocumentBuilder() *documentBuilder {
	return &documentBuilder{doc: []byte("{}")}
}

func (b *documentBuilder) set(key string, raw []byte) error {
	doc, err := sjson.SetRawBytes(b.doc, escapeKey(key), raw)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	b.doc = doc
	return nil
}

func (b *documentBuilder) bytes() []byte {
	return pretty.PrettyOptions(b.doc, prettyOptions)
}

// escapeKey turns a literal object key into an sjson path. An all-digit key
// is prefixed with ':' so sjson does not treat it as an array index.
func escapeKey(key string) string {
	escaped := gjson.Escape(key)
	if key != "" && strings.Trim(key, "0123456789") == "" {
		return ":" + escaped
	}
	return escaped
}
