// Package kvp parses key-value-pair files such as ".session" and ".macros".
//
// Each line holds a key, an "=" sign and a value. The value may be quoted. A
// value in braces is a list whose items are separated by commas. Keys may
// appear in any order; the parser does not require any particular set.
//
// The raw file is UTF-8 unless it defines the key "encoding" with an IANA
// character set name, in which case the file is decoded with that charset.
package kvp

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// EncodingKey names the key that declares the file's character set.
const EncodingKey = "encoding"

// SyntaxError reports a line that is not a key-value pair.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("session file line %d: %s", e.Line, e.Msg)
}

// Item is one element of a list value.
type Item struct {
	Text     string
	Number   int
	IsNumber bool
}

func (it Item) String() string {
	if it.IsNumber {
		return strconv.Itoa(it.Number)
	}
	return it.Text
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.IsNumber {
		return json.Marshal(it.Number)
	}
	return json.Marshal(it.Text)
}

// Value is either a plain string or a list of items.
type Value struct {
	text   string
	items  []Item
	isList bool
}

// IsList reports whether the value was written in braces.
func (v Value) IsList() bool { return v.isList }

// Items returns the list items, or nil for a plain value.
func (v Value) Items() []Item { return v.items }

// String returns the plain value, or the list formatted as "(a, b, c)".
func (v Value) String() string {
	if !v.isList {
		return v.text
	}
	parts := make([]string, len(v.items))
	for i, it := range v.items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.items)
	}
	return json.Marshal(v.text)
}

// Values holds the definitions parsed from a file.
type Values map[string]Value

// Keys returns the defined keys in sorted order.
func (vs Values) Keys() []string {
	keys := make([]string, 0, len(vs))
	for k := range vs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Text returns a plain value.
func (vs Values) Text(key string) (string, bool) {
	v, ok := vs[key]
	if !ok || v.isList {
		return "", false
	}
	return v.text, true
}

// Int returns a plain value as a number.
func (vs Values) Int(key string) (int, error) {
	s, ok := vs.Text(key)
	if !ok {
		return 0, fmt.Errorf("no plain value for key %q", key)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("value of key %q is not a number: %w", key, err)
	}
	return n, nil
}

// List returns the items of a list value.
func (vs Values) List(key string) ([]Item, bool) {
	v, ok := vs[key]
	if !ok || !v.isList {
		return nil, false
	}
	return v.items, true
}

// ParseFile reads and parses the named file.
func ParseFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseBytes(data)
}

// Parse reads everything from r and parses it.
func Parse(r io.Reader) (Values, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read key-value pairs: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses raw file contents, honoring a declared encoding.
func ParseBytes(data []byte) (Values, error) {
	values, err := ParseLines(splitLines(string(data)))
	if err != nil {
		return nil, err
	}

	name, ok := values.Text(EncodingKey)
	if !ok || isUTF8(name) {
		return values, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return ParseLines(splitLines(string(decoded)))
}

// ParseLines parses lines that have already been split and decoded. Blank
// lines are skipped; line numbers in errors count them.
func ParseLines(lines []string) (Values, error) {
	values := make(Values)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, raw, found := strings.Cut(line, "=")
		if !found {
			return nil, &SyntaxError{Line: i + 1, Msg: "expected key = value"}
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &SyntaxError{Line: i + 1, Msg: "missing key"}
		}

		raw = strings.Trim(raw, " \t\n\"'")
		if strings.HasPrefix(raw, "{") {
			values[key] = Value{items: parseList(raw), isList: true}
		} else {
			values[key] = Value{text: raw}
		}
	}

	return values, nil
}

func parseList(raw string) []Item {
	raw = strings.TrimLeft(raw, "{")
	raw = strings.TrimRight(raw, "}")

	fields := strings.Split(raw, ",")
	items := make([]Item, 0, len(fields))
	for _, field := range fields {
		items = append(items, parseItem(field))
	}
	return items
}

func parseItem(field string) Item {
	text := strings.Trim(field, " \t\n")
	text = strings.Trim(text, "\"'")
	if n, err := strconv.Atoi(text); err == nil {
		return Item{Text: text, Number: n, IsNumber: true}
	}
	return Item{Text: text}
}

// splitLines accepts Unix, DOS and classic Mac line endings.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "csutf8":
		return true
	}
	return false
}
