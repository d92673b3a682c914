package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/macterm/quillkit/internal/kvp"
)

// MaxMacros is the number of macro slots in a set.
const MaxMacros = 12

// ErrNoMacros is returned for a macros file without any macro keys.
var ErrNoMacros = errors.New("no macro definitions found")

// Macro is one numbered macro. Numbers start at 1.
type Macro struct {
	Number   int
	Name     string
	Contents string
}

// MacroSet is a group of macros that can be made current together.
type MacroSet struct {
	Source string
	Macros []Macro
}

// Get returns the macro with the given number.
func (s *MacroSet) Get(number int) (Macro, bool) {
	for _, m := range s.Macros {
		if m.Number == number {
			return m, true
		}
	}
	return Macro{}, false
}

// MacroSink receives a macro set that should become current.
type MacroSink interface {
	SetCurrentMacros(set *MacroSet)
}

// MacroSetFromValues builds a macro set from parsed ".macros" definitions.
// Keys look like "f1".."f12" for function keys, or "m0".."m11" which are
// zero-based and shifted up by one. Other keys are ignored.
func MacroSetFromValues(source string, values kvp.Values) (*MacroSet, error) {
	set := &MacroSet{Source: source}

	for _, key := range values.Keys() {
		prefix := strings.TrimRight(key, "0123456789")
		suffix := key[len(prefix):]

		switch prefix {
		case "f", "F", "m", "M":
		default:
			continue
		}
		if suffix == "" {
			return nil, fmt.Errorf("macro key %q has no number", key)
		}

		number, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, fmt.Errorf("macro key %q: %w", key, err)
		}
		// files number "m" macros from 0 but function keys from 1
		if prefix == "m" || prefix == "M" {
			number++
		}
		if number < 1 || number > MaxMacros {
			return nil, fmt.Errorf("macro key %q is outside 1-%d", key, MaxMacros)
		}

		set.Macros = append(set.Macros, Macro{
			Number:   number,
			Name:     fmt.Sprintf("Macro %d", number),
			Contents: values[key].String(),
		})
	}

	if len(set.Macros) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMacros, source)
	}

	sort.SliceStable(set.Macros, func(i, j int) bool {
		return set.Macros[i].Number < set.Macros[j].Number
	})
	return set, nil
}
