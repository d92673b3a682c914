package termtext

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// ErrInvalidArgument is returned when the seed offset does not address a
// character of the line.
var ErrInvalidArgument = errors.New("invalid argument")

// Mode selects which word scanning rules apply.
type Mode int

const (
	// ModeFull scans whitespace-delimited runs and then trims punctuation,
	// unbalanced brackets and quotes, and balanced wrappers.
	ModeFull Mode = iota
	// ModeSimple only scans whitespace-delimited runs.
	ModeSimple
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	default:
		return "full"
	}
}

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "full":
		return ModeFull, nil
	case "simple":
		return ModeSimple, nil
	default:
		return ModeFull, fmt.Errorf("unknown word mode %q", s)
	}
}

// Scanner finds the word around a double-clicked character.
type Scanner struct {
	mode      Mode
	logger    *slog.Logger
	isNonword func(rune) bool
}

// NewScanner creates a scanner. A nil logger falls back to slog.Default().
func NewScanner(mode Mode, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		mode:      mode,
		logger:    logger,
		isNonword: isWhitespace,
	}
}

// Mode reports the rules the scanner applies.
func (s *Scanner) Mode() Mode {
	return s.mode
}

// FindWord returns the character range of the word containing the character
// at pos, using the default full-mode scanner.
func FindWord(line string, pos int) (start, length int, err error) {
	return NewScanner(ModeFull, nil).FindWord(line, pos)
}

// FindWordSimple is FindWord without any punctuation or bracket trimming.
func FindWordSimple(line string, pos int) (start, length int, err error) {
	return NewScanner(ModeSimple, nil).FindWord(line, pos)
}

// FindWord returns the character (not byte) range of the word containing the
// character at pos. Invalid UTF-8 in line is dropped before indexing.
//
// If the scan faults, the fault is logged and the single character at pos is
// returned. If trimming leaves pos outside the word, the single character at
// pos is returned as well.
func (s *Scanner) FindWord(line string, pos int) (start, length int, err error) {
	if pos < 0 {
		return 0, 0, fmt.Errorf("%w: offset must be non-negative", ErrInvalidArgument)
	}

	text := decodeRunes(line)
	if pos >= len(text) {
		return 0, 0, fmt.Errorf("%w: offset out of range (%d >= %d)", ErrInvalidArgument, pos, len(text))
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("exception while trying to find words",
				"offset", pos,
				"panic", r,
			)
			start, length, err = pos, 1, nil
		}
	}()

	start, length = s.scan(text, pos)
	if pos < start || pos >= start+length {
		return pos, 1, nil
	}

	return start, length, nil
}

func (s *Scanner) scan(text []rune, pos int) (int, int) {
	invert := s.isNonword(text[pos])

	i := pos
	for i > 0 && s.isNonword(text[i-1]) == invert {
		i--
	}

	j := pos
	for j < len(text)-1 && s.isNonword(text[j+1]) == invert {
		j++
	}

	w := span{text: text, start: i, length: j - i + 1}
	if invert || s.mode == ModeSimple {
		return w.start, w.length
	}

	w.trimPunctuation()
	if w.length > 1 {
		w.trimUnbalanced()
	}
	// stripping a bracket can expose punctuation that was inside it
	w.trimPunctuation()
	w.stripWrappers()

	return w.start, w.length
}

// span is a window of characters that the trimming passes shrink in place.
type span struct {
	text   []rune
	start  int
	length int
}

func (w *span) first() rune { return w.text[w.start] }
func (w *span) last() rune  { return w.text[w.start+w.length-1] }

func (w *span) trimPunctuation() {
	if w.length > 1 && isTrailingPunctuation(w.last()) {
		w.length--
	}
}

func (w *span) trimUnbalanced() {
	var openParens, closeParens, doubleQuotes, singleQuotes int
	for _, r := range w.text[w.start : w.start+w.length] {
		switch {
		case r == '"':
			doubleQuotes++
		case isSingleQuote(r):
			singleQuotes++
		case r == '(':
			openParens++
		case r == ')':
			closeParens++
		}
	}

	// keep "xyz()" but change "xyz)" to "xyz"
tail:
	for w.length > 1 {
		switch last := w.last(); {
		case last == ')' && closeParens > openParens:
			closeParens--
		case last == '"' && doubleQuotes%2 != 0:
			doubleQuotes--
		case isSingleQuote(last) && singleQuotes%2 != 0:
			singleQuotes--
		default:
			break tail
		}
		w.length--
	}

	// keep "(xyz)" but change "(xyz" to "xyz"
head:
	for w.length > 1 {
		switch first := w.first(); {
		case first == '(' && openParens > closeParens:
			openParens--
		case first == '"' && doubleQuotes%2 != 0:
			doubleQuotes--
		case isSingleQuote(first) && singleQuotes%2 != 0:
			singleQuotes--
		default:
			break head
		}
		w.start++
		w.length--
	}
}

func (w *span) stripWrappers() {
	for w.length > 2 && isWrapperPair(w.first(), w.last()) {
		w.start++
		w.length -= 2
	}
}

// Slice returns length characters of line starting at start, counting
// characters the way FindWord does. Out of range bounds are clamped.
func Slice(line string, start, length int) string {
	text := decodeRunes(line)
	if start < 0 {
		start = 0
	}
	if start > len(text) {
		start = len(text)
	}
	end := start + length
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		end = start
	}
	return string(text[start:end])
}

func decodeRunes(line string) []rune {
	text := make([]rune, 0, len(line))
	for len(line) > 0 {
		r, size := utf8.DecodeRuneInString(line)
		line = line[size:]
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		text = append(text, r)
	}
	return text
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isTrailingPunctuation(r rune) bool {
	switch r {
	case '.', ',', ';', ':':
		return true
	}
	return false
}

// Backquotes count as single quotes because GNU tools use them as opening
// quotation marks.
func isSingleQuote(r rune) bool {
	return r == '\'' || r == '`'
}

func isWrapperPair(first, last rune) bool {
	switch {
	case first == '"' && last == '"',
		first == '\'' && last == '\'',
		first == '`' && last == '`',
		first == '`' && last == '\'',
		first == '<' && last == '>',
		first == '(' && last == ')',
		first == '[' && last == ']',
		first == '{' && last == '}':
		return true
	}
	return false
}
