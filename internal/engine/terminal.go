package engine

import (
	"log/slog"
	"sync"
)

// WordSeeker resolves the word around a double-clicked character. Offsets and
// lengths are in characters, not bytes or cells.
type WordSeeker func(text string, offset int) (start, length int, err error)

// DumbTableSize is the number of character codes with a dumb-terminal string.
const DumbTableSize = 256

// Terminal holds the callbacks and tables a terminal view consults. Only one
// word seeker is registered at a time.
type Terminal struct {
	mu     sync.RWMutex
	seeker WordSeeker
	dumb   [DumbTableSize]string
	logger *slog.Logger
}

// NewTerminal creates a terminal with no word seeker and an empty dumb table.
func NewTerminal(logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{logger: logger}
}

// OnSeekWord registers fn as the word seeker, replacing any earlier one. A nil
// fn restores character-only selection.
func (t *Terminal) OnSeekWord(fn WordSeeker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seeker = fn
}

// HasWordSeeker reports whether a word seeker is registered.
func (t *Terminal) HasWordSeeker() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.seeker != nil
}

// SeekWord resolves a double-click at offset. Without a registered seeker, or
// when the seeker fails, the single character at offset is selected.
func (t *Terminal) SeekWord(text string, offset int) (start, length int) {
	t.mu.RLock()
	fn := t.seeker
	t.mu.RUnlock()

	if fn == nil {
		return offset, 1
	}

	start, length, err := fn(text, offset)
	if err != nil {
		t.logger.Warn("word seeker failed, using single character",
			"offset", offset,
			"error", err,
		)
		return offset, 1
	}
	return start, length
}

// SetDumbString sets how a dumb terminal renders a character code. Codes
// outside the table are ignored and reported as false.
func (t *Terminal) SetDumbString(code int, s string) bool {
	if code < 0 || code >= DumbTableSize {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dumb[code] = s
	return true
}

// DumbString returns the dumb-terminal rendering for a character code, or ""
// when none is set.
func (t *Terminal) DumbString(code int) string {
	if code < 0 || code >= DumbTableSize {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dumb[code]
}
