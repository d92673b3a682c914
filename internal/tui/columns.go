package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

const tabWidth = 8

// OffsetAtColumn maps a screen column in line to the rune offset of the
// character drawn there. Wide characters cover two columns. ok is false
// for columns past the end of the line.
func OffsetAtColumn(line string, col int) (offset int, ok bool) {
	if col < 0 {
		return 0, false
	}

	x := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		w := g.Width()
		if w > 0 && col < x+w {
			return offset, true
		}
		x += w
		offset += len(g.Runes())
	}
	return 0, false
}

// ColumnOfOffset returns the screen column where the character at rune
// offset starts.
func ColumnOfOffset(line string, offset int) int {
	x, runes := 0, 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		if runes >= offset {
			break
		}
		x += g.Width()
		runes += len(g.Runes())
	}
	return x
}

// ExpandTabs replaces tabs with spaces up to the next tab stop so that
// every character has a visible width.
func ExpandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}

	var b strings.Builder
	x := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		if g.Str() == "\t" {
			n := tabWidth - x%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			x += n
			continue
		}
		b.WriteString(g.Str())
		x += g.Width()
	}
	return b.String()
}

// LoadLines reads r into display lines with tabs expanded and invalid UTF-8
// dropped.
func LoadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for sc.Scan() {
		line := strings.ToValidUTF8(strings.TrimRight(sc.Text(), "\r"), "")
		lines = append(lines, ExpandTabs(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return lines, nil
}
