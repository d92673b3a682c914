package termtext

import "fmt"

// DumbRendering returns the text a dumb terminal shows for a character code,
// so that every character, including invisible ones, has a visible form.
func DumbRendering(code int) string {
	switch {
	case code < 0:
		return "<?>"
	case code == 27:
		return "<ESC>"
	case code < ' ':
		return "^" + string(rune('@'+code))
	case code < 128 && isPrintable(rune(code)):
		return string(rune(code))
	case code < 128:
		return fmt.Sprintf("<%d>", code)
	default:
		return fmt.Sprintf("<u%d>", code)
	}
}

// isPrintable matches the ASCII letters, digits, punctuation and whitespace.
func isPrintable(r rune) bool {
	return (r >= ' ' && r <= '~') || isWhitespace(r)
}
