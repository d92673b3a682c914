package commands

import (
	"encoding/json"
	"io"

	"github.com/macterm/quillkit/internal/app"
)

// AppFunc returns the startup context, building it on first use.
type AppFunc func() (*app.App, error)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
