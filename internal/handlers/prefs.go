package handlers

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotPropertyList is returned for a prefs file that is not an XML
// property list.
var ErrNotPropertyList = errors.New("not an XML property list")

// ValidatePropertyList checks that r holds well-formed XML whose root element
// is <plist>.
func ValidatePropertyList(r io.Reader) error {
	dec := xml.NewDecoder(r)
	root := ""

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotPropertyList, err)
		}
		if start, ok := tok.(xml.StartElement); ok && root == "" {
			root = start.Name.Local
		}
	}

	if root != "plist" {
		return fmt.Errorf("%w: root element is %q", ErrNotPropertyList, root)
	}
	return nil
}

// ImportPrefs copies a property list into dir. When a file of the same name
// exists, a numbered name such as "Name 2.plist" is chosen instead. The path
// of the imported copy is returned.
func ImportPrefs(path, dir string) (string, error) {
	// #nosec G304 - importing a user-chosen file is the point
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read preferences: %w", err)
	}
	if err := ValidatePropertyList(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preferences directory: %w", err)
	}

	dest, err := uniquePath(dir, filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write preferences: %w", err)
	}
	return dest, nil
}

func uniquePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for n := 2; n < 1000; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s %d%s", stem, n, ext))
	}
	return "", fmt.Errorf("no free name for %s in %s", name, dir)
}
