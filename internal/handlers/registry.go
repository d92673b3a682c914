// Package handlers opens URLs and files as terminal sessions through a
// dispatch table resolved at startup.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnsupported is returned for a URL scheme or file extension with no
	// registered handler.
	ErrUnsupported = errors.New("unsupported")
	// ErrUnsupportedForm is returned for a URL of a known scheme that lacks
	// the parts needed to start a session.
	ErrUnsupportedForm = errors.New("unsupported form of URL")
)

// URLHandler opens a URL.
type URLHandler interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// URLHandlerFunc adapts a function to URLHandler.
type URLHandlerFunc func(ctx context.Context, rawURL string) error

func (f URLHandlerFunc) OpenURL(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}

// FileHandler opens a file.
type FileHandler interface {
	OpenFile(ctx context.Context, path string) error
}

// FileHandlerFunc adapts a function to FileHandler.
type FileHandlerFunc func(ctx context.Context, path string) error

func (f FileHandlerFunc) OpenFile(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Registry maps URL kinds and file kinds to their handlers.
type Registry struct {
	mu         sync.RWMutex
	urls       map[URLKind]URLHandler
	files      map[FileKind]FileHandler
	extensions map[string]FileKind
}

// NewRegistry creates an empty registry that knows the default file
// extensions.
func NewRegistry() *Registry {
	extensions := make(map[string]FileKind, len(DefaultExtensions))
	for ext, kind := range DefaultExtensions {
		extensions[ext] = kind
	}
	return &Registry{
		urls:       make(map[URLKind]URLHandler),
		files:      make(map[FileKind]FileHandler),
		extensions: extensions,
	}
}

// HandleURL registers h for a URL kind, replacing any earlier handler.
func (r *Registry) HandleURL(kind URLKind, h URLHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls[kind] = h
}

// HandleFile registers h for a file kind, replacing any earlier handler.
func (r *Registry) HandleFile(kind FileKind, h FileHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[kind] = h
}

// MapExtension makes files ending in ext open as kind.
func (r *Registry) MapExtension(ext string, kind FileKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extensions[ext] = kind
}

// ResolveURL returns the kind and handler for rawURL.
func (r *Registry) ResolveURL(rawURL string) (URLKind, URLHandler, error) {
	scheme := SchemeOf(rawURL)
	if scheme == "" {
		return 0, nil, fmt.Errorf("%w: no scheme in %q", ErrUnsupported, rawURL)
	}
	kind, err := ParseURLKind(scheme)
	if err != nil {
		return 0, nil, err
	}

	r.mu.RLock()
	h, ok := r.urls[kind]
	r.mu.RUnlock()
	if !ok {
		return kind, nil, fmt.Errorf("%w: no handler for %s URLs", ErrUnsupported, kind)
	}
	return kind, h, nil
}

// ResolveFile returns the kind and handler for path, chosen by extension.
func (r *Registry) ResolveFile(path string) (FileKind, FileHandler, error) {
	ext := Extension(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.extensions[ext]
	if !ok {
		return 0, nil, fmt.Errorf("%w: file extension %q", ErrUnsupported, ext)
	}
	h, ok := r.files[kind]
	if !ok {
		return kind, nil, fmt.Errorf("%w: no handler for %s files", ErrUnsupported, kind)
	}
	return kind, h, nil
}

// OpenURL dispatches rawURL to its handler.
func (r *Registry) OpenURL(ctx context.Context, rawURL string) error {
	_, h, err := r.ResolveURL(rawURL)
	if err != nil {
		return err
	}
	return h.OpenURL(ctx, rawURL)
}

// OpenFile dispatches path to its handler.
func (r *Registry) OpenFile(ctx context.Context, path string) error {
	_, h, err := r.ResolveFile(path)
	if err != nil {
		return err
	}
	return h.OpenFile(ctx, path)
}

// URLKinds returns the kinds with a registered handler.
func (r *Registry) URLKinds() []URLKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]URLKind, 0, len(r.urls))
	for kind := range r.urls {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Extensions returns the known file extensions with a registered handler,
// sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var exts []string
	for ext, kind := range r.extensions {
		if _, ok := r.files[kind]; ok {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
