// Package browser opens URLs in a new browsing context of the user's
// desktop browser.
package browser

import (
	"io"
	"net/url"

	"github.com/Laisky/errors/v2"
	pkgbrowser "github.com/pkg/browser"
)

// Opener opens a URL for the user.
type Opener interface {
	Open(rawURL string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(rawURL string) error

// Open calls f(rawURL).
func (f OpenerFunc) Open(rawURL string) error { return f(rawURL) }

// System opens URLs with the platform's default URL handler.
type System struct {
	launch func(rawURL string) error
}

// NewSystem returns an Opener backed by github.com/pkg/browser. Output of
// the launched handler is discarded so it cannot draw over the terminal UI.
func NewSystem() *System {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
	return &System{launch: pkgbrowser.OpenURL}
}

// Open launches the default browser on rawURL. Only absolute http(s)
// URLs are accepted.
func (s *System) Open(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrapf(err, "parse url %q", rawURL)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.Errorf("refuse to open non http(s) url %q", rawURL)
	}

	if err := s.launch(rawURL); err != nil {
		return errors.Wrapf(err, "open %q", rawURL)
	}
	return nil
}
