package probe

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const (
	// Signature is the lower-cased, whitespace-free prefix that marks a web page.
	Signature = "<!doctype"

	// MaxPeek bounds how far into the stream Probe looks for the signature.
	MaxPeek = 4096
)

// Peeker exposes the first bytes of a stream without consuming them.
//
// *bufio.Reader satisfies Peeker. Peek may return fewer than n bytes
// together with an error when the stream ends early.
type Peeker interface {
	Peek(n int) ([]byte, error)
}

// Probe decides whether a resource should be handled by the extractor.
//
// Only the http and https access schemes qualify; for any other scheme no
// bytes are read. The peek window starts at len(Signature) bytes and grows
// by one until it holds that many non-whitespace characters. The resource
// is accepted when those characters, lower-cased, equal "<!doctype": the
// resource is a web page rather than a media stream.
//
// Probe returns false if the stream ends, or MaxPeek bytes are inspected,
// before enough characters are collected.
func Probe(access string, p Peeker) bool {
	if access != "http" && access != "https" {
		return false
	}

	need := len(Signature)
	for n := need; n <= MaxPeek; n++ {
		buf, err := p.Peek(n)
		s := strings.ToLower(stripSpace(string(buf)))
		if len(s) >= need {
			return s[:need] == Signature
		}
		if err != nil || len(buf) < n {
			return false
		}
	}

	return false
}

// Split breaks a URL into the access scheme and the remainder, the way the
// player hands them to the extension.
//
//	access, path, _ := Split("https://www.youtube.com/watch?v=abc123")
//	// access = "https", path = "www.youtube.com/watch?v=abc123"
func Split(rawURL string) (access, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		return "", "", fmt.Errorf("missing scheme in %q", rawURL)
	}

	return strings.ToLower(u.Scheme), strings.TrimPrefix(rawURL[len(u.Scheme)+1:], "//"), nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
