package fsspec

import (
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
)

// FSMux allows you to dynamically look up a registered filesystem for a given
// URL. All filesystems provided in this module can be registered, and
// additional filesystems can be registered given an implementation of
// FSProvider.
// FSMux is itself an FSProvider, which provides the superset of all registered
// filesystems.
type FSMux map[string]FSProvider

var (
	_ FSProvider    = (FSMux)(nil)
	_ PathFromURLer = (FSMux)(nil)
)

// NewMux returns an FSMux ready for use.
func NewMux() FSMux {
	return FSMux(map[string]FSProvider{})
}

// Add registers the given filesystem provider for its supported URL schemes. If
// any of its schemes are already registered, they will be overridden.
func (m FSMux) Add(fsp FSProvider) {
	for _, scheme := range fsp.Schemes() {
		m[scheme] = fsp
	}
}

// Lookup returns an appropriate filesystem for the given URL. Use Add to
// register providers.
func (m FSMux) Lookup(u string) (fs.FS, error) {
	base, err := ParseURL(u)
	if err != nil {
		return nil, err
	}

	return m.New(base)
}

// URLToFS returns an appropriate filesystem for the given URL, along with the
// path the URL names within it ("" for the filesystem root).
func (m FSMux) URLToFS(u string) (fs.FS, string, error) {
	base, err := ParseURL(u)
	if err != nil {
		return nil, "", err
	}

	fsys, err := m.New(base)
	if err != nil {
		return nil, "", err
	}

	return fsys, m.PathFromURL(base), nil
}

// Schemes - implements FSProvider
func (m FSMux) Schemes() []string {
	schemes := make([]string, 0, len(m))
	for scheme := range m {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// New - implements FSProvider
func (m FSMux) New(u *url.URL) (fs.FS, error) {
	fsp, ok := m[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("no filesystem registered for scheme %q", u.Scheme)
	}

	return fsp.New(u)
}

// PathFromURL - implements PathFromURLer, using the provider registered for
// the URL's scheme.
func (m FSMux) PathFromURL(u *url.URL) string {
	if p, ok := m[u.Scheme].(PathFromURLer); ok {
		return p.PathFromURL(u)
	}

	return defaultPath(u)
}

// FSProvider provides a filesystem for a set of defined schemes
type FSProvider interface {
	// Schemes returns the valid URL schemes for this filesystem
	Schemes() []string

	// New returns a filesystem from the given URL
	New(u *url.URL) (fs.FS, error)
}

// PathFromURLer is an FSProvider that knows which path within its filesystem
// a URL names. Providers without this method are assumed to use the URL's
// path (or opaque part).
type PathFromURLer interface {
	PathFromURL(u *url.URL) string
}

// FSProviderFunc -
func FSProviderFunc(f func(*url.URL) (fs.FS, error), schemes ...string) FSProvider {
	return fsp{newFunc: f, schemes: schemes}
}

// FSProviderWithPath is like FSProviderFunc, with pathFunc used to find the
// path a URL names.
func FSProviderWithPath(f func(*url.URL) (fs.FS, error), pathFunc func(*url.URL) string, schemes ...string) FSProvider {
	return fsp{newFunc: f, pathFunc: pathFunc, schemes: schemes}
}

type fsp struct {
	newFunc  func(*url.URL) (fs.FS, error)
	pathFunc func(*url.URL) string
	schemes  []string
}

func (p fsp) Schemes() []string {
	return p.schemes
}

func (p fsp) New(u *url.URL) (fs.FS, error) {
	return p.newFunc(u)
}

func (p fsp) PathFromURL(u *url.URL) string {
	if p.pathFunc == nil {
		return defaultPath(u)
	}

	return p.pathFunc(u)
}

// WrappedFSProvider is an FSProvider that returns the given fs.FS for every
// URL. The URL's path names a path within fsys.
func WrappedFSProvider(fsys fs.FS, schemes ...string) FSProvider {
	return fsp{
		newFunc: func(_ *url.URL) (fs.FS, error) { return fsys, nil },
		schemes: schemes,
	}
}

func defaultPath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}

	return strings.Trim(u.Path, "/")
}

// ParseURL parses u with url.Parse. Strings that are well-formed apart from
// the part following the scheme (for example "gitlab://project:file", whose
// "port" isn't numeric) are returned as opaque URLs, so that their provider
// can apply its own grammar.
//
// Strings without a scheme are local paths, returned unescaped as "file" URLs.
func ParseURL(u string) (*url.URL, error) {
	if isLocalPath(u) {
		return &url.URL{Scheme: "file", Path: filepath.ToSlash(u)}, nil
	}

	base, err := url.Parse(u)
	if err == nil {
		return base, nil
	}

	scheme, rest, ok := strings.Cut(u, ":")
	if !ok || !validScheme(scheme) {
		return nil, err
	}

	return &url.URL{Scheme: strings.ToLower(scheme), Opaque: rest}, nil
}

// isLocalPath reports whether u has no scheme, so that no ':' comes before
// the first '/'.
func isLocalPath(u string) bool {
	if filepath.VolumeName(u) != "" {
		return true
	}

	i := strings.IndexAny(u, ":/")

	return i < 0 || u[i] == '/'
}

// validScheme reports whether s is a URL scheme as defined by RFC 3986:
// ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func validScheme(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}

	return true
}
