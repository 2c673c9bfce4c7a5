// Package opener builds filesystems from URL-style resource
// identifiers, so the concrete backend can be chosen by configuration
// instead of code.
//
//	fsys, err := opener.Open(ctx, "osfs:///var/data?create=true")
//
// Backends register an Opener for their schemes in a Registry. The
// package-level functions use a default registry pre-loaded with the
// built-in backends: "mem" for memfs, "osfs" and "file" for osfs, and
// "temp" for temporary directories.
package opener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/gobeaver/fskit"
)

var (
	// ErrUnknownScheme is returned when no opener is installed for a
	// resource identifier's scheme.
	ErrUnknownScheme = errors.New("unknown filesystem scheme")
	// ErrInvalidURL is returned for resource identifiers that cannot be
	// parsed.
	ErrInvalidURL = errors.New("invalid filesystem url")
)

// ResourceURL is a parsed filesystem resource identifier of the form
//
//	scheme://path[!subdir][?params]
//
// A bare path with no scheme is treated as "osfs". The optional
// "!subdir" suffix selects a sub-directory of the opened filesystem.
type ResourceURL struct {
	Scheme string
	Path   string
	Dir    string
	Params url.Values
}

func (u *ResourceURL) String() string {
	s := u.Scheme + "://" + u.Path
	if u.Dir != "" {
		s += "!" + u.Dir
	}
	if len(u.Params) > 0 {
		s += "?" + u.Params.Encode()
	}
	return s
}

// ParseURL parses a resource identifier.
func ParseURL(resource string) (*ResourceURL, error) {
	if resource == "" {
		return nil, fmt.Errorf("%w: empty resource", ErrInvalidURL)
	}
	u := &ResourceURL{Scheme: "osfs", Path: resource, Params: url.Values{}}
	if scheme, rest, ok := strings.Cut(resource, "://"); ok {
		if scheme == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidURL, resource)
		}
		u.Scheme = strings.ToLower(scheme)
		u.Path = rest
	}
	if path, query, ok := strings.Cut(u.Path, "?"); ok {
		params, err := url.ParseQuery(query)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, resource, err)
		}
		u.Path = path
		u.Params = params
	}
	if path, dir, ok := strings.Cut(u.Path, "!"); ok {
		u.Path = path
		u.Dir = dir
	}
	return u, nil
}

// Opener creates a filesystem from a parsed resource identifier.
type Opener interface {
	// Open creates the filesystem. With create set, a missing resource
	// is created rather than reported as an error.
	Open(ctx context.Context, u *ResourceURL, create bool) (fskit.FS, error)
	// Schemes lists the identifier schemes this opener serves.
	Schemes() []string
}

// Registry maps schemes to installed openers. Safe for concurrent use.
type Registry struct {
	schemes *xsync.Map[string, Opener]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemes: xsync.NewMap[string, Opener]()}
}

// Install registers an opener for every scheme it declares, replacing
// any previous opener for those schemes.
func (r *Registry) Install(o Opener) {
	for _, scheme := range o.Schemes() {
		r.schemes.Store(strings.ToLower(scheme), o)
	}
}

// Lookup returns the opener installed for a scheme.
func (r *Registry) Lookup(scheme string) (Opener, bool) {
	return r.schemes.Load(strings.ToLower(scheme))
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

type openConfig struct {
	create bool
}

// WithCreate asks the opener to create the resource when it does not
// exist.
func WithCreate() OpenOption {
	return func(c *openConfig) { c.create = true }
}

// Open parses a resource identifier and builds the filesystem it
// names. When the identifier carries a "!subdir" suffix, the returned
// filesystem is a sub-filesystem rooted there.
func (r *Registry) Open(ctx context.Context, resource string, opts ...OpenOption) (fskit.FS, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	u, err := ParseURL(resource)
	if err != nil {
		return nil, err
	}
	o, ok := r.Lookup(u.Scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
	}
	create := cfg.create || u.Params.Get("create") == "true"
	fsys, err := o.Open(ctx, u, create)
	if err != nil {
		return nil, err
	}
	if u.Dir == "" {
		return fsys, nil
	}
	dir := fskit.Abs(u.Dir)
	if create {
		if err := fskit.MakeDirs(ctx, fsys, dir, true); err != nil {
			fsys.Close()
			return nil, err
		}
	}
	sub, err := fskit.OpenDir(ctx, fsys, dir, fskit.WithCloseParent())
	if err != nil {
		fsys.Close()
		return nil, err
	}
	return sub, nil
}

// defaultRegistry serves the package-level functions.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	r.Install(memOpener{})
	r.Install(osOpener{})
	r.Install(tempOpener{})
	return r
}()

// Default returns the registry used by the package-level functions.
func Default() *Registry {
	return defaultRegistry
}

// Install registers an opener in the default registry.
func Install(o Opener) {
	defaultRegistry.Install(o)
}

// Open builds a filesystem from a resource identifier using the
// default registry.
func Open(ctx context.Context, resource string, opts ...OpenOption) (fskit.FS, error) {
	return defaultRegistry.Open(ctx, resource, opts...)
}
