package fskit

import (
	"context"
	"errors"
	"strings"

	"github.com/gobwas/glob"
)

// The glob engine compiles shell-style wildcard patterns into a
// sequence of per-segment matchers and drives the Walker to produce
// lazy match results. Each path segment is a literal name, a
// single-segment wildcard ("*", "?", character classes), or the
// recursive segment "**" which matches zero or more whole segments.

type globSegment struct {
	any     bool // "**"
	matcher glob.Glob
}

// GlobPattern is a compiled glob pattern.
type GlobPattern struct {
	raw       string
	segments  []globSegment
	dirOnly   bool
	recursive bool
	levels    int
}

// ParsePattern compiles a glob pattern. A trailing "/" restricts
// matches to directories.
func ParsePattern(pattern string) (*GlobPattern, error) {
	p := &GlobPattern{
		raw:     pattern,
		dirOnly: strings.HasSuffix(pattern, "/"),
	}
	for _, component := range Parts(pattern) {
		if component == "**" {
			p.segments = append(p.segments, globSegment{any: true})
			p.recursive = true
		} else {
			matcher, err := glob.Compile(component)
			if err != nil {
				return nil, errPath("glob", pattern, ErrInvalidPath)
			}
			p.segments = append(p.segments, globSegment{matcher: matcher})
		}
		p.levels++
	}
	return p, nil
}

// String returns the original pattern text.
func (p *GlobPattern) String() string {
	return p.raw
}

// Match tests a path against the pattern. Directory paths may carry a
// trailing "/"; patterns ending in "/" match only those.
func (p *GlobPattern) Match(path string) bool {
	isDir := strings.HasSuffix(path, "/")
	if p.dirOnly && !isDir {
		return false
	}
	return matchSegments(p.segments, Parts(path))
}

// matchSegments matches pattern segments against path components.
// A "**" segment requires trying every split point, since it may match
// any number of components including zero.
func matchSegments(segments []globSegment, parts []string) bool {
	if len(segments) == 0 {
		return len(parts) == 0
	}
	seg := segments[0]
	if seg.any {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(segments[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 || !seg.matcher.Match(parts[0]) {
		return false
	}
	return matchSegments(segments[1:], parts[1:])
}

// GlobMatch compiles a pattern and tests a single path against it.
func GlobMatch(pattern, path string) (bool, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return false, err
	}
	return p.Match(path), nil
}

// Globber matches resources on a filesystem against a glob pattern.
// Results are produced lazily; each call to Matches, Count or Remove
// runs a fresh traversal.
type Globber struct {
	fsys        FS
	pattern     *GlobPattern
	path        string
	namespaces  []string
	excludeDirs []string
}

// GlobOption configures a Globber.
type GlobOption func(*Globber)

// WithGlobPath sets the directory the glob search starts from.
func WithGlobPath(path string) GlobOption {
	return func(g *Globber) { g.path = path }
}

// WithGlobNamespaces requests additional info namespaces for matches.
func WithGlobNamespaces(namespaces ...string) GlobOption {
	return func(g *Globber) { g.namespaces = namespaces }
}

// WithGlobExcludeDirs prunes directories from the search by name
// pattern.
func WithGlobExcludeDirs(patterns ...string) GlobOption {
	return func(g *Globber) { g.excludeDirs = patterns }
}

// NewGlobber compiles a pattern and binds it to a filesystem.
func NewGlobber(fsys FS, pattern string, opts ...GlobOption) (*Globber, error) {
	compiled, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	g := &Globber{fsys: fsys, pattern: compiled, path: "/"}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// walker builds a Walker scoped to the pattern: a non-recursive pattern
// can never match below its own segment count, so descent is pruned
// there.
func (g *Globber) walker(search Search, namespaces ...string) *Walker {
	opts := []WalkOption{WithSearch(search)}
	if !g.pattern.recursive {
		opts = append(opts, WithMaxDepth(g.pattern.levels))
	}
	if g.excludeDirs != nil {
		opts = append(opts, WithExcludeDirs(g.excludeDirs...))
	}
	if len(namespaces) == 0 {
		namespaces = g.namespaces
	}
	if len(namespaces) > 0 {
		opts = append(opts, WithNamespaces(namespaces...))
	}
	return NewWalker(opts...)
}

// GlobMatches is a lazy, single-pass cursor over glob matches.
type GlobMatches struct {
	entries *Entries
	pattern *GlobPattern
	path    string
	info    *Info
}

// Matches starts a traversal and returns a cursor of matching
// (path, info) pairs.
func (g *Globber) Matches(ctx context.Context) *GlobMatches {
	return g.matches(ctx, BreadthFirst)
}

func (g *Globber) matches(ctx context.Context, search Search, namespaces ...string) *GlobMatches {
	return &GlobMatches{
		entries: g.walker(search, namespaces...).Info(ctx, g.fsys, g.path),
		pattern: g.pattern,
	}
}

// Next advances to the next match.
func (m *GlobMatches) Next() bool {
	for m.entries.Next() {
		path := m.entries.Path()
		info := m.entries.Info()
		candidate := path
		if info.IsDir() {
			candidate = ForceDir(path)
		}
		if m.pattern.Match(candidate) {
			m.path = path
			m.info = info
			return true
		}
	}
	return false
}

// Path returns the current match's absolute path.
func (m *GlobMatches) Path() string {
	return m.path
}

// Info returns the current match's resource info.
func (m *GlobMatches) Info() *Info {
	return m.info
}

// Err returns the first traversal error, if any.
func (m *GlobMatches) Err() error {
	return m.entries.Err()
}

// GlobCounts aggregates resources matched by a glob pattern.
type GlobCounts struct {
	Files       int
	Directories int
	Data        int64
}

// Count consumes the match sequence, counting matched files,
// directories and total file bytes.
func (g *Globber) Count(ctx context.Context) (GlobCounts, error) {
	var counts GlobCounts
	matches := g.matches(ctx, BreadthFirst, NamespaceDetails)
	for matches.Next() {
		info := matches.Info()
		if info.IsDir() {
			counts.Directories++
		} else {
			counts.Files++
			if size, err := info.Size(); err == nil {
				counts.Data += size
			}
		}
	}
	return counts, matches.Err()
}

// Remove deletes every matched resource, walking depth-first so
// directory contents go before the directory itself. It continues past
// individual resource failures and reports the number removed along
// with any errors joined together.
func (g *Globber) Remove(ctx context.Context) (int, error) {
	removed := 0
	var errs []error
	matches := g.matches(ctx, DepthFirst)
	for matches.Next() {
		var err error
		if matches.Info().IsDir() {
			err = RemoveTree(ctx, g.fsys, matches.Path())
		} else {
			err = g.fsys.Remove(ctx, matches.Path())
		}
		if err != nil {
			if IsNotExist(err) {
				// Already removed with an enclosing directory.
				continue
			}
			errs = append(errs, err)
			continue
		}
		removed++
	}
	if err := matches.Err(); err != nil {
		errs = append(errs, err)
	}
	return removed, errors.Join(errs...)
}
