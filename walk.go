package fskit

import (
	"context"
)

// Search selects the traversal strategy of a Walker.
type Search int

const (
	// BreadthFirst processes a directory's entries before descending
	// into any of its sub-directories.
	BreadthFirst Search = iota
	// DepthFirst descends fully into each sub-directory before yielding
	// the directory itself, suitable for bottom-up deletion.
	DepthFirst
)

// Walker recursively lists directories in a filesystem. A zero Walker
// performs an unbounded breadth-first walk with no filtering; use the
// With* options to configure one.
//
// Walkers are built entirely on the FS enumeration primitives and never
// touch a backend directly, so they behave identically across backends.
type Walker struct {
	search       Search
	filter       []string
	excludeDirs  []string
	maxDepth     int
	ignoreErrors bool
	namespaces   []string
}

// WalkOption configures a Walker.
type WalkOption func(*Walker)

// WithSearch selects breadth-first or depth-first traversal.
func WithSearch(search Search) WalkOption {
	return func(w *Walker) { w.search = search }
}

// WithFilter restricts yielded files to names matching one of the
// wildcard patterns. Directories are unaffected.
func WithFilter(patterns ...string) WalkOption {
	return func(w *Walker) { w.filter = patterns }
}

// WithExcludeDirs prunes directories whose name matches one of the
// wildcard patterns: they are neither yielded nor descended into.
func WithExcludeDirs(patterns ...string) WalkOption {
	return func(w *Walker) { w.excludeDirs = patterns }
}

// WithMaxDepth bounds the traversal depth. Directories at the bound are
// yielded but not scanned.
func WithMaxDepth(depth int) WalkOption {
	return func(w *Walker) { w.maxDepth = depth }
}

// WithIgnoreErrors makes the walk skip sub-directories that fail to
// list (e.g. permission denied) and continue with their siblings. A
// failure listing the walk root is always reported.
func WithIgnoreErrors() WalkOption {
	return func(w *Walker) { w.ignoreErrors = true }
}

// WithNamespaces requests additional info namespaces for every yielded
// resource.
func WithNamespaces(namespaces ...string) WalkOption {
	return func(w *Walker) { w.namespaces = namespaces }
}

// NewWalker creates a Walker from options.
func NewWalker(opts ...WalkOption) *Walker {
	w := &Walker{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step is one visited directory in a walk: its absolute path and the
// info records for the directories and files it contains.
type Step struct {
	Path  string
	Dirs  []*Info
	Files []*Info
}

// scanStep lists one directory and splits its entries, applying the
// file filter and directory exclusions. The returned descend list holds
// sub-directories eligible for scanning under the depth bound.
func (w *Walker) scanStep(ctx context.Context, fsys FS, base, dirPath string) (*Step, []string, error) {
	infos, err := ScanDir(ctx, fsys, dirPath, w.namespaces...)
	if err != nil {
		return nil, nil, err
	}
	step := &Step{Path: dirPath}
	var descend []string
	for _, info := range infos {
		if info.IsDir() {
			if w.excludeDirs != nil && MatchPatterns(w.excludeDirs, info.Name()) {
				continue
			}
			step.Dirs = append(step.Dirs, info)
			childDepth := depth(dirPath) - depth(base) + 1
			if w.maxDepth <= 0 || childDepth < w.maxDepth {
				descend = append(descend, info.MakePath(dirPath))
			}
		} else if MatchPatterns(w.filter, info.Name()) {
			step.Files = append(step.Files, info)
		}
	}
	return step, descend, nil
}

// Steps is a lazy, single-pass cursor over walk steps. Once consumed it
// cannot be replayed; start a new walk instead.
type Steps struct {
	ctx    context.Context
	fsys   FS
	walker *Walker
	base   string

	started bool
	queue   []string     // breadth: directories awaiting a scan
	stack   []*walkFrame // depth: directories being descended
	cur     *Step
	err     error
	done    bool
}

type walkFrame struct {
	step    *Step
	pending []string
}

// Walk starts a traversal rooted at path and returns a cursor of Step
// values. Iterate with Next, read the current value with Step, and
// check Err once Next returns false.
func (w *Walker) Walk(ctx context.Context, fsys FS, path string) *Steps {
	s := &Steps{ctx: ctx, fsys: fsys, walker: w}
	p, err := normalizeAbs(path)
	if err != nil {
		s.err = err
		s.done = true
		return s
	}
	s.base = p
	s.queue = []string{p}
	return s
}

// Next advances to the next step. It returns false when the walk is
// exhausted or failed; check Err to distinguish.
func (s *Steps) Next() bool {
	if s.done {
		return false
	}
	if err := s.ctx.Err(); err != nil {
		return s.fail(err)
	}
	if s.walker.search == DepthFirst {
		return s.nextDepth()
	}
	return s.nextBreadth()
}

func (s *Steps) nextBreadth() bool {
	for len(s.queue) > 0 {
		dirPath := s.queue[0]
		s.queue = s.queue[1:]
		step, descend, err := s.walker.scanStep(s.ctx, s.fsys, s.base, dirPath)
		if err != nil {
			if s.skippable(err) {
				s.cur = &Step{Path: dirPath}
				s.started = true
				return true
			}
			return s.fail(err)
		}
		s.started = true
		s.queue = append(s.queue, descend...)
		s.cur = step
		return true
	}
	s.done = true
	return false
}

func (s *Steps) nextDepth() bool {
	if !s.started {
		if !s.push(s.base) {
			return false
		}
		s.started = true
	}
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if len(top.pending) > 0 {
			child := top.pending[0]
			top.pending = top.pending[1:]
			if !s.push(child) {
				return false
			}
			continue
		}
		s.stack = s.stack[:len(s.stack)-1]
		s.cur = top.step
		return true
	}
	s.done = true
	return false
}

// push scans a directory and adds a frame for it. Reports whether a
// frame was added; a skippable scan failure yields an empty step via
// the frame so the directory still appears in the walk.
func (s *Steps) push(dirPath string) bool {
	step, descend, err := s.walker.scanStep(s.ctx, s.fsys, s.base, dirPath)
	if err != nil {
		if s.skippable(err) {
			s.stack = append(s.stack, &walkFrame{step: &Step{Path: dirPath}})
			return true
		}
		s.fail(err)
		return false
	}
	s.stack = append(s.stack, &walkFrame{step: step, pending: descend})
	return true
}

// skippable reports whether a scan failure should be swallowed. The
// first scan (the walk root) always fails the walk.
func (s *Steps) skippable(err error) bool {
	return s.walker.ignoreErrors && s.started && s.ctx.Err() == nil
}

func (s *Steps) fail(err error) bool {
	s.err = err
	s.done = true
	return false
}

// Step returns the current step. Valid only after Next returns true.
func (s *Steps) Step() *Step {
	return s.cur
}

// Err returns the first error encountered, if any.
func (s *Steps) Err() error {
	return s.err
}

// Entries is a lazy cursor over (path, info) pairs of a walk.
type Entries struct {
	steps     *Steps
	dirs      bool
	files     bool
	remaining []*Info
	dirPath   string
	cur       *Info
	curPath   string
}

// Next advances to the next entry.
func (e *Entries) Next() bool {
	for {
		if len(e.remaining) > 0 {
			e.cur = e.remaining[0]
			e.curPath = e.cur.MakePath(e.dirPath)
			e.remaining = e.remaining[1:]
			return true
		}
		if !e.steps.Next() {
			return false
		}
		step := e.steps.Step()
		e.dirPath = step.Path
		if e.dirs {
			e.remaining = append(e.remaining, step.Dirs...)
		}
		if e.files {
			e.remaining = append(e.remaining, step.Files...)
		}
	}
}

// Path returns the absolute path of the current entry.
func (e *Entries) Path() string {
	return e.curPath
}

// Info returns the info record of the current entry.
func (e *Entries) Info() *Info {
	return e.cur
}

// Err returns the first error encountered, if any.
func (e *Entries) Err() error {
	return e.steps.Err()
}

// Files walks the filesystem yielding absolute paths of files.
func (w *Walker) Files(ctx context.Context, fsys FS, path string) *Entries {
	return &Entries{steps: w.Walk(ctx, fsys, path), files: true}
}

// Dirs walks the filesystem yielding absolute paths of directories.
func (w *Walker) Dirs(ctx context.Context, fsys FS, path string) *Entries {
	return &Entries{steps: w.Walk(ctx, fsys, path), dirs: true}
}

// Info walks the filesystem yielding every resource as a (path, info)
// pair.
func (w *Walker) Info(ctx context.Context, fsys FS, path string) *Entries {
	return &Entries{steps: w.Walk(ctx, fsys, path), dirs: true, files: true}
}
