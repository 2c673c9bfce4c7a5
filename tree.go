package fskit

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
)

// TreeOptions configure tree rendering.
type TreeOptions struct {
	// Path is the directory to render. Defaults to the root.
	Path string
	// MaxLevels bounds the rendered depth; 0 means unlimited.
	MaxLevels int
	// Sizes adds a humanized size column for files.
	Sizes bool
	// DirsFirst lists directories ahead of files at each level.
	DirsFirst bool
}

// Tree renders a text view of a directory tree and returns the number
// of directories and files rendered.
func Tree(ctx context.Context, fsys FS, w io.Writer, opts TreeOptions) (int, int, error) {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	r := &treeRender{ctx: ctx, fsys: fsys, w: w, opts: opts}
	err := r.render(path, "", 1)
	return r.dirs, r.files, err
}

type treeRender struct {
	ctx   context.Context
	fsys  FS
	w     io.Writer
	opts  TreeOptions
	dirs  int
	files int
}

func (r *treeRender) render(path, indent string, level int) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	namespaces := []string{NamespaceBasic}
	if r.opts.Sizes {
		namespaces = append(namespaces, NamespaceDetails)
	}
	infos, err := ScanDir(r.ctx, r.fsys, path, namespaces...)
	if err != nil {
		return err
	}
	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if r.opts.DirsFirst && a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return a.Name() < b.Name()
	})
	for i, info := range infos {
		connector, descent := "├──", "│   "
		if i == len(infos)-1 {
			connector, descent = "└──", "    "
		}
		label := info.Name()
		if r.opts.Sizes && info.IsFile() {
			if size, err := info.Size(); err == nil {
				label = fmt.Sprintf("%s (%s)", label, humanize.Bytes(uint64(size)))
			}
		}
		if _, err := fmt.Fprintf(r.w, "%s%s %s\n", indent, connector, label); err != nil {
			return err
		}
		if info.IsDir() {
			r.dirs++
			if r.opts.MaxLevels == 0 || level < r.opts.MaxLevels {
				if err := r.render(info.MakePath(path), indent+descent, level+1); err != nil {
					return err
				}
			}
		} else {
			r.files++
		}
	}
	return nil
}
