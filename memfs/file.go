package memfs

import (
	"io"
	"os"
	"time"

	"github.com/gobeaver/fskit"
)

// memFile is a handle over a file node. Reads and writes take the
// filesystem lock, so concurrent handles over the same node never see
// torn data.
type memFile struct {
	fs   *MemFS
	node *node
	path string
	pos  int64

	readable bool
	writable bool
	appends  bool
	closed   bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, errPath("read", f.path, fskit.ErrClosed)
	}
	if !f.readable {
		return 0, errPath("read", f.path, fskit.ErrPermission)
	}
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()
	if f.pos >= int64(len(f.node.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.node.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, errPath("write", f.path, fskit.ErrClosed)
	}
	if !f.writable {
		return 0, errPath("write", f.path, fskit.ErrPermission)
	}
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if f.appends {
		f.pos = int64(len(f.node.data))
	}
	end := f.pos + int64(len(p))
	if end > int64(len(f.node.data)) {
		grown := make([]byte, end)
		copy(grown, f.node.data)
		f.node.data = grown
	}
	copy(f.node.data[f.pos:end], p)
	f.pos = end
	f.node.modified = time.Now()
	return len(p), nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, errPath("seek", f.path, fskit.ErrClosed)
	}
	f.fs.mu.RLock()
	size := int64(len(f.node.data))
	f.fs.mu.RUnlock()
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.pos + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return 0, errPath("seek", f.path, os.ErrInvalid)
	}
	if pos < 0 {
		return 0, errPath("seek", f.path, os.ErrInvalid)
	}
	f.pos = pos
	return pos, nil
}

func (f *memFile) Close() error {
	f.closed = true
	return nil
}

var _ fskit.File = (*memFile)(nil)
