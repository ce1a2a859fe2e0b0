package tar

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	pathlib "path"
	"strings"
	"sync"

	"github.com/opengs/readmegen/source"
)

var ErrBadArchive = errors.New("bad tar archive or corrupted")

// Tar exposes the regular files of a tar stream as a repository source.
// Useful when the repository arrives over the network instead of living on
// the local disk. The stream can be iterated only once.
type Tar struct {
	reader io.Reader
	name   string

	openOnce sync.Once
}

func New(reader io.Reader, name string) *Tar {
	return &Tar{
		reader: reader,
		name:   name,
	}
}

func (t *Tar) Name() string {
	return t.name
}

func (t *Tar) Open() (source.Iterator, error) {
	var opened bool
	t.openOnce.Do(func() {
		opened = true
	})
	if !opened {
		return nil, errors.New("tar source can be opened only once")
	}

	return &tarIterator{
		reader: tar.NewReader(t.reader),
	}, nil
}

type tarIterator struct {
	reader *tar.Reader
	locker sync.Mutex
}

func (i *tarIterator) Next(ctx context.Context) (source.FileHandler, error) {
	i.locker.Lock()
	defer i.locker.Unlock()

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		header, err := i.reader.Next()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}

			return nil, errors.Join(ErrBadArchive, err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := pathlib.Clean(strings.TrimPrefix(header.Name, "./"))
		if name == "." || name == "" {
			continue
		}

		// The tar reader is repositioned by the next Next call, so the
		// entry content is copied out while the lock is held. Handlers
		// stay valid when several of them are read concurrently.
		content, err := io.ReadAll(i.reader)
		if err != nil {
			return nil, errors.Join(ErrBadArchive, err)
		}

		return &tarFileHandler{
			reader: bytes.NewReader(content),
			path:   name,
			size:   header.Size,
		}, nil
	}
}

func (i *tarIterator) Close() error {
	return nil
}

type tarFileHandler struct {
	reader *bytes.Reader
	path   string
	size   int64
}

func (h *tarFileHandler) Path() string {
	return h.path
}

func (h *tarFileHandler) Size() int64 {
	return h.size
}

func (h *tarFileHandler) Read(p []byte) (n int, err error) {
	return h.reader.Read(p)
}

// Close is a no-op: the handler owns an in-memory copy of the entry and the
// underlying archive stream belongs to the caller.
func (h *tarFileHandler) Close() error {
	return nil
}
