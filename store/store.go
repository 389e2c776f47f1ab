// Package store provides a simple, goroutine safe key-value interface. Values
// are read and written as streams, though the records kept by this project
// are all small: the serialized item list, the account set, and one value per
// keyed item.
//
// Keys are plain strings. Since the FileSystem store uses the key as a file
// name, keys should not contain forbidden filesystem characters, such as '/'.
package store

import (
	"io"
)

// ReadAtCloser combines the io.ReaderAt and io.Closer interfaces.
type ReadAtCloser interface {
	io.ReaderAt
	io.Closer
}

// Store defines the basic stream based key-value store.
// Values are immutable once stored, but they may be replaced with a new
// value. Use Put to do so.
//
// Open() returns ErrNotExist when the key is absent. Delete() of an absent
// key is not an error.
type Store interface {
	ROStore
	Create(key string) (io.WriteCloser, error)
	Delete(key string) error
}

// A Replacer can overwrite the value under a key in a single step. A reader
// sees either the old value or the new one, never a missing key, and a
// failed Replace leaves the old value in place. Put uses Replace when the
// store offers it.
type Replacer interface {
	Replace(key string, value []byte) error
}

// ROStore is the read-only pieces of a Store. It allows one to list contents,
// and to retrieve data.
type ROStore interface {
	List() <-chan string
	ListPrefix(prefix string) ([]string, error)
	Open(key string) (ReadAtCloser, int64, error)
}

// NewReader converts a ReaderAt into a io.Reader. It is here as a utility to
// help work with the ReadAtCloser returned by Open.
func NewReader(r io.ReaderAt) io.Reader {
	return &reader{r: r}
}

type reader struct {
	r   io.ReaderAt
	off int64
}

func (r *reader) Read(p []byte) (n int, err error) {
	n, err = r.r.ReadAt(p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		// reading less than a full buffer is not an error for
		// an io.Reader
		err = nil
	}
	return
}
