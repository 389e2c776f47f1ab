package store

import (
	"io"
	"strings"
)

// NewWithPrefix wraps the store s by one which will prefix all its keys by
// prefix. This provides a way to namespace the keys, and to share the same
// underlying store among a group of users.
func NewWithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return prefixstore{s: s, p: prefix}
}

// NewBinding namespaces s by the binding name. Keys are stored as
// "<name>.<key>". An empty name returns s unchanged.
func NewBinding(s Store, name string) Store {
	if name == "" {
		return s
	}
	return NewWithPrefix(s, name+".")
}

type prefixstore struct {
	s Store  // the store being wrapped
	p string // the prefix for our keys
}

func (ps prefixstore) List() <-chan string {
	out := make(chan string)
	in := ps.s.List()
	go func() {
		for key := range in {
			if strings.HasPrefix(key, ps.p) {
				out <- strings.TrimPrefix(key, ps.p)
			}
		}
		close(out)
	}()
	return out
}

func (ps prefixstore) ListPrefix(prefix string) ([]string, error) {
	keys, err := ps.s.ListPrefix(ps.p + prefix)
	if err != nil {
		return nil, err
	}
	var result []string
	for _, key := range keys {
		if strings.HasPrefix(key, ps.p) {
			result = append(result, strings.TrimPrefix(key, ps.p))
		}
	}
	return result, nil
}

func (ps prefixstore) Open(key string) (ReadAtCloser, int64, error) {
	return ps.s.Open(ps.p + key)
}

func (ps prefixstore) Create(key string) (io.WriteCloser, error) {
	return ps.s.Create(ps.p + key)
}

// Replace is atomic only if the wrapped store is a Replacer.
func (ps prefixstore) Replace(key string, value []byte) error {
	return replace(ps.s, ps.p+key, value)
}

func (ps prefixstore) Delete(key string) error {
	return ps.s.Delete(ps.p + key)
}
