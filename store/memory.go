package store

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Memory implements a simple in-memory version of a store. It backs the
// server when no location is configured, and is used throughout the tests.
type Memory struct {
	m     sync.RWMutex
	store map[string][]byte
}

var (
	// ensure Memory satisfies the Store interface
	_ Store    = &Memory{}
	_ Replacer = &Memory{}
)

// NewMemory returns a new, empty memory store.
func NewMemory() *Memory {
	return &Memory{store: make(map[string][]byte)}
}

// List returns a channel giving every key in the store. The keys are
// snapshotted when List is called.
func (ms *Memory) List() <-chan string {
	keys, _ := ms.ListPrefix("")
	c := make(chan string)
	go func() {
		for _, k := range keys {
			c <- k
		}
		close(c)
	}()
	return c
}

// ListPrefix returns all the key entries which begin with the given prefix.
func (ms *Memory) ListPrefix(prefix string) ([]string, error) {
	var result []string
	ms.m.RLock()
	for k := range ms.store {
		if strings.HasPrefix(k, prefix) {
			result = append(result, k)
		}
	}
	ms.m.RUnlock()
	return result, nil
}

// Open returns a ReadAtCloser and the size of the given value. The reader
// sees the value as it was when Open was called.
func (ms *Memory) Open(key string) (ReadAtCloser, int64, error) {
	ms.m.RLock()
	v, ok := ms.store[key]
	ms.m.RUnlock()
	if !ok {
		return nil, 0, ErrNotExist
	}
	return memReader(v), int64(len(v)), nil
}

type memReader []byte

func (r memReader) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r)) {
		return 0, io.EOF
	}
	n := copy(p, r[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (r memReader) Close() error { return nil }

// memWriter buffers a value until it is closed. Only then does the value
// become visible in the store.
type memWriter struct {
	ms  *Memory
	key string
	b   []byte
}

func (w *memWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *memWriter) Close() error {
	w.ms.m.Lock()
	defer w.ms.m.Unlock()
	if _, ok := w.ms.store[w.key]; ok {
		return ErrKeyExists
	}
	if w.b == nil {
		w.b = []byte{}
	}
	w.ms.store[w.key] = w.b
	return nil
}

// Create makes a new entry in the store, and returns a writer to save data
// into it. It is an error to create a key which already exists.
func (ms *Memory) Create(key string) (io.WriteCloser, error) {
	ms.m.RLock()
	_, ok := ms.store[key]
	ms.m.RUnlock()
	if ok {
		return nil, ErrKeyExists
	}
	return &memWriter{ms: ms, key: key}, nil
}

// Replace sets the value of key, whether or not it already exists.
func (ms *Memory) Replace(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	ms.m.Lock()
	ms.store[key] = v
	ms.m.Unlock()
	return nil
}

// Delete the given key from the store. It is not an error if the item does
// not exist in the store.
func (ms *Memory) Delete(key string) error {
	ms.m.Lock()
	delete(ms.store, key)
	ms.m.Unlock()
	return nil
}

// Dump writes a listing of the contents of the store to the given writer,
// in key order. This is intended for testing and debugging.
func (ms *Memory) Dump(w io.Writer) {
	ms.m.RLock()
	defer ms.m.RUnlock()
	var keys []string
	for k := range ms.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := ms.store[k]
		if len(s) > 300 {
			s = s[:50]
		}
		fmt.Fprintf(w, "%s: %s\n", k, string(s))
	}
}
