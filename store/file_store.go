package store

import (
	"errors"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	raven "github.com/getsentry/raven-go"
)

// FileSystem implements a simple file system based store.
// The keys are used as file names, so keys may not contain a forward slash
// '/', whitespace, or control characters. Each file lives two directories
// down, named by the first four characters of its key (see itemSubdir).
type FileSystem struct {
	root string
}

const (
	// the subdir to store files while they are being written to.
	scratchdir = "scratch"

	// short keys are padded with this to get a full subdirectory path
	subdirPad = "____"
)

var (
	// make sure it implements the Store interface
	_ Store    = &FileSystem{}
	_ Replacer = &FileSystem{}

	// ErrKeyContainsSlash means the key provided contains a forward slash '/'
	ErrKeyContainsSlash = errors.New("Key contains forward slash")

	// ErrKeyContainsNonUnicode means the key provided contains a Non Unicode Rune
	ErrKeyContainsNonUnicode = errors.New("Key contains Non-Unicode character")

	// ErrKeyContainsWhiteSpace  means the key provided contains WhiteSpace
	ErrKeyContainsWhiteSpace = errors.New("Key contains White Space")

	// ErrKeyContainsControlChar  means the key provided contains Control Characters
	ErrKeyContainsControlChar = errors.New("Key contains Control Characters")

	// ErrEmptyKey means the key provided was the empty string
	ErrEmptyKey = errors.New("Key is empty")
)

// NewFileSystem creates a new FileSystem store based at the given root path.
func NewFileSystem(root string) *FileSystem {
	return &FileSystem{root}
}

// List returns a channel listing all the keys in this store.
func (s *FileSystem) List() <-chan string {
	c := make(chan string)
	go walkTree(c, s.root, 0)
	return c
}

// Perform depth first walk of file tree at root, emitting all item keys on
// channel out. Only files exactly two directories down are keys; this skips
// the scratch directory.
//
// If level is 0, the channel is closed when the function exits.
func walkTree(out chan<- string, root string, level int) {
	if level == 0 {
		defer close(out)
	}
	f, err := os.Open(root)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Println("FileSystem List:", err)
			raven.CaptureError(err, map[string]string{"Root": root})
		}
		return
	}
	defer f.Close()
	for {
		entries, err := f.Readdir(1000)
		if err == io.EOF {
			return
		} else if err != nil {
			// we have no other way of passing this error back
			log.Println("FileSystem List:", err)
			raven.CaptureError(err, map[string]string{"Root": root})
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				if level < 2 {
					walkTree(out, filepath.Join(root, e.Name()), level+1)
				}
				continue
			}
			if level == 2 {
				out <- e.Name()
			}
		}
	}
}

// ListPrefix returns a list of all the keys beginning with the given prefix.
func (s *FileSystem) ListPrefix(prefix string) ([]string, error) {
	var result []string
	for key := range s.List() {
		if strings.HasPrefix(key, prefix) {
			result = append(result, key)
		}
	}
	return result, nil
}

// Open returns a reader for the given key along with its size.
func (s *FileSystem) Open(key string) (ReadAtCloser, int64, error) {
	if err := isKeyValid(key); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(s.keypath(key))
	if os.IsNotExist(err) {
		return nil, 0, ErrNotExist
	} else if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, fi.Size(), nil
}

// Create creates a new file for the given key, and a writer to allow for
// saving data into it. The file is written into the scratch directory and
// moved into place when the writer is closed, so a reader never sees a
// partial value.
func (s *FileSystem) Create(key string) (io.WriteCloser, error) {
	if err := isKeyValid(key); err != nil {
		return nil, err
	}
	// first set up the eventual home dir of this file
	target, err := s.setupSubDir(itemSubdir(key), key)
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(target)
	if !os.IsNotExist(err) {
		return nil, ErrKeyExists
	}
	// now set up the scratch location we will temporarily save the file to
	temp, err := s.setupSubDir(scratchdir, key)
	if err != nil {
		return nil, err
	}
	// pass the O_EXCL flag explicitly to prevent two writers sharing a
	// scratch file
	w, err := os.OpenFile(temp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return nil, err
	}
	return &moveCloser{w, temp, target}, nil
}

// Replace writes value to a scratch file and renames it over the key's file.
// The rename is atomic, so readers see either the old or the new value.
func (s *FileSystem) Replace(key string, value []byte) error {
	if err := isKeyValid(key); err != nil {
		return err
	}
	target, err := s.setupSubDir(itemSubdir(key), key)
	if err != nil {
		return err
	}
	dir := filepath.Join(s.root, scratchdir)
	err = os.MkdirAll(dir, 0775)
	if err != nil {
		return err
	}
	// each writer gets its own scratch file
	f, err := ioutil.TempFile(dir, key+".")
	if err != nil {
		return err
	}
	_, err = f.Write(value)
	if err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err == nil {
		err = os.Rename(f.Name(), target)
	}
	if err != nil {
		os.Remove(f.Name())
	}
	return err
}

func (s *FileSystem) keypath(key string) string {
	return filepath.Join(s.root, itemSubdir(key), key)
}

// setupSubDir makes sure the given subdirectory exists under the root, and
// then returns the absolute path to the keyed file, and an optional error.
func (s *FileSystem) setupSubDir(subdir, key string) (string, error) {
	dir := filepath.Join(s.root, subdir)
	err := os.MkdirAll(dir, 0775)
	return filepath.Join(dir, key), err
}

// track the file so when it is closed, we can move it into the correct place
type moveCloser struct {
	*os.File
	source string
	target string
}

func (w *moveCloser) Close() error {
	err := w.File.Close()
	if err != nil {
		os.Remove(w.source)
		return err
	}
	_, err = os.Stat(w.target)
	if !os.IsNotExist(err) {
		os.Remove(w.source)
		return ErrKeyExists
	}
	return os.Rename(w.source, w.target)
}

// Delete the given key from the store. It is not an error if the key doesn't
// exist.
func (s *FileSystem) Delete(key string) error {
	if err := isKeyValid(key); err != nil {
		return err
	}
	err := os.Remove(s.keypath(key))
	// don't report a missing file as an error
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return err
}

// Given a key, return the subdirectory its file is stored in. Keys shorter
// than four characters are padded with '_', so every key is two levels down.
// e.g. "abcdd123" returns "ab/cd/" and "7" returns "7_/__/"
func itemSubdir(key string) string {
	if len(key) < 4 {
		key += subdirPad[len(key):]
	}
	return key[0:2] + "/" + key[2:4] + "/"
}

// Some Simple Key Validations
func isKeyValid(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !utf8.ValidString(key) {
		return ErrKeyContainsNonUnicode
	}
	if strings.Contains(key, "/") {
		return ErrKeyContainsSlash
	}
	for _, r := range key {
		if unicode.IsSpace(r) {
			return ErrKeyContainsWhiteSpace
		}
		if unicode.IsControl(r) {
			return ErrKeyContainsControlChar
		}
	}
	return nil
}
