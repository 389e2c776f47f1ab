package store

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist means the key is not in the store.
	ErrNotExist = errors.New("Key does not exist")

	// ErrKeyExists indicates an attempt to create a key which already exists
	ErrKeyExists = errors.New("Key already exists")

	// ErrMalformed means a record was read but could not be decoded.
	ErrMalformed = errors.New("Malformed record")
)

// OpError records a failed read or write of a single key.
type OpError struct {
	Op  string // "read" or "write"
	Key string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

// Cause lets errors.Cause see through an OpError.
func (e *OpError) Cause() error { return e.Err }

func (e *OpError) Unwrap() error { return e.Err }

// IsNotExist reports whether err, or anything it wraps, is ErrNotExist.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// Get returns the entire value stored under key. Failures are returned as an
// *OpError with Op "read".
func Get(s ROStore, key string) ([]byte, error) {
	rac, _, err := s.Open(key)
	if err != nil {
		return nil, &OpError{Op: "read", Key: key, Err: err}
	}
	defer rac.Close()
	b, err := ioutil.ReadAll(NewReader(rac))
	if err != nil {
		return nil, &OpError{Op: "read", Key: key, Err: err}
	}
	return b, nil
}

// Put replaces whatever is stored under key with value. There is no version
// check: the last Put for a key wins. Failures are returned as an *OpError
// with Op "write".
//
// If s is a Replacer the value is swapped in one step. Otherwise the old
// value is deleted and the new one created, which leaves a moment where the
// key is missing, and loses the old value if the create fails. A concurrent
// Put may recreate the key between our delete and create; that is retried a
// few times before giving up.
func Put(s Store, key string, value []byte) error {
	err := replace(s, key, value)
	if err != nil {
		return &OpError{Op: "write", Key: key, Err: err}
	}
	return nil
}

const putAttempts = 3

func replace(s Store, key string, value []byte) error {
	if r, ok := s.(Replacer); ok {
		return r.Replace(key, value)
	}
	var err error
	for i := 0; i < putAttempts; i++ {
		err = deleteCreate(s, key, value)
		if err != ErrKeyExists {
			break
		}
	}
	return err
}

func deleteCreate(s Store, key string, value []byte) error {
	err := s.Delete(key)
	if err != nil {
		return err
	}
	w, err := s.Create(key)
	if err != nil {
		return err
	}
	_, err = w.Write(value)
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// GetRecord reads the value under key and decodes it as JSON into v.
// A value that does not decode gives an error whose cause is ErrMalformed.
func GetRecord(s ROStore, key string, v interface{}) error {
	b, err := Get(s, key)
	if err != nil {
		return err
	}
	err = json.Unmarshal(b, v)
	if err != nil {
		return errors.Wrapf(ErrMalformed, "%s: %s", key, err.Error())
	}
	return nil
}

// PutRecord encodes v as JSON and stores it under key.
func PutRecord(s Store, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, key)
	}
	return Put(s, key, b)
}
