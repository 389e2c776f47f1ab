// Package storetest provides functions for facilitating the testing of
// anything implementing the Store interface.
package storetest

import (
	"bytes"
	"crypto/md5"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/ndlib/emojis/store"
)

type record struct {
	key  string
	hash []byte
	size int64
}

// Stress will spawn a number of goroutines to simultaneously try reading
// and writing n records to the given store. It is a good test to run with
// the -race flag to try to find race conditions.
//
// Each record gets a random key and a random value of up to 4k. It is
// uploaded, then downloaded and compared for correctness. Afterwards it is
// randomly deleted or downloaded again, until every record is deleted or
// the uploads finish.
//
// Note, this does not test the list or list prefix functions.
func Stress(t *testing.T, s store.Store, n int) {
	// the pipeline is
	//       size maker
	// sizes ----> uploader pool
	// dwnld ----> downloader pool (possible repeat)
	//       ----> delete
	if n == 0 {
		n = 1000
	}
	sizes := make(chan int64)
	dwnld := make(chan record, n)
	done := make(chan struct{})
	var uppool, downpool sync.WaitGroup

	for i := 0; i < 5; i++ {
		uppool.Add(1)
		go func() {
			uploader(t, s, sizes, dwnld)
			uppool.Done()
		}()
	}

	for i := 0; i < 10; i++ {
		downpool.Add(1)
		go func() {
			downloader(t, s, dwnld, done)
			downpool.Done()
		}()
	}

	for i := 0; i < n; i++ {
		sizes <- rand.Int63n(4096)
	}
	close(sizes)
	uppool.Wait()
	close(done)
	downpool.Wait()
}

func uploader(t *testing.T, s store.Store, in <-chan int64, out chan<- record) {
	h := md5.New()
	buffer := make([]byte, 4096)

	for size := range in {
		h.Reset()
		rand.Read(buffer)
		keystr := randomKey()
	retry:
		w, err := s.Create(keystr)
		if err == store.ErrKeyExists {
			keystr += "a"
			goto retry
		} else if err != nil {
			t.Error(err)
			continue
		}
		mw := io.MultiWriter(h, w)
		_, err = mw.Write(buffer[:size])
		if err != nil {
			t.Error(err)
		}
		err = w.Close()
		if err == store.ErrKeyExists {
			// someone else won the race for this key
			continue
		} else if err != nil {
			t.Error(keystr, size, err)
			continue
		}
		out <- record{key: keystr, hash: h.Sum(nil), size: size}
	}
}

func downloader(t *testing.T, s store.Store, in chan record, done chan struct{}) {
	h := md5.New()
	for {
		var rec record
		select {
		case <-done:
			return
		case rec = <-in:
		}
		rac, size, err := s.Open(rec.key)
		if err != nil {
			t.Error(rec.key, err)
			continue
		}
		if size != rec.size {
			t.Error("Expected", rec.size, "Open() returned", size)
		}
		h.Reset()
		n, err := io.Copy(h, store.NewReader(rac))
		if err != nil {
			t.Error(err)
		}
		if n != size {
			t.Error("Expected", size, "but read", n)
		}
		err = rac.Close()
		if err != nil {
			t.Error(err)
		}
		if !bytes.Equal(rec.hash, h.Sum(nil)) {
			t.Errorf("hashes unequal. %#v. Received %x", rec, h.Sum(nil))
			// note that the record is left in the store...
			continue
		}

		if rand.Float32() < 0.5 {
			err := s.Delete(rec.key)
			if err != nil {
				t.Error(err)
			}
			continue
		}
		// reinsert once
		select {
		case in <- rec:
		default:
		}
	}
}

// randomKey returns a key of 8 to 16 lowercase letters.
func randomKey() string {
	key := make([]byte, 8+rand.Intn(9))
	for i := range key {
		key[i] = byte('a' + rand.Intn(26))
	}
	return string(key)
}
