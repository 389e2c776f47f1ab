package storetest

import (
	"sort"
	"testing"

	"github.com/ndlib/emojis/store"
)

// Conformance checks the behavior every Store must share: missing keys give
// ErrNotExist, Create refuses an existing key, Put overwrites without the key
// ever going missing, Delete is idempotent, and listing sees exactly the
// stored keys. The store should start out empty.
func Conformance(t *testing.T, s store.Store) {
	_, _, err := s.Open("list")
	if err != store.ErrNotExist {
		t.Errorf("Open missing: Received %v, expected %v", err, store.ErrNotExist)
	}
	_, err = store.Get(s, "list")
	if !store.IsNotExist(err) {
		t.Errorf("Get missing: Received %v, expected not exist", err)
	}

	var table = []struct {
		key, value string
	}{
		{"list", `{"value":["a"]}`},
		{"accounts", `{"value":[]}`},
		{"0", "zero"},
		{"1", "one"},
		{"10", "ten"},
		{"x", ""},
	}
	for _, tab := range table {
		err = store.Put(s, tab.key, []byte(tab.value))
		if err != nil {
			t.Fatalf("Put %s: Received %s", tab.key, err.Error())
		}
	}
	for _, tab := range table {
		b, err := store.Get(s, tab.key)
		if err != nil {
			t.Errorf("Get %s: Received %s", tab.key, err.Error())
		} else if string(b) != tab.value {
			t.Errorf("Get %s: Received %q, expected %q", tab.key, b, tab.value)
		}
	}

	_, err = s.Create("list")
	if err != store.ErrKeyExists {
		t.Errorf("Create existing: Received %v, expected %v", err, store.ErrKeyExists)
	}

	err = store.Put(s, "list", []byte(`{"value":["b","c"]}`))
	if err != nil {
		t.Fatalf("Put overwrite: Received %s", err.Error())
	}
	b, _ := store.Get(s, "list")
	if string(b) != `{"value":["b","c"]}` {
		t.Errorf("Get after overwrite: Received %q", b)
	}

	// readers racing an overwrite see the old or the new value
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			store.Put(s, "list", []byte(`{"value":["b","c"]}`))
		}
	}()
	for i := 0; i < 50; i++ {
		b, err := store.Get(s, "list")
		if err != nil {
			t.Errorf("Get during Put: Received %s", err.Error())
			break
		}
		if string(b) != `{"value":["b","c"]}` {
			t.Errorf("Get during Put: Received %q", b)
			break
		}
	}
	<-done

	keys, err := s.ListPrefix("1")
	if err != nil {
		t.Errorf("ListPrefix: Received %s", err.Error())
	}
	sort.Strings(keys)
	if !equal(keys, []string{"1", "10"}) {
		t.Errorf("ListPrefix: Received %v, expected [1 10]", keys)
	}

	var all []string
	for key := range s.List() {
		all = append(all, key)
	}
	sort.Strings(all)
	expected := []string{"0", "1", "10", "accounts", "list", "x"}
	if !equal(all, expected) {
		t.Errorf("List: Received %v, expected %v", all, expected)
	}

	for i := 0; i < 2; i++ {
		err = s.Delete("10")
		if err != nil {
			t.Errorf("Delete %d: Received %s", i, err.Error())
		}
	}
	_, _, err = s.Open("10")
	if err != store.ErrNotExist {
		t.Errorf("Open deleted: Received %v, expected %v", err, store.ErrNotExist)
	}

	for _, tab := range table {
		s.Delete(tab.key)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
