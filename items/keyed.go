package items

import (
	"encoding/json"
	"log"
	"sort"
	"strconv"

	"github.com/ndlib/emojis/store"
)

// Keyed stores each item under its own numeric key.
type Keyed struct {
	S store.Store
}

var (
	_ Store  = &Keyed{}
	_ Getter = &Keyed{}
)

// NewKeyed returns a keyed strategy over s.
func NewKeyed(s store.Store) *Keyed {
	return &Keyed{S: s}
}

// keys returns every item key in the store, skipping the reserved records.
func (k *Keyed) keys() ([]string, error) {
	all, err := k.S.ListPrefix("")
	if err != nil {
		return nil, &store.OpError{Op: "read", Key: "*", Err: err}
	}
	var result []string
	for _, key := range all {
		if !isReserved(key) {
			result = append(result, key)
		}
	}
	return result, nil
}

// NextKey returns the key the next appended item would receive: one more
// than the largest key present, or 0 if there are no items. Every key must
// parse, otherwise ErrMalformedKey is returned.
func (k *Keyed) NextKey() (uint64, error) {
	keys, err := k.keys()
	if err != nil {
		return 0, err
	}
	var next uint64
	for _, key := range keys {
		n, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			log.Printf("Keyed: item key %q: %s", key, err.Error())
			return 0, ErrMalformedKey
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// Add stores item under the next free key and returns that key.
func (k *Keyed) Add(item string) (string, error) {
	n, err := k.NextKey()
	if err != nil {
		return "", err
	}
	key := strconv.FormatUint(n, 10)
	err = store.Put(k.S, key, []byte(item))
	if err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the item stored under key, or ErrNotFound.
func (k *Keyed) Get(key uint64) (string, error) {
	b, err := store.Get(k.S, strconv.FormatUint(key, 10))
	if store.IsNotExist(err) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return string(b), nil
}

// Remove deletes the item under key. Removing an absent key is not an error.
func (k *Keyed) Remove(key uint64) error {
	name := strconv.FormatUint(key, 10)
	err := k.S.Delete(name)
	if err != nil {
		return &store.OpError{Op: "write", Key: name, Err: err}
	}
	return nil
}

// List returns every item, sorted by the numeric value of its key. A key
// which does not parse sorts as if it were 0. Ties are broken by comparing
// the keys as strings.
func (k *Keyed) List() ([]Entry, error) {
	keys, err := k.keys()
	if err != nil {
		return nil, err
	}
	type sortable struct {
		n uint64
		e Entry
	}
	var result []sortable
	for _, key := range keys {
		b, err := store.Get(k.S, key)
		if store.IsNotExist(err) {
			// removed since the key was listed
			continue
		} else if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			log.Printf("Keyed: item key %q sorts as 0: %s", key, err.Error())
			n = 0
		}
		result = append(result, sortable{n: n, e: Entry{Key: key, Value: string(b)}})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].n != result[j].n {
			return result[i].n < result[j].n
		}
		return result[i].e.Key < result[j].e.Key
	})
	entries := make([]Entry, len(result))
	for i := range result {
		entries[i] = result[i].e
	}
	return entries, nil
}

// Items is the same as List.
func (k *Keyed) Items() ([]Entry, error) {
	return k.List()
}

// Append adds item and returns the new listing.
func (k *Keyed) Append(item string) ([]Entry, error) {
	_, err := k.Add(item)
	if err != nil {
		return nil, err
	}
	return k.List()
}

// Delete removes the item under key id and returns the new listing.
func (k *Keyed) Delete(id uint64) ([]Entry, error) {
	err := k.Remove(id)
	if err != nil {
		return nil, err
	}
	return k.List()
}

// Render gives {"value":[{"key":"0","value":"..."},...]}.
func (k *Keyed) Render(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(struct {
		Value []Entry `json:"value"`
	}{entries})
}
