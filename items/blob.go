package items

import (
	"encoding/json"

	"github.com/ndlib/emojis/store"
)

// Blob keeps the whole list as a single record.
type Blob struct {
	S   store.Store
	Key string // the record key, usually ListKey
}

var (
	_ Store = &Blob{}
	_ Mover = &Blob{}
)

// the persisted and rendered shape of a list
type listRecord struct {
	Value List `json:"value"`
}

// NewBlob returns a blob strategy keeping its list in s under ListKey.
func NewBlob(s store.Store) *Blob {
	return &Blob{S: s, Key: ListKey}
}

// Load reads the list record. Errors come from store.GetRecord, so a missing
// record satisfies store.IsNotExist.
func (b *Blob) Load() (List, error) {
	var rec listRecord
	err := store.GetRecord(b.S, b.Key, &rec)
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// Persist overwrites the list record with l.
func (b *Blob) Persist(l List) error {
	return store.PutRecord(b.S, b.Key, listRecord{Value: nonNil(l)})
}

// Render serializes l the same way it is persisted.
func (b *Blob) Render(entries []Entry) ([]byte, error) {
	return json.Marshal(listRecord{Value: nonNil(values(entries))})
}

// Init creates an empty list record if there is none. It returns true if a
// record was created.
func (b *Blob) Init() (bool, error) {
	_, err := b.Load()
	if err == nil {
		return false, nil
	}
	if !store.IsNotExist(err) {
		return false, err
	}
	return true, b.Persist(nil)
}

// Items loads the list.
func (b *Blob) Items() ([]Entry, error) {
	l, err := b.Load()
	if err != nil {
		return nil, err
	}
	return l.Entries(), nil
}

// Append adds item to the end of the stored list.
func (b *Blob) Append(item string) ([]Entry, error) {
	return b.update(func(l List) (List, error) {
		return l.Append(item), nil
	})
}

// Move moves the item at position from to position to.
func (b *Blob) Move(from, to uint64) ([]Entry, error) {
	return b.update(func(l List) (List, error) {
		return l.Move(from, to)
	})
}

// Delete removes the item at position id.
func (b *Blob) Delete(id uint64) ([]Entry, error) {
	return b.update(func(l List) (List, error) {
		return l.DeleteAt(id)
	})
}

// update runs one load, mutate, persist cycle. Nothing is written if the
// load or the mutation fails.
func (b *Blob) update(mutate func(List) (List, error)) ([]Entry, error) {
	l, err := b.Load()
	if err != nil {
		return nil, err
	}
	l, err = mutate(l)
	if err != nil {
		return nil, err
	}
	err = b.Persist(l)
	if err != nil {
		return nil, err
	}
	return l.Entries(), nil
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
