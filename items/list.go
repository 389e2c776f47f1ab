package items

import (
	"errors"
	"strconv"
)

var (
	// ErrIndexOutOfRange means an index was past the end of the list.
	ErrIndexOutOfRange = errors.New("Out of index")

	// ErrParse means an index or key was not a non-negative integer.
	ErrParse = errors.New("Failed to parse")

	// ErrNotFound means there is no item with the given key.
	ErrNotFound = errors.New("No such item")

	// ErrMalformedKey means an item key in the store is not a decimal
	// integer, so a new key cannot be assigned.
	ErrMalformedKey = errors.New("Malformed item key")
)

// List is an ordered sequence of items. The methods do not modify their
// receiver; they return a new List.
type List []string

// Append returns the list with item added at the end.
func (l List) Append(item string) List {
	result := make(List, len(l), len(l)+1)
	copy(result, l)
	return append(result, item)
}

// Move removes the item at position from, and then inserts it at position
// to of the shortened list. Both positions must be inside the original list,
// otherwise ErrIndexOutOfRange is returned.
func (l List) Move(from, to uint64) (List, error) {
	max := from
	if to > max {
		max = to
	}
	if max >= uint64(len(l)) {
		return nil, ErrIndexOutOfRange
	}
	item := l[from]
	result := make(List, 0, len(l))
	result = append(result, l[:from]...)
	result = append(result, l[from+1:]...)
	result = append(result, "")
	copy(result[to+1:], result[to:])
	result[to] = item
	return result, nil
}

// DeleteAt returns the list without the item at position i.
func (l List) DeleteAt(i uint64) (List, error) {
	if i >= uint64(len(l)) {
		return nil, ErrIndexOutOfRange
	}
	result := make(List, 0, len(l)-1)
	result = append(result, l[:i]...)
	return append(result, l[i+1:]...), nil
}

// Entries pairs every item with its position.
func (l List) Entries() []Entry {
	result := make([]Entry, len(l))
	for i, v := range l {
		result[i] = Entry{Key: strconv.Itoa(i), Value: v}
	}
	return result
}

// ParseIndex parses a position or key given as text. Surrounding whitespace
// is not allowed, nor is a sign.
func ParseIndex(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrParse
	}
	return n, nil
}
