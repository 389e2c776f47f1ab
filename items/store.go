package items

// Entry is one item along with its key. For the blob strategy the key is the
// item's position in the list.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store is implemented by both strategies. Each method performs one complete
// load, mutate, and persist cycle against the backing store and returns the
// items as they were written.
type Store interface {
	Items() ([]Entry, error)
	Append(item string) ([]Entry, error)
	Delete(id uint64) ([]Entry, error)

	// Render gives the response payload for a listing.
	Render(entries []Entry) ([]byte, error)
}

// A Mover can reorder items.
type Mover interface {
	Move(from, to uint64) ([]Entry, error)
}

// A Getter can look up a single item by key.
type Getter interface {
	Get(key uint64) (string, error)
}

// The keys of the two fixed records. Item keys never take these values.
const (
	ListKey     = "list"
	AccountsKey = "accounts"
)

func isReserved(key string) bool {
	return key == ListKey || key == AccountsKey
}

func values(entries []Entry) []string {
	result := make([]string, len(entries))
	for i := range entries {
		result[i] = entries[i].Value
	}
	return result
}
