// Package emojis keeps an ordered list of short text items in a key-value
// store. Reading the list is open to anyone; changing it requires a username
// and password matching the account record in the same store.
//
// A Service performs each operation as one load, mutate, and persist cycle.
// Nothing is cached between calls, and concurrent changes may overwrite each
// other.
package emojis

import (
	"fmt"
	"log"

	"github.com/ndlib/emojis/auth"
	"github.com/ndlib/emojis/form"
	"github.com/ndlib/emojis/items"
	"github.com/ndlib/emojis/store"
)

// The persistence strategies a Service may use.
const (
	StrategyBlob  = "blob"
	StrategyKeyed = "keyed"
)

// Credentials are the username and password fields of a request.
type Credentials struct {
	Username form.Field
	Password form.Field
}

// Service is the set of operations on the item list.
type Service struct {
	Items items.Store
	Gate  *auth.Gate
}

// New returns a Service keeping both the items and the accounts in s.
// strategy is one of StrategyBlob or StrategyKeyed; the empty string means
// StrategyBlob.
func New(s store.Store, strategy string) (*Service, error) {
	var is items.Store
	switch strategy {
	case "", StrategyBlob:
		is = items.NewBlob(s)
	case StrategyKeyed:
		is = items.NewKeyed(s)
	default:
		return nil, fmt.Errorf("Unknown strategy %q", strategy)
	}
	return &Service{Items: is, Gate: auth.NewGate(s)}, nil
}

// ListItems returns the rendered list. It needs no credentials.
func (s *Service) ListItems() ([]byte, error) {
	entries, err := s.Items.Items()
	if err != nil {
		return nil, &Error{Kind: KindStoreRead, Msg: MsgFetchList, Err: err}
	}
	return s.render(entries)
}

// GetItem returns the raw item stored under key. It needs no credentials,
// and only the keyed strategy supports it.
func (s *Service) GetItem(key string) ([]byte, error) {
	g, ok := s.Items.(items.Getter)
	if !ok {
		return nil, &Error{Kind: KindNotImplemented, Msg: MsgNotFound}
	}
	n, err := items.ParseIndex(key)
	if err != nil {
		return nil, classify(err, MsgNotFound)
	}
	v, err := g.Get(n)
	if err != nil {
		return nil, classify(err, MsgNotFound)
	}
	return []byte(v), nil
}

// CheckCredentials returns nil if c matches an account.
func (s *Service) CheckCredentials(c Credentials) error {
	reason, err := s.Gate.Check(c.Username, c.Password)
	if err != nil {
		return &Error{Kind: KindStoreRead, Msg: MsgFetchAccounts, Err: err}
	}
	if reason != auth.OK {
		log.Printf("Auth: %s for %q", reason, c.Username.Value)
		return &Error{Kind: KindAuth, Msg: reason.String()}
	}
	return nil
}

// AppendItem adds content to the end of the list.
func (s *Service) AppendItem(content form.Field, c Credentials) ([]byte, error) {
	if err := s.CheckCredentials(c); err != nil {
		return nil, err
	}
	if !content.Present {
		return nil, &Error{Kind: KindValidation, Msg: MsgAdd}
	}
	entries, err := s.Items.Append(content.Value)
	if err != nil {
		return nil, classify(err, MsgAdd)
	}
	return s.render(entries)
}

// MoveItem moves the item at position from to position to. Only the blob
// strategy supports it.
func (s *Service) MoveItem(from, to form.Field, c Credentials) ([]byte, error) {
	if err := s.CheckCredentials(c); err != nil {
		return nil, err
	}
	m, ok := s.Items.(items.Mover)
	if !ok {
		return nil, &Error{Kind: KindNotImplemented, Msg: MsgMove}
	}
	if !from.Present || !to.Present {
		return nil, &Error{Kind: KindValidation, Msg: MsgMove}
	}
	f, err := items.ParseIndex(from.Value)
	if err != nil {
		return nil, classify(err, MsgMove)
	}
	t, err := items.ParseIndex(to.Value)
	if err != nil {
		return nil, classify(err, MsgMove)
	}
	entries, err := m.Move(f, t)
	if err != nil {
		return nil, classify(err, MsgMove)
	}
	return s.render(entries)
}

// DeleteItem removes an item. For the blob strategy index is a position in
// the list; for the keyed strategy it is the item's key.
func (s *Service) DeleteItem(index form.Field, c Credentials) ([]byte, error) {
	if err := s.CheckCredentials(c); err != nil {
		return nil, err
	}
	if !index.Present {
		return nil, &Error{Kind: KindValidation, Msg: MsgDelete}
	}
	i, err := items.ParseIndex(index.Value)
	if err != nil {
		return nil, classify(err, MsgDelete)
	}
	entries, err := s.Items.Delete(i)
	if err != nil {
		return nil, classify(err, MsgDelete)
	}
	return s.render(entries)
}

func (s *Service) render(entries []items.Entry) ([]byte, error) {
	b, err := s.Items.Render(entries)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Msg: MsgFetchList, Err: err}
	}
	return b, nil
}
