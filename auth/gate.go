// Package auth checks a username and password against the account record
// kept in the store. Passwords are stored and compared as plain text.
package auth

import (
	"github.com/ndlib/emojis/form"
	"github.com/ndlib/emojis/store"
)

// A Reason is the verdict of a credential check.
type Reason int

const (
	OK Reason = iota
	InvalidParameter
	InvalidUsername
	InvalidPassword
)

func (r Reason) String() string {
	switch r {
	case OK:
		return "OK"
	case InvalidParameter:
		return "Invalid parameter"
	case InvalidUsername:
		return "Invalid username"
	case InvalidPassword:
		return "Invalid password"
	default:
		return "Unknown"
	}
}

// A Gate checks credentials against the accounts in S. The accounts are read
// again for every check.
type Gate struct {
	S store.ROStore
}

// NewGate returns a gate reading accounts from s.
func NewGate(s store.ROStore) *Gate {
	return &Gate{S: s}
}

// Check validates the given username and password fields. Both must be
// present. An error is returned only if the accounts could not be loaded, in
// which case the Reason is meaningless.
func (g *Gate) Check(username, password form.Field) (Reason, error) {
	if !username.Present || !password.Present {
		return InvalidParameter, nil
	}
	accounts, err := LoadAccounts(g.S)
	if err != nil {
		return InvalidParameter, err
	}
	acct, ok := accounts.Find(username.Value)
	if !ok {
		return InvalidUsername, nil
	}
	if acct.Password != password.Value {
		return InvalidPassword, nil
	}
	return OK, nil
}
