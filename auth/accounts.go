package auth

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ndlib/emojis/store"
)

// AccountsKey is the store key of the account record.
const AccountsKey = "accounts"

// An Account is a username and its password. Both are compared exactly.
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// An AccountSet is the list of accounts allowed to change the items.
type AccountSet []Account

// the persisted shape of an AccountSet
type accountRecord struct {
	Value AccountSet `json:"value"`
}

// Find does a linear search for the account with the given username.
func (as AccountSet) Find(username string) (Account, bool) {
	for _, a := range as {
		if a.Username == username {
			return a, true
		}
	}
	return Account{}, false
}

// LoadAccounts reads the account record from s.
func LoadAccounts(s store.ROStore) (AccountSet, error) {
	var rec accountRecord
	err := store.GetRecord(s, AccountsKey, &rec)
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// SaveAccounts replaces the account record in s. A later entry with the
// same username as an earlier one is dropped.
func SaveAccounts(s store.Store, as AccountSet) error {
	unique := AccountSet{}
	for _, a := range as {
		if _, ok := unique.Find(a.Username); !ok {
			unique = append(unique, a)
		}
	}
	return store.PutRecord(s, AccountsKey, accountRecord{Value: unique})
}

// ParseAccountList reads a list of accounts from r. There is one account per
// line, in the form
//
//     <username>  <password>
//
// The fields are separated by whitespace, so neither may contain spaces.
// Empty lines and lines beginning with a hash '#' are skipped, as are lines
// with the wrong number of fields.
func ParseAccountList(r io.Reader) (AccountSet, error) {
	var result AccountSet
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		pieces := strings.Fields(scanner.Text())
		if len(pieces) == 0 || pieces[0][0] == '#' {
			continue
		}
		if len(pieces) != 2 {
			continue
		}
		result = append(result, Account{Username: pieces[0], Password: pieces[1]})
	}
	return result, scanner.Err()
}

// ParseAccountFile is a convenience function that reads the account list in
// the given file.
func ParseAccountFile(fname string) (AccountSet, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseAccountList(f)
}
