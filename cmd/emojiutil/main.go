package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/ndlib/emojis/auth"
	"github.com/ndlib/emojis/items"
	"github.com/ndlib/emojis/store"
)

var (
	location = flag.String("location", "", "location of the store (path, file:, s3:, ql:, mysql:)")
	binding  = flag.String("binding", "", "namespace for the record keys")
	usage    = `
emojiutil <command> <command arguments>

Works directly on the store, without going through a server.

Possible commands:
    keys                  list every key in the store

    dump <key list>       print the raw value of each key

    init                  create an empty list record if there is none

    items [blob|keyed]    print the items in order

    accounts <file>       replace the accounts with those in file. Each
                          line of the file is "<username> <password>"

    users                 list the usernames in the accounts record
`
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return
	}

	s, err := store.ParseLocation(*location)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	s = store.NewBinding(s, *binding)

	switch args[0] {
	case "keys":
		err = dokeys(s)
	case "dump":
		err = dodump(s, args[1:])
	case "init":
		err = doinit(s)
	case "items":
		strategy := "blob"
		if len(args) > 1 {
			strategy = args[1]
		}
		err = doitems(s, strategy)
	case "accounts":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(1)
		}
		err = doaccounts(s, args[1])
	case "users":
		err = dousers(s)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func dokeys(s store.Store) error {
	keys, err := s.ListPrefix("")
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key)
	}
	return err
}

func dodump(s store.Store, keys []string) error {
	for _, key := range keys {
		b, err := store.Get(s, key)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", key, b)
	}
	return nil
}

func doinit(s store.Store) error {
	created, err := items.NewBlob(s).Init()
	if err == nil && created {
		fmt.Println("Created empty list")
	}
	return err
}

func doitems(s store.Store, strategy string) error {
	var is items.Store
	switch strategy {
	case "blob":
		is = items.NewBlob(s)
	case "keyed":
		is = items.NewKeyed(s)
	default:
		return fmt.Errorf("Unknown strategy %q", strategy)
	}
	entries, err := is.Items()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 5, 1, 3, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
	}
	return w.Flush()
}

func doaccounts(s store.Store, fname string) error {
	accounts, err := auth.ParseAccountFile(fname)
	if err != nil {
		return err
	}
	err = auth.SaveAccounts(s, accounts)
	if err == nil {
		fmt.Printf("Saved %d accounts\n", len(accounts))
	}
	return err
}

func dousers(s store.Store) error {
	accounts, err := auth.LoadAccounts(s)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		fmt.Println(a.Username)
	}
	return nil
}
