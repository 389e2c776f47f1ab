package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ndlib/emojis/client"
)

var (
	server   = flag.String("server", "http://localhost:8787", "emojis server to talk to")
	username = flag.String("user", os.Getenv("EMOJIS_USER"), "username (default $EMOJIS_USER)")
	password = flag.String("password", os.Getenv("EMOJIS_PASSWORD"), "password (default $EMOJIS_PASSWORD)")
	usage    = `
emojictl <command> <command arguments>

Possible commands:
    list

    get <key>

    auth

    add <content>

    move <from> <to>

    delete <index or key>
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

	c := &client.Connection{
		HostURL:  *server,
		Username: *username,
		Password: *password,
	}

	var list []client.Entry
	var err error
	switch {
	case args[0] == "list":
		list, err = c.List()
	case args[0] == "get" && len(args) == 2:
		var v string
		v, err = c.Get(args[1])
		if err == nil {
			fmt.Println(v)
			return
		}
	case args[0] == "auth":
		err = c.Auth()
		if err == nil {
			fmt.Println("OK")
			return
		}
	case args[0] == "add" && len(args) == 2:
		list, err = c.Add(args[1])
	case args[0] == "move" && len(args) == 3:
		var from, to uint64
		from, err = strconv.ParseUint(args[1], 10, 64)
		if err == nil {
			to, err = strconv.ParseUint(args[2], 10, 64)
		}
		if err == nil {
			list, err = c.Move(from, to)
		}
	case args[0] == "delete" && len(args) == 2:
		var i uint64
		i, err = strconv.ParseUint(args[1], 10, 64)
		if err == nil {
			list, err = c.Delete(i)
		}
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	w := tabwriter.NewWriter(os.Stdout, 5, 1, 3, ' ', 0)
	for _, e := range list {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
	}
	w.Flush()
}
