package emojis

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/ndlib/emojis/auth"
	"github.com/ndlib/emojis/form"
	"github.com/ndlib/emojis/items"
	"github.com/ndlib/emojis/store"
)

var (
	alice   = Credentials{form.Text("alice"), form.Text("p1")}
	badpass = Credentials{form.Text("alice"), form.Text("nope")}
	nobody  = Credentials{form.Text("eve"), form.Text("p1")}
	nopass  = Credentials{form.Text("alice"), form.Missing}
)

func newService(t *testing.T, strategy string, list ...string) (*Service, *store.Memory) {
	m := store.NewMemory()
	err := auth.SaveAccounts(m, auth.AccountSet{
		{Username: "alice", Password: "p1"},
		{Username: "bob", Password: "p2"},
	})
	if err != nil {
		t.Fatalf("Received %s", err.Error())
	}
	if strategy == StrategyBlob {
		items.NewBlob(m).Persist(items.List(list))
	} else {
		k := items.NewKeyed(m)
		for _, v := range list {
			k.Add(v)
		}
	}
	s, err := New(m, strategy)
	if err != nil {
		t.Fatalf("Received %s", err.Error())
	}
	return s, m
}

func TestBlobService(t *testing.T) {
	s, m := newService(t, StrategyBlob, "a", "b", "c")
	var table = []struct {
		op     string
		x, y   form.Field
		cred   Credentials
		status int
		result string
	}{
		{"list", form.Missing, form.Missing, Credentials{}, 200, `{"value":["a","b","c"]}`},
		{"add", form.Text("d"), form.Missing, alice, 200, `{"value":["a","b","c","d"]}`},
		{"add", form.Text("e"), form.Missing, badpass, 401, "Invalid password"},
		{"add", form.Text("e"), form.Missing, nobody, 401, "Invalid username"},
		{"add", form.Text("e"), form.Missing, nopass, 401, "Invalid parameter"},
		{"add", form.Missing, form.Missing, alice, 400, "Couldn't add content"},
		{"add", form.Missing, form.Missing, badpass, 401, "Invalid password"},
		{"move", form.Text("0"), form.Text("2"), alice, 200, `{"value":["b","c","a","d"]}`},
		{"move", form.Text("0"), form.Text("4"), alice, 400, "Out of index"},
		{"move", form.Text("x"), form.Text("1"), alice, 400, "Failed to parse"},
		{"move", form.Text("-1"), form.Text("1"), alice, 400, "Failed to parse"},
		{"move", form.Text("0"), form.Missing, alice, 400, "Couldn't move content"},
		{"move", form.Text("0"), form.Text("1"), badpass, 401, "Invalid password"},
		{"delete", form.Text("3"), form.Missing, alice, 200, `{"value":["b","c","a"]}`},
		{"delete", form.Text("3"), form.Missing, alice, 400, "Out of index"},
		{"delete", form.Text("one"), form.Missing, alice, 400, "Failed to parse"},
		{"delete", form.Missing, form.Missing, alice, 400, "Couldn't delete content"},
		{"delete", form.Text("0"), form.Missing, nobody, 401, "Invalid username"},
		{"get", form.Text("0"), form.Missing, Credentials{}, 501, "No such item"},
		{"auth", form.Missing, form.Missing, alice, 200, ""},
		{"auth", form.Missing, form.Missing, badpass, 401, "Invalid password"},
		{"list", form.Missing, form.Missing, Credentials{}, 200, `{"value":["b","c","a"]}`},
	}
	runTable(t, s, table)
	raw, _ := store.Get(m, items.ListKey)
	if string(raw) != `{"value":["b","c","a"]}` {
		t.Errorf("Stored %s", raw)
	}
}

func TestKeyedService(t *testing.T) {
	s, m := newService(t, StrategyKeyed, "a", "b")
	var table = []struct {
		op     string
		x, y   form.Field
		cred   Credentials
		status int
		result string
	}{
		{"list", form.Missing, form.Missing, Credentials{}, 200, `{"value":[{"key":"0","value":"a"},{"key":"1","value":"b"}]}`},
		{"add", form.Text("c"), form.Missing, alice, 200, `{"value":[{"key":"0","value":"a"},{"key":"1","value":"b"},{"key":"2","value":"c"}]}`},
		{"get", form.Text("2"), form.Missing, Credentials{}, 200, "c"},
		{"get", form.Text("9"), form.Missing, Credentials{}, 404, "No such item"},
		{"get", form.Text("z"), form.Missing, Credentials{}, 400, "Failed to parse"},
		{"move", form.Text("0"), form.Text("1"), alice, 501, "Couldn't move content"},
		{"delete", form.Text("1"), form.Missing, alice, 200, `{"value":[{"key":"0","value":"a"},{"key":"2","value":"c"}]}`},
		{"delete", form.Text("1"), form.Missing, alice, 200, `{"value":[{"key":"0","value":"a"},{"key":"2","value":"c"}]}`},
		{"delete", form.Text("1"), form.Missing, badpass, 401, "Invalid password"},
		{"add", form.Text("d"), form.Missing, alice, 200, `{"value":[{"key":"0","value":"a"},{"key":"2","value":"c"},{"key":"3","value":"d"}]}`},
	}
	runTable(t, s, table)
	raw, _ := store.Get(m, "3")
	if string(raw) != "d" {
		t.Errorf("Stored %s", raw)
	}
}

func runTable(t *testing.T, s *Service, table []struct {
	op     string
	x, y   form.Field
	cred   Credentials
	status int
	result string
}) {
	for _, tab := range table {
		var out []byte
		var err error
		switch tab.op {
		case "list":
			out, err = s.ListItems()
		case "add":
			out, err = s.AppendItem(tab.x, tab.cred)
		case "move":
			out, err = s.MoveItem(tab.x, tab.y, tab.cred)
		case "delete":
			out, err = s.DeleteItem(tab.x, tab.cred)
		case "get":
			out, err = s.GetItem(tab.x.Value)
		case "auth":
			err = s.CheckCredentials(tab.cred)
		}
		status := 200
		if err != nil {
			status = StatusCode(err)
			out = []byte(Message(err))
		}
		if status != tab.status || string(out) != tab.result {
			t.Errorf("%s %v: Received %d %s, expected %d %s",
				tab.op, tab.x, status, out, tab.status, tab.result)
		}
	}
}

func TestMissingRecords(t *testing.T) {
	m := store.NewMemory()
	s, _ := New(m, StrategyBlob)
	_, err := s.ListItems()
	if StatusCode(err) != 500 || Message(err) != MsgFetchList {
		t.Errorf("Received %v", err)
	}
	_, err = s.AppendItem(form.Text("x"), alice)
	if StatusCode(err) != 500 || Message(err) != MsgFetchAccounts {
		t.Errorf("Received %v", err)
	}
	// with accounts but no list
	auth.SaveAccounts(m, auth.AccountSet{{Username: "alice", Password: "p1"}})
	_, err = s.AppendItem(form.Text("x"), alice)
	if StatusCode(err) != 500 || Message(err) != MsgFetchList || !store.IsNotExist(err) {
		t.Errorf("Received %v", err)
	}
	_, err = store.Get(m, items.ListKey)
	if !store.IsNotExist(err) {
		t.Errorf("Received %v, expected no list to be written", err)
	}
}

// readonly fails every write with errBroken
type readonly struct {
	*store.Memory
}

var errBroken = errors.New("broken")

func (r readonly) Create(key string) (io.WriteCloser, error) { return nil, errBroken }

func (r readonly) Replace(key string, value []byte) error { return errBroken }

func (r readonly) Delete(key string) error { return errBroken }

func TestWriteFailure(t *testing.T) {
	_, m := newService(t, StrategyBlob, "a")
	s, _ := New(readonly{m}, StrategyBlob)
	_, km := newService(t, StrategyKeyed, "a")
	ks, _ := New(readonly{km}, StrategyKeyed)
	var table = []struct {
		f   func() ([]byte, error)
		msg string
		s   *Service
	}{
		{func() ([]byte, error) { return s.AppendItem(form.Text("b"), alice) }, MsgAdd, s},
		{func() ([]byte, error) { return s.MoveItem(form.Text("0"), form.Text("0"), alice) }, MsgMove, s},
		{func() ([]byte, error) { return s.DeleteItem(form.Text("0"), alice) }, MsgDelete, s},
		{func() ([]byte, error) { return ks.AppendItem(form.Text("b"), alice) }, MsgAdd, ks},
		{func() ([]byte, error) { return ks.DeleteItem(form.Text("0"), alice) }, MsgDelete, ks},
	}
	for _, tab := range table {
		_, err := tab.f()
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindStoreWrite || e.Msg != tab.msg {
			t.Errorf("Received %#v, expected a %s store write error", err, tab.msg)
		}
		if StatusCode(err) != http.StatusInternalServerError {
			t.Errorf("Received status %d", StatusCode(err))
		}
		if !errors.Is(err, errBroken) {
			t.Errorf("Received %v, expected it to wrap %v", err, errBroken)
		}
		// the stored items are untouched
		out, err := tab.s.ListItems()
		expected := `{"value":["a"]}`
		if tab.s == ks {
			expected = `{"value":[{"key":"0","value":"a"}]}`
		}
		if err != nil || string(out) != expected {
			t.Errorf("%s: Received %s %v, expected %s", tab.msg, out, err, expected)
		}
	}
}

func TestUnknownStrategy(t *testing.T) {
	_, err := New(store.NewMemory(), "sideways")
	if err == nil {
		t.Errorf("Received nil, expected an error")
	}
	if StatusCode(errBroken) != 500 || Message(errBroken) != "Internal Server Error" {
		t.Errorf("Received %d %s", StatusCode(errBroken), Message(errBroken))
	}
}
