package main

import (
	"io/ioutil"
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	f, err := ioutil.TempFile("", "emojis*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.WriteString(`
port = "9000"
location = "ql:memory"
binding = "EMOJIS"
strategy = "keyed"
init = true
`)
	f.Close()

	var table = []struct {
		args     []string
		expected Config
	}{
		{nil, Config{Port: "8787", Strategy: "blob"}},
		{[]string{"-port", "1234"}, Config{Port: "1234", Strategy: "blob"}},
		{[]string{"-max-concurrent", "4"}, Config{Port: "8787", Strategy: "blob", MaxConcurrent: 4}},
		{[]string{"-config", f.Name()},
			Config{Port: "9000", Location: "ql:memory", Binding: "EMOJIS", Strategy: "keyed", Init: true}},
		{[]string{"-config", f.Name(), "-strategy", "blob", "-binding", ""},
			Config{Port: "9000", Location: "ql:memory", Strategy: "blob", Init: true}},
	}
	os.Setenv("SENTRY_DSN", "")
	for _, tab := range table {
		cfg, err := loadConfig(tab.args)
		if err != nil {
			t.Errorf("%v: Received %s", tab.args, err.Error())
			continue
		}
		if cfg != tab.expected {
			t.Errorf("%v: Received %#v, expected %#v", tab.args, cfg, tab.expected)
		}
	}

	_, err = loadConfig([]string{"-config", "/nonexistent/emojis.toml"})
	if err == nil {
		t.Errorf("Received nil, expected an error for a missing file")
	}
}

func TestOpenStore(t *testing.T) {
	s, err := openStore(Config{Location: "ql:memory", Binding: "EMOJIS"})
	if err != nil {
		t.Fatalf("Received %s", err.Error())
	}
	w, err := s.Create("list")
	if err != nil {
		t.Fatalf("Received %s", err.Error())
	}
	w.Close()
	keys, _ := s.ListPrefix("")
	if len(keys) != 1 || keys[0] != "list" {
		t.Errorf("Received %v", keys)
	}
}
