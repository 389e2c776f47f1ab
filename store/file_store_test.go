package store

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestItemSubdir(t *testing.T) {
	var table = []struct{ input, output string }{
		{"x", "x_/__/"},
		{"0", "0_/__/"},
		{"xy", "xy/__/"},
		{"xyz", "xy/z_/"},
		{"wxyz", "wx/yz/"},
		{"vwxyz", "vw/xy/"},
		{"list", "li/st/"},
		{"accounts", "ac/co/"},
	}
	for _, s := range table {
		result := itemSubdir(s.input)
		if result != s.output {
			t.Errorf("Got %s, expected %s", result, s.output)
		}
	}
}

func TestListPrefix(t *testing.T) {
	var files = []string{
		"0_/",
		"0_/__/",
		"0_/__/0",
		"1_/",
		"1_/__/",
		"1_/__/1",
		"10/",
		"10/__/",
		"10/__/10",
		"10/2_/",
		"10/2_/102",
		"li/",
		"li/st/",
		"li/st/list",
		"scratch/",
		"scratch/17",
	}
	var table = []struct {
		prefix   string
		expected []string
	}{
		{"", []string{"0", "1", "10", "102", "list"}},
		{"1", []string{"1", "10", "102"}},
		{"10", []string{"10", "102"}},
		{"102", []string{"102"}},
		{"l", []string{"list"}},
		{"17", []string{}},
	}
	dir := makeTmpTree(files)
	defer os.RemoveAll(dir)
	s := NewFileSystem(dir)
	for _, tab := range table {
		t.Logf("Trying prefix %s", tab.prefix)
		result, err := s.ListPrefix(tab.prefix)
		sort.Strings(result)
		if err != nil {
			t.Errorf("Got unexpected error: %s", err.Error())
		} else if !equal(tab.expected, result) {
			t.Errorf("Got result %v, expected %v", result, tab.expected)
		}
	}
}

func TestWalkTree(t *testing.T) {
	var files = []string{
		"a/",
		"a/b/",
		"a/b/xyz-0001-1",
		"a/b/xyz-0002-1",
		"a/b/qwe-0001-2",
		"a/b/qwe-0002-1",
		"a/c/",
		"a/c/asd-0001-1",
		"a/c/asd-0002-1",
		"a/c/asd-0003-2",
		"a/skipped",
		"top",
	}
	var goal = []string{
		"asd-0001-1",
		"asd-0002-1",
		"asd-0003-2",
		"qwe-0001-2",
		"qwe-0002-1",
		"xyz-0001-1",
		"xyz-0002-1",
	}
	dir := makeTmpTree(files)
	defer os.RemoveAll(dir)
	c := make(chan string)
	go walkTree(c, dir, 0)
	var result []string
	for name := range c {
		result = append(result, name)
		t.Log(name)
	}
	sort.Strings(result)
	if !equal(result, goal) {
		t.Errorf("Got %v, expected %v", result, goal)
	}
}

func TestMissingRoot(t *testing.T) {
	s := NewFileSystem("/nonexistent/emojis/root")
	keys, err := s.ListPrefix("")
	if err != nil || len(keys) != 0 {
		t.Errorf("Got %v, %v, expected nothing", keys, err)
	}
	_, _, err = s.Open("list")
	if err != ErrNotExist {
		t.Errorf("Got %v, expected %v", err, ErrNotExist)
	}
}

func TestInvalidKeys(t *testing.T) {
	var table = []struct {
		key string
		err error
	}{
		{"", ErrEmptyKey},
		{"a/b", ErrKeyContainsSlash},
		{"a b", ErrKeyContainsWhiteSpace},
		{"a\x01", ErrKeyContainsControlChar},
		{"a\xff", ErrKeyContainsNonUnicode},
		{"good", nil},
	}
	dir, _ := ioutil.TempDir("", "")
	defer os.RemoveAll(dir)
	s := NewFileSystem(dir)
	for _, tab := range table {
		w, err := s.Create(tab.key)
		if err != tab.err {
			t.Errorf("Create(%q) got %v, expected %v", tab.key, err, tab.err)
		}
		if w != nil {
			w.Close()
		}
	}
}

// returns abs path to the root of the new tree.
// remember to delete the new directory when finished.
func makeTmpTree(files []string) string {
	var data []byte
	root, _ := ioutil.TempDir("", "")
	for _, s := range files {
		var err error
		p := filepath.Join(root, s)
		if strings.HasSuffix(s, "/") {
			err = os.Mkdir(p, 0777)
		} else {
			err = ioutil.WriteFile(p, data, 0777)
		}
		if err != nil {
			fmt.Println(err)
		}
	}
	return root
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
