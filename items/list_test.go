package items

import (
	"testing"
)

func TestMove(t *testing.T) {
	var abcd = List{"a", "b", "c", "d"}
	var table = []struct {
		from, to uint64
		result   List
		err      error
	}{
		{0, 2, List{"b", "c", "a", "d"}, nil},
		{3, 0, List{"d", "a", "b", "c"}, nil},
		{1, 1, List{"a", "b", "c", "d"}, nil},
		{0, 3, List{"b", "c", "d", "a"}, nil},
		{2, 1, List{"a", "c", "b", "d"}, nil},
		{4, 0, nil, ErrIndexOutOfRange},
		{0, 4, nil, ErrIndexOutOfRange},
		{10, 12, nil, ErrIndexOutOfRange},
	}
	for _, tab := range table {
		result, err := abcd.Move(tab.from, tab.to)
		if err != tab.err {
			t.Errorf("Move(%d,%d) received error %v, expected %v", tab.from, tab.to, err, tab.err)
		}
		if !equal(result, tab.result) {
			t.Errorf("Move(%d,%d) received %v, expected %v", tab.from, tab.to, result, tab.result)
		}
	}
	if !equal(abcd, List{"a", "b", "c", "d"}) {
		t.Errorf("Move changed its receiver: %v", abcd)
	}
	_, err := List{}.Move(0, 0)
	if err != ErrIndexOutOfRange {
		t.Errorf("Move on empty list received %v, expected %v", err, ErrIndexOutOfRange)
	}
}

func TestDeleteAt(t *testing.T) {
	var abc = List{"a", "b", "c"}
	var table = []struct {
		i      uint64
		result List
		err    error
	}{
		{0, List{"b", "c"}, nil},
		{1, List{"a", "c"}, nil},
		{2, List{"a", "b"}, nil},
		{3, nil, ErrIndexOutOfRange},
		{100, nil, ErrIndexOutOfRange},
	}
	for _, tab := range table {
		result, err := abc.DeleteAt(tab.i)
		if err != tab.err {
			t.Errorf("DeleteAt(%d) received error %v, expected %v", tab.i, err, tab.err)
		}
		if !equal(result, tab.result) {
			t.Errorf("DeleteAt(%d) received %v, expected %v", tab.i, result, tab.result)
		}
	}
}

func TestAppend(t *testing.T) {
	var l List
	for i, item := range []string{"😀", "", "🎉"} {
		l = l.Append(item)
		if len(l) != i+1 || l[i] != item {
			t.Errorf("Received %v after appending %q", l, item)
		}
	}
	// appending to a shared prefix must not clobber the other list
	base := List{"a", "b"}
	x := base.Append("x")
	y := base.Append("y")
	if x[2] != "x" || y[2] != "y" {
		t.Errorf("Received %v and %v", x, y)
	}
}

func TestParseIndex(t *testing.T) {
	var table = []struct {
		input  string
		result uint64
		err    error
	}{
		{"0", 0, nil},
		{"17", 17, nil},
		{"007", 7, nil},
		{"18446744073709551615", 18446744073709551615, nil},
		{"18446744073709551616", 0, ErrParse},
		{"", 0, ErrParse},
		{"-1", 0, ErrParse},
		{"+1", 0, ErrParse},
		{" 1", 0, ErrParse},
		{"1.0", 0, ErrParse},
		{"abc", 0, ErrParse},
	}
	for _, tab := range table {
		n, err := ParseIndex(tab.input)
		if n != tab.result || err != tab.err {
			t.Errorf("ParseIndex(%q) received %d, %v, expected %d, %v", tab.input, n, err, tab.result, tab.err)
		}
	}
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
