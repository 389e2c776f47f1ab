package store

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

const (
	typeMemory = iota
	typeFileSystem
	typeS3
	typeSQL
	typeError
)

func TestSplitBucketPrefix(t *testing.T) {
	var table = []struct {
		location string
		bucket   string
		prefix   string
	}{
		{"", "", ""},
		{"rel/path", "rel", "path/"},
		{"/abs/path/", "abs", "path/"},
		{"/bucket", "bucket", ""},
		{"/bucket/", "bucket", ""},
		{"/bucket/prefix/", "bucket", "prefix/"},
		{"/bucket/prefix", "bucket", "prefix/"},
		{"/bucket/prefix/more", "bucket", "prefix/more/"},
	}

	for _, row := range table {
		t.Log(row.location)
		bucket, prefix := splitBucketPrefix(row.location)
		if bucket != row.bucket {
			t.Error("expected bucket", row.bucket, "received", bucket)
		}
		if prefix != row.prefix {
			t.Error("expected prefix", row.prefix, "received", prefix)
		}
	}
}

func TestParseLocation(t *testing.T) {
	dir, _ := ioutil.TempDir("", "")
	defer os.RemoveAll(dir)
	var table = []struct {
		location string
		typ      int
		bucket   string
		prefix   string
	}{
		{"", typeMemory, "", ""},
		{filepath.Join(dir, "a"), typeFileSystem, "", ""},
		{"file:" + filepath.Join(dir, "b"), typeFileSystem, "", ""},
		{"s3:/bucket", typeS3, "bucket", ""},
		{"s3://localhost:9000/bucket/prefix/", typeS3, "bucket", "prefix/"},
		{"s3://localhost:9000/", typeError, "", ""},
		{"ql:memory", typeSQL, "", ""},
		{"ql:" + filepath.Join(dir, "kv.db"), typeSQL, "", ""},
		{"ql:", typeError, "", ""},
		{"gopher://example.com/", typeError, "", ""},
	}

	for _, row := range table {
		t.Log(row.location)
		result, err := ParseLocation(row.location)
		if err != nil {
			if row.typ != typeError {
				t.Errorf("unexpected error %s", err.Error())
			}
			continue
		}
		switch x := result.(type) {
		case *Memory:
			if row.typ != typeMemory {
				t.Errorf("unexpected received %#v", result)
			}
		case *FileSystem:
			if row.typ != typeFileSystem {
				t.Errorf("unexpected received %#v", result)
			}
		case *SQL:
			if row.typ != typeSQL {
				t.Errorf("unexpected received %#v", result)
			}
			x.Close()
		case *S3:
			if row.typ != typeS3 {
				t.Errorf("unexpected received %#v", result)
			}
			if x.Bucket != row.bucket {
				t.Error("expected bucket", row.bucket, "received", x.Bucket)
			}
			if x.Prefix != row.prefix {
				t.Error("expected prefix", row.prefix, "received", x.Prefix)
			}
		default:
			t.Errorf("unexpected received %#v", result)
		}
	}
}
