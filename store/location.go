package store

import (
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// ErrBadLocation means a location string could not be understood.
var ErrBadLocation = errors.New("Cannot parse location")

// splitBucketPrefix will take a path and separate the bucket name from a prefix, if any.
// It will also make sure the prefix returned is either empty or ends with a
// slash "/".
//
// examples:
// 		"" -> ("", "")
//		"bucket" -> ("bucket", "")
//		"bucket/and/a/prefix" -> ("bucket", "and/a/prefix/")
func splitBucketPrefix(location string) (bucket, prefix string) {
	if location == "" {
		return
	}
	location = strings.TrimPrefix(location, "/")
	v := strings.SplitN(location, "/", 2)
	bucket = v[0]
	if len(v) > 1 {
		prefix = path.Clean(v[1])
		if prefix == "." {
			prefix = ""
		}
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}
	return
}

// ParseLocation creates a store based on location. The forms understood are
//
//     ""                          a new Memory store
//     /some/path or file:path     a FileSystem store rooted at the path
//     s3:/bucket/prefix           an S3 store, using the default AWS endpoint
//     s3://host:port/bucket/prefix    an S3 store at the given endpoint
//     ql:memory                   an in-memory QL database
//     ql:/path/to/file.db         a QL database file
//     mysql:<dsn>                 a MySQL database, e.g. mysql:user:pw@tcp(host:3306)/db
func ParseLocation(location string) (Store, error) {
	if location == "" {
		return NewMemory(), nil
	}
	// MySQL dial strings do not parse as URLs
	if strings.HasPrefix(location, "mysql:") {
		return NewMySQL(strings.TrimPrefix(location, "mysql:"))
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "", "file":
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		p = filepath.Clean(p)
		err = os.MkdirAll(p, 0755)
		if err != nil {
			return nil, err
		}
		return NewFileSystem(p), nil
	case "ql":
		p := u.Opaque
		if p == "" {
			p = u.Path
		}
		if p == "" {
			return nil, ErrBadLocation
		}
		return NewQL(p)
	case "s3":
		conf := &aws.Config{}
		if u.Host != "" {
			conf.Endpoint = aws.String(u.Host)
			conf.Region = aws.String("us-east-1")
			// disable SSL for local development
			if strings.Contains(u.Host, "localhost") {
				conf.DisableSSL = aws.Bool(true)
				conf.S3ForcePathStyle = aws.Bool(true)
			}
		}
		bucket, prefix := splitBucketPrefix(u.Path)
		if bucket == "" {
			return nil, ErrBadLocation
		}
		return NewS3(bucket, prefix, session.New(conf)), nil
	}
	return nil, ErrBadLocation
}
