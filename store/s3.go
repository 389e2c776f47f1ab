package store

import (
	"bytes"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	raven "github.com/getsentry/raven-go"
)

// A S3 store represents a store that is kept on AWS S3 storage, or on any
// service with the same API.
// Do not change Bucket or Prefix concurrently with calls using the structure.
//
// Values are fetched and uploaded whole, since every record we keep is small.
type S3 struct {
	svc    *s3.S3
	Bucket string
	Prefix string
}

var (
	_ Store    = &S3{}
	_ Replacer = &S3{}
)

// NewS3 creates a new S3 store. It will use the given bucket and will prepend
// prefix to all keys. This is to allow for a bucket to be used for more than
// one store. For example if prefix were "emojis/" then an Open("list") would
// look for the key "emojis/list" in the bucket. The authorization method and
// credentials in the session are used for all accesses.
func NewS3(bucket, prefix string, awsSession *session.Session) *S3 {
	return &S3{
		Bucket: bucket,
		Prefix: prefix,
		svc:    s3.New(awsSession),
	}
}

// List returns a list of all the keys in this store. It will only return ones
// that satisfy the store's Prefix, so it is safe to use this on a bucket
// containing other items.
func (s *S3) List() <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		keys, _ := s.ListPrefix("")
		for _, key := range keys {
			out <- key
		}
	}()
	return out
}

// ListPrefix returns the keys in this store that have the given prefix.
// The argument prefix is added to the store's Prefix.
func (s *S3) ListPrefix(prefix string) ([]string, error) {
	var result []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(s.Prefix + prefix),
	}
	err := s.svc.ListObjectsV2Pages(input,
		func(page *s3.ListObjectsV2Output, lastpage bool) bool {
			for _, item := range page.Contents {
				result = append(result, strings.TrimPrefix(*item.Key, s.Prefix))
			}
			return !lastpage
		})
	if err != nil {
		s.report("S3 ListPrefix:", prefix, err)
	}
	return result, err
}

// Open downloads the value for the given key. ErrNotExist is returned if
// there is no such key.
func (s *S3) Open(key string) (ReadAtCloser, int64, error) {
	output, err := s.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + key),
	})
	if isS3NotFound(err) {
		return nil, 0, ErrNotExist
	} else if err != nil {
		s.report("S3 Open:", key, err)
		return nil, 0, err
	}
	defer output.Body.Close()
	b, err := ioutil.ReadAll(output.Body)
	if err != nil {
		s.report("S3 Open:", key, err)
		return nil, 0, err
	}
	return memReader(b), int64(len(b)), nil
}

// Create will return a WriteCloser to upload content to the given key. The
// content is buffered and uploaded in a single request when the writer is
// closed.
func (s *S3) Create(key string) (io.WriteCloser, error) {
	exists, err := s.exists(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrKeyExists
	}
	return &s3WriteCloser{s: s, key: key}, nil
}

// Replace uploads value under key in one request. S3 replaces an existing
// object whole, so readers never see the key missing.
func (s *S3) Replace(key string, value []byte) error {
	return s.put(key, value)
}

// Delete will remove the given key from the store. The store's Prefix is
// prepended first. It is not an error to delete something that doesn't exist.
func (s *S3) Delete(key string) error {
	_, err := s.svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + key),
	})
	if err != nil {
		s.report("S3 Delete:", key, err)
	}
	return err
}

// exists does a HEAD request for the given key.
func (s *S3) exists(key string) (bool, error) {
	_, err := s.svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + key),
	})
	if isS3NotFound(err) {
		return false, nil
	} else if err != nil {
		s.report("S3 Head:", key, err)
		return false, err
	}
	return true, nil
}

func (s *S3) report(msg, key string, err error) {
	log.Println(msg, s.Prefix, key, err)
	raven.CaptureError(err, map[string]string{"Bucket": s.Bucket, "Prefix": s.Prefix, "Key": key})
}

// isS3NotFound returns true if err is a 404 from the service. HEAD requests
// have no body, so they do not carry the NoSuchKey code.
func isS3NotFound(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(awserr.RequestFailure); ok && e.StatusCode() == http.StatusNotFound {
		return true
	}
	if e, ok := err.(awserr.Error); ok && e.Code() == s3.ErrCodeNoSuchKey {
		return true
	}
	return false
}

type s3WriteCloser struct {
	s   *S3
	key string
	buf bytes.Buffer
}

func (wc *s3WriteCloser) Write(p []byte) (int, error) {
	return wc.buf.Write(p)
}

func (wc *s3WriteCloser) Close() error {
	return wc.s.put(wc.key, wc.buf.Bytes())
}

func (s *S3) put(key string, value []byte) error {
	_, err := s.svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + key),
		Body:   bytes.NewReader(value),
	})
	if err != nil {
		s.report("S3 Put:", key, err)
	}
	return err
}
