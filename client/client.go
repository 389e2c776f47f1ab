// Package client talks to an emojis server over HTTP.
package client

import (
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/antonholmquist/jason"
	"github.com/pkg/errors"
)

// Exported errors. The message sent by the server is wrapped around them, so
// compare using errors.Cause.
var (
	ErrNotFound       = errors.New("Item Not Found")
	ErrNotAuthorized  = errors.New("Access Denied")
	ErrBadRequest     = errors.New("Bad Request")
	ErrNotImplemented = errors.New("Not Implemented by this server")
	ErrServerError    = errors.New("Server Error")
	ErrUnexpectedResp = errors.New("Unexpected Response")
)

// A Connection represents a connection with an emojis server.
// It can be shared between multiple goroutines.
type Connection struct {
	// The server this connection is to, e.g. "http://localhost:8787"
	HostURL string

	// Credentials sent with every changing request
	Username string
	Password string

	client *http.Client
}

// An Entry is one item as listed by the server. For a server using the blob
// strategy the Key is the position in the list.
type Entry struct {
	Key   string
	Value string
}

// List returns every item in order.
func (c *Connection) List() ([]Entry, error) {
	req, err := http.NewRequest("GET", c.HostURL+"/list", nil)
	if err != nil {
		return nil, err
	}
	return c.doList(req)
}

// Get returns the item with the given key. Only servers using the keyed
// strategy support this.
func (c *Connection) Get(key string) (string, error) {
	req, err := http.NewRequest("GET", c.HostURL+"/item/"+url.PathEscape(key), nil)
	if err != nil {
		return "", err
	}
	body, err := c.doBody(req)
	return string(body), err
}

// Auth checks the connection's credentials with the server.
func (c *Connection) Auth() error {
	req, err := c.newForm("/auth", nil)
	if err != nil {
		return err
	}
	_, err = c.doBody(req)
	return err
}

// Add appends content to the list.
func (c *Connection) Add(content string) ([]Entry, error) {
	req, err := c.newForm("/add", url.Values{"content": {content}})
	if err != nil {
		return nil, err
	}
	return c.doList(req)
}

// Move moves the item at position from to position to.
func (c *Connection) Move(from, to uint64) ([]Entry, error) {
	req, err := c.newForm("/move", url.Values{
		"from": {strconv.FormatUint(from, 10)},
		"to":   {strconv.FormatUint(to, 10)},
	})
	if err != nil {
		return nil, err
	}
	return c.doList(req)
}

// Delete removes the item at the given index (or key, for a keyed server).
func (c *Connection) Delete(index uint64) ([]Entry, error) {
	req, err := c.newForm("/delete", url.Values{
		"index": {strconv.FormatUint(index, 10)},
	})
	if err != nil {
		return nil, err
	}
	return c.doList(req)
}

func (c *Connection) newForm(path string, fields url.Values) (*http.Request, error) {
	if fields == nil {
		fields = url.Values{}
	}
	fields.Set("username", c.Username)
	fields.Set("password", c.Password)
	req, err := http.NewRequest("POST", c.HostURL+path, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func (c *Connection) do(req *http.Request) (*http.Response, error) {
	if c.client == nil {
		c.client = &http.Client{
			Timeout: 30 * time.Second, // arbitrary
		}
	}
	return c.client.Do(req)
}

// doBody performs req and returns the body of a 200 response. Any other
// status is turned into an error carrying the server's message.
func (c *Connection) doBody(req *http.Request) ([]byte, error) {
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	msg := strings.TrimSpace(string(body))
	switch resp.StatusCode {
	case 200:
		return body, nil
	case 400:
		return nil, errors.Wrap(ErrBadRequest, msg)
	case 401:
		return nil, errors.Wrap(ErrNotAuthorized, msg)
	case 404:
		return nil, errors.Wrap(ErrNotFound, msg)
	case 501:
		return nil, errors.Wrap(ErrNotImplemented, msg)
	}
	if resp.StatusCode >= 500 {
		return nil, errors.Wrap(ErrServerError, msg)
	}
	return nil, errors.Wrapf(ErrUnexpectedResp, "status %d", resp.StatusCode)
}

func (c *Connection) doList(req *http.Request) ([]Entry, error) {
	body, err := c.doBody(req)
	if err != nil {
		return nil, err
	}
	v, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return nil, err
	}
	return decodeList(v)
}

// decodeList understands both list representations: a list of strings from
// a blob server, and a list of key and value objects from a keyed server.
func decodeList(v *jason.Object) ([]Entry, error) {
	values, err := v.GetValueArray("value")
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedResp, err.Error())
	}
	result := make([]Entry, 0, len(values))
	for i, item := range values {
		if s, err := item.String(); err == nil {
			result = append(result, Entry{Key: strconv.Itoa(i), Value: s})
			continue
		}
		obj, err := item.Object()
		if err != nil {
			return nil, errors.Wrap(ErrUnexpectedResp, err.Error())
		}
		key, _ := obj.GetString("key")
		value, _ := obj.GetString("value")
		result = append(result, Entry{Key: key, Value: value})
	}
	return result, nil
}
