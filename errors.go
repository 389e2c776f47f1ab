package emojis

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/ndlib/emojis/items"
	"github.com/ndlib/emojis/store"
)

// Kind classifies the errors returned by a Service.
type Kind int

const (
	KindInternal        Kind = iota
	KindValidation           // a required field is missing
	KindParse                // an index or key is not a non-negative integer
	KindIndexOutOfRange      // an index is past the end of the list
	KindAuth                 // the credentials were rejected
	KindStoreRead            // a record could not be loaded
	KindStoreWrite           // a record could not be saved
	KindNotFound             // no item has the requested key
	KindNotImplemented       // the strategy does not offer the operation
)

// Error is returned by every Service operation. Msg is safe to show to the
// client; Err, if any, is the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Cause() error { return e.Err }

func (e *Error) Unwrap() error { return e.Err }

// The messages shown to clients.
const (
	MsgFetchList     = "Couldn't fetch list"
	MsgFetchAccounts = "Couldn't fetch accounts"
	MsgAdd           = "Couldn't add content"
	MsgMove          = "Couldn't move content"
	MsgDelete        = "Couldn't delete content"
	MsgParse         = "Failed to parse"
	MsgOutOfIndex    = "Out of index"
	MsgNotFound      = "No such item"
)

// StatusCode gives the HTTP status for err. Errors not from a Service are
// internal server errors.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindParse, KindIndexOutOfRange:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Message gives the client-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return http.StatusText(http.StatusInternalServerError)
}

// classify turns an error from an items.Store into an *Error. msg describes
// the operation, and is used when a write fails.
func classify(err error, msg string) *Error {
	switch errors.Cause(err) {
	case items.ErrIndexOutOfRange:
		return &Error{Kind: KindIndexOutOfRange, Msg: MsgOutOfIndex}
	case items.ErrParse:
		return &Error{Kind: KindParse, Msg: MsgParse}
	case items.ErrNotFound:
		return &Error{Kind: KindNotFound, Msg: MsgNotFound}
	case items.ErrMalformedKey:
		return &Error{Kind: KindStoreRead, Msg: msg, Err: err}
	}
	var operr *store.OpError
	if errors.As(err, &operr) && operr.Op == "write" {
		return &Error{Kind: KindStoreWrite, Msg: msg, Err: err}
	}
	return &Error{Kind: KindStoreRead, Msg: MsgFetchList, Err: err}
}
