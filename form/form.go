// Package form extracts the fields of a submitted HTML form. A field can be
// present as plain text, or absent. A field sent as a file upload counts as
// absent, since only plain text fields are accepted.
package form

import (
	"mime"
	"net/http"
)

// Field is one form value.
type Field struct {
	Value   string
	Present bool
}

// Text returns a present field holding v.
func Text(v string) Field {
	return Field{Value: v, Present: true}
}

// Missing is the field returned for names which were not submitted.
var Missing = Field{}

// Values are the fields of a form, by name.
type Values map[string]Field

// Get returns the named field, or Missing.
func (v Values) Get(name string) Field {
	return v[name]
}

// MaxMemory bounds the size of a multipart form kept in memory.
const MaxMemory = 1 << 20

// FromRequest parses the body of r, which may be either
// application/x-www-form-urlencoded or multipart/form-data. Only the first
// value of a repeated field is kept.
func FromRequest(r *http.Request) (Values, error) {
	result := make(Values)
	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype == "multipart/form-data" {
		err := r.ParseMultipartForm(MaxMemory)
		if err != nil {
			return nil, err
		}
		// large file parts are spooled to temporary files
		defer r.MultipartForm.RemoveAll()
		for name, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				result[name] = Text(v[0])
			}
		}
		// file parts are not plain text fields
		return result, nil
	}
	err := r.ParseForm()
	if err != nil {
		return nil, err
	}
	for name, v := range r.PostForm {
		if len(v) > 0 {
			result[name] = Text(v[0])
		}
	}
	return result, nil
}
