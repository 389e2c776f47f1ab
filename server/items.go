package server

import (
	"log"
	"net/http"

	raven "github.com/getsentry/raven-go"
	"github.com/julienschmidt/httprouter"

	"github.com/ndlib/emojis"
	"github.com/ndlib/emojis/form"
)

// ListHandler handles requests to GET /list. Concurrent requests share one
// load of the list.
func (s *RESTServer) ListHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests.Add("list", 1)
	v, err := s.lists.Do("list", func() (interface{}, error) {
		return s.Service.ListItems()
	})
	if err != nil {
		writeError(w, "list", err)
		return
	}
	writeJSON(w, v.([]byte))
}

// GetItemHandler handles requests to GET /item/:key
func (s *RESTServer) GetItemHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests.Add("item", 1)
	v, err := s.Service.GetItem(ps.ByName("key"))
	if err != nil {
		writeError(w, "item", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(v)
}

// AuthHandler handles requests to POST /auth. It only checks the
// credentials.
func (s *RESTServer) AuthHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests.Add("auth", 1)
	f, ok := parseForm(w, r)
	if !ok {
		return
	}
	err := s.Service.CheckCredentials(credentials(f))
	if err != nil {
		writeError(w, "auth", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddHandler handles requests to POST /add
func (s *RESTServer) AddHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests.Add("add", 1)
	f, ok := parseForm(w, r)
	if !ok {
		return
	}
	v, err := s.Service.AppendItem(f.Get("content"), credentials(f))
	if err != nil {
		writeError(w, "add", err)
		return
	}
	writeJSON(w, v)
}

// MoveHandler handles requests to POST /move
func (s *RESTServer) MoveHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests.Add("move", 1)
	f, ok := parseForm(w, r)
	if !ok {
		return
	}
	v, err := s.Service.MoveItem(f.Get("from"), f.Get("to"), credentials(f))
	if err != nil {
		writeError(w, "move", err)
		return
	}
	writeJSON(w, v)
}

// DeleteHandler handles requests to POST /delete
func (s *RESTServer) DeleteHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests.Add("delete", 1)
	f, ok := parseForm(w, r)
	if !ok {
		return
	}
	v, err := s.Service.DeleteItem(f.Get("index"), credentials(f))
	if err != nil {
		writeError(w, "delete", err)
		return
	}
	writeJSON(w, v)
}

func credentials(f form.Values) emojis.Credentials {
	return emojis.Credentials{
		Username: f.Get("username"),
		Password: f.Get("password"),
	}
}

// parseForm reads the request body. On failure it writes a 400 response and
// returns false.
func parseForm(w http.ResponseWriter, r *http.Request) (form.Values, bool) {
	f, err := form.FromRequest(r)
	if err != nil {
		log.Println("Form:", err)
		failures.Add("form", 1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(emojis.MsgParse))
		return nil, false
	}
	return f, true
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// writeError sends the client message and status for err. Server side
// failures are logged and sent to Sentry.
func writeError(w http.ResponseWriter, route string, err error) {
	status := emojis.StatusCode(err)
	failures.Add(route, 1)
	if status >= 500 && status != http.StatusNotImplemented {
		log.Printf("%s: %s", route, err.Error())
		raven.CaptureError(err, map[string]string{"Route": route})
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(emojis.Message(err)))
}
