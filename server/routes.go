package server

import (
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // for pprof server
	"sync"

	"github.com/facebookgo/httpdown"
	raven "github.com/getsentry/raven-go"
	"github.com/golang/groupcache/singleflight"
	"github.com/julienschmidt/httprouter"

	"github.com/ndlib/emojis"
)

// RESTServer holds the configuration for an emojis REST API server.
//
// Set all the public fields and then call Run. Run will listen on the given
// port and handle requests. Do not change any fields after calling Run.
type RESTServer struct {
	// Port number to run on. defaults to 8787
	PortNumber string
	PProfPort  string

	// Service performs the operations. Run will panic if it is nil.
	Service *emojis.Service

	// MaxConcurrent limits the number of requests using the store at
	// once. Zero means no limit.
	MaxConcurrent int

	m       sync.Mutex
	server  httpdown.Server // used to close our listening socket
	stopped bool            // Stop was called, perhaps before Run

	lists singleflight.Group // shares concurrent list loads
}

// Version is the server version reported by the welcome page. It is set by
// the linker.
var Version = "dev"

// counters for /debug/vars
var requests = expvar.NewMap("emojis.requests")
var failures = expvar.NewMap("emojis.failures")

// Run starts the server. It then blocks listening for and handling http
// requests.
func (s *RESTServer) Run() error {
	log.Println("==========")
	log.Printf("Starting Emojis Server version %s", Version)

	if s.Service == nil {
		panic("No service given. Service is nil.")
	}
	if s.PortNumber == "" {
		s.PortNumber = "8787"
	}

	// for pprof
	if s.PProfPort != "" {
		log.Println("Starting PProf on port", s.PProfPort)
		go func() {
			log.Println(http.ListenAndServe(":"+s.PProfPort, nil))
		}()
	}
	log.Println("Listening on", s.PortNumber)

	h := httpdown.HTTP{}
	server, err := h.ListenAndServe(&http.Server{
		Addr:    ":" + s.PortNumber,
		Handler: s.Handler(),
	})
	if err != nil {
		log.Println(err)
		return err
	}
	s.m.Lock()
	s.server = server
	stopped := s.stopped
	s.m.Unlock()
	if stopped {
		server.Stop()
	}
	return server.Wait()
}

// Stop will stop the server and return when all the server goroutines have
// exited and the socket closed. If the server is still starting, Run will
// stop it as soon as it is listening.
func (s *RESTServer) Stop() error {
	s.m.Lock()
	s.stopped = true
	server := s.server
	s.m.Unlock()
	if server == nil {
		return nil
	}
	return server.Stop()
}

// Handler returns the http handler serving every route. Panics inside a
// handler are reported to Sentry and turned into a 500 response.
func (s *RESTServer) Handler() http.Handler {
	var routes = []struct {
		method  string
		route   string
		store   bool // true if the handler uses the store
		handler httprouter.Handle
	}{
		{"GET", "/list", true, s.ListHandler},
		{"GET", "/item/:key", true, s.GetItemHandler},
		{"POST", "/auth", true, s.AuthHandler},
		{"POST", "/add", true, s.AddHandler},
		{"POST", "/move", true, s.MoveHandler},
		{"POST", "/delete", true, s.DeleteHandler},

		// other
		{"GET", "/", false, WelcomeHandler},
		{"GET", "/debug/vars", false, VarHandler}, // standard route for expvars data
	}

	g := newGate(s.MaxConcurrent)
	r := httprouter.New()
	for _, route := range routes {
		h := route.handler
		if route.store {
			h = limitWrapper(g, h)
		}
		r.Handle(route.method, route.route, logWrapper(h))
	}
	return corsWrapper(http.HandlerFunc(raven.RecoveryHandler(r.ServeHTTP)))
}

// General route handlers and convenience functions

// VarHandler adapts the expvar default handler to the httprouter three parameter handler.
func VarHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// this code is taken from the stdlib expvar package.
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	fmt.Fprintf(w, "{\n")
	first := true
	expvar.Do(func(kv expvar.KeyValue) {
		if !first {
			fmt.Fprintf(w, ",\n")
		}
		first = false
		fmt.Fprintf(w, "%q: %s", kv.Key, kv.Value)
	})
	fmt.Fprintf(w, "\n}\n")
}

// logWrapper takes a handler and returns a handler which does the same thing,
// after first logging the request.
func logWrapper(handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		log.Println(r.Method, r.URL, r.RemoteAddr)
		handler(w, r, ps)
	}
}

// corsWrapper adds the CORS headers to every response, and answers every
// preflight OPTIONS request itself.
func corsWrapper(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Max-Age", "86400")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
