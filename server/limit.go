package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// A gate limits concurrency. Every gate has a maximum number of goroutines
// to allow through at a time. Goroutines enter the gate by calling enter(),
// and signal that they are done by calling leave(). A nil gate lets
// everything through.
type gate chan struct{}

func newGate(n int) gate {
	if n <= 0 {
		return nil
	}
	return make(gate, n)
}

// enter blocks until there are fewer than n goroutines inside.
func (g gate) enter() {
	if g != nil {
		g <- struct{}{}
	}
}

// leave must balance each call to enter.
func (g gate) leave() {
	if g != nil {
		<-g
	}
}

// limitWrapper lets at most the gate's capacity of requests run handler at
// once. The rest wait their turn.
func limitWrapper(g gate, handler httprouter.Handle) httprouter.Handle {
	if g == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		g.enter()
		defer g.leave()
		handler(w, r, ps)
	}
}
