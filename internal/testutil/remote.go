package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Reply is one canned answer from the fake remote.
type Reply struct {
	// Status defaults to 200.
	Status int
	// Body is JSON-encoded. Ignored when Raw is set.
	Body any
	// Raw is written verbatim, for malformed-response cases.
	Raw string
	// Hold, when set, makes the handler wait until it is closed (or the
	// request is cancelled) before answering.
	Hold <-chan struct{}
}

// Request is a request the fake remote received.
type Request struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Query  url.Values      `json:"query,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Remote is an in-process stand-in for the game authority.
//
// Replies are queued per route ("METHOD /escaped/path"). Each request consumes the
// head of its route's queue; the last reply is sticky and answers every
// further request. Routes with no reply get a 404 with a FastAPI-style detail.
//
// Thread-safety: safe for concurrent use.
type Remote struct {
	server *httptest.Server

	mu       sync.Mutex
	replies  map[string][]Reply
	requests []Request
}

// NewRemote starts a fake remote. Call Close when done.
func NewRemote() *Remote {
	r := &Remote{replies: make(map[string][]Reply)}
	r.server = httptest.NewServer(http.HandlerFunc(r.serve))
	return r
}

// StartRemote starts a fake remote that is closed with the test.
func StartRemote(t testing.TB) *Remote {
	t.Helper()
	r := NewRemote()
	t.Cleanup(r.Close)
	return r
}

// URL returns the base URL to hand to api.New.
func (r *Remote) URL() string { return r.server.URL }

// Close shuts the server down.
func (r *Remote) Close() { r.server.Close() }

// On queues replies for a route.
func (r *Remote) On(method, path string, replies ...Reply) *Remote {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := routeKey(method, path)
	r.replies[key] = append(r.replies[key], replies...)
	return r
}

// JSON queues a 200 reply with body.
func (r *Remote) JSON(method, path string, body any) *Remote {
	return r.On(method, path, Reply{Body: body})
}

// Fail queues an error reply carrying detail, as the authority does.
func (r *Remote) Fail(method, path string, status int, detail string) *Remote {
	return r.On(method, path, Reply{Status: status, Body: map[string]string{"detail": detail}})
}

// Requests returns a copy of every request received so far.
func (r *Remote) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Request, len(r.requests))
	copy(out, r.requests)
	return out
}

// Count returns how many requests hit a route.
func (r *Remote) Count(method, path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, req := range r.requests {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to a route.
func (r *Remote) Last(method, path string) (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.requests) - 1; i >= 0; i-- {
		if req := r.requests[i]; req.Method == method && req.Path == path {
			return req, true
		}
	}
	return Request{}, false
}

func (r *Remote) serve(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	path := req.URL.EscapedPath()
	rec := Request{Method: req.Method, Path: path}
	if q := req.URL.Query(); len(q) > 0 {
		rec.Query = q
	}
	if len(body) > 0 {
		rec.Body = json.RawMessage(body)
	}

	r.mu.Lock()
	r.requests = append(r.requests, rec)
	reply, ok := r.nextLocked(routeKey(req.Method, path))
	r.mu.Unlock()

	if !ok {
		reply = Reply{
			Status: http.StatusNotFound,
			Body:   map[string]string{"detail": fmt.Sprintf("no canned reply for %s %s", req.Method, path)},
		}
	}
	if reply.Hold != nil {
		select {
		case <-reply.Hold:
		case <-req.Context().Done():
			return
		}
	}
	writeReply(w, reply)
}

func (r *Remote) nextLocked(key string) (Reply, bool) {
	queue := r.replies[key]
	if len(queue) == 0 {
		return Reply{}, false
	}
	reply := queue[0]
	if len(queue) > 1 {
		r.replies[key] = queue[1:]
	}
	return reply, true
}

func writeReply(w http.ResponseWriter, reply Reply) {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if reply.Raw != "" {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply.Raw)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reply.Body)
}

func routeKey(method, path string) string {
	return method + " " + path
}
