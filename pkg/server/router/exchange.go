package router

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

// ParamFunc resolves a path parameter for the route that matched.
type ParamFunc func(name string) string

// Exchange is the Context shared by every adapter. Adapters only differ in
// how they resolve path parameters.
type Exchange struct {
	request  *http.Request
	response *trackingWriter
	params   ParamFunc

	mu    sync.RWMutex
	store map[string]interface{}
}

// NewExchange wraps one request/response pair. params may be nil.
func NewExchange(w http.ResponseWriter, r *http.Request, params ParamFunc) *Exchange {
	return &Exchange{
		request:  r,
		response: &trackingWriter{ResponseWriter: w},
		params:   params,
	}
}

func (e *Exchange) Request() *http.Request {
	return e.request
}

func (e *Exchange) SetRequest(r *http.Request) {
	e.request = r
}

func (e *Exchange) Response() ResponseWriter {
	return e.response
}

func (e *Exchange) Param(name string) string {
	if e.params == nil {
		return ""
	}
	return e.params(name)
}

func (e *Exchange) Query(name string) string {
	return e.request.URL.Query().Get(name)
}

func (e *Exchange) JSON(code int, v interface{}) error {
	e.response.Header().Set("Content-Type", "application/json")
	e.response.WriteHeader(code)
	return json.NewEncoder(e.response).Encode(v)
}

func (e *Exchange) String(code int, s string) error {
	e.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	e.response.WriteHeader(code)
	_, err := io.WriteString(e.response, s)
	return err
}

func (e *Exchange) Get(key string) interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store[key]
}

func (e *Exchange) Set(key string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		e.store = make(map[string]interface{})
	}
	e.store[key] = value
}

// trackingWriter records the first status written. Later WriteHeader calls
// are ignored so a middleware cannot override a committed response.
type trackingWriter struct {
	http.ResponseWriter

	mu      sync.RWMutex
	status  int
	written bool
}

func (w *trackingWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *trackingWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *trackingWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}
