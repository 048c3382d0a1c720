package engine

import "strings"

// Supported HTTP methods.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// Path families with special dispatch handling.
const (
	// RateLimitedPrefix marks the path family gated by the fixed-window
	// rate limiter.
	RateLimitedPrefix = "/limited"
	// ProtectedPrefix marks the path family behind the bearer-token gate.
	ProtectedPrefix = "/secure"
)

// Request describes one simulated HTTP request. Path matching is
// case-sensitive and exact except for the documented prefix families;
// header lookup is case-insensitive.
type Request struct {
	Method  string
	Path    string
	Body    map[string]any
	Headers map[string]string
}

// Header returns the named header using case-insensitive lookup.
func (r Request) Header(name string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// BodyString returns the named body field when it is a string.
func (r Request) BodyString(name string) string {
	if r.Body == nil {
		return ""
	}
	s, _ := r.Body[name].(string)
	return s
}

// Response is the HTTP-shaped result of a dispatch. Data is nil for
// empty-body responses such as 204.
type Response struct {
	Status  int               `json:"status"`
	Data    any               `json:"data"`
	Headers map[string]string `json:"headers,omitempty"`
}

// route is one entry in the ordered dispatch table. The table is
// evaluated top to bottom; the first matching entry wins.
type route struct {
	name   string
	match  func(Request) bool
	handle func(Request) Response
}

// exact matches a single literal path regardless of method.
func exact(path string) func(Request) bool {
	return func(r Request) bool { return r.Path == path }
}

// methodExact matches a literal path for one method only.
func methodExact(method, path string) func(Request) bool {
	return func(r Request) bool { return r.Method == method && r.Path == path }
}
