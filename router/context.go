// Copyright 2026 The Centreon Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"centreon.dev/web/router/compiler"
	"centreon.dev/web/router/route"
	"centreon.dev/web/session"
)

// Context carries one dispatched request to its controller.
//
// A Context is bound to a single request and must only be used by the
// goroutine handling it. Copy what you need before starting goroutines.
type Context struct {
	Request  *http.Request       // The HTTP request object
	Response http.ResponseWriter // The HTTP response writer

	router  *Router
	record  route.Record
	params  compiler.Params
	session *session.Session
	code    int // pending status set by Code
}

func (r *Router) newContext(w http.ResponseWriter, req *http.Request, rec route.Record, params compiler.Params, sess *session.Session) *Context {
	return &Context{
		Request:  req,
		Response: NewResponseWriter(w),
		router:   r,
		record:   rec,
		params:   params,
		session:  sess,
	}
}

// Param returns the value of the named route parameter, or "" when the
// parameter is absent.
//
//	// route "/hosts/[i:id]", request "/hosts/42"
//	id := c.Param("id") // "42"
func (c *Context) Param(name string) string {
	return c.params.ByName(name)
}

// Params returns every captured route parameter.
func (c *Context) Params() map[string]string {
	return c.params.Map()
}

// Route returns the record that routed the request.
func (c *Context) Route() route.Record { return c.record }

// Session returns the request session. It is never nil.
func (c *Context) Session() *session.Session {
	if c.session == nil {
		return session.Anonymous()
	}
	return c.session
}

// Logger returns a logger annotated with the route.
func (c *Context) Logger() *slog.Logger {
	return c.router.logger.With("route", c.record.Path, "controller", c.record.ControllerID, "action", c.record.Action)
}

// Code sets the response status. It is written when the action returns
// without writing a response, and used by JSON and String when they are
// passed a zero status.
func (c *Context) Code(status int) {
	c.code = status
}

// StatusCode returns the status set by Code, or 0.
func (c *Context) StatusCode() int { return c.code }

func (c *Context) status(code int) int {
	if code == 0 {
		code = c.code
	}
	if code == 0 {
		code = http.StatusOK
	}
	return code
}

// Written reports whether the response header has been sent.
func (c *Context) Written() bool {
	rw, ok := c.Response.(*ResponseWriter)
	return ok && rw.Written()
}

func (c *Context) writeHeader(code int) {
	if !c.Written() {
		c.Response.WriteHeader(code)
	}
}

// finish writes the pending status if the action wrote nothing.
func (c *Context) finish() {
	if c.code != 0 && !c.Written() {
		c.Response.WriteHeader(c.code)
	}
}

// JSON sends a JSON response. A zero code uses the status set by Code,
// or 200.
func (c *Context) JSON(code int, obj any) error {
	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("JSON encoding failed for type %T: %w", obj, err)
	}

	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.writeHeader(c.status(code))
	_, err := c.Response.Write([]byte(buf.String()))
	return err
}

// String sends a plain text response. A zero code uses the status set by
// Code, or 200.
func (c *Context) String(code int, value string) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	c.writeHeader(c.status(code))
	if _, err := c.Response.Write([]byte(value)); err != nil {
		return fmt.Errorf("writing string response: %w", err)
	}
	return nil
}

// Header sets a response header. Newlines are stripped from the value.
func (c *Context) Header(key, value string) {
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	c.Response.Header().Set(key, value)
}

// Redirect sends an HTTP redirect to location.
func (c *Context) Redirect(code int, location string) {
	c.Header("Location", location)
	c.writeHeader(code)
}

// PathFor resolves a route name through the router. See Router.PathFor.
func (c *Context) PathFor(name string, params map[string]string, opts ...PathOption) (string, error) {
	return c.router.PathFor(name, params, opts...)
}

// CurrentURI returns the request path without the base URL.
func (c *Context) CurrentURI() string {
	return c.router.CurrentURI(c.Request)
}
