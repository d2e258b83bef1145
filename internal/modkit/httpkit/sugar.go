package httpkit

import "net/http"

// Get mounts a body-less GET
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, Call(h)) }

// Post mounts a body-less POST
func Post(r Router, path string, h func(*http.Request) (any, error)) { r.Post(path, Call(h)) }

// PostBody mounts a POST that accepts JSON or form bodies
func PostBody[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, Body(h))
}

// PutJSON mounts a PUT with a strict JSON body
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, JSON(h))
}
