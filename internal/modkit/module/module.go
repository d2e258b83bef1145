// Package module is the module contract plus typed access to the ports a module exposes
package module

import (
	"reflect"

	phttp "reqrelay/internal/platform/net/http"
)

// Module mounts routes and exposes a ports value other components can consume
type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	Ports() any
}

// PortsOf finds a T in m.Ports(): the value itself or one of its exported struct fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		if f := rv.Field(i); f.CanInterface() {
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code; a missing port panics
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module " + m.Name() + ": no port of type " + reflect.TypeFor[T]().String())
	}
	return v
}
