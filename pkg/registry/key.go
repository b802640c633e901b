package registry

import "reflect"

// Key identifies a slot: the instance type plus an optional name that
// distinguishes multiple instances of the same type. reflect.Type is
// comparable, so Key works directly as a map key with structural equality.
//
// The empty name is a discriminator in its own right: Key{T, ""} and
// Key{T, "prod"} address independent slots that may be live at the same
// time.
type Key struct {
	Type reflect.Type
	Name string
}

// TypeFor returns the reflect.Type for T. Unlike reflect.TypeOf on a value,
// it works for interface types too.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// KeyFor returns the key addressing type T under the given instance name.
func KeyFor[T any](name string) Key {
	return Key{Type: TypeFor[T](), Name: name}
}

// String renders the key as "pkg.Type" or "pkg.Type[name]".
func (k Key) String() string {
	if k.Type == nil {
		return "<nil>"
	}
	if k.Name == "" {
		return k.Type.String()
	}
	return k.Type.String() + "[" + k.Name + "]"
}

// keyLess orders keys by type name, then instance name. Used wherever the
// registry promises deterministic output.
func keyLess(a, b Key) bool {
	at, bt := a.Type.String(), b.Type.String()
	if at != bt {
		return at < bt
	}
	return a.Name < b.Name
}
