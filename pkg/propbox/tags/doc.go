/*
Package tags maps concrete Go types to small integer tags.

A Registry is one tag space. Clients bind each type they want to store to a
tag with Register or MustRegister and receive a *Kind[T] token. Every typed
operation in propbox takes that token, so accessing an unregistered type does
not compile: there is no Kind value to pass.

# Registration

Register types once, in package-level var blocks:

	var Registry = tags.NewRegistry("properties")

	var (
	    Int     = tags.MustRegister[int](Registry, 0)
	    Float64 = tags.MustRegister[float64](Registry, 1)
	    String  = tags.MustRegister[string](Registry, 2)
	)

Any package may add bindings to an exported registry without touching
existing ones:

	var Point = tags.MustRegister[geo.Point](props.Registry, 3)

# Conflicts

Binding a tag to a second type, or a type to a second tag, is rejected with
a *ConflictError. MustRegister turns that into a panic during package
initialisation, before main runs. The tagcheck analyzer
(cmd/tagcheck) reports the same conflicts for constant tags at vet time,
across a package and everything it imports.

# Type identity

Types are told apart without reflection: the registry keys on any((*T)(nil)),
and two interface values holding typed nil pointers are equal only when the
pointer types are identical.

# Thread Safety

All Registry methods are safe for concurrent use.
*/
package tags
