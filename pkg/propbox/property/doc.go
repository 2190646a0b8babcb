// Package property provides a keyed container whose value type may change
// at runtime.
//
// Typed access takes the *tags.Kind[T] obtained at registration:
//
//	p := property.MustNew("myProperty", props.Int, 10)
//	n, err := property.Get(p, props.Int)      // 10, nil
//	err = property.Set(p, props.String, "WTF?")
//	s, err := property.Get(p, props.String)   // "WTF?", nil
//	_, err = property.Get(p, props.Int)       // tags.ErrTypeMismatch
package property
