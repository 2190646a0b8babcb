package config

import (
	"fmt"

	"github.com/randalmurphal/propbox/pkg/propbox/kinds"
	"github.com/randalmurphal/propbox/pkg/propbox/propset"
)

// Seed describes one property to create at startup.
// Type names one of the stock kinds: int, float, string, bool, strings, duration.
type Seed struct {
	Key   string
	Type  string
	Value any
}

// Store converts the seed value and stores it in s.
func (sd Seed) Store(s *propset.Set[string]) error {
	store, err := sd.store()
	if err != nil {
		return fmt.Errorf("seed %q: %w", sd.Key, err)
	}
	return store(s)
}

// Apply stores every seed in s, stopping at the first error.
func (c Config) Apply(s *propset.Set[string]) error {
	for _, sd := range c.Properties {
		if err := sd.Store(s); err != nil {
			return err
		}
	}
	return nil
}

// store converts the raw value up front so that Validate can reject a bad
// seed without a set to store it in.
func (sd Seed) store() (func(*propset.Set[string]) error, error) {
	switch sd.Type {
	case "int":
		v, ok := asInt(sd.Value)
		if !ok {
			return nil, sd.badValue()
		}
		return func(s *propset.Set[string]) error { return propset.Store(s, sd.Key, kinds.Int, v) }, nil
	case "float":
		v, ok := asFloat(sd.Value)
		if !ok {
			return nil, sd.badValue()
		}
		return func(s *propset.Set[string]) error { return propset.Store(s, sd.Key, kinds.Float, v) }, nil
	case "string":
		v, ok := sd.Value.(string)
		if !ok {
			return nil, sd.badValue()
		}
		return func(s *propset.Set[string]) error { return propset.Store(s, sd.Key, kinds.String, v) }, nil
	case "bool":
		v, ok := sd.Value.(bool)
		if !ok {
			return nil, sd.badValue()
		}
		return func(s *propset.Set[string]) error { return propset.Store(s, sd.Key, kinds.Bool, v) }, nil
	case "strings":
		v, ok := asStrings(sd.Value)
		if !ok {
			return nil, sd.badValue()
		}
		return func(s *propset.Set[string]) error { return propset.Store(s, sd.Key, kinds.Strings, v) }, nil
	case "duration":
		v, ok := asDuration(sd.Value)
		if !ok {
			return nil, sd.badValue()
		}
		return func(s *propset.Set[string]) error { return propset.Store(s, sd.Key, kinds.Duration, v) }, nil
	}
	return nil, fmt.Errorf("unknown type %q", sd.Type)
}

func (sd Seed) badValue() error {
	return fmt.Errorf("value %v (%T) is not a valid %s", sd.Value, sd.Value, sd.Type)
}
