/*
Package config loads settings and seed properties for the propbox tools.

# Overview

Files are decoded into Values, a map[string]any wrapper with typed accessors
that return a default on a missing key or a type mismatch. Parse turns Values
into a Config and validates it.

# Basic Usage

	v := config.NewValues(map[string]any{
	    "interval": "30s",
	    "retries":  3,
	})

	interval := v.Duration("interval", 10*time.Second) // 30s
	retries := v.Int("retries", 5)                     // 3
	missing := v.String("missing", "default")          // "default"

# File Loading

YAML, JSON and TOML are detected by extension:

	cfg, err := config.Load("propbox.toml")
	if err != nil {
	    log.Fatal(err)
	}

	set := propset.New[string]()
	if err := cfg.Apply(set); err != nil {
	    log.Fatal(err)
	}

# Seeds

Each entry under "properties" names a key, a stock kind and a value. Numbers
follow the accessor rules: an int seed accepts 3 or 3.0 but not 3.5, and a
duration seed accepts "1m30s" or a number of seconds.
*/
package config
