// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"os"

	xglog "github.com/ManuGH/confj/internal/log"
)

// ResolveSource picks the source in order: explicit, default source,
// environment variable. It never touches the filesystem.
func (c *Config) ResolveSource(explicit string) (string, error) {
	if explicit != "" {
		c.logResolved(explicit, "explicit")
		return explicit, nil
	}
	if c.defaultSource != "" {
		c.logResolved(c.defaultSource, "default")
		return c.defaultSource, nil
	}
	if c.envVar != "" {
		if v, ok := os.LookupEnv(c.envVar); ok && v != "" {
			c.logResolved(v, "environment")
			return v, nil
		}
	}
	if c.envVar == "" {
		return "", configError("resolve", "no config source given and no default source set")
	}
	return "", configError("resolve", "no config source given, no default source set and %s is empty", c.envVar)
}

func (c *Config) logResolved(source, origin string) {
	c.logger.Debug().
		Str(xglog.FieldEvent, "config.source_resolved").
		Str(xglog.FieldSource, source).
		Str("origin", origin).
		Msg("resolved config source")
}
