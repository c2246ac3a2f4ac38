// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"context"
	"fmt"

	"github.com/ManuGH/confj/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Fetcher returns the text of a JSON document stored under id in a remote
// store (secret manager, key-value store, database).
type Fetcher interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// LoadFromRemote resolves id like Load resolves a path, fetches the document
// and replaces the data with it. Fetch failures are load errors naming the
// original error type; the original stays reachable through errors.As.
func (c *Config) LoadFromRemote(ctx context.Context, f Fetcher, id string) error {
	source, err := c.ResolveSource(id)
	if err != nil {
		return err
	}

	start := now()
	ctx, span := telemetry.Start(ctx, "config.load_remote", telemetry.SourceAttributes(sourceRemote, source)...)
	span.SetAttributes(attribute.String(telemetry.RemoteKey, fmt.Sprintf("%T", f)))
	err = c.loadRemote(ctx, f, source)
	telemetry.End(span, err)

	c.observe(sourceRemote, source, start, err)
	return err
}

func (c *Config) loadRemote(ctx context.Context, f Fetcher, id string) error {
	text, err := f.Fetch(ctx, id)
	if err != nil {
		return loadError("load_remote", id, err, "%T: %v", err, err)
	}
	v, err := decodeJSON([]byte(text))
	if err != nil {
		return loadError("load_remote", id, err, "parse remote document %q: %v", id, err)
	}
	c.raw = v
	return nil
}
