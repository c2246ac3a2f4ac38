// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package remote provides document fetchers for Config.LoadFromRemote:
// AWS Secrets Manager, Redis and SQLite. Each returns the stored JSON text
// for an id and wraps ErrNotFound when the id does not exist.
package remote

import "errors"

// ErrNotFound is wrapped by every fetcher when the requested id does not exist.
var ErrNotFound = errors.New("remote document not found")
