// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package confj loads JSON configuration from a file, a directory of files
// (one top-level section per file) or a remote store, and exposes it through
// key and dotted-path lookups.
//
// The source is resolved in order: the path passed to Load, the default set
// with WithDefaultSource, then the JSON_CONFIG_PATH environment variable.
//
//	cfg, err := confj.Open(confj.WithDefaultSource("/etc/app"))
//	if err != nil {
//		return err
//	}
//	db, err := cfg.Section("settings")
//	port, err := db.GetInt("port")
//
// Every error wraps ErrConfig. Load failures also wrap ErrLoad and missing
// keys wrap ErrNoOption. Schema violations are reported as *ValidationError.
//
// Config is not safe for concurrent use. Holder publishes immutable snapshots
// to concurrent readers and reloads them on demand or on file changes.
package confj
