// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is the umbrella for every error produced by this package.
	// Usage errors (no resolvable source, duplicate subsection, mapping-only
	// operation on a non-mapping node) carry it directly.
	ErrConfig = errors.New("config error")

	// ErrLoad classifies failures that happen after a source was resolved:
	// missing path, wrong path kind, malformed content, remote fetch failure.
	// errors.Is(err, ErrConfig) holds for every ErrLoad.
	ErrLoad = fmt.Errorf("%w: load failed", ErrConfig)

	// ErrNoOption is returned when a requested key does not exist.
	// errors.Is(err, ErrConfig) holds for every ErrNoOption.
	ErrNoOption = fmt.Errorf("%w: no such option", ErrConfig)
)

// Error describes a failed config operation.
// Kind is one of ErrConfig, ErrLoad or ErrNoOption.
type Error struct {
	Kind error
	Op   string // operation, e.g. "load", "get", "add_subconfig"
	Path string // file, directory, key or remote id involved (optional)
	Msg  string
	Err  error // underlying cause (optional)
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func configError(op, format string, args ...any) error {
	return &Error{Kind: ErrConfig, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func loadError(op, path string, cause error, format string, args ...any) error {
	return &Error{Kind: ErrLoad, Op: op, Path: path, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func noOptionError(op, key string) error {
	return &Error{Kind: ErrNoOption, Op: op, Path: key, Msg: fmt.Sprintf("no such config option: %s", key)}
}
