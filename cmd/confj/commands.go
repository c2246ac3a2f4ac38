// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/confj"
)

func runShow(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var sf sourceFlags
	fs := newFlagSet("show", stderr)
	sf.register(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: show takes no arguments", errUsage)
	}
	sf.configureLogging(stderr)

	cfg, closeFn, err := sf.load(ctx)
	defer closeFn()
	if err != nil {
		return err
	}
	return cfg.Print(stdout)
}

func runGet(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var sf sourceFlags
	var raw bool
	fs := newFlagSet("get", stderr)
	sf.register(fs)
	fs.BoolVar(&raw, "raw", false, "print string values without quotes")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: get takes exactly one path argument", errUsage)
	}
	sf.configureLogging(stderr)

	cfg, closeFn, err := sf.load(ctx)
	defer closeFn()
	if err != nil {
		return err
	}

	v, err := cfg.Query(fs.Arg(0))
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case *confj.Data:
		return t.Print(stdout)
	case string:
		if raw {
			_, err = fmt.Fprintln(stdout, t)
			return err
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(b))
	return err
}

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var sf sourceFlags
	var schemaPath string
	fs := newFlagSet("validate", stderr)
	sf.register(fs)
	fs.StringVar(&schemaPath, "schema", "", "path to JSON Schema file")
	if err := parse(fs, args); err != nil {
		return err
	}
	if schemaPath == "" {
		return fmt.Errorf("%w: -schema is required", errUsage)
	}
	sf.configureLogging(stderr)

	// #nosec G304 -- schema path is chosen by the operator
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	cfg, closeFn, err := sf.load(ctx)
	defer closeFn()
	if err != nil {
		return err
	}

	source, _ := cfg.ResolveSource(sf.source)
	if _, err := cfg.Validate(schema, true); err != nil {
		var verr *confj.ValidationError
		if errors.As(err, &verr) {
			_, _ = fmt.Fprintf(stderr, "Validation error in %s:\n", source)
			for _, v := range verr.Violations {
				_, _ = fmt.Fprintf(stderr, "  %s: %s\n", v.Field, v.Description)
			}
			return errors.New("configuration is invalid")
		}
		return err
	}

	_, err = fmt.Fprintf(stdout, "✓ %s is valid\n", source)
	return err
}
