// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/ManuGH/confj/internal/metrics"
	"github.com/ManuGH/confj/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	sourcePath   = "path" // stat failed before the kind was known
	sourceFile   = "file"
	sourceDir    = "dir"
	sourceObject = "object"
	sourceRemote = "remote"
)

var now = time.Now

// Load resolves the source and replaces the data with its contents.
// A file is parsed as one document; a directory becomes one subsection per
// regular file. Load is not atomic: a failed directory load leaves the
// sections merged so far.
func (c *Config) Load(path string) error {
	return c.LoadContext(context.Background(), path)
}

// LoadContext is Load with a context for tracing.
func (c *Config) LoadContext(ctx context.Context, path string) error {
	source, err := c.ResolveSource(path)
	if err != nil {
		return err
	}

	start := now()
	_, span := telemetry.Start(ctx, "config.load", telemetry.SourceAttributes("", source)...)
	kind, err := c.loadPath(source)
	span.SetAttributes(attribute.String(telemetry.SourceKindKey, kind))
	if kind == sourceDir && err == nil {
		span.SetAttributes(attribute.Int(telemetry.SectionsKey, c.Len()))
	}
	telemetry.End(span, err)

	c.observe(kind, source, start, err)
	return err
}

func (c *Config) loadPath(source string) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sourcePath, loadError("load", source, err, "path %q does not exist", source)
		}
		return sourcePath, loadError("load", source, err, "stat %q: %v", source, err)
	}

	switch {
	case info.Mode().IsRegular():
		return sourceFile, c.loadFile(source)
	case info.IsDir():
		return sourceDir, c.loadDir(source)
	default:
		return sourcePath, loadError("load", source, nil, "expected %q to be a file or directory, got %s", source, info.Mode().Type())
	}
}

func (c *Config) loadFile(path string) error {
	// #nosec G304 -- config paths are chosen by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return loadError("load", path, err, "read %q: %v", path, err)
	}
	v, err := parseDocument(path, data)
	if err != nil {
		return loadError("load", path, err, "parse %s: %v", filepath.Base(path), err)
	}
	c.raw = v
	return nil
}

func (c *Config) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return loadError("load", dir, err, "read directory %q: %v", dir, err)
	}

	c.raw = map[string]any{}
	sections := 0
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		info, err := os.Stat(full)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "config.entry_skipped").
				Str(xglog.FieldPath, full).
				Msg("skipping unreadable directory entry")
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		// #nosec G304 -- entries of a caller-chosen config directory
		data, err := os.ReadFile(full)
		if err != nil {
			return loadError("load", full, err, "read %s: %v", entry.Name(), err)
		}

		var v any = map[string]any{}
		if len(bytes.TrimSpace(data)) > 0 {
			v, err = parseDocument(full, data)
			if err != nil {
				return loadError("load", full, err, "parse %s: %v", entry.Name(), err)
			}
		}

		name := sectionName(entry.Name())
		if err := c.AddSubconfig(name, v); err != nil {
			return err
		}
		sections++
		c.logger.Debug().
			Str(xglog.FieldEvent, "config.section_added").
			Str(xglog.FieldSection, name).
			Str(xglog.FieldPath, full).
			Msg("added config section")
	}
	metrics.RecordSections(sections)
	return nil
}

// sectionName strips the last extension: "db.json" -> "db", "a.b.json" -> "a.b".
func sectionName(file string) string {
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	if stem == "" {
		return file
	}
	return stem
}

func parseDocument(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func (c *Config) observe(kind, source string, start time.Time, err error) {
	elapsed := now().Sub(start)
	metrics.ObserveLoad(kind, elapsed, err)

	if err != nil {
		c.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str(xglog.FieldSourceKind, kind).
			Str(xglog.FieldSource, source).
			Msg("config load failed")
		return
	}
	c.logger.Debug().
		Str(xglog.FieldEvent, "config.load_success").
		Str(xglog.FieldSourceKind, kind).
		Str(xglog.FieldSource, source).
		Int("keys", c.Len()).
		Dur(xglog.FieldDuration, elapsed).
		Msg("config loaded")
}
