// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// confj inspects, validates and serves JSON configuration.
//
// Usage:
//
//	confj show     [-source path]
//	confj get      [-source path] <path>
//	confj validate [-source path] -schema schema.json
//	confj serve    [-source path] [-listen :8080] [-watch] [-otel-endpoint host:port]
//
// Every command also accepts -remote secretsmanager|redis|sqlite with
// -aws-region, -redis-addr or -sqlite-path to read the document from a
// remote store; -source is then the remote id. Without -source the
// JSON_CONFIG_PATH environment variable is used.
//
// Exit codes:
//   - 0: success
//   - 1: load, query or validation failure
//   - 2: usage error
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

var Version = "dev"

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// errUsage marks errors that should exit with code 2.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "show":
		err = runShow(ctx, rest, stdout, stderr)
	case "get":
		err = runGet(ctx, rest, stdout, stderr)
	case "validate":
		err = runValidate(ctx, rest, stdout, stderr)
	case "serve":
		err = runServe(ctx, rest, stdout, stderr)
	case "version", "-version", "--version":
		_, _ = fmt.Fprintln(stdout, Version)
		return exitOK
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return exitOK
	default:
		_, _ = fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmd)
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFail
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  confj show     [-source path]")
	_, _ = fmt.Fprintln(w, "  confj get      [-source path] <path>")
	_, _ = fmt.Fprintln(w, "  confj validate [-source path] -schema schema.json")
	_, _ = fmt.Fprintln(w, "  confj serve    [-source path] [-listen :8080] [-watch]")
	_, _ = fmt.Fprintln(w, "  confj version")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Run 'confj <command> -h' for command flags.")
}
