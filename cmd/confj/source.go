// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/confj"
	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/ManuGH/confj/remote"
)

const (
	remoteSecretsManager = "secretsmanager"
	remoteRedis          = "redis"
	remoteSQLite         = "sqlite"
)

// sourceFlags are shared by every command.
type sourceFlags struct {
	source     string
	remote     string
	awsRegion  string
	redisAddr  string
	redisDB    int
	redisPass  string
	sqlitePath string
	logLevel   string
}

func (f *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.source, "source", "", "config file or directory, or remote id with -remote (default $"+confj.EnvConfigPath+")")
	fs.StringVar(&f.source, "s", "", "shorthand for -source")
	fs.StringVar(&f.remote, "remote", "", "remote store: secretsmanager, redis or sqlite")
	fs.StringVar(&f.awsRegion, "aws-region", "", "AWS region for -remote secretsmanager")
	fs.StringVar(&f.redisAddr, "redis-addr", "localhost:6379", "Redis address for -remote redis")
	fs.IntVar(&f.redisDB, "redis-db", 0, "Redis database for -remote redis")
	fs.StringVar(&f.redisPass, "redis-password", "", "Redis password for -remote redis")
	fs.StringVar(&f.sqlitePath, "sqlite-path", "", "database file for -remote sqlite")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (default $LOG_LEVEL or info)")
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse wraps flag errors so they exit with the usage code.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (f *sourceFlags) configureLogging(stderr io.Writer) {
	xglog.Reconfigure(xglog.Config{Level: f.logLevel, Output: stderr, Service: "confj"})
}

// load builds a Config from the flags. The returned close func releases any
// remote client and is never nil.
func (f *sourceFlags) load(ctx context.Context) (*confj.Config, func(), error) {
	cfg := confj.New()
	noop := func() {}

	switch f.remote {
	case "":
		if err := cfg.LoadContext(ctx, f.source); err != nil {
			return nil, noop, err
		}
		return cfg, noop, nil

	case remoteSecretsManager:
		sm, err := remote.NewSecretsManager(ctx, f.awsRegion)
		if err != nil {
			return nil, noop, err
		}
		if err := cfg.LoadFromRemote(ctx, sm, f.source); err != nil {
			return nil, noop, err
		}
		return cfg, noop, nil

	case remoteRedis:
		rc, err := remote.NewRedis(ctx, remote.RedisConfig{Addr: f.redisAddr, DB: f.redisDB, Password: f.redisPass})
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() { _ = rc.Close() }
		if err := cfg.LoadFromRemote(ctx, rc, f.source); err != nil {
			closeFn()
			return nil, noop, err
		}
		return cfg, closeFn, nil

	case remoteSQLite:
		if f.sqlitePath == "" {
			return nil, noop, fmt.Errorf("%w: -sqlite-path is required with -remote sqlite", errUsage)
		}
		store, err := remote.OpenSQLite(ctx, f.sqlitePath, remote.DefaultSQLiteConfig())
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() { _ = store.Close() }
		if err := cfg.LoadFromRemote(ctx, store, f.source); err != nil {
			closeFn()
			return nil, noop, err
		}
		return cfg, closeFn, nil

	default:
		return nil, noop, fmt.Errorf("%w: unknown -remote %q (supported: %s, %s, %s)",
			errUsage, f.remote, remoteSecretsManager, remoteRedis, remoteSQLite)
	}
}
