package main

import (
	"context"
	"errors"
	"fmt"

	designstudio "github.com/alnah/go-designstudio"
	"github.com/alnah/go-designstudio/internal/server"
)

// runServe starts the HTTP API and blocks until ctx ends.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseServeFlags(args, env.Stderr)
	if errors.Is(err, errHelpShown) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", errUsage)
	}

	cfg, logger, err := setup(env, f.common)
	if err != nil {
		return err
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	addr := f.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	cat, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	opts := studioOptions(cfg, logger, cat)
	if completer, err := env.NewCompleter(cfg, logger); err != nil {
		logger.Warn("design generation disabled", "error", err)
	} else {
		opts = append(opts, designstudio.WithCompleter(completer))
	}

	studio, err := designstudio.NewStudio(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = studio.Close() }()

	formatID := f.format
	if formatID == "" {
		formatID = cfg.Format
	}
	if formatID != "" {
		if _, err := studio.SelectFormat(formatID); err != nil {
			return err
		}
	}

	return server.New(studio, server.WithLogger(logger)).ListenAndServe(ctx, addr)
}
