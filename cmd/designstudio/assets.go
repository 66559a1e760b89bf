package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/alnah/go-designstudio/internal/catalog"
)

// runAssets manages the uploaded asset catalog: list, add, rm.
func runAssets(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseAssetsFlags(args, env.Stderr)
	if errors.Is(err, errHelpShown) {
		return nil
	}
	if err != nil {
		return err
	}

	sub, rest := "list", []string(nil)
	if len(positional) > 0 {
		sub, rest = positional[0], positional[1:]
	}

	cfg, logger, err := setup(env, f.common)
	if err != nil {
		return err
	}
	cat, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeCatalog() }()

	switch sub {
	case "list", "ls":
		return listAssets(env.Stdout, cat.List(), f.json)
	case "add":
		return addAssets(ctx, cat, rest, f, env)
	case "rm", "remove":
		return removeAssets(ctx, cat, rest, f, env)
	default:
		printAssetsUsage(env.Stderr)
		return fmt.Errorf("%w: unknown assets command %q", errUsage, sub)
	}
}

// listAssets prints the catalog, newest first.
func listAssets(w io.Writer, assets []catalog.Asset, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(assets)
	}
	if len(assets) == 0 {
		fmt.Fprintln(w, "No assets.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tDIMENSIONS\tUPLOADED")
	for _, a := range assets {
		dims := "-"
		if a.HasDimensions() {
			dims = fmt.Sprintf("%dx%d", a.Width, a.Height)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			a.ID, a.DisplayName, a.MediaType, a.Size, dims, a.UploadedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

// addAssets registers image files. --name applies to a single file only.
func addAssets(ctx context.Context, cat *catalog.Catalog, paths []string, f *assetsFlags, env *Environment) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: pass one or more image files", ErrNoInput)
	}
	if f.name != "" && len(paths) > 1 {
		return fmt.Errorf("%w: --name needs exactly one file", errUsage)
	}

	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		name := f.name
		if name == "" {
			name = filepath.Base(p)
		}
		asset, err := cat.Register(ctx, data, name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", p, err)
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Added %s (%s)\n", asset.DisplayName, asset.ID)
		}
	}
	return nil
}

// removeAssets releases assets by id or display name.
func removeAssets(ctx context.Context, cat *catalog.Catalog, refs []string, f *assetsFlags, env *Environment) error {
	if len(refs) == 0 {
		return fmt.Errorf("%w: pass asset ids or names", ErrNoInput)
	}

	for _, ref := range refs {
		asset, ok := cat.Get(ref)
		if !ok {
			asset, ok = cat.Lookup(ref)
		}
		if !ok {
			return fmt.Errorf("%w: %s", catalog.ErrAssetNotFound, ref)
		}
		if err := cat.Release(ctx, asset.ID); err != nil {
			return err
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Removed %s (%s)\n", asset.DisplayName, asset.ID)
		}
	}
	return nil
}
