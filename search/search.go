// Package search locates persisted spectrum XML files across local
// filesystems or object stores, using the same TileDB VFS abstraction the
// teacher codebase relies on for its own recursive file discovery.
package search

import (
	"fmt"
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// trawl recursively walks uri, collecting files whose basename matches
// pattern, via the TileDB VFS so the same code searches a local path or an
// object store URI (e.g. s3://) without branching.
func trawl(vfs *tiledb.VFS, pattern string, uri string, items []string) ([]string, error) {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			return nil, err
		}
		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		items, err = trawl(vfs, pattern, dir, items)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

// openVFS builds a TileDB context and VFS from an optional config file URI.
// An empty configURI yields a generic config suitable for local paths.
func openVFS(configURI string) (*tiledb.Config, *tiledb.Context, *tiledb.VFS, error) {
	var (
		config *tiledb.Config
		err    error
	)
	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("search: config: %w", err)
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		config.Free()
		return nil, nil, nil, fmt.Errorf("search: context: %w", err)
	}

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		ctx.Free()
		config.Free()
		return nil, nil, nil, fmt.Errorf("search: vfs: %w", err)
	}
	return config, ctx, vfs, nil
}

// FindSpectra recursively searches uri for spectrum XML files (*.xml and
// *.xml.gz), optionally authenticated via a TileDB config file at
// configURI for object-store credentials.
func FindSpectra(uri, configURI string) ([]string, error) {
	config, ctx, vfs, err := openVFS(configURI)
	if err != nil {
		return nil, err
	}
	defer config.Free()
	defer ctx.Free()
	defer vfs.Free()

	var items []string
	for _, pattern := range []string{"*.xml", "*.xml.gz"} {
		items, err = trawl(vfs, pattern, uri, items)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}
