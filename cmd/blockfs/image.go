package main

import (
	"fmt"
	"os"

	"github.com/dargueta/blockfs/file_systems/common/blockstore"
	"github.com/dargueta/blockfs/file_systems/tinyfs"
	"github.com/urfave/cli/v2"
)

// openImage opens the image named by the global `--image` flag and mounts the
// file system on it. A missing or empty image is formatted first. The caller
// must call the returned close function when done.
func openImage(ctx *cli.Context) (*tinyfs.FileSystem, func() error, error) {
	path := ctx.String("image")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("can't open image `%s`: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	device := blockstore.New(file)
	var fs *tinyfs.FileSystem
	if info.Size() == 0 {
		fs, err = tinyfs.Format(device)
	} else {
		fs = tinyfs.New(device)
		err = fs.Mount()
	}
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("can't mount image `%s`: %w", path, err)
	}

	closeFn := func() error {
		unmountErr := fs.Unmount()
		closeErr := file.Close()
		if unmountErr != nil {
			return unmountErr
		}
		return closeErr
	}
	return fs, closeFn, nil
}

// requireArg returns the single positional argument of a command.
func requireArg(ctx *cli.Context, name string) (string, error) {
	if ctx.NArg() != 1 {
		return "", cli.Exit(
			fmt.Sprintf("%s: expected exactly one argument, %s", ctx.Command.Name, name), 1)
	}
	return ctx.Args().First(), nil
}
