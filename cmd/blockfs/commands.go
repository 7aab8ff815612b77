package main

import (
	"fmt"
	"os"

	"github.com/dargueta/blockfs/file_systems/common"
	"github.com/dargueta/blockfs/file_systems/common/blockstore"
	"github.com/dargueta/blockfs/file_systems/tinyfs"
	"github.com/dargueta/blockfs/shell"
	"github.com/dargueta/blockfs/utilities/compression"
	"github.com/urfave/cli/v2"
	"github.com/xaionaro-go/bytesextra"
)

const volumeSize = common.BytesPerBlock * common.TotalBlocks

func runShell(ctx *cli.Context) error {
	fs, closeFn, err := openImage(ctx)
	if err != nil {
		return err
	}

	sh := shell.New(fs.NewSession(), ctx.App.Writer, ctx.App.ErrWriter)
	return finish(sh.Run(os.Stdin), closeFn)
}

func runScript(ctx *cli.Context) error {
	scriptPath, err := requireArg(ctx, "SCRIPT")
	if err != nil {
		return err
	}

	script, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("can't open script `%s`: %w", scriptPath, err)
	}
	defer script.Close()

	fs, closeFn, err := openImage(ctx)
	if err != nil {
		return err
	}

	sh := shell.New(fs.NewSession(), ctx.App.Writer, ctx.App.ErrWriter)
	return finish(sh.RunScript(script), closeFn)
}

func formatImage(ctx *cli.Context) error {
	path := ctx.String("image")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("can't open image `%s`: %w", path, err)
	}
	defer file.Close()

	fs, err := tinyfs.Format(blockstore.New(file))
	if err != nil {
		return err
	}
	err = fs.Unmount()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "Formatted %s (%d bytes).\n", path, volumeSize)
	return file.Close()
}

func exportImage(ctx *cli.Context) error {
	outputPath, err := requireArg(ctx, "OUTPUT")
	if err != nil {
		return err
	}

	// The image must mount before it's exported.
	_, closeFn, err := openImage(ctx)
	if err != nil {
		return err
	}
	err = closeFn()
	if err != nil {
		return err
	}

	source, err := os.Open(ctx.String("image"))
	if err != nil {
		return err
	}
	defer source.Close()

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("can't open `%s` for writing: %w", outputPath, err)
	}
	defer output.Close()

	written, err := compression.CompressImage(source, output)
	if err != nil {
		return fmt.Errorf("error compressing image: %w", err)
	}

	fmt.Fprintf(ctx.App.Writer, "Compressed image to %d bytes.\n", written)
	return output.Close()
}

func importImage(ctx *cli.Context) error {
	inputPath, err := requireArg(ctx, "INPUT")
	if err != nil {
		return err
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("can't open `%s` for reading: %w", inputPath, err)
	}
	defer input.Close()

	imageBytes, err := compression.DecompressImageToBytes(input)
	if err != nil {
		return fmt.Errorf("error expanding `%s`: %w", inputPath, err)
	}
	if len(imageBytes) != volumeSize {
		return fmt.Errorf(
			"`%s` expands to %d bytes, expected %d", inputPath, len(imageBytes), volumeSize)
	}

	// Refuse to overwrite the image with something that isn't a volume. The
	// check runs on a copy so the bytes written out are exactly the imported
	// ones.
	scratch := append([]byte(nil), imageBytes...)
	check := tinyfs.New(blockstore.New(bytesextra.NewReadWriteSeeker(scratch)))
	err = check.Mount()
	if err != nil {
		return fmt.Errorf("`%s` doesn't contain a valid volume: %w", inputPath, err)
	}
	check.Unmount()

	path := ctx.String("image")
	err = os.WriteFile(path, imageBytes, 0o644)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Imported %s into %s.\n", inputPath, path)
	return nil
}

func printInventory(ctx *cli.Context) error {
	fs, closeFn, err := openImage(ctx)
	if err != nil {
		return err
	}

	rows, err := collectInventory(fs.NewSession())
	if err == nil {
		err = writeInventory(ctx.App.Writer, rows)
	}
	return finish(err, closeFn)
}

func checkImage(ctx *cli.Context) error {
	fs, closeFn, err := openImage(ctx)
	if err != nil {
		return err
	}

	err = fs.Check()
	if err != nil {
		closeFn()
		return cli.Exit(err.Error(), 2)
	}

	usage, err := fs.DiskUsage()
	if err == nil {
		fmt.Fprintf(
			ctx.App.Writer,
			"OK: %d of %d blocks in use.\n",
			usage.UsedBlocks,
			usage.TotalBlocks,
		)
	}
	return finish(err, closeFn)
}

// finish releases the image and returns the first error of the command and
// the release.
func finish(err error, closeFn func() error) error {
	closeErr := closeFn()
	if err != nil {
		return err
	}
	return closeErr
}
