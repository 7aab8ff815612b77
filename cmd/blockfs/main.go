package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "blockfs",
		Usage: "Explore and manage a tiny block-device file system image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "image",
				Aliases: []string{"i"},
				Usage:   "path to the disk image; created and formatted if missing",
				Value:   "DISK",
				EnvVars: []string{"BLOCKFS_IMAGE"},
			},
		},
		Action: runShell,
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "Run an interactive shell on the image (default)",
				Action: runShell,
			},
			{
				Name:      "run",
				Usage:     "Execute a script of shell commands, echoing each one",
				ArgsUsage: "SCRIPT",
				Action:    runScript,
			},
			{
				Name:   "format",
				Usage:  "Wipe the image and write an empty file system",
				Action: formatImage,
			},
			{
				Name:      "export",
				Usage:     "Write a compressed copy of the image",
				ArgsUsage: "OUTPUT",
				Action:    exportImage,
			},
			{
				Name:      "import",
				Usage:     "Replace the image with the contents of a compressed image",
				ArgsUsage: "INPUT",
				Action:    importImage,
			},
			{
				Name:   "inventory",
				Usage:  "Print every entry in the file system as CSV",
				Action: printInventory,
			},
			{
				Name:   "check",
				Usage:  "Verify the allocation bitmap against the directory tree",
				Action: checkImage,
			},
		},
	}
}
