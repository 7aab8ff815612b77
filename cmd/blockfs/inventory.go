package main

import (
	"io"

	"github.com/dargueta/blockfs/file_systems/tinyfs"
	"github.com/gocarina/gocsv"
)

// inventoryRow is one line of the `inventory` command's CSV output.
type inventoryRow struct {
	Path       string `csv:"path"`
	Kind       string `csv:"kind"`
	Block      uint16 `csv:"block"`
	Size       uint32 `csv:"size"`
	BlockCount int    `csv:"blocks"`
	FirstBlock uint16 `csv:"first_block"`
}

// collectInventory lists every entry below the session's current directory.
func collectInventory(session *tinyfs.Session) ([]*inventoryRow, error) {
	rows := []*inventoryRow{}
	err := session.Walk(func(path string, stat tinyfs.EntryStat) error {
		rows = append(rows, &inventoryRow{
			Path:       path,
			Kind:       stat.Kind.String(),
			Block:      uint16(stat.Block),
			Size:       stat.Size,
			BlockCount: stat.BlockCount,
			FirstBlock: uint16(stat.FirstBlock),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func writeInventory(out io.Writer, rows []*inventoryRow) error {
	return gocsv.Marshal(rows, out)
}
