package tinyfs

import (
	"fmt"

	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
	"github.com/hashicorp/go-multierror"
)

// EntryStat describes a directory entry. The size and block fields are only
// meaningful for files.
type EntryStat struct {
	Name       string
	Kind       Kind
	Block      c.BlockID
	Size       uint32
	BlockCount int
	FirstBlock c.BlockID
}

func (fs *FileSystem) statEntry(entry DirectoryEntry) (EntryStat, error) {
	stat := EntryStat{Name: entry.Name, Block: entry.Block}

	block, err := fs.readBlock(entry.Block)
	if err != nil {
		return EntryStat{}, err
	}

	switch typed := block.(type) {
	case *Directory:
		stat.Kind = KindDirectory
	case *Inode:
		stat.Kind = KindFile
		stat.Size = typed.Size
		stat.BlockCount = typed.BlockCount()
		stat.FirstBlock = typed.FirstBlock()
	default:
		return EntryStat{}, unexpectedBlock(entry.Block, block)
	}
	return stat, nil
}

// Stat describes entry `name` of the current directory.
func (s *Session) Stat(name string) (EntryStat, error) {
	_, slot, err := s.lookup(name)
	if err != nil {
		return EntryStat{}, err
	}
	return s.fs.statEntry(slot.DirectoryEntry)
}

// Usage summarizes how much of the volume is in use. The reserved blocks count
// as used.
type Usage struct {
	TotalBlocks uint
	UsedBlocks  uint
	FreeBlocks  uint
	// UsedPercent is rounded down.
	UsedPercent uint
}

// DiskUsage counts allocated blocks in the superblock's bitmap.
func (fs *FileSystem) DiskUsage() (Usage, error) {
	superblock, err := fs.readSuperblock()
	if err != nil {
		return Usage{}, err
	}

	used := superblock.CountAllocated()
	return Usage{
		TotalBlocks: c.TotalBlocks,
		UsedBlocks:  used,
		FreeBlocks:  c.TotalBlocks - used,
		UsedPercent: used * 100 / c.TotalBlocks,
	}, nil
}

// DiskUsage is [FileSystem.DiskUsage] for the session's file system.
func (s *Session) DiskUsage() (Usage, error) {
	return s.fs.DiskUsage()
}

// Check verifies that the blocks reachable from the root are exactly the
// blocks the bitmap marks as allocated, and that no block is referenced twice.
// Every problem found is reported, not just the first.
func (fs *FileSystem) Check() error {
	superblock, err := fs.readSuperblock()
	if err != nil {
		return err
	}

	owners := map[c.BlockID]c.BlockID{
		c.SuperblockID:    c.SuperblockID,
		c.RootDirectoryID: c.SuperblockID,
	}
	var problems *multierror.Error

	claim := func(id, owner c.BlockID) bool {
		if previous, taken := owners[id]; taken {
			problems = multierror.Append(
				problems,
				fmt.Errorf(
					"block %d is referenced by both block %d and block %d",
					id,
					previous,
					owner,
				),
			)
			return false
		}
		owners[id] = owner
		return true
	}

	var visit func(dirID c.BlockID) error
	visit = func(dirID c.BlockID) error {
		dir, err := fs.readDirectory(dirID)
		if err != nil {
			return err
		}

		for _, slot := range dir.Occupied() {
			if !claim(slot.Block, dirID) {
				continue
			}

			block, err := fs.readBlock(slot.Block)
			if err != nil {
				return err
			}

			switch typed := block.(type) {
			case *Directory:
				err = visit(slot.Block)
				if err != nil {
					return err
				}
			case *Inode:
				for _, dataBlock := range typed.blocks {
					claim(dataBlock, slot.Block)
				}
			default:
				problems = multierror.Append(problems, unexpectedBlock(slot.Block, block))
			}
		}
		return nil
	}

	err = visit(c.RootDirectoryID)
	if err != nil {
		problems = multierror.Append(problems, err)
	}

	for i := 0; i < c.TotalBlocks; i++ {
		id := c.BlockID(i)
		_, reachable := owners[id]
		allocated := superblock.IsAllocated(id)

		if allocated && !reachable {
			problems = multierror.Append(
				problems, fmt.Errorf("block %d is allocated but unreachable", id))
		} else if reachable && !allocated {
			problems = multierror.Append(
				problems,
				fmt.Errorf("block %d is in use by block %d but marked free", id, owners[id]),
			)
		}
	}

	if problems == nil {
		return nil
	}
	return blockfs.ErrFileSystemCorrupted.Wrap(problems)
}
