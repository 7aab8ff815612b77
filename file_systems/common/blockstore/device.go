// Package blockstore implements the block store the file system runs on: a
// fixed-geometry volume kept in any seekable stream, with the allocation bitmap
// stored in the superblock.
package blockstore

import (
	"fmt"
	"io"

	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
	"github.com/dargueta/blockfs/file_systems/common/blockcache"
)

// Device is a [blockfs.FormattableStore] on top of an [io.ReadWriteSeeker].
// Writes are pushed to the stream before the call returns.
type Device struct {
	stream    io.ReadWriteSeeker
	cache     *blockcache.BlockCache
	allocator Allocator
	mounted   bool
}

// syncer is implemented by streams that buffer writes, such as [os.File].
type syncer interface {
	Sync() error
}

// New creates an unmounted device over `stream`. The stream is not read until
// the device is mounted or formatted.
func New(stream io.ReadWriteSeeker) *Device {
	return &Device{stream: stream}
}

// Format zeroes the volume and writes an empty superblock. Streams that can be
// truncated are cut to exactly the size of the volume first.
func (dev *Device) Format() error {
	if dev.mounted {
		return blockfs.ErrAlreadyInProgress.WithMessage("can't format a mounted device")
	}

	if truncator, ok := dev.stream.(c.Truncator); ok {
		err := truncator.Truncate(c.BytesPerBlock * c.TotalBlocks)
		if err != nil {
			return blockfs.CastToDriverError(err)
		}
	}

	cache := blockcache.WrapStream(dev.stream, c.BytesPerBlock, c.TotalBlocks)
	_, err := cache.WriteAt(make([]byte, c.BytesPerBlock*c.TotalBlocks), 0)
	if err != nil {
		return err
	}

	alloc := NewAllocator(c.TotalBlocks)
	_, err = cache.WriteAt(alloc.Bytes(), c.SuperblockID)
	if err != nil {
		return err
	}
	return dev.sync()
}

// Mount loads the allocation bitmap from the superblock and enables I/O.
func (dev *Device) Mount() error {
	if dev.mounted {
		return blockfs.ErrAlreadyInProgress.WithMessage("device is already mounted")
	}

	cache := blockcache.WrapStream(dev.stream, c.BytesPerBlock, c.TotalBlocks)
	superblock := make([]byte, c.BytesPerBlock)
	_, err := cache.ReadAt(superblock, c.SuperblockID)
	if err != nil {
		return err
	}

	alloc := NewAllocatorFromInUseBitmap(superblock)
	if !alloc.IsAllocated(c.SuperblockID) || !alloc.IsAllocated(c.RootDirectoryID) {
		return blockfs.ErrFileSystemCorrupted.WithMessage(
			"superblock doesn't mark the reserved blocks as allocated")
	}

	dev.cache = cache
	dev.allocator = alloc
	dev.mounted = true
	return nil
}

// Unmount flushes outstanding writes and disables I/O. The underlying stream
// stays open; closing it is up to whoever opened it.
func (dev *Device) Unmount() error {
	if !dev.mounted {
		return blockfs.ErrNotMounted
	}

	err := dev.cache.Flush()
	dev.cache = nil
	dev.mounted = false
	if err != nil {
		return err
	}
	return dev.sync()
}

// IsMounted reports whether the device currently accepts I/O.
func (dev *Device) IsMounted() bool {
	return dev.mounted
}

func (dev *Device) checkAccess(id c.BlockID, buffer []byte) error {
	if !dev.mounted {
		return blockfs.ErrNotMounted
	}
	if uint(id) >= c.TotalBlocks {
		return blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("block %d not in range [0, %d)", id, c.TotalBlocks))
	}
	if len(buffer) != c.BytesPerBlock {
		return blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"buffer must be exactly %d bytes, got %d", c.BytesPerBlock, len(buffer)))
	}
	return nil
}

// ReadBlock copies block `id` into `buffer`.
func (dev *Device) ReadBlock(id c.BlockID, buffer []byte) error {
	err := dev.checkAccess(id, buffer)
	if err != nil {
		return err
	}
	_, err = dev.cache.ReadAt(buffer, id)
	return err
}

// WriteBlock replaces block `id` with `data`.
func (dev *Device) WriteBlock(id c.BlockID, data []byte) error {
	err := dev.checkAccess(id, data)
	if err != nil {
		return err
	}
	_, err = dev.cache.WriteAt(data, id)
	return err
}

// AllocateBlock marks the lowest-numbered free block as in use, persists the
// bitmap, and returns the block's address.
func (dev *Device) AllocateBlock() (c.BlockID, error) {
	if !dev.mounted {
		return c.NullBlock, blockfs.ErrNotMounted
	}

	id, err := dev.allocator.AllocateSingle()
	if err != nil {
		return c.NullBlock, err
	}

	err = dev.writeSuperblock()
	if err != nil {
		// The bitmap on disk is unchanged, so undo the in-memory allocation
		// too.
		dev.allocator.AllocationBitmap.Set(int(id), false)
		return c.NullBlock, err
	}
	return id, nil
}

// ReclaimBlock returns an allocated block to the free pool and persists the
// bitmap.
func (dev *Device) ReclaimBlock(id c.BlockID) error {
	if !dev.mounted {
		return blockfs.ErrNotMounted
	}

	err := dev.allocator.FreeSingle(id)
	if err != nil {
		return err
	}

	err = dev.writeSuperblock()
	if err != nil {
		dev.allocator.AllocationBitmap.Set(int(id), true)
	}
	return err
}

// AllocatedBlocks returns the number of blocks currently in use, reserved
// blocks included.
func (dev *Device) AllocatedBlocks() (uint, error) {
	if !dev.mounted {
		return 0, blockfs.ErrNotMounted
	}
	return dev.allocator.CountAllocated(), nil
}

func (dev *Device) writeSuperblock() error {
	_, err := dev.cache.WriteAt(dev.allocator.Bytes(), c.SuperblockID)
	return err
}

func (dev *Device) sync() error {
	if s, ok := dev.stream.(syncer); ok {
		return blockfs.CastToDriverError(s.Sync())
	}
	return nil
}
