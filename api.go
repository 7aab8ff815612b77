// Package blockfs is a single-volume file system built on a fixed-geometry block
// device. This package holds the contracts shared by every layer: the block
// store interface the file system consumes and the error kinds all layers
// return.
package blockfs

import (
	"github.com/dargueta/blockfs/file_systems/common"
)

// BlockID is re-exported here so callers of the store interface don't need to
// import the common package.
type BlockID = common.BlockID

// BlockStore is the interface the file system consumes from the device layer.
// Every call is individually atomic, but sequences of calls are not
// transactional.
type BlockStore interface {
	// Mount prepares the store for I/O. Mounting an already-mounted store fails
	// with [ErrAlreadyInProgress].
	Mount() error

	// Unmount flushes all pending changes and releases the store. The store
	// can be mounted again afterwards.
	Unmount() error

	// ReadBlock copies the contents of block `id` into `buffer`, which must be
	// exactly one block long.
	ReadBlock(id BlockID, buffer []byte) error

	// WriteBlock replaces the contents of block `id` with `data`, which must be
	// exactly one block long. The write has reached the medium when this
	// returns.
	WriteBlock(id BlockID, data []byte) error

	// AllocateBlock marks the first free block as in use and returns its
	// address. On exhaustion it returns [common.NullBlock] together with
	// [ErrNoSpaceOnDevice].
	AllocateBlock() (BlockID, error)

	// ReclaimBlock returns an allocated block to the free pool.
	ReclaimBlock(id BlockID) error
}

// FormattableStore is a [BlockStore] that can initialize its medium to an
// empty volume. Formatting is only permitted while the store is unmounted.
type FormattableStore interface {
	BlockStore

	// Format zeroes the entire medium and writes a superblock in which only
	// the superblock and the root directory are allocated.
	Format() error
}
