// Package common contains definitions of fundamental types and constants shared
// by the block store and the file system built on top of it.
package common

// BlockID is the address of a block on the volume. On disk it's stored as a
// signed 16-bit integer, so only the lower half of the range is usable.
type BlockID uint16

// The volume geometry is fixed. Any image written by one implementation must be
// readable by another, so these never change.
const (
	BytesPerBlock = 128
	TotalBlocks   = 1024
)

// NullBlock is the sentinel address meaning "unallocated" or "empty slot". It
// coincides with the superblock, which can never be referenced by an entry.
const NullBlock = BlockID(0)

// SuperblockID is the address of the allocation bitmap.
const SuperblockID = BlockID(0)

// RootDirectoryID is the address of the root directory.
const RootDirectoryID = BlockID(1)

// Truncator is an interface for objects that support a Truncate() method. This
// method must behave just like [os.File.Truncate].
type Truncator interface {
	Truncate(size int64) error
}
