// Bitmap allocator

package blockstore

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
)

// Allocator tracks which blocks of the volume are in use. Bit `i` of the bitmap
// is set if and only if block `i` is allocated, and the bitmap itself is
// exactly the on-disk encoding of the superblock.
type Allocator struct {
	AllocationBitmap bitmap.Bitmap
	TotalUnits       uint
}

// NewAllocator creates a new allocation bitmap with only the reserved blocks
// marked as in use.
func NewAllocator(totalUnits uint) Allocator {
	alloc := Allocator{
		AllocationBitmap: bitmap.New(int(totalUnits)),
		TotalUnits:       totalUnits,
	}
	alloc.AllocationBitmap.Set(int(c.SuperblockID), true)
	alloc.AllocationBitmap.Set(int(c.RootDirectoryID), true)
	return alloc
}

// NewAllocatorFromInUseBitmap creates a new allocator starting from an existing
// bitmap that indicates which units are in use. The bitmap is copied.
func NewAllocatorFromInUseBitmap(inUseMap []byte) Allocator {
	bitmapBuf := make([]byte, len(inUseMap))
	copy(bitmapBuf, inUseMap)
	return Allocator{
		AllocationBitmap: bitmap.Bitmap(bitmapBuf),
		TotalUnits:       uint(len(inUseMap) * 8),
	}
}

// AllocateSingle allocates the first available unit it finds and returns its
// index. If no units are available, it returns [c.NullBlock] and
// [blockfs.ErrNoSpaceOnDevice].
func (alloc *Allocator) AllocateSingle() (c.BlockID, error) {
	for i := uint(0); i < alloc.TotalUnits; i++ {
		if !alloc.AllocationBitmap.Get(int(i)) {
			alloc.AllocationBitmap.Set(int(i), true)
			return c.BlockID(i), nil
		}
	}

	return c.NullBlock, blockfs.ErrNoSpaceOnDevice
}

// FreeSingle frees an allocated unit. Trying to free a reserved unit or a unit
// that isn't allocated fails with [blockfs.ErrInvalidArgument] and leaves the
// bitmap unchanged.
func (alloc *Allocator) FreeSingle(unit c.BlockID) error {
	if uint(unit) >= alloc.TotalUnits {
		msg := fmt.Sprintf(
			"invalid block id: %d not in range [0, %d)",
			unit,
			alloc.TotalUnits)
		return blockfs.ErrInvalidArgument.WithMessage(msg)
	}
	if unit == c.SuperblockID || unit == c.RootDirectoryID {
		msg := fmt.Sprintf("block %d is reserved and can't be freed", unit)
		return blockfs.ErrInvalidArgument.WithMessage(msg)
	}
	if !alloc.AllocationBitmap.Get(int(unit)) {
		msg := fmt.Sprintf("block %d is already free", unit)
		return blockfs.ErrInvalidArgument.WithMessage(msg)
	}

	alloc.AllocationBitmap.Set(int(unit), false)
	return nil
}

// IsAllocated reports whether the given unit is in use. Units outside the
// bitmap are never allocated.
func (alloc *Allocator) IsAllocated(unit c.BlockID) bool {
	if uint(unit) >= alloc.TotalUnits {
		return false
	}
	return alloc.AllocationBitmap.Get(int(unit))
}

// CountAllocated returns the number of units currently in use.
func (alloc *Allocator) CountAllocated() uint {
	total := uint(0)
	for i := uint(0); i < alloc.TotalUnits; i++ {
		if alloc.AllocationBitmap.Get(int(i)) {
			total++
		}
	}
	return total
}

// Bytes returns the raw bitmap, suitable for writing out as the superblock.
func (alloc *Allocator) Bytes() []byte {
	return alloc.AllocationBitmap.Data(false)
}
