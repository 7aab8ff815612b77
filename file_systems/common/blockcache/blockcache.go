// Package blockcache provides a block-oriented cache sitting between a device
// and its backing storage. Blocks are fetched lazily and written back either on
// demand or, in write-through mode, as soon as they're modified.
//
// All block indices begin at 0.

package blockcache

import (
	"fmt"
	"io"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
)

// FetchBlockCallback is a pointer to a function that writes the contents of a
// single block from the backing storage into `buffer`. The following guarantees
// apply:
//
// - `blockIndex` is in the range [0, TotalBlocks).
// - `buffer` is always BytesPerBlock bytes.
type FetchBlockCallback func(blockIndex c.BlockID, buffer []byte) error

// FlushBlockCallback is a pointer to a function that writes the contents of the
// given buffer to a block in the backing storage. All restrictions and
// guarantees in [FetchBlockCallback] apply here too.
type FlushBlockCallback func(blockIndex c.BlockID, buffer []byte) error

type BlockCache struct {
	loadedBlocks  bitmap.Bitmap
	dirtyBlocks   bitmap.Bitmap
	fetch         FetchBlockCallback
	flush         FlushBlockCallback
	bytesPerBlock uint
	totalBlocks   uint
	writeThrough  bool
	data          []byte
}

// New creates a new BlockCache.
//
// If `writeThrough` is set, every call to [BlockCache.WriteAt] flushes the
// blocks it touched before returning, so the backing storage never lags behind
// the cache.
func New(
	bytesPerBlock uint,
	totalBlocks uint,
	fetchCb FetchBlockCallback,
	flushCb FlushBlockCallback,
	writeThrough bool,
) *BlockCache {
	return &BlockCache{
		loadedBlocks:  bitmap.New(int(totalBlocks)),
		dirtyBlocks:   bitmap.New(int(totalBlocks)),
		data:          make([]byte, int(bytesPerBlock*totalBlocks)),
		fetch:         fetchCb,
		flush:         flushCb,
		bytesPerBlock: bytesPerBlock,
		totalBlocks:   totalBlocks,
		writeThrough:  writeThrough,
	}
}

// WrapStream creates a write-through [BlockCache] on top of any
// [io.ReadWriteSeeker]. Block 0 begins at offset 0 of the stream.
func WrapStream(
	stream io.ReadWriteSeeker,
	bytesPerBlock uint,
	totalBlocks uint,
) *BlockCache {
	// This function performs the function of the read and write callbacks. It's
	// put into one function because reading and writing differ only by a single
	// method call on the stream.
	runCb := func(block c.BlockID, buffer []byte, read bool) error {
		err := seekToBlock(stream, block, totalBlocks, bytesPerBlock)
		if err != nil {
			return err
		}

		if read {
			// A freshly created image may be shorter than the volume. Anything
			// past the end of the stream reads back as zeroes.
			var n int
			n, err = io.ReadFull(stream, buffer)
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				for i := n; i < len(buffer); i++ {
					buffer[i] = 0
				}
				err = nil
			}
		} else {
			_, err = stream.Write(buffer)
		}
		return err
	}

	fetchCb := func(block c.BlockID, buffer []byte) error {
		return runCb(block, buffer, true)
	}

	flushCb := func(block c.BlockID, buffer []byte) error {
		return runCb(block, buffer, false)
	}

	return New(bytesPerBlock, totalBlocks, fetchCb, flushCb, true)
}

// seekToBlock sets the stream pointer for a stream to the offset of a block.
func seekToBlock(stream io.Seeker, block c.BlockID, totalBlocks, bytesPerBlock uint) error {
	if uint(block) >= totalBlocks {
		return blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"invalid block number: %d not in range [0, %d)",
				block,
				totalBlocks,
			),
		)
	}

	blockOffset := int64(block) * int64(bytesPerBlock)
	_, err := stream.Seek(blockOffset, io.SeekStart)
	return err
}

// BytesPerBlock returns the size of a single block, in bytes.
func (cache *BlockCache) BytesPerBlock() uint {
	return cache.bytesPerBlock
}

// TotalBlocks returns the size of the cache, in blocks.
func (cache *BlockCache) TotalBlocks() uint {
	return cache.totalBlocks
}

// Size gives the size of the cache, in bytes (not blocks!).
func (cache *BlockCache) Size() int64 {
	return int64(cache.bytesPerBlock) * int64(cache.totalBlocks)
}

// LengthToNumBlocks gives the minimum number of blocks required to hold the
// given number of bytes.
func (cache *BlockCache) LengthToNumBlocks(size uint) uint {
	return (size + cache.bytesPerBlock - 1) / cache.bytesPerBlock
}

// checkBounds verifies that `bufferSize` bytes can be accessed in the cache
// starting from block `start`. If not, it returns an error describing the exact
// conditions. If no error would occur, this returns nil.
func (cache *BlockCache) checkBounds(start c.BlockID, bufferSize uint) error {
	numBlocks := cache.LengthToNumBlocks(bufferSize)

	if uint(start) >= cache.totalBlocks || uint(start)+numBlocks > cache.totalBlocks {
		return blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"can't access %d bytes (%d blocks) from block %d; range not in [0, %d)",
				bufferSize,
				numBlocks,
				start,
				cache.totalBlocks,
			),
		)
	}
	return nil
}

// GetSlice returns a slice pointing to the cache's storage, beginning at block
// `start` and continuing for `count` blocks.
//
// If the returned slice is modified, the modified blocks MUST be marked as
// dirty.
func (cache *BlockCache) GetSlice(start c.BlockID, count uint) ([]byte, error) {
	err := cache.loadBlockRange(start, count)
	if err != nil {
		return nil, err
	}

	startOffset := uint(start) * cache.bytesPerBlock
	endOffset := startOffset + (count * cache.bytesPerBlock)
	return cache.data[startOffset:endOffset], nil
}

// Data returns a slice of the entire cache's data. This requires loading all
// blocks not yet in the cache.
//
// If the returned slice is modified, the modified blocks MUST be marked as
// dirty.
func (cache *BlockCache) Data() ([]byte, error) {
	err := cache.LoadAll()
	if err != nil {
		return nil, err
	}
	return cache.data[:], nil
}

// loadBlockRange ensures that all blocks in the range [start, start + count) are
// present in the cache, and loads any missing ones from storage.
func (cache *BlockCache) loadBlockRange(start c.BlockID, count uint) error {
	err := cache.checkBounds(start, count*cache.bytesPerBlock)
	if err != nil {
		return err
	}

	for blockIndex := int(start); uint(blockIndex) < uint(start)+count; blockIndex++ {
		// Skip if the block is in the cache. Since dirty blocks are present by
		// definition, we don't need to check `dirtyBlocks`.
		if cache.loadedBlocks.Get(blockIndex) {
			continue
		}

		offset := uint(blockIndex) * cache.bytesPerBlock
		buffer := cache.data[offset : offset+cache.bytesPerBlock]

		// Load the block from backing storage directly into the cache.
		err = cache.fetch(c.BlockID(blockIndex), buffer)
		if err != nil {
			return blockfs.ErrIOFailed.Wrap(
				fmt.Errorf("failed to load block %d from source: %w", blockIndex, err),
			)
		}

		// Mark the block as present and clean.
		cache.loadedBlocks.Set(blockIndex, true)
		cache.dirtyBlocks.Set(blockIndex, false)
	}

	return nil
}

// flushBlockRange writes out all dirty blocks (and only dirty blocks) to the
// underlying storage and marks them as clean.
func (cache *BlockCache) flushBlockRange(start c.BlockID, count uint) error {
	err := cache.checkBounds(start, count*cache.bytesPerBlock)
	if err != nil {
		return err
	}

	for blockIndex := int(start); uint(blockIndex) < uint(start)+count; blockIndex++ {
		// Skip if the block is clean. This also skips over blocks that aren't
		// loaded, since missing blocks are considered clean.
		if !cache.dirtyBlocks.Get(blockIndex) {
			continue
		}

		offset := uint(blockIndex) * cache.bytesPerBlock
		buffer := cache.data[offset : offset+cache.bytesPerBlock]

		err = cache.flush(c.BlockID(blockIndex), buffer)
		if err != nil {
			return blockfs.ErrIOFailed.Wrap(
				fmt.Errorf("failed to flush block %d to storage: %w", blockIndex, err),
			)
		}

		// Mark the flushed block as clean.
		cache.dirtyBlocks.Set(blockIndex, false)
	}

	return nil
}

// LoadAll ensures all missing blocks are loaded from storage into the cache.
func (cache *BlockCache) LoadAll() error {
	return cache.loadBlockRange(0, cache.totalBlocks)
}

// Flush flushes all dirty blocks from the cache into storage, and marks them
// as clean.
func (cache *BlockCache) Flush() error {
	return cache.flushBlockRange(0, cache.totalBlocks)
}

// ReadAt fills `buffer` with data beginning at block `start`, loading any
// missing blocks first. `buffer` does not need to be an exact multiple of the
// size of one block.
//
// Attempting to read past the end of the cache will result in an error, and
// `buffer` will be left unmodified.
func (cache *BlockCache) ReadAt(buffer []byte, start c.BlockID) (int, error) {
	bufLen := uint(len(buffer))
	err := cache.checkBounds(start, bufLen)
	if err != nil {
		return 0, err
	}

	numBlocks := cache.LengthToNumBlocks(bufLen)
	sourceData, err := cache.GetSlice(start, numBlocks)
	if err != nil {
		return 0, err
	}

	return copy(buffer, sourceData), nil
}

// WriteAt copies data into the cache from `buffer`, beginning at block `start`.
// All modified blocks are marked as dirty, and flushed immediately if the cache
// is in write-through mode. `buffer` does not need to be an exact multiple of
// the size of one block.
//
// Attempting to write past the end of the cache will result in an error, and
// the cache will be left unmodified.
func (cache *BlockCache) WriteAt(buffer []byte, start c.BlockID) (int, error) {
	bufLen := uint(len(buffer))

	err := cache.checkBounds(start, bufLen)
	if err != nil {
		return 0, err
	}

	totalBlocks := cache.LengthToNumBlocks(bufLen)
	targetByteSlice, err := cache.GetSlice(start, totalBlocks)
	if err != nil {
		return 0, err
	}

	n := copy(targetByteSlice, buffer)

	err = cache.MarkBlockRangeDirty(start, totalBlocks)
	if err != nil {
		return n, err
	}

	if cache.writeThrough {
		return n, cache.flushBlockRange(start, totalBlocks)
	}
	return n, nil
}

// MarkBlockRangeDirty marks a range of blocks as modified. They will be written
// out to the backing storage on the next call to [BlockCache.Flush].
func (cache *BlockCache) MarkBlockRangeDirty(start c.BlockID, count uint) error {
	err := cache.checkBounds(start, count*cache.bytesPerBlock)
	if err != nil {
		return err
	}

	for i := uint(0); i < count; i++ {
		bitIndex := int(start) + int(i)
		cache.dirtyBlocks.Set(bitIndex, true)
		cache.loadedBlocks.Set(bitIndex, true)
	}
	return nil
}

// IsDirty reports whether a block has modifications that haven't been written
// to the backing storage yet.
func (cache *BlockCache) IsDirty(block c.BlockID) bool {
	if uint(block) >= cache.totalBlocks {
		return false
	}
	return cache.dirtyBlocks.Get(int(block))
}
