package tinyfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
	"github.com/noxer/bytewriter"
)

const (
	// MaxNameLength is the longest name a directory entry can hold, in bytes.
	// The on-disk field is one byte longer for the terminating NUL.
	MaxNameLength = 9

	// MaxDirectoryEntries is the number of entry slots in a directory block.
	MaxDirectoryEntries = 10

	// MaxDataBlocks is the number of data block slots in an inode.
	MaxDataBlocks = 60

	// MaxFileSize is the largest a file can grow, in bytes.
	MaxFileSize = MaxDataBlocks * c.BytesPerBlock
)

const (
	DirectoryMagic = uint32(0xFFFFFFFF)
	InodeMagic     = uint32(0xFFFFFFFE)
)

const nameFieldSize = MaxNameLength + 1

type rawDirent struct {
	Name  [nameFieldSize]byte
	Block int16
}

type rawDirectory struct {
	Magic   uint32
	Count   uint32
	Entries [MaxDirectoryEntries]rawDirent
}

type rawInode struct {
	Magic  uint32
	Size   uint32
	Blocks [MaxDataBlocks]int16
}

// Block is one decoded block of the volume. It's always one of [*Superblock],
// [*Directory], [*Inode], or [DataBlock].
type Block interface {
	// Encode serializes the block into exactly [c.BytesPerBlock] bytes.
	Encode() ([]byte, error)
	isBlock()
}

// DecodeBlock interprets the raw contents of block `id`. The superblock is
// recognized by its address, directories and inodes by their magic number.
// Anything else is returned as a [DataBlock].
func DecodeBlock(id c.BlockID, raw []byte) (Block, error) {
	if len(raw) != c.BytesPerBlock {
		return nil, blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("block must be %d bytes, got %d", c.BytesPerBlock, len(raw)))
	}

	if id == c.SuperblockID {
		return DecodeSuperblock(raw), nil
	}

	switch binary.LittleEndian.Uint32(raw[:4]) {
	case DirectoryMagic:
		return DecodeDirectory(id, raw)
	case InodeMagic:
		return DecodeInode(id, raw)
	default:
		data := make(DataBlock, c.BytesPerBlock)
		copy(data, raw)
		return data, nil
	}
}

func encodeStruct(value any) ([]byte, error) {
	buffer := make([]byte, c.BytesPerBlock)
	writer := bytewriter.New(buffer)
	err := binary.Write(writer, binary.LittleEndian, value)
	if err != nil {
		return nil, blockfs.ErrIOFailed.Wrap(err)
	}
	return buffer, nil
}

func checkPointer(owner c.BlockID, raw int16) (c.BlockID, error) {
	if raw < 0 || int(raw) >= c.TotalBlocks || (raw != 0 && raw <= int16(c.RootDirectoryID)) {
		return c.NullBlock, blockfs.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("block %d refers to invalid block %d", owner, raw))
	}
	return c.BlockID(raw), nil
}

// -----------------------------------------------------------------------------

// Superblock is block 0: the allocation bitmap and nothing else. Bit `i` is set
// if block `i` is in use.
type Superblock struct {
	Bitmap bitmap.Bitmap
}

func DecodeSuperblock(raw []byte) *Superblock {
	return &Superblock{Bitmap: bitmap.Bitmap(raw).Data(true)}
}

func (sb *Superblock) Encode() ([]byte, error) {
	return sb.Bitmap.Data(true), nil
}

// IsAllocated reports whether block `id` is marked as in use.
func (sb *Superblock) IsAllocated(id c.BlockID) bool {
	return sb.Bitmap.Get(int(id))
}

// CountAllocated returns the number of blocks in use.
func (sb *Superblock) CountAllocated() uint {
	total := uint(0)
	for i := 0; i < c.TotalBlocks; i++ {
		if sb.Bitmap.Get(i) {
			total++
		}
	}
	return total
}

func (*Superblock) isBlock() {}

// -----------------------------------------------------------------------------

// DirectoryEntry is one slot of a directory. A slot pointing at [c.NullBlock]
// is empty and its name is meaningless.
type DirectoryEntry struct {
	Name  string
	Block c.BlockID
}

// IsEmpty reports whether the slot is free.
func (entry DirectoryEntry) IsEmpty() bool {
	return entry.Block == c.NullBlock
}

// Slot is an occupied directory entry together with its position.
type Slot struct {
	DirectoryEntry
	Index int
}

// Directory is a fixed array of entry slots. Slots are never compacted, so the
// index of an entry is stable until the entry is removed.
type Directory struct {
	entries [MaxDirectoryEntries]DirectoryEntry
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

func DecodeDirectory(id c.BlockID, raw []byte) (*Directory, error) {
	var header rawDirectory
	err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header)
	if err != nil {
		return nil, blockfs.ErrIOFailed.Wrap(err)
	}
	if header.Magic != DirectoryMagic {
		return nil, blockfs.ErrNotADirectory.WithMessage(
			fmt.Sprintf("block %d has magic 0x%08x", id, header.Magic))
	}

	dir := NewDirectory()
	occupied := uint32(0)
	for i, rawEntry := range header.Entries {
		block, err := checkPointer(id, rawEntry.Block)
		if err != nil {
			return nil, err
		}
		if block == c.NullBlock {
			continue
		}

		name := rawEntry.Name[:]
		if end := bytes.IndexByte(name, 0); end >= 0 {
			name = name[:end]
		}
		dir.entries[i] = DirectoryEntry{Name: string(name), Block: block}
		occupied++
	}

	if occupied != header.Count {
		return nil, blockfs.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf(
				"directory %d claims %d entries but has %d",
				id,
				header.Count,
				occupied,
			),
		)
	}
	return dir, nil
}

func (dir *Directory) Encode() ([]byte, error) {
	raw := rawDirectory{
		Magic: DirectoryMagic,
		Count: uint32(dir.Count()),
	}
	for i, entry := range dir.entries {
		if entry.IsEmpty() {
			continue
		}
		copy(raw.Entries[i].Name[:MaxNameLength], entry.Name)
		raw.Entries[i].Block = int16(entry.Block)
	}
	return encodeStruct(&raw)
}

// Lookup finds the occupied slot named `name`.
func (dir *Directory) Lookup(name string) (Slot, bool) {
	for i, entry := range dir.entries {
		if !entry.IsEmpty() && entry.Name == name {
			return Slot{DirectoryEntry: entry, Index: i}, true
		}
	}
	return Slot{}, false
}

// FirstFree returns the index of the lowest empty slot. It returns false if
// the directory is full.
func (dir *Directory) FirstFree() (int, bool) {
	for i, entry := range dir.entries {
		if entry.IsEmpty() {
			return i, true
		}
	}
	return -1, false
}

// Occupied returns the occupied slots in physical order.
func (dir *Directory) Occupied() []Slot {
	slots := make([]Slot, 0, MaxDirectoryEntries)
	for i, entry := range dir.entries {
		if !entry.IsEmpty() {
			slots = append(slots, Slot{DirectoryEntry: entry, Index: i})
		}
	}
	return slots
}

// Count returns the number of occupied slots.
func (dir *Directory) Count() int {
	total := 0
	for _, entry := range dir.entries {
		if !entry.IsEmpty() {
			total++
		}
	}
	return total
}

func (dir *Directory) IsFull() bool {
	return dir.Count() == MaxDirectoryEntries
}

// Entry returns the contents of slot `index`, empty or not.
func (dir *Directory) Entry(index int) DirectoryEntry {
	return dir.entries[index]
}

// Put fills slot `index`. Names are not validated here.
func (dir *Directory) Put(index int, name string, block c.BlockID) {
	dir.entries[index] = DirectoryEntry{Name: name, Block: block}
}

// Rename changes the name of slot `index` without touching what it points to.
func (dir *Directory) Rename(index int, name string) {
	dir.entries[index].Name = name
}

// Clear empties slot `index` in place.
func (dir *Directory) Clear(index int) {
	dir.entries[index] = DirectoryEntry{}
}

func (*Directory) isBlock() {}

// -----------------------------------------------------------------------------

// Inode describes a file: its size and the data blocks holding its contents,
// in order. The last block is only filled up to the end of the file.
type Inode struct {
	Size   uint32
	blocks []c.BlockID
}

// NewInode returns an inode for an empty file.
func NewInode() *Inode {
	return &Inode{blocks: make([]c.BlockID, 0, MaxDataBlocks)}
}

// blocksForSize gives the number of data blocks a file of `size` bytes needs.
func blocksForSize(size uint) int {
	return int((size + c.BytesPerBlock - 1) / c.BytesPerBlock)
}

func DecodeInode(id c.BlockID, raw []byte) (*Inode, error) {
	var header rawInode
	err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header)
	if err != nil {
		return nil, blockfs.ErrIOFailed.Wrap(err)
	}
	if header.Magic != InodeMagic {
		return nil, blockfs.ErrIsADirectory.WithMessage(
			fmt.Sprintf("block %d has magic 0x%08x", id, header.Magic))
	}
	if header.Size > MaxFileSize {
		return nil, blockfs.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("inode %d has impossible size %d", id, header.Size))
	}

	inode := NewInode()
	inode.Size = header.Size
	sawEmpty := false
	for _, rawBlock := range header.Blocks {
		block, err := checkPointer(id, rawBlock)
		if err != nil {
			return nil, err
		}
		if block == c.NullBlock {
			sawEmpty = true
			continue
		}
		if sawEmpty {
			return nil, blockfs.ErrFileSystemCorrupted.WithMessage(
				fmt.Sprintf("inode %d has a gap in its block list", id))
		}
		inode.blocks = append(inode.blocks, block)
	}

	if len(inode.blocks) != blocksForSize(uint(inode.Size)) {
		return nil, blockfs.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf(
				"inode %d holds %d bytes in %d blocks",
				id,
				inode.Size,
				len(inode.blocks),
			),
		)
	}
	return inode, nil
}

func (inode *Inode) Encode() ([]byte, error) {
	raw := rawInode{
		Magic: InodeMagic,
		Size:  inode.Size,
	}
	for i, block := range inode.blocks {
		raw.Blocks[i] = int16(block)
	}
	return encodeStruct(&raw)
}

// Blocks returns a copy of the inode's data block list.
func (inode *Inode) Blocks() []c.BlockID {
	blocks := make([]c.BlockID, len(inode.blocks))
	copy(blocks, inode.blocks)
	return blocks
}

// BlockCount returns the number of data blocks in use.
func (inode *Inode) BlockCount() int {
	return len(inode.blocks)
}

// FirstBlock returns the first data block, or [c.NullBlock] for an empty file.
func (inode *Inode) FirstBlock() c.BlockID {
	if len(inode.blocks) == 0 {
		return c.NullBlock
	}
	return inode.blocks[0]
}

// LastBlockFill gives the number of bytes of the file stored in its last data
// block. It's 0 only for an empty file.
func (inode *Inode) LastBlockFill() int {
	if inode.Size == 0 {
		return 0
	}
	fill := int(inode.Size % c.BytesPerBlock)
	if fill == 0 {
		return c.BytesPerBlock
	}
	return fill
}

// AddBlock occupies the next free slot with `block`.
func (inode *Inode) AddBlock(block c.BlockID) error {
	if len(inode.blocks) >= MaxDataBlocks {
		return blockfs.ErrFileTooLarge
	}
	inode.blocks = append(inode.blocks, block)
	return nil
}

func (*Inode) isBlock() {}

// -----------------------------------------------------------------------------

// DataBlock holds a slice of a file's contents.
type DataBlock []byte

func (data DataBlock) Encode() ([]byte, error) {
	buffer := make([]byte, c.BytesPerBlock)
	if len(data) > c.BytesPerBlock {
		return nil, blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("data block holds at most %d bytes, got %d", c.BytesPerBlock, len(data)))
	}
	copy(buffer, data)
	return buffer, nil
}

func (DataBlock) isBlock() {}
