package tinyfs

import (
	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
)

// openFile resolves `name` to a file in the current directory.
func (s *Session) openFile(name string) (*Directory, Slot, *Inode, error) {
	dir, slot, err := s.lookup(name)
	if err != nil {
		return nil, Slot{}, nil, err
	}

	inode, err := s.fs.readInode(slot.Block)
	if err != nil {
		return nil, Slot{}, nil, err
	}
	return dir, slot, inode, nil
}

// readSpan returns `length` bytes of the file starting at byte `start`. Only
// blocks overlapping the span are read. The caller guarantees the span lies
// within the file.
func (fs *FileSystem) readSpan(inode *Inode, start, length uint32) ([]byte, error) {
	output := make([]byte, 0, length)
	end := start + length
	blockStart := uint32(0)

	for _, block := range inode.blocks {
		if uint32(len(output)) == length {
			break
		}

		blockEnd := blockStart + c.BytesPerBlock
		if blockEnd <= start {
			blockStart = blockEnd
			continue
		}

		raw, err := fs.readRaw(block)
		if err != nil {
			return nil, err
		}

		from := uint32(0)
		if start > blockStart {
			from = start - blockStart
		}
		to := uint32(c.BytesPerBlock)
		if end < blockEnd {
			to = end - blockStart
		}
		output = append(output, raw[from:to]...)
		blockStart = blockEnd
	}
	return output, nil
}

// Append adds `data` to the end of file `name`.
//
// Either all of `data` is written or none of it is. Every new block the file
// needs is allocated before anything is written; if the volume runs out, the
// blocks are returned and the file is left as it was.
func (s *Session) Append(name string, data []byte) error {
	_, slot, inode, err := s.openFile(name)
	if err != nil {
		return err
	}

	newSize := uint64(inode.Size) + uint64(len(data))
	if newSize > MaxFileSize {
		return blockfs.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil
	}

	// Whatever fits in the unused tail of the last block goes there.
	spare := 0
	if inode.BlockCount() > 0 {
		spare = c.BytesPerBlock - inode.LastBlockFill()
	}
	if spare > len(data) {
		spare = len(data)
	}
	packed := data[:spare]
	remaining := data[spare:]

	needed := blocksForSize(uint(len(remaining)))
	if inode.BlockCount()+needed > MaxDataBlocks {
		return blockfs.ErrFileTooLarge
	}

	reserved, err := s.fs.allocate(needed)
	if err != nil {
		return err
	}

	for i, id := range reserved {
		chunkEnd := (i + 1) * c.BytesPerBlock
		if chunkEnd > len(remaining) {
			chunkEnd = len(remaining)
		}
		err = s.fs.writeBlock(id, DataBlock(remaining[i*c.BytesPerBlock:chunkEnd]))
		if err != nil {
			return s.fs.reclaimAfterFailure(err, reserved)
		}
	}

	if len(packed) > 0 {
		last := inode.blocks[len(inode.blocks)-1]
		raw, err := s.fs.readRaw(last)
		if err != nil {
			return s.fs.reclaimAfterFailure(err, reserved)
		}

		copy(raw[inode.LastBlockFill():], packed)
		err = s.fs.store.WriteBlock(last, raw)
		if err != nil {
			return s.fs.reclaimAfterFailure(err, reserved)
		}
	}

	for _, id := range reserved {
		inode.AddBlock(id)
	}
	inode.Size = uint32(newSize)

	err = s.fs.writeBlock(slot.Block, inode)
	if err != nil {
		return s.fs.reclaimAfterFailure(err, reserved)
	}
	return nil
}

// Cat returns the entire contents of file `name`.
func (s *Session) Cat(name string) ([]byte, error) {
	_, _, inode, err := s.openFile(name)
	if err != nil {
		return nil, err
	}
	return s.fs.readSpan(inode, 0, inode.Size)
}

// Excerpt is part of a file, along with the size of the whole file.
type Excerpt struct {
	Data     []byte
	FileSize uint32
}

// Head returns the first `n` bytes of file `name`, or the whole file if it's
// shorter than that.
func (s *Session) Head(name string, n uint32) (Excerpt, error) {
	_, _, inode, err := s.openFile(name)
	if err != nil {
		return Excerpt{}, err
	}

	if n > inode.Size {
		n = inode.Size
	}
	data, err := s.fs.readSpan(inode, 0, n)
	if err != nil {
		return Excerpt{}, err
	}
	return Excerpt{Data: data, FileSize: inode.Size}, nil
}

// Tail returns the last `n` bytes of file `name`, or the whole file if it's
// shorter than that.
func (s *Session) Tail(name string, n uint32) (Excerpt, error) {
	_, _, inode, err := s.openFile(name)
	if err != nil {
		return Excerpt{}, err
	}

	if n > inode.Size {
		n = inode.Size
	}
	data, err := s.fs.readSpan(inode, inode.Size-n, n)
	if err != nil {
		return Excerpt{}, err
	}
	return Excerpt{Data: data, FileSize: inode.Size}, nil
}

// WordCount holds the results of counting a file's contents.
type WordCount struct {
	Lines uint
	Words uint
	Bytes uint
}

func isWordSeparator(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// CountWords counts newlines, words, and bytes in `data`. A word is a maximal
// run of bytes other than space, tab, newline, and carriage return.
func CountWords(data []byte) WordCount {
	count := WordCount{Bytes: uint(len(data))}
	inWord := false

	for _, b := range data {
		if b == '\n' {
			count.Lines++
		}
		if isWordSeparator(b) {
			if inWord {
				count.Words++
				inWord = false
			}
		} else {
			inWord = true
		}
	}

	if inWord {
		count.Words++
	}
	return count
}

// WordCount counts the lines, words, and bytes in file `name`.
func (s *Session) WordCount(name string) (WordCount, error) {
	contents, err := s.Cat(name)
	if err != nil {
		return WordCount{}, err
	}
	return CountWords(contents), nil
}

// Remove deletes file `name`. Data blocks are reclaimed first, then the inode,
// and only then is the directory entry cleared.
func (s *Session) Remove(name string) error {
	dir, slot, inode, err := s.openFile(name)
	if err != nil {
		return err
	}

	for _, block := range inode.blocks {
		err = s.fs.store.ReclaimBlock(block)
		if err != nil {
			return err
		}
	}

	err = s.fs.store.ReclaimBlock(slot.Block)
	if err != nil {
		return err
	}

	dir.Clear(slot.Index)
	return s.fs.writeBlock(s.cwd, dir)
}

// Copy creates `dest` as an independent copy of file `src`. If the copy can't
// be completed, every block allocated for it is reclaimed.
func (s *Session) Copy(src, dest string) error {
	dir, _, source, err := s.openFile(src)
	if err != nil {
		return err
	}

	if _, exists := dir.Lookup(dest); exists {
		return blockfs.ErrExists
	}
	err = validateName(dest)
	if err != nil {
		return err
	}

	// The inode plus one block per data block of the source.
	reserved, err := s.fs.allocate(1 + source.BlockCount())
	if err != nil {
		return err
	}

	copied := NewInode()
	copied.Size = source.Size
	for i, sourceBlock := range source.blocks {
		raw, err := s.fs.readRaw(sourceBlock)
		if err != nil {
			return s.fs.reclaimAfterFailure(err, reserved)
		}

		target := reserved[i+1]
		err = s.fs.store.WriteBlock(target, raw)
		if err != nil {
			return s.fs.reclaimAfterFailure(err, reserved)
		}
		copied.AddBlock(target)
	}

	err = s.fs.writeBlock(reserved[0], copied)
	if err != nil {
		return s.fs.reclaimAfterFailure(err, reserved)
	}

	slotIndex, ok := dir.FirstFree()
	if !ok {
		return s.fs.reclaimAfterFailure(blockfs.ErrDirectoryFull, reserved)
	}

	dir.Put(slotIndex, dest, reserved[0])
	err = s.fs.writeBlock(s.cwd, dir)
	if err != nil {
		return s.fs.reclaimAfterFailure(err, reserved)
	}
	return nil
}

// Move renames entry `src` to `dest` within the current directory. It works on
// directories as well as files, and only the entry's name changes.
func (s *Session) Move(src, dest string) error {
	dir, slot, err := s.lookup(src)
	if err != nil {
		return err
	}

	if _, exists := dir.Lookup(dest); exists {
		return blockfs.ErrExists
	}
	err = validateName(dest)
	if err != nil {
		return err
	}

	dir.Rename(slot.Index, dest)
	return s.fs.writeBlock(s.cwd, dir)
}
