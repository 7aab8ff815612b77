package tinyfs

import (
	"fmt"

	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
	"github.com/hashicorp/go-multierror"
)

// FileSystem is a tinyfs volume on a block store. It holds no state of its own
// besides the store; everything lives on disk. Navigation state belongs to a
// [Session].
type FileSystem struct {
	store   blockfs.BlockStore
	mounted bool
}

// New creates a file system over an existing volume. Call [FileSystem.Mount]
// before using it.
func New(store blockfs.BlockStore) *FileSystem {
	return &FileSystem{store: store}
}

// Format initializes `store` with an empty volume and returns the file system
// on it, already mounted.
func Format(store blockfs.FormattableStore) (*FileSystem, error) {
	err := store.Format()
	if err != nil {
		return nil, err
	}

	err = store.Mount()
	if err != nil {
		return nil, err
	}

	fs := &FileSystem{store: store, mounted: true}
	err = fs.writeBlock(c.RootDirectoryID, NewDirectory())
	if err != nil {
		store.Unmount()
		return nil, err
	}
	return fs, nil
}

// Mount mounts the underlying store and verifies the root directory is intact.
func (fs *FileSystem) Mount() error {
	if fs.mounted {
		return blockfs.ErrAlreadyInProgress.WithMessage("file system is already mounted")
	}

	err := fs.store.Mount()
	if err != nil {
		return err
	}

	_, err = fs.readDirectory(c.RootDirectoryID)
	if err != nil {
		fs.store.Unmount()
		return blockfs.ErrFileSystemCorrupted.Wrap(
			fmt.Errorf("root directory is unreadable: %w", err))
	}

	fs.mounted = true
	return nil
}

// Unmount flushes and releases the store. Sessions on this file system can't
// be used afterwards.
func (fs *FileSystem) Unmount() error {
	if !fs.mounted {
		return blockfs.ErrNotMounted
	}
	fs.mounted = false
	return fs.store.Unmount()
}

// NewSession returns a session whose current directory is the root.
func (fs *FileSystem) NewSession() *Session {
	return &Session{
		fs:   fs,
		cwd:  c.RootDirectoryID,
		path: "/",
	}
}

// -----------------------------------------------------------------------------
// Block I/O

func (fs *FileSystem) readRaw(id c.BlockID) ([]byte, error) {
	buffer := make([]byte, c.BytesPerBlock)
	err := fs.store.ReadBlock(id, buffer)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

func (fs *FileSystem) readBlock(id c.BlockID) (Block, error) {
	raw, err := fs.readRaw(id)
	if err != nil {
		return nil, err
	}
	return DecodeBlock(id, raw)
}

func (fs *FileSystem) writeBlock(id c.BlockID, block Block) error {
	raw, err := block.Encode()
	if err != nil {
		return err
	}
	return fs.store.WriteBlock(id, raw)
}

// readDirectory reads block `id`, failing with [blockfs.ErrNotADirectory] if
// it's an inode.
func (fs *FileSystem) readDirectory(id c.BlockID) (*Directory, error) {
	block, err := fs.readBlock(id)
	if err != nil {
		return nil, err
	}

	switch typed := block.(type) {
	case *Directory:
		return typed, nil
	case *Inode:
		return nil, blockfs.ErrNotADirectory
	default:
		return nil, unexpectedBlock(id, block)
	}
}

// readInode reads block `id`, failing with [blockfs.ErrIsADirectory] if it's a
// directory.
func (fs *FileSystem) readInode(id c.BlockID) (*Inode, error) {
	block, err := fs.readBlock(id)
	if err != nil {
		return nil, err
	}

	switch typed := block.(type) {
	case *Inode:
		return typed, nil
	case *Directory:
		return nil, blockfs.ErrIsADirectory
	default:
		return nil, unexpectedBlock(id, block)
	}
}

func (fs *FileSystem) readSuperblock() (*Superblock, error) {
	raw, err := fs.readRaw(c.SuperblockID)
	if err != nil {
		return nil, err
	}
	return DecodeSuperblock(raw), nil
}

func unexpectedBlock(id c.BlockID, block Block) error {
	return blockfs.ErrFileSystemCorrupted.WithMessage(
		fmt.Sprintf("block %d is referenced as a file or directory but is a %T", id, block))
}

// allocate reserves `count` blocks. If the store runs out partway, every block
// reserved so far is given back and the allocation error is returned.
func (fs *FileSystem) allocate(count int) ([]c.BlockID, error) {
	blocks := make([]c.BlockID, 0, count)
	for i := 0; i < count; i++ {
		id, err := fs.store.AllocateBlock()
		if err != nil {
			return nil, fs.reclaimAfterFailure(err, blocks)
		}
		blocks = append(blocks, id)
	}
	return blocks, nil
}

// reclaimAfterFailure returns `blocks` to the store after `cause` aborted an
// operation. Blocks that can't be reclaimed are reported alongside the cause,
// which stays matchable with [errors.Is].
func (fs *FileSystem) reclaimAfterFailure(cause error, blocks []c.BlockID) error {
	var reclaimErrors *multierror.Error
	for _, id := range blocks {
		err := fs.store.ReclaimBlock(id)
		if err != nil {
			reclaimErrors = multierror.Append(
				reclaimErrors, fmt.Errorf("can't reclaim block %d: %w", id, err))
		}
	}

	if reclaimErrors == nil {
		return cause
	}
	return multierror.Append(cause, reclaimErrors.Errors...)
}
