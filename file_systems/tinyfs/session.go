package tinyfs

import (
	"fmt"
	"strings"

	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
)

// Kind says whether a directory entry is a directory or a file.
type Kind int

const (
	KindDirectory Kind = iota + 1
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Session is a view of a [FileSystem] from a current directory. All names
// passed to a session's methods are looked up in its current directory.
//
// Sessions are independent of each other, but nothing stops two sessions from
// modifying the same directory, and neither is safe for concurrent use.
type Session struct {
	fs   *FileSystem
	cwd  c.BlockID
	path string
}

// FileSystem returns the file system this session operates on.
func (s *Session) FileSystem() *FileSystem {
	return s.fs
}

// CurrentDirectory returns the block of the current directory.
func (s *Session) CurrentDirectory() c.BlockID {
	return s.cwd
}

// Pwd returns the absolute path of the current directory.
func (s *Session) Pwd() string {
	return s.path
}

// childPath joins `name` onto `parent` without doubling the root's slash.
func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// validateName checks that `name` can be stored in a directory entry.
func validateName(name string) error {
	if len(name) > MaxNameLength {
		return blockfs.ErrNameTooLong
	}
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return blockfs.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("%q is not a valid file name", name))
	}
	return nil
}

func (s *Session) currentDirectory() (*Directory, error) {
	dir, err := s.fs.readDirectory(s.cwd)
	if err != nil {
		return nil, blockfs.ErrFileSystemCorrupted.Wrap(
			fmt.Errorf("current directory %d is unreadable: %w", s.cwd, err))
	}
	return dir, nil
}

// Resolve finds `name` in the current directory and returns its slot index and
// the block it points to.
func (s *Session) Resolve(name string) (int, c.BlockID, error) {
	dir, err := s.currentDirectory()
	if err != nil {
		return -1, c.NullBlock, err
	}

	slot, ok := dir.Lookup(name)
	if !ok {
		return -1, c.NullBlock, blockfs.ErrNotFound
	}
	return slot.Index, slot.Block, nil
}

// Classify reads block `id` and reports what kind of entry it is.
func (s *Session) Classify(id c.BlockID) (Kind, error) {
	return s.fs.classify(id)
}

func (fs *FileSystem) classify(id c.BlockID) (Kind, error) {
	block, err := fs.readBlock(id)
	if err != nil {
		return 0, err
	}

	switch block.(type) {
	case *Directory:
		return KindDirectory, nil
	case *Inode:
		return KindFile, nil
	default:
		return 0, unexpectedBlock(id, block)
	}
}

// lookup is Resolve, but also returns the decoded current directory so the
// caller can modify and persist it.
func (s *Session) lookup(name string) (*Directory, Slot, error) {
	dir, err := s.currentDirectory()
	if err != nil {
		return nil, Slot{}, err
	}

	slot, ok := dir.Lookup(name)
	if !ok {
		return dir, Slot{}, blockfs.ErrNotFound
	}
	return dir, slot, nil
}

// -----------------------------------------------------------------------------
// Navigation

// Cd makes the subdirectory `name` the current directory.
func (s *Session) Cd(name string) error {
	_, slot, err := s.lookup(name)
	if err != nil {
		return err
	}

	_, err = s.fs.readDirectory(slot.Block)
	if err != nil {
		return err
	}

	s.cwd = slot.Block
	s.path = childPath(s.path, name)
	return nil
}

// Home makes the root the current directory.
func (s *Session) Home() {
	s.cwd = c.RootDirectoryID
	s.path = "/"
}

// -----------------------------------------------------------------------------
// Entry creation

// createEntry allocates a block for `initial` and links it into the current
// directory as `name`. The new block is written before the directory, so the
// entry never points at uninitialized data.
func (s *Session) createEntry(name string, initial Block) error {
	err := validateName(name)
	if err != nil {
		return err
	}

	dir, _, err := s.lookup(name)
	if err == nil {
		return blockfs.ErrExists
	} else if dir == nil {
		return err
	}

	slotIndex, ok := dir.FirstFree()
	if !ok {
		return blockfs.ErrDirectoryFull
	}

	reserved, err := s.fs.allocate(1)
	if err != nil {
		return err
	}
	id := reserved[0]

	err = s.fs.writeBlock(id, initial)
	if err != nil {
		return s.fs.reclaimAfterFailure(err, reserved)
	}

	dir.Put(slotIndex, name, id)
	err = s.fs.writeBlock(s.cwd, dir)
	if err != nil {
		return s.fs.reclaimAfterFailure(err, reserved)
	}
	return nil
}

// Mkdir creates an empty subdirectory.
func (s *Session) Mkdir(name string) error {
	return s.createEntry(name, NewDirectory())
}

// Create creates an empty file.
func (s *Session) Create(name string) error {
	return s.createEntry(name, NewInode())
}

// Rmdir removes the empty subdirectory `name`.
func (s *Session) Rmdir(name string) error {
	dir, slot, err := s.lookup(name)
	if err != nil {
		return err
	}

	target, err := s.fs.readDirectory(slot.Block)
	if err != nil {
		return err
	}
	if target.Count() > 0 {
		return blockfs.ErrDirectoryNotEmpty
	}

	err = s.fs.store.ReclaimBlock(slot.Block)
	if err != nil {
		return err
	}

	dir.Clear(slot.Index)
	return s.fs.writeBlock(s.cwd, dir)
}

// Listing is one line of a directory listing.
type Listing struct {
	Name  string
	Kind  Kind
	Block c.BlockID
}

// IsDir reports whether the entry is a directory.
func (l Listing) IsDir() bool {
	return l.Kind == KindDirectory
}

// String gives the entry's name, with a trailing slash for directories.
func (l Listing) String() string {
	if l.IsDir() {
		return l.Name + "/"
	}
	return l.Name
}

// List returns the entries of the current directory in slot order.
func (s *Session) List() ([]Listing, error) {
	dir, err := s.currentDirectory()
	if err != nil {
		return nil, err
	}
	return s.fs.listDirectory(dir)
}

func (fs *FileSystem) listDirectory(dir *Directory) ([]Listing, error) {
	slots := dir.Occupied()
	listing := make([]Listing, 0, len(slots))
	for _, slot := range slots {
		kind, err := fs.classify(slot.Block)
		if err != nil {
			return nil, err
		}
		listing = append(
			listing, Listing{Name: slot.Name, Kind: kind, Block: slot.Block})
	}
	return listing, nil
}
