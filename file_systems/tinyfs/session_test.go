package tinyfs_test

import (
	"fmt"
	"testing"

	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
	"github.com/dargueta/blockfs/file_systems/tinyfs"
	blockfstest "github.com/dargueta/blockfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listNames(t *testing.T, session *tinyfs.Session) []string {
	listing, err := session.List()
	require.NoError(t, err)

	names := make([]string, len(listing))
	for i, entry := range listing {
		names[i] = entry.String()
	}
	return names
}

func TestSession__MkdirCdPwd(t *testing.T) {
	_, session := blockfstest.NewFileSystem(t)
	assert.Equal(t, "/", session.Pwd())

	require.NoError(t, session.Mkdir("d"))
	require.NoError(t, session.Cd("d"))
	assert.Equal(t, "/d", session.Pwd())

	require.NoError(t, session.Mkdir("e"))
	require.NoError(t, session.Cd("e"))
	assert.Equal(t, "/d/e", session.Pwd())

	session.Home()
	assert.Equal(t, "/", session.Pwd())
	assert.Equal(t, c.RootDirectoryID, session.CurrentDirectory())
}

func TestSession__Cd__Errors(t *testing.T) {
	_, session := blockfstest.NewFileSystem(t)
	require.NoError(t, session.Create("f"))

	assert.ErrorIs(t, session.Cd("nope"), blockfs.ErrNotFound)
	assert.ErrorIs(t, session.Cd("f"), blockfs.ErrNotADirectory)
	assert.Equal(t, "/", session.Pwd(), "failed cd must not move the session")
}

func TestSession__Create__ThenResolve(t *testing.T) {
	_, session := blockfstest.NewFileSystem(t)
	require.NoError(t, session.Create("f"))

	slot, block, err := session.Resolve("f")
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	kind, err := session.Classify(block)
	require.NoError(t, err)
	assert.Equal(t, tinyfs.KindFile, kind)

	stat, err := session.Stat("f")
	require.NoError(t, err)
	assert.EqualValues(t, 0, stat.Size)
	assert.Equal(t, 0, stat.BlockCount)
	assert.Equal(t, c.NullBlock, stat.FirstBlock)
}

func TestSession__Create__Errors(t *testing.T) {
	_, session := blockfstest.NewFileSystem(t)

	assert.ErrorIs(t, session.Create("0123456789"), blockfs.ErrNameTooLong)
	assert.NoError(t, session.Create("012345678"), "nine characters fits")
	assert.ErrorIs(t, session.Create("012345678"), blockfs.ErrExists)
	assert.ErrorIs(t, session.Mkdir("012345678"), blockfs.ErrExists)

	assert.ErrorIs(t, session.Create(""), blockfs.ErrInvalidArgument)
	assert.ErrorIs(t, session.Create("a/b"), blockfs.ErrInvalidArgument)
	assert.ErrorIs(t, session.Mkdir("a\x00b"), blockfs.ErrInvalidArgument)
}

// Name length is checked before existence.
func TestSession__Create__NameTooLongWins(t *testing.T) {
	_, session := blockfstest.NewFileSystem(t)
	assert.ErrorIs(t, session.Mkdir("averylongname"), blockfs.ErrNameTooLong)
}

func TestSession__DirectoryFull(t *testing.T) {
	fs, session := blockfstest.NewFileSystem(t)

	for i := 0; i < tinyfs.MaxDirectoryEntries; i++ {
		require.NoError(t, session.Create(fmt.Sprintf("f%d", i)))
	}
	before, err := fs.DiskUsage()
	require.NoError(t, err)

	assert.ErrorIs(t, session.Create("extra"), blockfs.ErrDirectoryFull)
	assert.ErrorIs(t, session.Mkdir("extra"), blockfs.ErrDirectoryFull)
	// Existence is checked before capacity.
	assert.ErrorIs(t, session.Mkdir("f3"), blockfs.ErrExists)

	after, err := fs.DiskUsage()
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed creates must not allocate")
}

func TestSession__Rmdir(t *testing.T) {
	fs, session := blockfstest.NewFileSystem(t)
	before, err := fs.DiskUsage()
	require.NoError(t, err)

	require.NoError(t, session.Mkdir("d"))
	require.NoError(t, session.Cd("d"))
	require.NoError(t, session.Create("inner"))
	session.Home()

	assert.ErrorIs(t, session.Rmdir("d"), blockfs.ErrDirectoryNotEmpty)
	assert.ErrorIs(t, session.Rmdir("missing"), blockfs.ErrNotFound)

	require.NoError(t, session.Cd("d"))
	assert.ErrorIs(t, session.Rmdir("inner"), blockfs.ErrNotADirectory)
	require.NoError(t, session.Remove("inner"))
	session.Home()

	require.NoError(t, session.Rmdir("d"))
	_, _, err = session.Resolve("d")
	assert.ErrorIs(t, err, blockfs.ErrNotFound)

	after, err := fs.DiskUsage()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.NoError(t, fs.Check())
}

func TestSession__List__SlotOrder(t *testing.T) {
	_, session := blockfstest.NewFileSystem(t)

	require.NoError(t, session.Create("a"))
	require.NoError(t, session.Mkdir("b"))
	require.NoError(t, session.Create("c"))
	assert.Equal(t, []string{"a", "b/", "c"}, listNames(t, session))

	// Listing is stable when nothing changes.
	assert.Equal(t, listNames(t, session), listNames(t, session))

	// Removing "a" frees slot 0, which the next entry takes over.
	require.NoError(t, session.Remove("a"))
	assert.Equal(t, []string{"b/", "c"}, listNames(t, session))
	require.NoError(t, session.Create("z"))
	assert.Equal(t, []string{"z", "b/", "c"}, listNames(t, session))
}

func TestSession__Move(t *testing.T) {
	fs, session := blockfstest.NewFileSystem(t)
	require.NoError(t, session.Create("a"))
	require.NoError(t, session.Append("a", []byte("payload")))
	require.NoError(t, session.Mkdir("d"))
	require.NoError(t, session.Create("taken"))

	_, originalBlock, err := session.Resolve("a")
	require.NoError(t, err)
	before, err := fs.DiskUsage()
	require.NoError(t, err)

	require.NoError(t, session.Move("a", "b"))
	slot, block, err := session.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, 0, slot, "rename must keep the slot")
	assert.Equal(t, originalBlock, block, "rename must keep the inode")

	contents, err := session.Cat("b")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), contents)

	after, err := fs.DiskUsage()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Directories can be renamed too.
	require.NoError(t, session.Move("d", "e"))
	require.NoError(t, session.Cd("e"))
	assert.Equal(t, "/e", session.Pwd())
	session.Home()

	assert.ErrorIs(t, session.Move("missing", "x"), blockfs.ErrNotFound)
	assert.ErrorIs(t, session.Move("b", "taken"), blockfs.ErrExists)
	assert.ErrorIs(t, session.Move("b", "waytoolongname"), blockfs.ErrNameTooLong)
}

// Two sessions on the same file system navigate independently.
func TestSession__Independent(t *testing.T) {
	fs, first := blockfstest.NewFileSystem(t)
	second := fs.NewSession()

	require.NoError(t, first.Mkdir("d"))
	require.NoError(t, first.Cd("d"))
	require.NoError(t, first.Create("f"))

	assert.Equal(t, "/", second.Pwd())
	assert.Equal(t, []string{"d/"}, listNames(t, second))
	require.NoError(t, second.Cd("d"))
	assert.Equal(t, []string{"f"}, listNames(t, second))
}

func TestFileSystem__Remount(t *testing.T) {
	device := blockfstest.NewMemoryStore(t)
	require.NoError(t, device.Unmount())

	fs, err := tinyfs.Format(device)
	require.NoError(t, err)
	session := fs.NewSession()
	require.NoError(t, session.Mkdir("keep"))
	require.NoError(t, fs.Unmount())

	assert.ErrorIs(t, fs.Unmount(), blockfs.ErrNotMounted)

	remounted := tinyfs.New(device)
	require.NoError(t, remounted.Mount())
	assert.ErrorIs(t, remounted.Mount(), blockfs.ErrAlreadyInProgress)
	assert.Equal(t, []string{"keep/"}, listNames(t, remounted.NewSession()))
}
