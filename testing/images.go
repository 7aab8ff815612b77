package testing

import (
	"bytes"
	"testing"

	"github.com/dargueta/blockfs/file_systems/common"
	"github.com/dargueta/blockfs/file_systems/common/blockstore"
	"github.com/dargueta/blockfs/file_systems/tinyfs"
	"github.com/dargueta/blockfs/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// VolumeSize is the size of a complete disk image, in bytes.
const VolumeSize = common.BytesPerBlock * common.TotalBlocks

// NewMemoryStore creates a formatted, mounted block store backed entirely by
// memory. The store is unmounted when the test finishes.
func NewMemoryStore(t *testing.T) *blockstore.Device {
	image := make([]byte, VolumeSize)
	device := blockstore.New(bytesextra.NewReadWriteSeeker(image))
	require.NoError(t, device.Format(), "failed to format in-memory device")
	require.NoError(t, device.Mount(), "failed to mount in-memory device")

	t.Cleanup(func() { device.Unmount() })
	return device
}

// NewFileSystem creates a freshly formatted file system on an in-memory device
// and returns a session positioned at the root directory.
func NewFileSystem(t *testing.T) (*tinyfs.FileSystem, *tinyfs.Session) {
	image := make([]byte, VolumeSize)
	device := blockstore.New(bytesextra.NewReadWriteSeeker(image))

	fs, err := tinyfs.Format(device)
	require.NoError(t, err, "failed to format file system")
	t.Cleanup(func() { fs.Unmount() })
	return fs, fs.NewSession()
}

// LoadDiskImage takes a compressed disk image and returns a mountable device
// accessing the uncompressed data.
//
//   - Writes to the device do not affect `compressedImageBytes`.
//   - The uncompressed image must be exactly one volume in size.
func LoadDiskImage(t *testing.T, compressedImageBytes []byte) *blockstore.Device {
	require.Greater(t, len(compressedImageBytes), 0, "compressed image is empty")

	imageBytes, err := compression.DecompressImageToBytes(
		bytes.NewReader(compressedImageBytes))
	require.NoError(t, err)

	require.Equal(t, VolumeSize, len(imageBytes), "uncompressed image is wrong size")
	return blockstore.New(bytesextra.NewReadWriteSeeker(imageBytes))
}
