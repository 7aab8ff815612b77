package compression_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	c "github.com/dargueta/blockfs/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCompression__RoundTrip(t *testing.T) {
	randomData := make([]byte, 119)
	rand.Read(randomData)

	emptyVolume := make([]byte, 128*1024)
	emptyVolume[0] = 0x03
	copy(emptyVolume[128:], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	tests := map[string][]byte{
		"homogenous":   bytes.Repeat([]byte{100}, 9174),
		"empty":        {},
		"heterogenous": randomData,
		"empty volume": emptyVolume,
	}

	for name, originalData := range tests {
		t.Run(name, func(t *testing.T) {
			compressed, err := c.CompressImageToBytes(bytes.NewReader(originalData))
			require.NoError(t, err, "error while compressing")
			t.Logf("image compressed %d -> %d", len(originalData), len(compressed))

			decompressed, err := c.DecompressImageToBytes(bytes.NewReader(compressed))
			require.NoError(t, err, "error while decompressing")
			assert.Equal(t, len(originalData), len(decompressed), "decompressed length is wrong")
			assert.True(t, bytes.Equal(originalData, decompressed), "decompressed data is wrong")
		})
	}
}

func TestImageCompression__EmptyVolumeIsTiny(t *testing.T) {
	compressed, err := c.CompressImageToBytes(bytes.NewReader(make([]byte, 128*1024)))
	require.NoError(t, err)
	assert.Less(t, len(compressed), 200)
}

func TestDecompressImage__NotGzip(t *testing.T) {
	var output bytes.Buffer
	_, err := c.DecompressImage(bytes.NewReader([]byte("plain text")), &output)
	assert.Error(t, err)
}
