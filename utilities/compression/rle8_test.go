package compression_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	c "github.com/dargueta/blockfs/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRLE8__Basic(t *testing.T) {
	tests := []struct {
		Name     string
		Input    []byte
		Expected []byte
	}{
		{"empty", []byte{}, []byte{}},
		{"run with two only", []byte{4, 4}, []byte{4, 4, 0}},
		{"no runs", []byte{0, 1, 2, 3, 4}, []byte{0, 1, 2, 3, 4}},
		{"two at end", []byte{6, 1, 3, 0, 0}, []byte{6, 1, 3, 0, 0, 0}},
		{"three at end", []byte{6, 1, 0, 0, 0}, []byte{6, 1, 0, 0, 1}},
		{"short run", []byte{9, 5, 5, 5, 5, 5, 3, 7}, []byte{9, 5, 5, 3, 3, 7}},
		{
			"adjacent runs",
			[]byte{9, 5, 5, 5, 5, 5, 5, 3, 3, 3, 3, 7, 2, 6},
			[]byte{9, 5, 5, 4, 3, 3, 2, 7, 2, 6},
		},
		{
			"one block of zeroes",
			make([]byte, 128),
			[]byte{0, 0, 126},
		},
		{
			"single long run",
			bytes.Repeat([]byte{5}, 1024),
			[]byte{5, 5, 255, 5, 5, 255, 5, 5, 255, 5, 5, 251},
		},
		{"257", bytes.Repeat([]byte{8}, 257), []byte{8, 8, 255}},
		{"258", bytes.Repeat([]byte{8}, 258), []byte{8, 8, 255, 8}},
		{"259", bytes.Repeat([]byte{8}, 259), []byte{8, 8, 255, 8, 8, 0}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			output := make([]byte, len(test.Expected)*2)
			n, err := c.CompressRLE8(bytes.NewReader(test.Input), bytewriter.New(output))
			require.NoError(t, err)
			assert.EqualValues(t, len(test.Expected), n, "bytes written is wrong")
			assert.Equal(t, test.Expected, output[:n])
		})
	}
}

func TestRLE8RoundTrip(t *testing.T) {
	randomData := make([]byte, 1852)
	rand.Read(randomData)

	tests := map[string][]byte{
		"random":        randomData,
		"all nulls":     make([]byte, 571),
		"non-null run":  bytes.Repeat([]byte{182}, 934),
		"empty":         {},
		"mixed lengths": append(bytes.Repeat([]byte{1}, 258), bytes.Repeat([]byte{2}, 2)...),
	}

	for name, originalData := range tests {
		t.Run(name, func(t *testing.T) {
			// Sufficiently random data "compresses" to something larger than
			// the input.
			compressed := make([]byte, len(originalData)*2)
			n, err := c.CompressRLE8(bytes.NewReader(originalData), bytewriter.New(compressed))
			require.NoError(t, err, "compression failed")

			output := make([]byte, len(originalData))
			written, err := c.DecompressRLE8(
				bytes.NewReader(compressed[:n]), bytewriter.New(output))
			require.NoError(t, err, "decompression failed")

			assert.EqualValues(t, len(originalData), written)
			assert.Equal(t, originalData, output)
		})
	}
}

func TestDecompressRLE8__MissingRepeatCount(t *testing.T) {
	data := []byte{9, 1, 4, 4}
	output := make([]byte, 16)

	_, err := c.DecompressRLE8(bytes.NewReader(data), bytewriter.New(output))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
