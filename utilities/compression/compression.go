package compression

import (
	"bytes"
	"compress/gzip"
	"io"
)

// CompressImage compresses a volume image using RLE8 and gzip.
//
// The returned int64 gives the number of uncompressed RLE8 bytes fed to gzip,
// not the size of the final output.
func CompressImage(input io.Reader, output io.Writer) (int64, error) {
	gzWriter, err := gzip.NewWriterLevel(output, gzip.BestCompression)
	if err != nil {
		return 0, err
	}

	n, err := CompressRLE8(input, gzWriter)
	if err != nil {
		gzWriter.Close()
		return n, err
	}
	// Close writes the gzip footer, so its error matters.
	return n, gzWriter.Close()
}

// CompressImageToBytes is [CompressImage] returning the compressed image in a
// new byte slice.
func CompressImageToBytes(input io.Reader) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := CompressImage(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DecompressImage takes a gzipped, RLE8-encoded image and writes the original
// raw bytes to `output`.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size of the image).
func DecompressImage(input io.Reader, output io.Writer) (int64, error) {
	gzReader, err := gzip.NewReader(input)
	if err != nil {
		return 0, err
	}
	defer gzReader.Close()
	return DecompressRLE8(gzReader, output)
}

// DecompressImageToBytes is [DecompressImage] returning the raw image in a new
// byte slice.
func DecompressImageToBytes(input io.Reader) ([]byte, error) {
	buffer := bytes.Buffer{}
	_, err := DecompressImage(input, &buffer)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
