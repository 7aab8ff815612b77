package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxRunPerTriple is the longest run a single (B, B, count) triple encodes.
const maxRunPerTriple = 257

// CompressRLE8 run-length encodes `input` into `output` until the input is
// exhausted. The return value is the number of bytes written, only valid if no
// error occurred.
func CompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	grouper := NewRLEGrouper(input)
	totalBytesWritten := int64(0)

	write := func(chunk []byte) error {
		n, err := output.Write(chunk)
		totalBytesWritten += int64(n)
		return err
	}

	for {
		run, err := grouper.GetNextRun()
		if errors.Is(err, io.EOF) {
			return totalBytesWritten, nil
		} else if err != nil {
			return totalBytesWritten, err
		}

		for run.RunLength >= 2 {
			chunk := run.RunLength
			if chunk > maxRunPerTriple {
				chunk = maxRunPerTriple
			}

			err = write([]byte{run.Byte, run.Byte, byte(chunk - 2)})
			if err != nil {
				return totalBytesWritten, err
			}
			run.RunLength -= chunk
		}

		// A single byte left over, either on its own or after a long run.
		if run.RunLength == 1 {
			err = write([]byte{run.Byte})
			if err != nil {
				return totalBytesWritten, err
			}
		}
	}
}

// DecompressRLE8 reverses [CompressRLE8]. The return value is the number of
// bytes written to `output`.
func DecompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	previousByte := -1
	totalBytesWritten := int64(0)

	for {
		currentByte, err := source.ReadByte()
		if errors.Is(err, io.EOF) {
			return totalBytesWritten, nil
		} else if err != nil {
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		var decoded []byte
		if int(currentByte) == previousByte {
			// Second byte of a pair, so a repeat count follows.
			repeatCount, err := source.ReadByte()
			if errors.Is(err, io.EOF) {
				return totalBytesWritten, fmt.Errorf(
					"%w: missing repeat count after two 0x%02x bytes",
					io.ErrUnexpectedEOF,
					currentByte,
				)
			} else if err != nil {
				return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
			}

			// The first byte of the pair was already written on the previous
			// iteration.
			decoded = bytes.Repeat([]byte{currentByte}, int(repeatCount)+1)

			// The triple is complete. Without this, the first byte of a run
			// continuing past 257 would be mistaken for another pair.
			previousByte = -1
		} else {
			previousByte = int(currentByte)
			decoded = []byte{currentByte}
		}

		n, err := output.Write(decoded)
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
