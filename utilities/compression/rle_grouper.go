package compression

import (
	"bufio"
	"io"
)

// ByteRun represents a single run of a particular byte value.
type ByteRun struct {
	// Byte is the byte value for this run.
	Byte byte
	// RunLength is the number of times the byte occurs in the run. A value less
	// than 1 means the run is invalid, i.e. the end of the input was reached or
	// an error occurred.
	RunLength int
}

// InvalidRLERun is returned by [RLEGrouper.GetNextRun] when no run could be
// read.
var InvalidRLERun = ByteRun{Byte: 0, RunLength: 0}

// RLEGrouper splits a byte stream into runs of identical bytes.
type RLEGrouper struct {
	rd *bufio.Reader
}

func NewRLEGrouper(rd io.Reader) RLEGrouper {
	return RLEGrouper{rd: bufio.NewReader(rd)}
}

// GetNextRun returns the next run of identical bytes in the stream. At the
// end of the stream it returns [InvalidRLERun] and [io.EOF].
func (grouper RLEGrouper) GetNextRun() (ByteRun, error) {
	firstByte, err := grouper.rd.ReadByte()
	if err != nil {
		return InvalidRLERun, err
	}

	runLength := 1
	for {
		currentByte, err := grouper.rd.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return InvalidRLERun, err
		}

		if currentByte != firstByte {
			// This belongs to the next run; put it back.
			grouper.rd.UnreadByte()
			break
		}
		runLength++
	}
	return ByteRun{Byte: firstByte, RunLength: runLength}, nil
}
