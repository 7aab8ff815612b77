// Package compression shrinks volume images for export and for storage as test
// fixtures.
//
// A volume is 1024 blocks of 128 bytes, and a freshly formatted one is almost
// entirely NUL bytes: apart from the two reserved bits in the superblock and
// the root directory's magic number, all 131,072 bytes are zero. Even a busy
// volume tends to be dominated by zero-padded tails of data blocks and unused
// directory slots.
//
// Images are run-length encoded first and the result is then gzipped. The
// run-length encoding is RLE8, the scheme used by the BMP file format: a byte
// B that occurs N >= 2 times in a row is written twice, followed by one
// unsigned byte giving the number of additional occurrences (N - 2). For
// example:
//
//	WXXXXXXXXXXXXXXXYZZ
//	W XX 13 Y ZZ 0
//
// A single triple covers at most 257 bytes; longer runs are split, so 300 "X"
// becomes `XX 255 XX 41`. A byte occurring exactly twice costs three bytes,
// since the count has to follow.
//
// RLE8 alone takes an empty volume down to a few kilobytes, and gzip removes
// nearly all of what's left, because the RLE output is itself highly
// repetitive.

package compression
