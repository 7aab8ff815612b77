/*
Package tinyfs implements a small hierarchical file system on a fixed-geometry
volume of 1024 blocks of 128 bytes each.

Block 0 is the superblock, which holds nothing but the allocation bitmap. Block 1
is the root directory. Every other block in use is a directory, an inode, or a
data block, and is reachable by following directory entries from the root.
Directories and inodes are told apart by a 32-bit magic number at the start of
the block; data blocks are raw bytes.

A directory holds up to ten named entries in fixed slots. Removing an entry
clears its slot in place, so listing order is physical slot order and can change
when a removed slot is reused. An inode lists up to sixty data blocks, packed to
the left with no gaps, which caps files at 7680 bytes.

There is no journal. Operations check every precondition they can before
writing anything, and order their writes so that an interrupted operation never
leaves a directory entry pointing at a reclaimed block. Appends and copies
reserve all the blocks they need up front and give them back if they can't get
them all.

All names are relative to the current directory of a [Session]; there are no
multi-component paths.
*/

package tinyfs
