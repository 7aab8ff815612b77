package tinyfs

import (
	"fmt"

	"github.com/dargueta/blockfs"
	c "github.com/dargueta/blockfs/file_systems/common"
)

// WalkFunc is called by [Session.Walk] once per entry. Returning an error stops
// the walk, and the error is passed through to the caller of Walk.
type WalkFunc func(path string, stat EntryStat) error

// visitedSet remembers which directories a traversal has entered. The
// directory graph is a tree, so entering one twice means the volume is
// damaged.
type visitedSet map[c.BlockID]struct{}

func (visited visitedSet) enter(id c.BlockID) error {
	if _, seen := visited[id]; seen {
		return blockfs.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("directory %d is reachable by more than one path", id))
	}
	visited[id] = struct{}{}
	return nil
}

// Walk visits every entry below the current directory, depth first, in slot
// order. Each directory is reported before its contents.
func (s *Session) Walk(fn WalkFunc) error {
	visited := visitedSet{}
	err := visited.enter(s.cwd)
	if err != nil {
		return err
	}
	return s.fs.walk(s.cwd, s.path, visited, fn)
}

func (fs *FileSystem) walk(dirID c.BlockID, path string, visited visitedSet, fn WalkFunc) error {
	dir, err := fs.readDirectory(dirID)
	if err != nil {
		return err
	}

	for _, slot := range dir.Occupied() {
		stat, err := fs.statEntry(slot.DirectoryEntry)
		if err != nil {
			return err
		}

		entryPath := childPath(path, slot.Name)
		err = fn(entryPath, stat)
		if err != nil {
			return err
		}

		if stat.Kind == KindDirectory {
			err = visited.enter(slot.Block)
			if err != nil {
				return err
			}
			err = fs.walk(slot.Block, entryPath, visited, fn)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns the absolute paths of every entry named exactly `name` in the
// current directory or anywhere below it.
func (s *Session) Find(name string) ([]string, error) {
	matches := []string{}
	err := s.Walk(func(path string, stat EntryStat) error {
		if stat.Name == name {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

const (
	treeBranch     = "├── "
	treeLastBranch = "└── "
	treeIndent     = "│   "
	treeLastIndent = "    "
)

// Tree renders the current directory and everything below it, one entry per
// line. The first line is the path of the current directory.
func (s *Session) Tree() ([]string, error) {
	lines := []string{s.path}
	visited := visitedSet{}
	err := visited.enter(s.cwd)
	if err != nil {
		return nil, err
	}

	err = s.fs.renderTree(s.cwd, "", visited, &lines)
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (fs *FileSystem) renderTree(
	dirID c.BlockID, prefix string, visited visitedSet, lines *[]string,
) error {
	dir, err := fs.readDirectory(dirID)
	if err != nil {
		return err
	}

	entries, err := fs.listDirectory(dir)
	if err != nil {
		return err
	}

	for i, entry := range entries {
		isLast := i == len(entries)-1
		connector, indent := treeBranch, treeIndent
		if isLast {
			connector, indent = treeLastBranch, treeLastIndent
		}

		*lines = append(*lines, prefix+connector+entry.String())
		if !entry.IsDir() {
			continue
		}

		err = visited.enter(entry.Block)
		if err != nil {
			return err
		}
		err = fs.renderTree(entry.Block, prefix+indent, visited, lines)
		if err != nil {
			return err
		}
	}
	return nil
}
