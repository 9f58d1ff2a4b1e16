package output

import (
	"fmt"
	"path/filepath"

	"github.com/disiqueira/gotree/v3"

	"tardis-go/internal/tardis"
)

// VisualFileTree renders relative file paths as a directory tree.
type VisualFileTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func NewVisualFileTree(rootLabel string) VisualFileTree {
	return VisualFileTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t VisualFileTree) getDir(dirPath string) gotree.Tree {
	if dirPath == "." {
		return t.tree
	}
	dir := t.dirs[dirPath]
	if dir == nil {
		parent := t.getDir(filepath.Dir(dirPath))
		dir = parent.Add(filepath.Base(dirPath))
		t.dirs[dirPath] = dir
	}
	return dir
}

// InsertPath adds a file node labelled with its base name and suffix.
func (t VisualFileTree) InsertPath(filePath string, nodeSuffix string) {
	dir := t.getDir(filepath.Dir(filePath))
	dir.Add(filepath.Base(filePath) + nodeSuffix)
}

func (t VisualFileTree) Render() string {
	return t.tree.Print()
}

// ListingTree builds the tree of a listing with backup counts on each file.
func ListingTree(rootLabel string, entries []*tardis.ListEntry) VisualFileTree {
	tree := NewVisualFileTree(rootLabel)
	for _, e := range entries {
		tree.InsertPath(e.RelativePath, fmt.Sprintf(" (%d backups)", e.Count()))
	}
	return tree
}
