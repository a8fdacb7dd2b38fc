package repo

import (
	"io/fs"

	"github.com/odvcencio/plumb/pkg/object"
)

// modeFromFileInfo maps a regular file's permission bits to a tree mode:
// any execute bit makes it executable.
func modeFromFileInfo(info fs.FileInfo) string {
	if info.Mode()&0o111 != 0 {
		return object.TreeModeExecutable
	}
	return object.TreeModeFile
}
