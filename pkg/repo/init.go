package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

// DefaultHead is the content of HEAD written at bootstrap.
const DefaultHead = "ref: refs/heads/main\n"

// ErrNotRepository is returned by Open when no .git directory is found.
var ErrNotRepository = errors.New("not a git repository (or any parent up to /)")

// Init creates the .git/ directory structure at path: objects/, refs/ and
// HEAD. Existing directories are left alone and HEAD is only written when
// absent, so re-running Init on a repository is harmless.
func Init(path string) (*Repo, error) {
	gitDir := filepath.Join(path, MetaDirName)

	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gitDir, "HEAD")
	if _, err := os.Stat(headPath); errors.Is(err, fs.ErrNotExist) {
		if err := renameio.WriteFile(headPath, []byte(DefaultHead), 0o644); err != nil {
			return nil, fmt.Errorf("init: write HEAD: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("init: stat HEAD: %w", err)
	}

	return newRepo(path, gitDir)
}

// Open searches upward from path for a .git/ directory and opens the
// repository.
func Open(path string) (*Repo, error) {
	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, MetaDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return newRepo(cur, gitDir)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotRepository)
		}
		cur = parent
	}
}
