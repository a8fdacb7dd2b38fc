package repo

import (
	"io"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/sirupsen/logrus"
)

// MetaDirName is the repository metadata directory. TreeBuilder never
// descends into it.
const MetaDirName = ".git"

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store

	// MaxTreeDepth limits directory nesting in WriteTree. Zero means
	// DefaultMaxTreeDepth.
	MaxTreeDepth int

	// Log receives debug events from tree and commit building. It
	// discards everything unless the caller replaces it.
	Log logrus.FieldLogger
}

// objectCacheSize is how many decompressed objects an opened repository
// keeps in memory.
const objectCacheSize = 512

func newRepo(root, gitDir string) (*Repo, error) {
	store, err := object.NewCachedStore(gitDir, objectCacheSize)
	if err != nil {
		return nil, err
	}
	return &Repo{
		RootDir: root,
		GitDir:  gitDir,
		Store:   store,
		Log:     discardLogger(),
	}, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (r *Repo) logger() logrus.FieldLogger {
	if r.Log == nil {
		return discardLogger()
	}
	return r.Log
}
