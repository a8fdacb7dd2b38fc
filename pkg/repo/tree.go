package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/sirupsen/logrus"
)

// DefaultMaxTreeDepth bounds how many directory levels WriteTree descends
// below its starting directory when Repo.MaxTreeDepth is unset.
const DefaultMaxTreeDepth = 512

var (
	// ErrUnsupportedEntry is returned for symlinks, sockets, devices and
	// other entries that are neither regular files nor directories.
	ErrUnsupportedEntry = errors.New("unsupported directory entry")
	// ErrTreeTooDeep is returned when directory nesting exceeds the
	// configured depth limit.
	ErrTreeTooDeep = errors.New("directory nesting exceeds depth limit")
)

// dirFrame is one directory on WriteTree's explicit stack.
type dirFrame struct {
	path     string
	name     string // entry name inside the parent; empty for the root
	depth    int
	children []os.DirEntry
	next     int
	entries  []object.TreeEntry
}

func (r *Repo) maxTreeDepth() int {
	if r.MaxTreeDepth > 0 {
		return r.MaxTreeDepth
	}
	return DefaultMaxTreeDepth
}

// WriteTree snapshots dir into the object store and returns the root tree
// hash.
//
// Regular files become blobs (mode 100755 when any execute bit is set,
// 100644 otherwise), subdirectories become trees, and the metadata
// directory is skipped wherever it appears. A subdirectory whose tree is
// empty is left out of its parent, so empty directories leave no trace.
//
// The walk is post-order over an explicit stack: every child object is
// persisted before the tree that references it. The first error aborts the
// whole build.
func (r *Repo) WriteTree(dir string) (object.Hash, error) {
	root, err := r.openDirFrame(dir, "", 0)
	if err != nil {
		return "", fmt.Errorf("write tree: %w", err)
	}
	maxDepth := r.maxTreeDepth()
	log := r.logger()

	stack := []*dirFrame{root}
	for {
		top := stack[len(stack)-1]

		if top.next < len(top.children) {
			de := top.children[top.next]
			top.next++

			childPath := filepath.Join(top.path, de.Name())
			switch typ := de.Type(); {
			case typ.IsRegular():
				entry, err := r.writeFileEntry(childPath, de)
				if err != nil {
					return "", fmt.Errorf("write tree: %w", err)
				}
				top.entries = append(top.entries, entry)
			case typ.IsDir():
				if top.depth+1 > maxDepth {
					return "", fmt.Errorf("write tree %s: %w (%d)", childPath, ErrTreeTooDeep, maxDepth)
				}
				child, err := r.openDirFrame(childPath, de.Name(), top.depth+1)
				if err != nil {
					return "", fmt.Errorf("write tree: %w", err)
				}
				stack = append(stack, child)
			default:
				return "", fmt.Errorf("write tree %s: %w (%s)", childPath, ErrUnsupportedEntry, typ)
			}
			continue
		}

		// Every child of top is stored; persist top itself.
		h, err := r.Store.WriteTree(&object.TreeObj{Entries: top.entries})
		if err != nil {
			return "", fmt.Errorf("write tree %s: %w", top.path, err)
		}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			log.WithFields(logrus.Fields{"path": top.path, "hash": h}).Debug("wrote root tree")
			return h, nil
		}

		if h == object.EmptyTreeHash {
			log.WithField("path", top.path).Debug("pruned empty directory")
			continue
		}
		log.WithFields(logrus.Fields{"path": top.path, "hash": h, "entries": len(top.entries)}).Debug("wrote tree")
		parent := stack[len(stack)-1]
		parent.entries = append(parent.entries, object.TreeEntry{
			Mode: object.TreeModeDir,
			Name: top.name,
			Hash: h,
		})
	}
}

func (r *Repo) openDirFrame(path, name string, depth int) (*dirFrame, error) {
	all, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	children := all[:0]
	for _, de := range all {
		if de.Name() == MetaDirName {
			continue
		}
		children = append(children, de)
	}
	return &dirFrame{path: path, name: name, depth: depth, children: children}, nil
}

func (r *Repo) writeFileEntry(path string, de os.DirEntry) (object.TreeEntry, error) {
	info, err := de.Info()
	if err != nil {
		return object.TreeEntry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	h, err := r.HashFile(path, true)
	if err != nil {
		return object.TreeEntry{}, err
	}
	return object.TreeEntry{
		Mode: modeFromFileInfo(info),
		Name: de.Name(),
		Hash: h,
	}, nil
}

// HashFile computes the blob hash of the file at path and, when write is
// true, stores the blob.
func (r *Repo) HashFile(path string, write bool) (object.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	if !write {
		return object.HashObject(object.TypeBlob, data), nil
	}
	h, err := r.Store.WriteBlob(&object.Blob{Data: data})
	if err != nil {
		return "", fmt.Errorf("hash file %s: %w", path, err)
	}
	r.logger().WithFields(logrus.Fields{"path": path, "hash": h}).Debug("wrote blob")
	return h, nil
}
