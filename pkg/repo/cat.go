package repo

import (
	"fmt"

	"github.com/odvcencio/plumb/pkg/object"
)

// CatFile returns the payload of the object at h exactly as stored. The
// bytes are opaque: blobs may contain NULs and trees are binary.
func (r *Repo) CatFile(h object.Hash) ([]byte, error) {
	parsed, err := object.ParseHash(string(h))
	if err != nil {
		return nil, fmt.Errorf("cat-file: %w", err)
	}
	_, payload, err := r.Store.ReadObject(parsed)
	if err != nil {
		return nil, fmt.Errorf("cat-file: %w", err)
	}
	return payload, nil
}

// LsTree returns a single-pass scanner over the entries of tree h, in
// stored order. Framing errors surface through the scanner's Err once
// Scan returns false.
func (r *Repo) LsTree(h object.Hash) (*object.TreeScanner, error) {
	parsed, err := object.ParseHash(string(h))
	if err != nil {
		return nil, fmt.Errorf("ls-tree: %w", err)
	}
	objType, payload, err := r.Store.ReadObject(parsed)
	if err != nil {
		return nil, fmt.Errorf("ls-tree: %w", err)
	}
	if objType != object.TypeTree {
		return nil, fmt.Errorf("ls-tree: %s is a %s, not a tree: %w", parsed, objType, object.ErrFormat)
	}
	return object.NewTreeScanner(payload), nil
}

// LsTreeNames collects the entry names of tree h.
func (r *Repo) LsTreeNames(h object.Hash) ([]string, error) {
	sc, err := r.LsTree(h)
	if err != nil {
		return nil, err
	}
	var names []string
	for sc.Scan() {
		names = append(names, sc.Entry().Name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ls-tree %s: %w", h, err)
	}
	return names, nil
}
