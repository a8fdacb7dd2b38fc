package object

import (
	"fmt"
	"sort"
)

// ReachableSet returns every object hash reachable from roots by following
// commit tree/parent links and tree entries. A missing object is a
// dangling reference and fails the walk with ErrNotFound.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]struct{}, error) {
	roots = uniqueHashes(roots)
	out := make(map[Hash]struct{}, len(roots))

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := out[h]; ok {
			continue
		}

		objType, data, err := s.ReadObject(h)
		if err != nil {
			return nil, fmt.Errorf("reachable set: %w", err)
		}
		out[h] = struct{}{}

		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}

	return out, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	switch objType {
	case TypeBlob:
		return nil, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(data)
		if err != nil {
			return nil, err
		}
		refs := []Hash{commit.TreeHash}
		if commit.Parent != "" {
			refs = append(refs, commit.Parent)
		}
		return refs, nil
	case TypeTree:
		var refs []Hash
		sc := NewTreeScanner(data)
		for sc.Scan() {
			refs = append(refs, sc.Entry().Hash)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return refs, nil
	default:
		return nil, formatErrorf("reachable set", "", "unsupported object type %q", objType)
	}
}

func uniqueHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
