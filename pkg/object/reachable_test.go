package object

import (
	"errors"
	"testing"
)

func TestReachableSetFollowsCommitAndTrees(t *testing.T) {
	s := tempStore(t)
	bh, err := s.WriteBlob(&Blob{Data: []byte("a\n")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	sub, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Mode: TreeModeFile, Name: "a.txt", Hash: bh}}})
	if err != nil {
		t.Fatalf("WriteTree(sub): %v", err)
	}
	root, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "a.txt", Hash: bh},
		{Mode: TreeModeDir, Name: "sub", Hash: sub},
	}})
	if err != nil {
		t.Fatalf("WriteTree(root): %v", err)
	}
	id := Identity{Name: "R", Email: "r@example.com", Timezone: "+0000"}
	ch, err := s.WriteCommit(&CommitObj{TreeHash: root, Author: id, Committer: id, Message: "m"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	set, err := s.ReachableSet([]Hash{ch, ch})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	for _, h := range []Hash{ch, root, sub, bh} {
		if _, ok := set[h]; !ok {
			t.Errorf("ReachableSet missing %s", h)
		}
	}
	if len(set) != 4 {
		t.Errorf("ReachableSet size = %d, want 4", len(set))
	}
}

func TestReachableSetReportsDanglingReference(t *testing.T) {
	s := tempStore(t)
	root, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Mode: TreeModeFile, Name: "gone", Hash: blobB}}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if _, err := s.ReachableSet([]Hash{root}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReachableSet error = %v, want ErrNotFound", err)
	}
}
