package object

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	blobA Hash = "78981922613b2afb6025042ff6bd878ac1994e85" // "a\n"
	blobB Hash = "61780798228d17af2d34fce4cfbdf35556832472" // "b\n"
)

func TestMarshalBlobCopies(t *testing.T) {
	orig := &Blob{Data: []byte("hello world\x00line two")}
	data := MarshalBlob(orig)
	if !bytes.Equal(data, orig.Data) {
		t.Fatalf("MarshalBlob: got %q, want %q", data, orig.Data)
	}
	data[0] = 'X'
	if orig.Data[0] != 'h' {
		t.Error("MarshalBlob aliases the blob data")
	}
}

func TestMarshalTreeGitCompatible(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "b.txt", Hash: blobB},
		{Mode: TreeModeFile, Name: "a.txt", Hash: blobA},
	}}
	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	rawA, _ := blobA.Raw()
	rawB, _ := blobB.Raw()
	var want []byte
	want = append(want, "100644 a.txt\x00"...)
	want = append(want, rawA...)
	want = append(want, "100644 b.txt\x00"...)
	want = append(want, rawB...)
	if !bytes.Equal(data, want) {
		t.Fatalf("MarshalTree: got %q, want %q", data, want)
	}
	// Matches `git write-tree` for the same two files.
	if got := HashObject(TypeTree, data); got != "f4b354863caa9cea99b95422c9dab70465757d87" {
		t.Errorf("tree hash: got %q", got)
	}
}

func TestMarshalTreeEmpty(t *testing.T) {
	data, err := MarshalTree(&TreeObj{})
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("empty tree payload: got %d bytes, want 0", len(data))
	}
	if got := HashObject(TypeTree, data); got != EmptyTreeHash {
		t.Errorf("empty tree hash: got %q, want %q", got, EmptyTreeHash)
	}
}

func TestMarshalTreeDeterminism(t *testing.T) {
	forward := &TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "a.txt", Hash: blobA},
		{Mode: TreeModeDir, Name: "sub", Hash: EmptyTreeHash},
		{Mode: TreeModeExecutable, Name: "run.sh", Hash: blobB},
	}}
	reversed := &TreeObj{Entries: []TreeEntry{
		forward.Entries[2], forward.Entries[1], forward.Entries[0],
	}}
	d1, err := MarshalTree(forward)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	d2, err := MarshalTree(reversed)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	if !bytes.Equal(d1, d2) {
		t.Error("Tree marshal depends on input order")
	}
}

func TestMarshalTreeRejectsInvalidEntries(t *testing.T) {
	tests := map[string]TreeEntry{
		"slash in name": {Mode: TreeModeFile, Name: "a/b", Hash: blobA},
		"empty name":    {Mode: TreeModeFile, Name: "", Hash: blobA},
		"dot dot":       {Mode: TreeModeDir, Name: "..", Hash: blobA},
		"unknown mode":  {Mode: "120000", Name: "link", Hash: blobA},
		"bad hash":      {Mode: TreeModeFile, Name: "a", Hash: "abc"},
	}
	for name, e := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := MarshalTree(&TreeObj{Entries: []TreeEntry{e}})
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("MarshalTree error = %v, want ErrFormat", err)
			}
		})
	}

	dup := &TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "x", Hash: blobA},
		{Mode: TreeModeFile, Name: "x", Hash: blobB},
	}}
	if _, err := MarshalTree(dup); !errors.Is(err, ErrFormat) {
		t.Fatalf("MarshalTree(duplicate) error = %v, want ErrFormat", err)
	}
}

func TestTreeScannerConsumesPayload(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "with space.txt", Hash: blobA},
		{Mode: TreeModeDir, Name: "dir", Hash: "417c01c8795a35b8e835113a85a5c0c1c77f67fb"},
		{Mode: TreeModeExecutable, Name: "bin", Hash: blobB},
	}}
	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}

	sc := NewTreeScanner(data)
	var got []TreeEntry
	for sc.Scan() {
		got = append(got, sc.Entry())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	want := []TreeEntry{
		{Mode: TreeModeExecutable, Name: "bin", Hash: blobB},
		{Mode: TreeModeDir, Name: "dir", Hash: "417c01c8795a35b8e835113a85a5c0c1c77f67fb"},
		{Mode: TreeModeFile, Name: "with space.txt", Hash: blobA},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanned entries mismatch (-want +got):\n%s", diff)
	}
	if sc.pos != len(data) {
		t.Errorf("scanner stopped at %d of %d bytes", sc.pos, len(data))
	}
	if sc.Scan() {
		t.Error("Scan after exhaustion returned true")
	}
}

func TestTreeScannerTruncatedHash(t *testing.T) {
	raw, _ := blobA.Raw()
	data := append([]byte("100644 a.txt\x00"), raw[:12]...)

	sc := NewTreeScanner(data)
	if sc.Scan() {
		t.Fatal("Scan succeeded on truncated record")
	}
	if !errors.Is(sc.Err(), ErrFormat) {
		t.Fatalf("Err = %v, want ErrFormat", sc.Err())
	}
}

func TestTreeScannerMalformedRecords(t *testing.T) {
	raw, _ := blobA.Raw()
	tests := map[string][]byte{
		"missing nul":   []byte("100644 a.txt"),
		"missing space": append([]byte("100644a.txt\x00"), raw...),
		"non-octal":     append([]byte("10064x a.txt\x00"), raw...),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := UnmarshalTree(data); !errors.Is(err, ErrFormat) {
				t.Fatalf("UnmarshalTree error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestMarshalCommitLayout(t *testing.T) {
	id := Identity{Name: "Test User", Email: "test@example.com", Timezone: "+0100"}
	c := &CommitObj{
		TreeHash:   EmptyTreeHash,
		Author:     id,
		AuthorTime: 1700000000,
		Committer:  id,
		CommitTime: 1700000000,
		Message:    "initial",
	}
	want := "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n" +
		"author Test User <test@example.com> 1700000000 +0100\n" +
		"committer Test User <test@example.com> 1700000000 +0100\n" +
		"\n" +
		"initial\n"
	got := MarshalCommit(c)
	if string(got) != want {
		t.Fatalf("MarshalCommit:\ngot  %q\nwant %q", got, want)
	}
	if h := HashObject(TypeCommit, got); h != "8f4baeea5948af047f0e3f8c0cd565bff9568232" {
		t.Errorf("commit hash: got %q", h)
	}
}

func TestMarshalUnmarshalCommit(t *testing.T) {
	orig := &CommitObj{
		TreeHash:   EmptyTreeHash,
		Parent:     blobA,
		Author:     Identity{Name: "Alice Liddell", Email: "alice@example.com", Timezone: "+0200"},
		AuthorTime: 1700001234,
		Committer:  Identity{Name: "Bob", Email: "bob@example.com", Timezone: "-0700"},
		CommitTime: 1700005678,
		Signature:  "sshsig-v1:ssh-ed25519:AAAA:BBBB",
		Message:    "initial commit\n\nWith a multi-line body.",
	}
	got, err := UnmarshalCommit(MarshalCommit(orig))
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("commit round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalCommitOmitsOptionalHeaders(t *testing.T) {
	c := &CommitObj{
		TreeHash: EmptyTreeHash,
		Author:   Identity{Name: "U", Email: "u@example.com", Timezone: "+0000"},
		Message:  "unsigned root",
	}
	data := MarshalCommit(c)
	if bytes.Contains(data, []byte("\nparent ")) {
		t.Errorf("did not expect parent header in root commit: %q", data)
	}
	if bytes.Contains(data, []byte("\nsignature ")) {
		t.Errorf("did not expect signature header in unsigned commit: %q", data)
	}
}

func TestUnmarshalCommitRejectsMergeCommits(t *testing.T) {
	data := []byte("tree " + string(EmptyTreeHash) + "\n" +
		"parent " + string(blobA) + "\n" +
		"parent " + string(blobB) + "\n" +
		"author A <a@x> 1 +0000\n" +
		"committer A <a@x> 1 +0000\n\nmerge\n")
	if _, err := UnmarshalCommit(data); !errors.Is(err, ErrFormat) {
		t.Fatalf("UnmarshalCommit error = %v, want ErrFormat", err)
	}
}

func TestCommitSigningPayloadExcludesSignature(t *testing.T) {
	c := &CommitObj{
		TreeHash:  EmptyTreeHash,
		Author:    Identity{Name: "S", Email: "s@example.com", Timezone: "+0000"},
		Committer: Identity{Name: "S", Email: "s@example.com", Timezone: "+0000"},
		Signature: "sig",
		Message:   "m",
	}
	payload := CommitSigningPayload(c)
	if bytes.Contains(payload, []byte("signature")) {
		t.Fatalf("signing payload contains signature: %q", payload)
	}
	if c.Signature != "sig" {
		t.Fatal("CommitSigningPayload mutated its argument")
	}
}
