package object

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the known object kinds.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

const (
	// Tree mode constants matching Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
)

const (
	// EmptyBlobHash is the address of a zero-length blob.
	EmptyBlobHash Hash = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	// EmptyTreeHash is the address of a tree with no entries. TreeBuilder
	// never records it as a child entry.
	EmptyTreeHash Hash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry references a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == TreeModeDir
}

// TreeObj holds a list of tree entries. MarshalTree sorts them by Name.
type TreeObj struct {
	Entries []TreeEntry
}

// Identity is the person recorded on the author and committer lines.
type Identity struct {
	Name     string
	Email    string
	Timezone string // "+0100", "-0730"
}

// CommitObj represents a commit pointing to a tree with metadata.
type CommitObj struct {
	TreeHash   Hash
	Parent     Hash // empty for a root commit
	Author     Identity
	AuthorTime int64
	Committer  Identity
	CommitTime int64
	Signature  string
	Message    string // stored with one trailing newline appended
}
