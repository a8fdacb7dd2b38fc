package object

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	lru "github.com/hashicorp/golang-lru"
	"github.com/klauspost/compress/zlib"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Every file holds one
// zlib-compressed "type len\0content" envelope, byte-compatible with Git's
// loose objects.
type Store struct {
	root  string
	cache *lru.Cache // Hash -> encoded envelope; nil when disabled
}

// NewStore creates a Store rooted at the given directory (normally .git).
// The objects/ subdirectory and its fan-out directories are created lazily
// on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// NewCachedStore is like NewStore but keeps up to size decompressed
// objects in memory. Objects never change once written, so cached entries
// are never invalidated.
func NewCachedStore(root string, size int) (*Store, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("object cache: %w", err)
	}
	return &Store{root: root, cache: c}, nil
}

func (s *Store) cacheGet(h Hash) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(h)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v.([]byte)...), true
}

func (s *Store) cacheAdd(h Hash, encoded []byte) {
	if s.cache != nil {
		s.cache.Add(h, append([]byte(nil), encoded...))
	}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

func checkHash(op string, h Hash) error {
	if parsed, err := ParseHash(string(h)); err != nil || parsed != h {
		return &ObjectError{Op: op, Hash: h, Kind: ErrFormat, Err: errors.New("invalid object address")}
	}
	return nil
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if checkHash("object has", h) != nil {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Read returns the decompressed envelope stored under h. The result still
// needs Decode to separate header from payload.
func (s *Store) Read(h Hash) ([]byte, error) {
	if err := checkHash("object read", h); err != nil {
		return nil, err
	}
	if raw, ok := s.cacheGet(h); ok {
		return raw, nil
	}
	f, err := os.Open(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound("object read", h, err)
		}
		return nil, ioError("object read", h, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, ioError("object read", h, fmt.Errorf("zlib: %w", err))
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, ioError("object read", h, fmt.Errorf("zlib: %w", err))
	}
	s.cacheAdd(h, raw)
	return raw, nil
}

// Write stores an encoded envelope under h.
//
// Write is idempotent and never clobbers: if an object with address h is
// already present it returns nil without touching the existing file. New
// objects are compressed into a temporary file in the fan-out directory,
// made read-only, then renamed into place.
func (s *Store) Write(h Hash, encoded []byte) error {
	if err := checkHash("object write", h); err != nil {
		return err
	}
	if got := Digest(encoded); got != h {
		return formatErrorf("object write", h, "content hashes to %s", got)
	}

	// Fast path: already exists.
	if s.Has(h) {
		return nil
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError("object write mkdir", h, err)
	}

	t, err := renameio.TempFile(dir, s.objectPath(h))
	if err != nil {
		return ioError("object write tmpfile", h, err)
	}
	defer t.Cleanup()

	zw, err := zlib.NewWriterLevel(t, zlib.DefaultCompression)
	if err != nil {
		return ioError("object write", h, err)
	}
	if _, err := zw.Write(encoded); err != nil {
		zw.Close()
		return ioError("object write", h, err)
	}
	if err := zw.Close(); err != nil {
		return ioError("object write", h, err)
	}
	if err := t.Chmod(0o444); err != nil {
		return ioError("object write chmod", h, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return ioError("object write rename", h, err)
	}
	s.cacheAdd(h, encoded)
	return nil
}

// WriteObject encodes payload as objType, stores it and returns its hash.
func (s *Store) WriteObject(objType ObjectType, payload []byte) (Hash, error) {
	encoded := Encode(objType, payload)
	h := Digest(encoded)
	if err := s.Write(h, encoded); err != nil {
		return "", err
	}
	return h, nil
}

// ReadObject retrieves an object by hash, returning its type and payload.
func (s *Store) ReadObject(h Hash) (ObjectType, []byte, error) {
	raw, err := s.Read(h)
	if err != nil {
		return "", nil, err
	}
	objType, payload, err := Decode(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, payload, nil
}

func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.ReadObject(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, formatErrorf("object read", h, "type mismatch: got %q, want %q", objType, want)
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.WriteObject(TypeBlob, MarshalBlob(b))
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.WriteObject(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data)
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.WriteObject(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(data)
}
