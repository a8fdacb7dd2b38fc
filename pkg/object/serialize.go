package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Name (byte-wise)
// for deterministic output. Each entry is a binary record:
//
//	<mode> <name>\0<20-byte raw hash>
//
// Records are concatenated with no separator.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		if err := validateTreeEntry(e); err != nil {
			return nil, err
		}
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, formatErrorf("marshal tree", "", "duplicate entry %q", e.Name)
		}
		raw, err := e.Hash.Raw()
		if err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", e.Name, err)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

func validateTreeEntry(e TreeEntry) error {
	switch e.Mode {
	case TreeModeDir, TreeModeFile, TreeModeExecutable:
	default:
		return formatErrorf("marshal tree", "", "entry %q: unknown mode %q", e.Name, e.Mode)
	}
	if e.Name == "" || e.Name == "." || e.Name == ".." || strings.ContainsAny(e.Name, "/\x00") {
		return formatErrorf("marshal tree", "", "invalid entry name %q", e.Name)
	}
	return nil
}

// UnmarshalTree parses a TreeObj from its serialized form, preserving the
// stored entry order.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	sc := NewTreeScanner(data)
	for sc.Scan() {
		tr.Entries = append(tr.Entries, sc.Entry())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}
	return tr, nil
}

// TreeScanner reads tree records one at a time from a tree payload. Like
// bufio.Scanner it makes a single forward pass: once Scan returns false the
// scanner is exhausted.
type TreeScanner struct {
	buf   []byte
	pos   int
	entry TreeEntry
	err   error
}

// NewTreeScanner returns a scanner over a tree object's payload.
func NewTreeScanner(payload []byte) *TreeScanner {
	return &TreeScanner{buf: payload}
}

// Scan advances to the next record. It returns false at the end of the
// payload or on the first malformed record; Err distinguishes the two.
func (s *TreeScanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.buf) {
		return false
	}
	rest := s.buf[s.pos:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		s.fail("record at offset %d: missing NUL terminator", s.pos)
		return false
	}
	mode, name, ok := bytes.Cut(rest[:nul], []byte{' '})
	if !ok || len(mode) == 0 || len(name) == 0 {
		s.fail("record at offset %d: malformed header %q", s.pos, rest[:nul])
		return false
	}
	if _, err := strconv.ParseUint(string(mode), 8, 32); err != nil {
		s.fail("record at offset %d: invalid mode %q", s.pos, mode)
		return false
	}
	if len(rest)-(nul+1) < HashSize {
		s.fail("record %q: truncated hash (%d of %d bytes)", name, len(rest)-(nul+1), HashSize)
		return false
	}
	h, err := HashFromRaw(rest[nul+1 : nul+1+HashSize])
	if err != nil {
		s.err = err
		return false
	}
	s.entry = TreeEntry{Mode: string(mode), Name: string(name), Hash: h}
	s.pos += nul + 1 + HashSize
	return true
}

func (s *TreeScanner) fail(format string, args ...any) {
	s.err = formatErrorf("scan tree", "", format, args...)
}

// Entry returns the record produced by the most recent call to Scan.
func (s *TreeScanner) Entry() TreeEntry {
	return s.entry
}

// Err returns the first framing error encountered, or nil if the payload
// was consumed cleanly.
func (s *TreeScanner) Err() error {
	return s.err
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj in Git's commit text format:
//
//	tree H
//	parent H          (optional)
//	author N <E> T Z
//	committer N <E> T Z
//	signature S       (optional)
//
//	message
//
// The message is always terminated by a single newline.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	fmt.Fprintf(&buf, "author %s\n", formatPerson(c.Author, c.AuthorTime))
	fmt.Fprintf(&buf, "committer %s\n", formatPerson(c.Committer, c.CommitTime))
	if strings.TrimSpace(c.Signature) != "" {
		fmt.Fprintf(&buf, "signature %s\n", c.Signature)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func formatPerson(id Identity, when int64) string {
	return fmt.Sprintf("%s <%s> %d %s", id.Name, id.Email, when, id.Timezone)
}

// UnmarshalCommit parses a CommitObj from its serialized form.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, formatErrorf("unmarshal commit", "", "missing header/message separator")
	}
	header := string(data[:idx])
	message := strings.TrimSuffix(string(data[idx+2:]), "\n")

	c := &CommitObj{Message: message}
	var sawAuthor, sawCommitter bool
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, formatErrorf("unmarshal commit", "", "malformed header line %q", line)
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
			}
			c.TreeHash = h
		case "parent":
			if c.Parent != "" {
				return nil, formatErrorf("unmarshal commit", "", "more than one parent")
			}
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
			}
			c.Parent = h
		case "author":
			id, when, err := parsePerson(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: author: %w", err)
			}
			c.Author, c.AuthorTime, sawAuthor = id, when, true
		case "committer":
			id, when, err := parsePerson(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: committer: %w", err)
			}
			c.Committer, c.CommitTime, sawCommitter = id, when, true
		case "signature":
			c.Signature = val
		default:
			return nil, formatErrorf("unmarshal commit", "", "unknown header key %q", key)
		}
	}
	if c.TreeHash == "" || !sawAuthor || !sawCommitter {
		return nil, formatErrorf("unmarshal commit", "", "missing tree, author or committer header")
	}
	return c, nil
}

// parsePerson parses "Name <email> 1700000000 +0100".
func parsePerson(s string) (Identity, int64, error) {
	lt := strings.LastIndexByte(s, '<')
	gt := strings.LastIndexByte(s, '>')
	if lt < 0 || gt < lt {
		return Identity{}, 0, formatErrorf("parse identity", "", "missing <email> in %q", s)
	}
	fields := strings.Fields(s[gt+1:])
	if len(fields) != 2 {
		return Identity{}, 0, formatErrorf("parse identity", "", "want timestamp and timezone in %q", s)
	}
	when, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Identity{}, 0, formatErrorf("parse identity", "", "bad timestamp %q", fields[0])
	}
	id := Identity{
		Name:     strings.TrimSuffix(s[:lt], " "),
		Email:    s[lt+1 : gt],
		Timezone: fields[1],
	}
	return id, when, nil
}
