package repo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/sirupsen/logrus"
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be persisted in CommitObj.Signature.
type CommitSigner func(payload []byte) (string, error)

// ErrInvalidIdentity is returned when an author identity cannot be written
// on a commit header line.
var ErrInvalidIdentity = errors.New("invalid identity")

var timezonePattern = regexp.MustCompile(`^[+-][0-9]{4}$`)

// CommitTreeRequest describes one commit-tree invocation.
type CommitTreeRequest struct {
	Tree     object.Hash
	Parent   object.Hash // optional
	Message  string
	Identity object.Identity
	When     time.Time // zero means now
	Signer   CommitSigner
}

// ValidateIdentity checks that id can be rendered as "Name <email> T tz".
func ValidateIdentity(id object.Identity) error {
	if strings.TrimSpace(id.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIdentity)
	}
	if strings.ContainsAny(id.Name, "<>\n") {
		return fmt.Errorf("%w: name %q contains '<', '>' or newline", ErrInvalidIdentity, id.Name)
	}
	if strings.ContainsAny(id.Email, "<>\n") {
		return fmt.Errorf("%w: email %q contains '<', '>' or newline", ErrInvalidIdentity, id.Email)
	}
	if !timezonePattern.MatchString(id.Timezone) {
		return fmt.Errorf("%w: timezone %q must look like +0100", ErrInvalidIdentity, id.Timezone)
	}
	return nil
}

// CommitTree writes a commit object wrapping req.Tree and returns its hash.
// Author and committer are both req.Identity at the same instant. The tree
// must already be stored as a tree together with everything it references,
// and the parent, if given, must be a stored commit. Refs are not touched.
func (r *Repo) CommitTree(req CommitTreeRequest) (object.Hash, error) {
	tree, err := r.requireTree(req.Tree)
	if err != nil {
		return "", fmt.Errorf("commit tree: tree: %w", err)
	}
	var parent object.Hash
	if req.Parent != "" {
		parent, err = r.requireCommit(req.Parent)
		if err != nil {
			return "", fmt.Errorf("commit tree: parent: %w", err)
		}
	}
	if err := ValidateIdentity(req.Identity); err != nil {
		return "", fmt.Errorf("commit tree: %w", err)
	}

	when := req.When
	if when.IsZero() {
		when = time.Now()
	}

	commitObj := &object.CommitObj{
		TreeHash:   tree,
		Parent:     parent,
		Author:     req.Identity,
		AuthorTime: when.Unix(),
		Committer:  req.Identity,
		CommitTime: when.Unix(),
		Message:    req.Message,
	}
	if req.Signer != nil {
		signature, err := req.Signer(object.CommitSigningPayload(commitObj))
		if err != nil {
			return "", fmt.Errorf("commit tree: sign commit: %w", err)
		}
		if strings.Contains(signature, "\n") {
			return "", fmt.Errorf("commit tree: sign commit: signature spans multiple lines")
		}
		commitObj.Signature = signature
	}

	h, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit tree: write commit: %w", err)
	}
	r.logger().WithFields(logrus.Fields{
		"hash":   h,
		"tree":   tree,
		"parent": parent,
		"signed": commitObj.Signature != "",
	}).Debug("wrote commit")
	return h, nil
}

// requireTree normalizes h and checks that it names a stored tree whose
// subtrees and blobs are all present.
func (r *Repo) requireTree(h object.Hash) (object.Hash, error) {
	parsed, err := object.ParseHash(string(h))
	if err != nil {
		return "", err
	}
	if _, err := r.Store.ReadTree(parsed); err != nil {
		return "", err
	}
	set, err := r.Store.ReachableSet([]object.Hash{parsed})
	if err != nil {
		return "", fmt.Errorf("%s is incomplete: %w", parsed, err)
	}
	r.logger().WithFields(logrus.Fields{"tree": parsed, "objects": len(set)}).Debug("verified tree")
	return parsed, nil
}

// requireCommit normalizes h and checks that it names a stored commit.
func (r *Repo) requireCommit(h object.Hash) (object.Hash, error) {
	parsed, err := object.ParseHash(string(h))
	if err != nil {
		return "", err
	}
	if _, err := r.Store.ReadCommit(parsed); err != nil {
		return "", err
	}
	return parsed, nil
}
