package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/odvcencio/plumb/pkg/repo"
	"github.com/sirupsen/logrus"
)

// Command is one fully parsed invocation. The cobra layer only builds
// these values; dispatch is the single place that acts on them.
type Command interface {
	isCommand()
}

type InitCommand struct {
	Path string
}

type CatFileCommand struct {
	Hash object.Hash
}

type HashObjectCommand struct {
	Path  string
	Write bool
}

type LsTreeCommand struct {
	Hash object.Hash
}

type WriteTreeCommand struct {
	Dir string // directory to snapshot, normally the working directory
}

type CommitTreeCommand struct {
	Tree    object.Hash
	Parent  object.Hash // empty for a root commit
	Message string
	Sign    bool
	SignKey string // empty means the first default key in ~/.ssh
}

func (InitCommand) isCommand()       {}
func (CatFileCommand) isCommand()    {}
func (HashObjectCommand) isCommand() {}
func (LsTreeCommand) isCommand()     {}
func (WriteTreeCommand) isCommand()  {}
func (CommitTreeCommand) isCommand() {}

// usageError marks a malformed invocation. Cobra prints the command usage
// alongside it.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// parseHashArg validates an address given on the command line.
func parseHashArg(what, s string) (object.Hash, error) {
	h, err := object.ParseHash(s)
	if err != nil {
		return "", usagef("invalid %s %q: want 40 hex characters", what, s)
	}
	return h, nil
}

// dispatch executes c, writing command output to out.
func (a *app) dispatch(out io.Writer, c Command) error {
	switch c := c.(type) {
	case InitCommand:
		return a.runInit(out, c)
	case CatFileCommand:
		return a.runCatFile(out, c)
	case HashObjectCommand:
		return a.runHashObject(out, c)
	case LsTreeCommand:
		return a.runLsTree(out, c)
	case WriteTreeCommand:
		return a.runWriteTree(out, c)
	case CommitTreeCommand:
		return a.runCommitTree(out, c)
	default:
		return fmt.Errorf("dispatch: unhandled command %T", c)
	}
}

func (a *app) runInit(out io.Writer, c InitCommand) error {
	abs, err := filepath.Abs(c.Path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	r, err := repo.Init(abs)
	if err != nil {
		return err
	}
	a.log.WithField("git_dir", r.GitDir).Debug("initialized repository")
	fmt.Fprintln(out, "Initialized git directory")
	return nil
}

func (a *app) runCatFile(out io.Writer, c CatFileCommand) error {
	r, err := a.openRepo()
	if err != nil {
		return err
	}
	payload, err := r.CatFile(c.Hash)
	if err != nil {
		return err
	}
	_, err = out.Write(payload)
	return err
}

func (a *app) runHashObject(out io.Writer, c HashObjectCommand) error {
	var (
		r   *repo.Repo
		err error
	)
	if c.Write {
		r, err = a.openRepo()
		if err != nil {
			return err
		}
	} else {
		// Hashing without -w needs no repository.
		r = &repo.Repo{Log: a.log}
	}
	h, err := r.HashFile(c.Path, c.Write)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, h)
	return nil
}

func (a *app) runLsTree(out io.Writer, c LsTreeCommand) error {
	r, err := a.openRepo()
	if err != nil {
		return err
	}
	sc, err := r.LsTree(c.Hash)
	if err != nil {
		return err
	}
	for sc.Scan() {
		fmt.Fprintln(out, sc.Entry().Name)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ls-tree %s: %w", c.Hash, err)
	}
	return nil
}

func (a *app) runWriteTree(out io.Writer, c WriteTreeCommand) error {
	r, err := a.openRepo()
	if err != nil {
		return err
	}
	h, err := r.WriteTree(c.Dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, h)
	return nil
}

func (a *app) runCommitTree(out io.Writer, c CommitTreeCommand) error {
	r, err := a.openRepo()
	if err != nil {
		return err
	}
	id, err := a.identity(r)
	if err != nil {
		return err
	}
	req := repo.CommitTreeRequest{
		Tree:     c.Tree,
		Parent:   c.Parent,
		Message:  c.Message,
		Identity: id,
	}
	if c.Sign {
		signer, err := newSSHCommitSigner(c.SignKey)
		if err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"key": signer.keyPath, "fingerprint": signer.fingerprint()}).Debug("signing commit")
		req.Signer = signer.sign
	}
	h, err := r.CommitTree(req)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, h)
	return nil
}
