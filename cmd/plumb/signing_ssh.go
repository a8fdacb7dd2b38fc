package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

const commitSignaturePrefix = "sshsig-v1"

// defaultSigningKeys are tried in order under ~/.ssh when -S names no key.
var defaultSigningKeys = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// sshCommitSigner signs commit payloads with an SSH private key. Signatures
// are single-line so they fit in one commit header.
type sshCommitSigner struct {
	keyPath string
	signer  ssh.Signer
}

func newSSHCommitSigner(keyPath string) (*sshCommitSigner, error) {
	resolvedPath, err := signingKeyPath(keyPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key %q: %w", resolvedPath, err)
	}
	signer, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %q: %w", resolvedPath, err)
	}
	return &sshCommitSigner{keyPath: resolvedPath, signer: signer}, nil
}

func (s *sshCommitSigner) fingerprint() string {
	return ssh.FingerprintSHA256(s.signer.PublicKey())
}

// sign matches repo.CommitSigner.
func (s *sshCommitSigner) sign(payload []byte) (string, error) {
	sig, err := s.signer.Sign(rand.Reader, payload)
	if err != nil {
		return "", fmt.Errorf("sign commit: %w", err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(s.signer.PublicKey().Marshal())
	sigB64 := base64.StdEncoding.EncodeToString(sig.Blob)
	return fmt.Sprintf("%s:%s:%s:%s", commitSignaturePrefix, sig.Format, pubB64, sigB64), nil
}

// signingKeyPath returns named with a leading "~/" expanded, or, when named
// is empty, the first of defaultSigningKeys present under ~/.ssh.
func signingKeyPath(named string) (string, error) {
	named = strings.TrimSpace(named)
	if named != "" && !strings.HasPrefix(named, "~/") {
		return filepath.Abs(named)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if rest, ok := strings.CutPrefix(named, "~/"); ok {
		return filepath.Join(home, rest), nil
	}

	sshDir := filepath.Join(home, ".ssh")
	for _, name := range defaultSigningKeys {
		candidate := filepath.Join(sshDir, name)
		if st, err := os.Stat(candidate); err == nil && st.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no signing key in %s (tried %s)", sshDir, strings.Join(defaultSigningKeys, ", "))
}
