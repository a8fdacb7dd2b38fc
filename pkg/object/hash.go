package object

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// HashSize is the length in bytes of a raw SHA-1 digest.
const HashSize = sha1.Size

// Encode wraps payload in the envelope "kind len\0payload" that is both
// hashed and stored.
func Encode(objType ObjectType, payload []byte) []byte {
	header := objType.header(len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	return append(out, payload...)
}

func (t ObjectType) header(n int) []byte {
	b := make([]byte, 0, len(t)+12)
	b = append(b, string(t)...)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(n), 10)
	return append(b, 0)
}

// Digest computes the SHA-1 of already-encoded object bytes.
func Digest(encoded []byte) Hash {
	sum := sha1.Sum(encoded)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the address of payload stored as objType without
// materializing the envelope.
func HashObject(objType ObjectType, payload []byte) Hash {
	h := sha1.New()
	h.Write(objType.header(len(payload)))
	h.Write(payload)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// Decode splits an encoded object into its kind and payload. The declared
// length must match the bytes that follow the NUL exactly.
func Decode(raw []byte) (ObjectType, []byte, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, formatErrorf("decode", "", "no NUL after header")
	}
	header := raw[:nul]
	payload := raw[nul+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return "", nil, formatErrorf("decode", "", "invalid header %q", header)
	}
	objType := ObjectType(header[:sp])
	if !objType.Valid() {
		return "", nil, formatErrorf("decode", "", "unknown object type %q", objType)
	}
	length, ok := parseLength(header[sp+1:])
	if !ok {
		return "", nil, formatErrorf("decode", "", "invalid length %q", header[sp+1:])
	}
	if length != len(payload) {
		return "", nil, formatErrorf("decode", "", "length mismatch (header=%d, actual=%d)", length, len(payload))
	}
	return objType, payload, nil
}

// parseLength accepts only the decimal form Encode writes: digits with no
// sign and no leading zero.
func parseLength(field []byte) (int, bool) {
	if len(field) == 0 || (field[0] == '0' && len(field) > 1) {
		return 0, false
	}
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(string(field))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseHash validates a textual address. Upper-case hex is folded to lower
// case; anything other than 40 hex digits is rejected.
func ParseHash(s string) (Hash, error) {
	if len(s) != 2*HashSize {
		return "", formatErrorf("parse hash", "", "%q: want %d hex characters, got %d", s, 2*HashSize, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", formatErrorf("parse hash", "", "%q: %v", s, err)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// Raw returns the 20-byte binary form of h used inside tree records.
func (h Hash) Raw() ([]byte, error) {
	raw, err := hex.DecodeString(string(h))
	if err != nil || len(raw) != HashSize {
		return nil, formatErrorf("raw hash", "", "invalid hash %q", string(h))
	}
	return raw, nil
}

// HashFromRaw converts a 20-byte binary digest back to its hex form.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != HashSize {
		return "", formatErrorf("hash from raw", "", "want %d bytes, got %d", HashSize, len(raw))
	}
	return Hash(hex.EncodeToString(raw)), nil
}
