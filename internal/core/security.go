// AngelaMos | 2026
// security.go

package core

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var ErrMalformedHash = errors.New("malformed password hash")

// argonParams is the cost tuple stored alongside every hash. current is
// what new hashes use; older hashes are upgraded on successful login.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var current = argonParams{memory: 64 * 1024, time: 1, threads: 4, keyLen: 32}

const saltLength = 16

var b64 = base64.RawStdEncoding

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (p argonParams) encode(salt, key []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "$argon2id$v=%d$m=%d,t=%d,p=%d$", argon2.Version, p.memory, p.time, p.threads)
	sb.WriteString(b64.EncodeToString(salt))
	sb.WriteByte('$')
	sb.WriteString(b64.EncodeToString(key))
	return sb.String()
}

type encodedHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

// parseHash reads "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func parseHash(s string) (encodedHash, error) {
	var out encodedHash

	fields := strings.Split(strings.TrimPrefix(s, "$"), "$")
	if len(fields) != 5 || fields[0] != "argon2id" {
		return out, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[1], "v=%d", &version); err != nil || version != argon2.Version {
		return out, fmt.Errorf("%w: version %q", ErrMalformedHash, fields[1])
	}

	p := &out.params
	if _, err := fmt.Sscanf(fields[2], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return out, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}

	var err error
	if out.salt, err = b64.DecodeString(fields[3]); err != nil {
		return out, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if out.key, err = b64.DecodeString(fields[4]); err != nil {
		return out, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	//nolint:gosec // key length is bounded by the encoder
	p.keyLen = uint32(len(out.key))

	return out, nil
}

func (h encodedHash) matches(password string) bool {
	return subtle.ConstantTimeCompare(h.key, h.params.derive(password, h.salt)) == 1
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return current.encode(salt, current.derive(password, salt)), nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	return h.matches(password), nil
}

// VerifyPasswordWithRehash also returns a fresh hash when the stored one
// was made with outdated parameters. A failed rehash is not an error.
func VerifyPasswordWithRehash(password, encoded string) (bool, string, error) {
	h, err := parseHash(encoded)
	if err != nil {
		return false, "", err
	}
	if !h.matches(password) {
		return false, "", nil
	}
	if h.params == current {
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password itself checked out
		return true, "", nil
	}
	return true, upgraded, nil
}

var decoyHash = sync.OnceValue(func() string {
	salt := bytes.Repeat([]byte{0x5a}, saltLength)
	return current.encode(salt, current.derive("decoy", salt))
})

// VerifyPasswordTimingSafe burns the same argon2 cost when no hash is
// known, so unknown emails cannot be told apart by response time.
func VerifyPasswordTimingSafe(password string, encoded *string) (bool, string, error) {
	if encoded == nil || *encoded == "" {
		_, _ = VerifyPassword(password, decoyHash())
		return false, "", nil
	}
	return VerifyPasswordWithRehash(password, *encoded)
}

// GenerateRefreshToken returns 32 random bytes, URL-safe encoded.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
