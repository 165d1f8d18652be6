package cache

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key generator names accepted by KeyGeneratorByName.
const (
	KeyIdentity = "identity"
	KeyMD5      = "md5"
	KeySHA256   = "sha256"
)

// KeyFunc derives a cache key from a source identifier.
type KeyFunc func(source string) string

// IdentityKey uses the source itself as the key.
func IdentityKey(source string) string { return source }

// MD5Key hashes the source with MD5, matching the keys of existing caches
// keyed by URL digest.
func MD5Key(source string) string {
	sum := md5.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}

// SHA256Key hashes the source with SHA-256, truncated to 16 bytes.
func SHA256Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:16])
}

// KeyGeneratorByName returns the generator registered under name. An empty
// name selects md5.
func KeyGeneratorByName(name string) (KeyFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case KeyIdentity:
		return IdentityKey, nil
	case KeyMD5, "":
		return MD5Key, nil
	case KeySHA256:
		return SHA256Key, nil
	default:
		return nil, fmt.Errorf("cache key must be one of identity, md5 or sha256, got %q", name)
	}
}
