package query

import (
	"fmt"
	"hash/crc32"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// CRC32Hasher derives ":" followed by the 8 lowercase hex digits of the
// IEEE CRC-32 checksum of the normalized value. Collisions are not detected.
type CRC32Hasher struct{}

// Hash implements core.Hasher. Value and position are ignored.
func (CRC32Hasher) Hash(normalized string, _ any, _ int) string {
	return HashString(normalized)
}

// HashString returns the CRC32Hasher token of s.
func HashString(s string) string {
	return fmt.Sprintf(":%08x", crc32.ChecksumIEEE([]byte(s)))
}

var _ core.Hasher = CRC32Hasher{}
