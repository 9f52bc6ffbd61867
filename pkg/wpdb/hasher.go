// Package wpdb implements resource models that talk to the database the way
// WordPress's wpdb does: queries carry numbered "%1$s" style placeholders and
// the arguments are passed in placeholder order.
package wpdb

import (
	"fmt"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// PositionalHasher derives "%<position+1>$<verb>" tokens. The verb is d for
// integers, f for floats and s for everything else.
type PositionalHasher struct{}

// Hash implements core.Hasher.
func (PositionalHasher) Hash(_ string, value any, position int) string {
	return fmt.Sprintf("%%%d$%c", position+1, verb(value))
}

func verb(v any) byte {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return 'd'
	case float32, float64:
		return 'f'
	}
	return 's'
}

var _ core.Hasher = PositionalHasher{}
