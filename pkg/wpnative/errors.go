package wpnative

import (
	"fmt"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// PartialUpdateError is returned when updating one post of a multi-post
// update fails. Posts in Applied stay updated; the remaining IDs after Failed
// were not attempted.
type PartialUpdateError struct {
	Applied []any
	Failed  any
	Skipped []any
	Cause   error
}

func (e *PartialUpdateError) Error() string {
	return core.Translate("failed to update post %v after %d updated posts: %v", e.Failed, len(e.Applied), e.Cause)
}

// Unwrap returns the cause.
func (e *PartialUpdateError) Unwrap() error { return e.Cause }

func wrapAPIError(op string, err error) error {
	return fmt.Errorf("failed to %s post: %w", op, err)
}
