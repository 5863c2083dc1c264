package mapping

import (
	"context"
	"strings"

	"lotconv/internal"
)

// Store is the remote product-number mapping table. Entries are append-only;
// there is no update or delete path.
type Store interface {
	Fetch(ctx context.Context) ([]internal.MappingEntry, error)
	Append(ctx context.Context, entry internal.MappingEntry) error
}

// KeySet collapses entries into the membership set the classifier consumes.
func KeySet(entries []internal.MappingEntry) map[string]struct{} {
	keys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		key := strings.TrimSpace(e.ProductNo)
		if key == "" {
			continue
		}
		keys[key] = struct{}{}
	}
	return keys
}
