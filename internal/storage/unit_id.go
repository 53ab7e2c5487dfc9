package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitID derives the id of one production unit from its source line item
// and its index within that item's quantity. Derivation is deterministic:
// re-deriving units for the same items yields the same ids.
func UnitID(itemID int64, index int) string {
	return fmt.Sprintf("%d-%d", itemID, index)
}

// ParseUnitID recovers the originating line-item id from a unit id.
func ParseUnitID(unitID string) (int64, error) {
	sep := strings.LastIndex(unitID, "-")
	if sep <= 0 {
		return 0, fmt.Errorf("malformed unit id %q", unitID)
	}

	itemID, err := strconv.ParseInt(unitID[:sep], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed unit id %q: %w", unitID, err)
	}

	return itemID, nil
}
