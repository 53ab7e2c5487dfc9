package allocation

import (
	"fmt"

	"bakery-backend/internal/storage"
)

// ValidateAssignments checks the completeness invariant at order-creation
// time: the union of unit ids across the delivery dates must be exactly
// the unit set derivable from the line items, nothing lost and nothing
// duplicated across dates.
func ValidateAssignments(items []storage.OrderItem, dates []storage.DeliveryDateAssignment) error {
	expected := make(map[string]bool)
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			expected[storage.UnitID(item.ID, i)] = true
		}
	}

	seen := make(map[string]bool, len(expected))
	for _, dd := range dates {
		for _, unitID := range dd.ItemIDs {
			if !expected[unitID] {
				return fmt.Errorf("unit %s does not derive from the order items", unitID)
			}
			if seen[unitID] {
				return fmt.Errorf("unit %s assigned to more than one date", unitID)
			}
			seen[unitID] = true
		}
	}

	if len(seen) != len(expected) {
		return fmt.Errorf("%d of %d units left without a delivery date", len(expected)-len(seen), len(expected))
	}

	return nil
}
