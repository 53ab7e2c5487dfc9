package storage

// Order statuses. The booking ledger counts every non-cancelled order.
const (
	StatusConfirmed           = "confirmed"
	StatusPendingConfirmation = "pending_confirmation"
	StatusCancelled           = "cancelled"
)

// Item kinds. Each kind has its own manufacturing-cost resolution rule.
const (
	ItemKindCatalog = "catalog"
	ItemKindCustom  = "custom"
	ItemKindManual  = "manual"
)

type Order struct {
	ID            int64                    `json:"id"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	Note          string                   `json:"note"`
	Status        string                   `json:"status"`
	Items         []OrderItem              `json:"items"`
	DeliveryDates []DeliveryDateAssignment `json:"delivery_dates"`
}

type OrderItem struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	CategoryID *int64 `json:"category_id,omitempty"`
	Quantity   int    `json:"quantity"`
}

// DeliveryDateAssignment ties a set of production units to one pickup day.
// Across an order the union of ItemIDs is exactly the order's unit set.
type DeliveryDateAssignment struct {
	Date     string   `json:"date"`
	TimeSlot string   `json:"time_slot"`
	ItemIDs  []string `json:"item_ids"`
}
