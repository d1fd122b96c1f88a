package enums

// PurchaseOrderStatus labels the lifecycle of a purchase order. The set is
// deliberately open: writes accept any non-empty label, and only the
// "completed" value carries meaning for metric derivation.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

var expectedPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusPending,
	PurchaseOrderStatusCompleted,
	PurchaseOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (p PurchaseOrderStatus) String() string {
	return string(p)
}

// IsExpected reports whether the value is one of the documented labels.
func (p PurchaseOrderStatus) IsExpected() bool {
	for _, candidate := range expectedPurchaseOrderStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}
