// internal/catalog/catalog.go

// Package catalog defines the fixed activity catalog of the O2C process and
// the reference tables (users, items, suppliers) entities are drawn from.
// The catalog is static: defined once, never mutated at runtime.
package catalog

// The 13 canonical O2C activities. Order is a versioned contract — the
// feature vector's transition matrices are indexed by position in this list,
// so reordering or resizing it invalidates every persisted artifact.
var Events = []string{
	"Receive Customer Order",
	"Validate Customer Order",
	"Perform Credit Check",
	"Approve Order",
	"Schedule Order Fulfillment",
	"Generate Pick List",
	"Pack Items",
	"Generate Shipping Label",
	"Ship Order",
	"Generate Invoice",
	"Receive Payment",
	"Close Order",
	"Cancel Order",
}

// Activities recognized only by the structural outcome indicators. They are
// not part of the transition matrices.
const (
	ActivityRejectOrder   = "Reject Order"
	ActivityProcessReturn = "Process Return Request"
	ActivityCancelOrder   = "Cancel Order"
	ActivityShipOrder     = "Ship Order"
	ActivityGenInvoice    = "Generate Invoice"
	ActivityApplyDiscount = "Apply Discount"
)

// Entity space sizes. Like Events, these are part of the feature vector
// contract.
const (
	NumEvents    = 13
	NumUsers     = 7
	NumItems     = 24
	NumSuppliers = 16
)

var eventIndex = func() map[string]int {
	m := make(map[string]int, len(Events))
	for i, e := range Events {
		m[e] = i
	}
	return m
}()

// EventIndex returns the stable index of a catalog activity and whether the
// name is in the catalog at all. Unknown names are not an error anywhere in
// the pipeline; callers skip them.
func EventIndex(name string) (int, bool) {
	idx, ok := eventIndex[name]
	return idx, ok
}

// BaselineActivities is the canonical most-frequent process variant: the
// 10-step happy path ending in invoicing. It is the zero-delta reference for
// every prediction.
var BaselineActivities = []string{
	"Receive Customer Order",
	"Validate Customer Order",
	"Perform Credit Check",
	"Approve Order",
	"Schedule Order Fulfillment",
	"Generate Pick List",
	"Pack Items",
	"Generate Shipping Label",
	"Ship Order",
	"Generate Invoice",
}

// BaselineTimings holds the canonical per-activity processing time in hours
// for the baseline variant. Used both as the default edge duration when the
// caller supplies none and as the reference for the baseline identity check.
var BaselineTimings = map[string]float64{
	"Receive Customer Order":     0.5,
	"Validate Customer Order":    1.0,
	"Perform Credit Check":       2.0,
	"Approve Order":              1.5,
	"Schedule Order Fulfillment": 2.0,
	"Generate Pick List":         1.0,
	"Pack Items":                 3.0,
	"Generate Shipping Label":    0.5,
	"Ship Order":                 24.0,
	"Generate Invoice":           1.0,
	"Receive Payment":            48.0,
	"Close Order":                0.5,
	"Cancel Order":               1.0,
}

// DefaultActivityHours is used for activities with no timing parameter
// anywhere (not in the request, not in BaselineTimings).
const DefaultActivityHours = 1.0

// CategorySupplierPools maps an item category to the supplier numbers allowed
// to source it. Unknown categories fall back to the Others pool.
var CategorySupplierPools = map[string][]int{
	"Electronics":     {1, 2, 3, 4},
	"Office Supplies": {5, 6, 7, 8},
	"Furniture":       {9, 10, 11, 12},
	"Others":          {13, 14, 15, 16},
}

// SupplierPoolFor returns the allowed supplier numbers for a category.
func SupplierPoolFor(category string) []int {
	if pool, ok := CategorySupplierPools[category]; ok {
		return pool
	}
	return CategorySupplierPools["Others"]
}
