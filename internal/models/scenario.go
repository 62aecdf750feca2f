// internal/models/scenario.go
package models

// ItemLine is one ordered good within a scenario: identifier plus derived
// quantity and monetary amounts.
type ItemLine struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// Scenario is a concrete assignment of users, items and suppliers to a
// process instance. Identical seed and reference tables reproduce an
// identical Scenario byte for byte.
type Scenario struct {
	Seed        int64      `json:"seed"`
	UserIDs     []string   `json:"userIds"`     // formatted like U001
	Items       []ItemLine `json:"items"`       // item IDs formatted like I001
	SupplierIDs []string   `json:"supplierIds"` // formatted like S001, sorted
	OrderValue  float64    `json:"orderValue"`
}
