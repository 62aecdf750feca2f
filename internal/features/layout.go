// internal/features/layout.go

// Package features encodes a process instance plus its entity scenario into
// the fixed-length numeric vector the regression model consumes.
package features

import "kpi-prediction-service/internal/catalog"

// LayoutVersion identifies the vector layout. Bumped whenever TotalDim or
// any sub-range boundary changes; persisted artifacts carry the version they
// were fitted against and are rejected on mismatch.
const LayoutVersion = 2

// Sub-range boundaries of the feature vector. The boundaries are a versioned
// contract shared with every persisted scaler and model artifact.
const (
	FreqOffset      = 0
	FreqDim         = catalog.NumEvents * catalog.NumEvents // 169
	DurationOffset  = FreqOffset + FreqDim                  // 169
	DurationDim     = FreqDim                               // 169
	UsersOffset     = DurationOffset + DurationDim          // 338
	UsersDim        = catalog.NumUsers                      // 7
	ItemsOffset     = UsersOffset + UsersDim                // 345
	ItemsDim        = catalog.NumItems * 2                  // 48, quantity/amount interleaved
	SuppliersOffset = ItemsOffset + ItemsDim                // 393
	SuppliersDim    = catalog.NumSuppliers                  // 16
	OutcomeOffset   = SuppliersOffset + SuppliersDim        // 409
	OutcomeDim      = 8
	TotalDim        = OutcomeOffset + OutcomeDim // 417
)

// Group names the scalers are keyed by. The items block is split into its
// quantity and amount columns for scaling, then interleaved back.
const (
	GroupFreq      = "freq"
	GroupDuration  = "duration"
	GroupUsers     = "users"
	GroupItemsQty  = "items_qty"
	GroupItemsAmt  = "items_amt"
	GroupSuppliers = "suppliers"
	GroupOutcome   = "outcome"
)

// GroupWidths maps each scaler group name to the width it must accept.
var GroupWidths = map[string]int{
	GroupFreq:      FreqDim,
	GroupDuration:  DurationDim,
	GroupUsers:     UsersDim,
	GroupItemsQty:  catalog.NumItems,
	GroupItemsAmt:  catalog.NumItems,
	GroupSuppliers: SuppliersDim,
	GroupOutcome:   OutcomeDim,
}
